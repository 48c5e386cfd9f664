package utils

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// GravatarURL derives the avatar of an email address.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:])
}
