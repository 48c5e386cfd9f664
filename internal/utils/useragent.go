package utils

import (
	"strings"

	"github.com/mssola/useragent"
)

const Unknown = "unknown"

type DeviceInfo struct {
	Browser string `json:"browser"`
	OS      string `json:"os"`
}

// ParseUserAgent extracts browser and operating system from a User-Agent
// header. Parts that cannot be recognised are reported as Unknown.
func ParseUserAgent(raw string) DeviceInfo {
	info := DeviceInfo{Browser: Unknown, OS: Unknown}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return info
	}

	ua := useragent.New(raw)
	if name, version := ua.Browser(); name != "" {
		info.Browser = strings.TrimSpace(name + " " + version)
	}
	if os := ua.OSInfo(); os.Name != "" {
		info.OS = strings.TrimSpace(os.Name + " " + os.Version)
	}
	return info
}
