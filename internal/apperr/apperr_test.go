package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("load comment: %w", NotFound("comment not found"))

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "comment not found", Message(err))
}

func TestForeignErrorIsInternal(t *testing.T) {
	err := errors.New("connection refused")

	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, KindOf(err).Status())
	assert.Equal(t, "internal server error", Message(err))
}

func TestStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:         http.StatusBadRequest,
		KindInvalidCredentials: http.StatusBadRequest,
		KindConflict:           http.StatusBadRequest,
		KindNotFound:           http.StatusNotFound,
		KindForbidden:          http.StatusForbidden,
		KindUnauthorized:       http.StatusUnauthorized,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status(), kind.String())
	}
}
