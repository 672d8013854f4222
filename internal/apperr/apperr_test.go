package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFound("missing"), http.StatusNotFound},
		{Forbidden("nope"), http.StatusForbidden},
		{Conflict("taken"), http.StatusConflict},
		{Invalid("bad input"), http.StatusBadRequest},
		{Wrap(errors.New("db down"), "query"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err))
	}
}

func TestMessageHidesInternals(t *testing.T) {
	assert.Equal(t, "quiz not found", Message(NotFound("quiz not found")))
	assert.Equal(t, "Internal server error", Message(Wrap(errors.New("pq: connection refused"), "load quiz")))
	assert.Equal(t, "Internal server error", Message(errors.New("raw")))
}

func TestKindMatchingWithErrorsIs(t *testing.T) {
	err := Conflict("username already taken")

	assert.True(t, errors.Is(err, Conflict("")))
	assert.False(t, errors.Is(err, NotFound("")))

	// Kind survives wrapping with fmt.Errorf.
	wrapped := fmt.Errorf("signup: %w", err)
	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, Conflict("")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(cause, "connect redis")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connect redis")
	assert.Contains(t, err.Error(), "dial tcp: refused")
}

func TestConstructorFormatting(t *testing.T) {
	err := NotFound("no users found at page %d", 3)
	assert.Equal(t, "no users found at page 3", err.Error())
}
