package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindConflict, KindOf(Conflict("dup")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", Forbidden("nope"))
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.Equal(t, "nope", ClientMessage(err))
}

func TestClientMessageHidesInternals(t *testing.T) {
	err := errors.New("pq: connection refused")
	assert.Equal(t, "Internal server error", ClientMessage(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{InvalidOperation("self"), http.StatusBadRequest},
		{Unauthenticated("token"), http.StatusUnauthorized},
		{Forbidden("actor"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err))
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("unique_violation")
	err := Wrap(KindConflict, "Friend request already exists", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindConflict, KindOf(err))
}
