package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("event not found"), http.StatusNotFound},
		{InvalidState("cannot book past events"), http.StatusBadRequest},
		{CapacityExceeded("event is sold out"), http.StatusBadRequest},
		{Conflict("you already booked this event"), http.StatusConflict},
		{Unauthorized("invalid credentials"), http.StatusUnauthorized},
		{Forbidden("insufficient permissions"), http.StatusForbidden},
		{Validation([]string{"name is required"}), http.StatusBadRequest},
		{Internal(errors.New("boom"), "database error"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Status(), tc.err.Message)
	}
}

func TestValidationAggregatesFields(t *testing.T) {
	err := Validation([]string{"name is required", "price must be at least 0"})
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "price must be at least 0")
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("gone"))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause, "database error")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "database error", err.Error())
}
