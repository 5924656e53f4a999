package apperror

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	testCases := []struct {
		err    *Error
		status int
	}{
		{Validation(map[string]string{"email": "Email field is required"}), http.StatusBadRequest},
		{Conflict("email", "Email already exists"), http.StatusBadRequest},
		{InvalidCredentials("passwordincorrect", "Password incorrect"), http.StatusBadRequest},
		{NotFound("emailnotfound", "Email not found"), http.StatusNotFound},
		{Unauthorized("Authorization header required"), http.StatusUnauthorized},
		{Forbidden("Permission denied"), http.StatusForbidden},
		{Store(errors.New("boom"), "Failed to create account"), http.StatusInternalServerError},
		{Signing(errors.New("boom")), http.StatusInternalServerError},
		{PartialDelivery(errors.New("boom"), map[string]bool{"patient": true}), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.HTTPStatus())
		})
	}
}

func TestBody(t *testing.T) {
	body := Conflict("email", "Email already exists").Body()
	assert.Equal(t, map[string]any{"email": "Email already exists"}, body)

	body = PartialDelivery(errors.New("doctor missing"), map[string]bool{"patient": true, "doctor": false}).Body()
	assert.Equal(t, "Message was not delivered to every recipient", body["error"])
	assert.Equal(t, map[string]bool{"patient": true, "doctor": false}, body["delivered"])

	body = (&Error{Kind: KindInternal}).Body()
	assert.Equal(t, "Internal server error", body["error"])
}

func TestAsThroughWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := errors.Wrap(Store(cause, "Failed to fetch doctors"), "directory")

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindStore, appErr.Kind)
	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, KindStore, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(cause))
}
