package transport

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMessage_ValidationDetailArray(t *testing.T) {
	body := []byte(`{"detail": [{"loc": ["body", "email"], "msg": "invalid email address"}]}`)
	assert.Equal(t, "invalid email address", extractMessage(body))
}

func TestExtractMessage_DetailString(t *testing.T) {
	body := []byte(`{"detail": "incorrect credentials"}`)
	assert.Equal(t, "incorrect credentials", extractMessage(body))
}

func TestExtractMessage_GenericMessage(t *testing.T) {
	body := []byte(`{"message": "service unavailable"}`)
	assert.Equal(t, "service unavailable", extractMessage(body))
}

func TestExtractMessage_FallsBackToGeneric(t *testing.T) {
	assert.Equal(t, GenericConnectionError, extractMessage(nil))
	assert.Equal(t, GenericConnectionError, extractMessage([]byte(``)))
	assert.Equal(t, GenericConnectionError, extractMessage([]byte(`not-json`)))
	assert.Equal(t, GenericConnectionError, extractMessage([]byte(`{"unrelated": true}`)))
	assert.Equal(t, GenericConnectionError, extractMessage([]byte(`{"detail": 17}`)))
}

func TestAPIError_UnwrapByStatus(t *testing.T) {
	assert.ErrorIs(t, &APIError{Status: 401}, ErrUnauthorized)
	assert.ErrorIs(t, &APIError{Status: 403}, ErrForbidden)
	assert.ErrorIs(t, &APIError{Status: 409}, ErrConflict)

	err := &APIError{Status: 422}
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestMessage_PrefersAPIErrorMessage(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", &APIError{Status: 422, Message: "invalid email address"})
	assert.Equal(t, "invalid email address", Message(wrapped))

	assert.Equal(t, GenericConnectionError, Message(errors.New("dial tcp: connection refused")))
}
