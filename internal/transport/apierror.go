package transport

import (
	"encoding/json"
	"errors"
	"fmt"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// Sentinel errors for the two status codes this subsystem interprets
// specially, plus the signup conflict signal.
var (
	// ErrUnauthorized marks a 401: the credential is invalid or
	// expired and the session has been torn down.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks a 403: the action is disallowed but the
	// credential is fine. The caller handles it locally; no teardown.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict marks a 409-style duplicate, e.g. signing up with a
	// contact that already has an account.
	ErrConflict = errors.New("conflict")
)

// GenericConnectionError is the fallback message when a failure
// carries no extractable human-readable detail.
const GenericConnectionError = "connection error"

// APIError is a non-2xx response from the remote API with a
// human-readable message extracted from the body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Unwrap maps the status onto the subsystem's sentinel errors so
// callers can classify with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 409:
		return ErrConflict
	default:
		return nil
	}
}

// messageExpressions are tried in order against the decoded error
// body. The API reports failures in three shapes: a structured
// validation detail array, a plain detail string, or a generic
// message field.
var messageExpressions = []string{
	"detail[0].msg",
	"detail",
	"message",
}

// extractMessage pulls a human-readable message out of whatever shape
// the error body took, defaulting to GenericConnectionError.
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return GenericConnectionError
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return GenericConnectionError
	}

	for _, expr := range messageExpressions {
		result, err := jmespath.Search(expr, data)
		if err != nil {
			continue
		}
		if msg, ok := result.(string); ok && msg != "" {
			return msg
		}
	}
	return GenericConnectionError
}

// Message returns the human-readable message for any error produced
// by this package, falling back to GenericConnectionError for
// transport-level failures.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericConnectionError
}
