package notify

import (
	"errors"

	"fieldops-console/internal/gateway"
)

const FallbackMessage = "An unexpected error occurred"

// Message reduces an error to the text shown to the user: the backend's
// message field, then its error field, then the error's own text, then a
// fixed fallback.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Err != "" {
			return apiErr.Err
		}
	}
	if text := err.Error(); text != "" {
		return text
	}
	return FallbackMessage
}
