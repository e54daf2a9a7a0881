package responses

import "github.com/angelmondragon/marketplace-backend/internal/flash"

// SuccessEnvelope wraps every successful payload. Pending flash messages for
// the browser ride along with page payloads.
type SuccessEnvelope struct {
	Data  any             `json:"data"`
	Flash []flash.Message `json:"flash,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
