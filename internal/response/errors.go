package response

// ErrCode is a typed error code enum for consistent error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrMethodNotAllowed ErrCode = "METHOD_NOT_ALLOWED"
	ErrConflict         ErrCode = "CONFLICT"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal           ErrCode = "INTERNAL_ERROR"
	ErrServiceUnavailable ErrCode = "SERVICE_UNAVAILABLE"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Error: All fields are required!"
	case ErrInvalidPayload:
		return "Error: The submitted form could not be read."
	case ErrNotFound:
		return "Error: Page not found."
	case ErrMethodNotAllowed:
		return "Error: Method not allowed."
	case ErrConflict:
		return "Error: A student with that College ID or ID Card Number already exists."
	case ErrInternal:
		return "An unexpected error occurred. Please try again later."
	case ErrServiceUnavailable:
		return "The student store is unavailable."
	default:
		return "An unexpected error occurred."
	}
}
