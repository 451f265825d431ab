package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrUnauthorized ErrCode = "UNAUTHORIZED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation   ErrCode = "VALIDATION_ERROR"
	ErrInvalidID    ErrCode = "INVALID_ID"
	ErrInvalidInput ErrCode = "INVALID_INPUT"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the default human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrUnauthorized:
		return "Full authentication is required to access this resource"
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidInput:
		return "Invalid input."
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "Internal server error."
	default:
		return "Unexpected error."
	}
}
