package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes for the five terminal error kinds. None of these are retried
// internally; ACCESS_DENIED is never downgraded to NOT_FOUND or vice versa.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeAccessDenied    = "ACCESS_DENIED"
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeStorage         = "STORAGE_ERROR"
)

// Common domain errors
var (
	ErrUnauthenticated = NewDomainError(CodeUnauthenticated, "No resolvable shop for caller")
	ErrAccessDenied    = NewDomainError(CodeAccessDenied, "Record belongs to another shop")
	ErrNotFound        = NewDomainError(CodeNotFound, "Resource not found")
)

// NewValidationError creates a VALIDATION_ERROR with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewStorageError creates a STORAGE_ERROR with a specific message
func NewStorageError(message string) *DomainError {
	return NewDomainError(CodeStorage, message)
}

// IsAccessDenied reports whether err carries the ACCESS_DENIED code
func IsAccessDenied(err error) bool {
	return hasCode(err, CodeAccessDenied)
}

// IsNotFound reports whether err carries the NOT_FOUND code
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsValidation reports whether err carries the VALIDATION_ERROR code
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

func hasCode(err error, code string) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == code
}
