package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeValidation       = "VALIDATION_FAILED"
	ErrCodeUnknownItem      = "UNKNOWN_ITEM"
	ErrCodeReceiptNotFound  = "RECEIPT_NOT_FOUND"
	ErrCodeRuleNotFound     = "RULE_NOT_FOUND"
	ErrCodeInvalidReceiptID = "INVALID_RECEIPT_ID"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error carrying its cause.
func WrapDomainError(code string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: err.Error(),
		Err:     err,
	}
}

// Common domain errors
var (
	ErrReceiptNotFound  = NewDomainError(ErrCodeReceiptNotFound, "Receipt not found")
	ErrRuleNotFound     = NewDomainError(ErrCodeRuleNotFound, "Pricing rule not found")
	ErrInvalidReceiptID = NewDomainError(ErrCodeInvalidReceiptID, "Receipt ID must be a UUID")
)
