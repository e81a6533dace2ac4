package errors

import "fmt"

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"

	// TradeDecodeError represents a malformed or incomplete raw trade record.
	TradeDecodeError ErrorCode = "trade_decode_error"
	// QueryValidationError represents invalid query parameters supplied by a caller.
	QueryValidationError ErrorCode = "query_validation_error"
	// FeedConnectivityError represents a failure reading from the trade feed.
	FeedConnectivityError ErrorCode = "feed_connectivity_error"
	// FeedPollTimeoutError represents a feed poll that expired before any record arrived.
	FeedPollTimeoutError ErrorCode = "feed_poll_timeout_error"
)

// DomainError is an `error` carrying an ErrorCode so callers can map
// failures onto transport-level responses without string matching.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// NewDomainError creates a DomainError with the given code and message.
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// NewDomainErrorf creates a DomainError with a formatted message.
func NewDomainErrorf(code ErrorCode, format string, args ...interface{}) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches an underlying cause to the DomainError, capturing a
// call stack when the cause does not already carry one.
func (e *DomainError) Wrap(err error) *DomainError {
	e.Err = ensureStack(err)
	return e
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// CodeOf extracts the ErrorCode from err, or GeneralInternalServerError
// when err is not a DomainError.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if As(err, &domainErr) {
		return domainErr.Code
	}
	return GeneralInternalServerError
}

// IsCode checks whether err carries the given ErrorCode.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
