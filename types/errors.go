package types

import "errors"

// Error code taxonomy. Validation failures are handled entirely client side
// and never reach the network; everything else surfaces to the user as a
// readable message.
const (
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeUserRejected          = "USER_REJECTED"
	ErrCodeInsufficientAllowance = "INSUFFICIENT_ALLOWANCE"
	ErrCodeInsufficientFunds     = "INSUFFICIENT_FUNDS"
	ErrCodeSimulationReverted    = "SIMULATION_REVERTED"
	ErrCodeRPC                   = "RPC_ERROR"
	ErrCodeUnknownToken          = "UNKNOWN_TOKEN"
	ErrCodeActionInFlight        = "ACTION_IN_FLIGHT"
	ErrCodeTxFailed              = "TX_FAILED"
)

// Error is the library error type carrying a stable code alongside the
// human-readable message.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError builds a coded error wrapping an optional cause.
func NewError(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// ErrorCode extracts the taxonomy code from err, or ErrCodeRPC when err is
// not a library error (transport failures are the catch-all).
func ErrorCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeRPC
}

// IsValidation reports whether err is a local pre-network validation failure.
func IsValidation(err error) bool {
	return ErrorCode(err) == ErrCodeValidation
}
