package double

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes mocking errors.
type ErrorCode string

const (
	// CodeUnstubbed indicates a call matched no stub and no default
	// value was available for the operation's output type.
	CodeUnstubbed ErrorCode = "UNSTUBBED"

	// CodeDidNotThrow indicates verification expected a failure but
	// none of the matching invocations failed.
	CodeDidNotThrow ErrorCode = "DID_NOT_THROW"

	// CodeDidNotMatchThrown indicates failures occurred but none
	// satisfied the error matcher.
	CodeDidNotMatchThrown ErrorCode = "DID_NOT_MATCH_THROWN"

	// CodeUnfulfilledCallCount indicates a call-count assertion failed.
	CodeUnfulfilledCallCount ErrorCode = "UNFULFILLED_CALL_COUNT"

	// CodeNoMatchingInvocations indicates captured-argument inspection
	// found nothing to inspect.
	CodeNoMatchingInvocations ErrorCode = "NO_MATCHING_INVOCATIONS"

	// CodeConfiguration indicates engine misuse: wrong call path for a
	// spy's effect, matcher arity mismatch, or a registry type clash.
	CodeConfiguration ErrorCode = "CONFIGURATION"

	// CodeWaitTimeout indicates WaitUntilCalled gave up before the
	// operation was called. Distinct from stubbing failures.
	CodeWaitTimeout ErrorCode = "WAIT_TIMEOUT"
)

// MockingError is the error type raised and reported by the engine.
//
// Two MockingErrors are considered equal when their messages are equal;
// the code is a category, not part of identity.
type MockingError struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *MockingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Equal reports message equality with another MockingError.
func (e *MockingError) Equal(other *MockingError) bool {
	return other != nil && e.Message == other.Message
}

func newError(code ErrorCode, format string, args ...any) *MockingError {
	return &MockingError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsUnstubbed reports whether err is an unstubbed-call error.
// Uses errors.As to handle wrapped errors.
func IsUnstubbed(err error) bool {
	return hasCode(err, CodeUnstubbed)
}

// IsConfiguration reports whether err is an engine-misuse error.
func IsConfiguration(err error) bool {
	return hasCode(err, CodeConfiguration)
}

// IsWaitTimeout reports whether err is a WaitUntilCalled timeout.
func IsWaitTimeout(err error) bool {
	return hasCode(err, CodeWaitTimeout)
}

func hasCode(err error, code ErrorCode) bool {
	var me *MockingError
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}
