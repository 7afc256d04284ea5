package types

import "fmt"

// Error is a registry or dispatch failure.
// Two Errors match under errors.Is when their codes are equal, so the
// sentinels below can be used to test the kind of any returned error.
type Error struct {
	Code ErrorCode
	Msg  string
}

// Sentinels for errors.Is
var (
	ErrInvocation  = &Error{Code: E_INVOCATION}
	ErrNotFound    = &Error{Code: E_NOTFOUND}
	ErrName        = &Error{Code: E_NAME}
	ErrUnresolved  = &Error{Code: E_UNRESOLVED}
	ErrReserved    = &Error{Code: E_RESERVED}
	ErrInterface   = &Error{Code: E_INTERFACE}
	ErrNoMember    = &Error{Code: E_NOMEMBER}
	ErrNotCallable = &Error{Code: E_NOTCALLABLE}
	ErrMaxRec      = &Error{Code: E_MAXREC}
)

// NewError creates an error of the given kind with a formatted message
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Error renders "<Kind>: <message>"
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Code.Message()
	}
	return e.Code.Kind() + ": " + msg
}

// Is matches any *Error with the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// CodeOf extracts the ErrorCode from err, or E_NONE if err is not an *Error
func CodeOf(err error) ErrorCode {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return E_NONE
		}
		err = u.Unwrap()
	}
	return E_NONE
}
