package types

// ClassID identifies a registered class.
// Ids are dense and assigned in registration order: 0..N-1.
type ClassID int64

const (
	NoClass ClassID = -1
)

// Valid reports whether the id could name a registered class
func (id ClassID) Valid() bool {
	return id >= 0
}

// ErrorCode represents a registry failure kind (E_NOTFOUND, E_NAME, etc.)
type ErrorCode int

const (
	E_NONE        ErrorCode = 0
	E_INVOCATION  ErrorCode = 1
	E_NOTFOUND    ErrorCode = 2
	E_NAME        ErrorCode = 3
	E_UNRESOLVED  ErrorCode = 4
	E_RESERVED    ErrorCode = 5
	E_INTERFACE   ErrorCode = 6
	E_NOMEMBER    ErrorCode = 7
	E_NOTCALLABLE ErrorCode = 8
	E_MAXREC      ErrorCode = 9
)

// String returns the code name
func (e ErrorCode) String() string {
	switch e {
	case E_NONE:
		return "E_NONE"
	case E_INVOCATION:
		return "E_INVOCATION"
	case E_NOTFOUND:
		return "E_NOTFOUND"
	case E_NAME:
		return "E_NAME"
	case E_UNRESOLVED:
		return "E_UNRESOLVED"
	case E_RESERVED:
		return "E_RESERVED"
	case E_INTERFACE:
		return "E_INTERFACE"
	case E_NOMEMBER:
		return "E_NOMEMBER"
	case E_NOTCALLABLE:
		return "E_NOTCALLABLE"
	case E_MAXREC:
		return "E_MAXREC"
	default:
		return "E_UNKNOWN"
	}
}

// Kind returns the diagnostic kind printed in "<Kind>: <message>" lines
func (e ErrorCode) Kind() string {
	switch e {
	case E_NONE:
		return "None"
	case E_INVOCATION:
		return "InvocationError"
	case E_NOTFOUND:
		return "NotFound"
	case E_NAME:
		return "NameCollision"
	case E_UNRESOLVED:
		return "UnresolvedReferenceError"
	case E_RESERVED:
		return "ReservedNameError"
	case E_INTERFACE:
		return "InterfaceError"
	case E_NOMEMBER:
		return "NoSuchMember"
	case E_NOTCALLABLE:
		return "NotCallable"
	case E_MAXREC:
		return "MaxRecursionError"
	default:
		return "Error"
	}
}

// Message returns a human-readable message for an error code
func (e ErrorCode) Message() string {
	switch e {
	case E_NONE:
		return "No error"
	case E_INVOCATION:
		return "Invalid invocation"
	case E_NOTFOUND:
		return "Class not found"
	case E_NAME:
		return "Class name already registered"
	case E_UNRESOLVED:
		return "Unresolved class reference"
	case E_RESERVED:
		return "Reserved member name"
	case E_INTERFACE:
		return "Interface not satisfied"
	case E_NOMEMBER:
		return "Member not found"
	case E_NOTCALLABLE:
		return "Member is not a method"
	case E_MAXREC:
		return "Too many nested method calls"
	default:
		return "Unknown error"
	}
}

// ErrorFromString converts either a code name ("E_NAME") or a kind
// ("NameCollision") to an ErrorCode
func ErrorFromString(s string) (ErrorCode, bool) {
	for code := E_NONE; code <= E_MAXREC; code++ {
		if code.String() == s || code.Kind() == s {
			return code, true
		}
	}
	return E_NONE, false
}
