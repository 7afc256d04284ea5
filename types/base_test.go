package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		code  ErrorCode
		value int
		name  string
		kind  string
	}{
		{E_NONE, 0, "E_NONE", "None"},
		{E_INVOCATION, 1, "E_INVOCATION", "InvocationError"},
		{E_NOTFOUND, 2, "E_NOTFOUND", "NotFound"},
		{E_NAME, 3, "E_NAME", "NameCollision"},
		{E_UNRESOLVED, 4, "E_UNRESOLVED", "UnresolvedReferenceError"},
		{E_RESERVED, 5, "E_RESERVED", "ReservedNameError"},
		{E_INTERFACE, 6, "E_INTERFACE", "InterfaceError"},
		{E_NOMEMBER, 7, "E_NOMEMBER", "NoSuchMember"},
		{E_NOTCALLABLE, 8, "E_NOTCALLABLE", "NotCallable"},
		{E_MAXREC, 9, "E_MAXREC", "MaxRecursionError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if int(tt.code) != tt.value {
				t.Errorf("%s: expected value %d, got %d", tt.name, tt.value, int(tt.code))
			}
			if tt.code.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.code.String(), tt.name)
			}
			if tt.code.Kind() != tt.kind {
				t.Errorf("Kind() = %q, want %q", tt.code.Kind(), tt.kind)
			}

			byName, ok := ErrorFromString(tt.name)
			if !ok || byName != tt.code {
				t.Errorf("ErrorFromString(%q) = %v, %v", tt.name, byName, ok)
			}
			byKind, ok := ErrorFromString(tt.kind)
			if !ok || byKind != tt.code {
				t.Errorf("ErrorFromString(%q) = %v, %v", tt.kind, byKind, ok)
			}
		})
	}

	if _, ok := ErrorFromString("E_BOGUS"); ok {
		t.Error("ErrorFromString(E_BOGUS) should fail")
	}
}

func TestClassIDConstants(t *testing.T) {
	if NoClass != -1 {
		t.Errorf("NoClass should be -1, got %d", NoClass)
	}
	if NoClass.Valid() {
		t.Error("NoClass.Valid() = true")
	}
	if !ClassID(0).Valid() {
		t.Error("ClassID(0).Valid() = false")
	}
}

func TestErrorMatching(t *testing.T) {
	err := NewError(E_NAME, "ClassName '%s' already exists", "A")
	if err.Error() != "NameCollision: ClassName 'A' already exists" {
		t.Errorf("Error() = %q", err.Error())
	}

	wrapped := fmt.Errorf("building: %w", err)
	if !errors.Is(wrapped, ErrName) {
		t.Error("errors.Is(wrapped, ErrName) = false")
	}
	if errors.Is(wrapped, ErrNotFound) {
		t.Error("errors.Is(wrapped, ErrNotFound) = true")
	}
	if CodeOf(wrapped) != E_NAME {
		t.Errorf("CodeOf(wrapped) = %v, want E_NAME", CodeOf(wrapped))
	}
	if CodeOf(errors.New("plain")) != E_NONE {
		t.Error("CodeOf(plain) should be E_NONE")
	}

	// Empty message falls back to the code's message
	if got := ErrNotFound.Error(); got != "NotFound: Class not found" {
		t.Errorf("ErrNotFound.Error() = %q", got)
	}
}
