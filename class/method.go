package class

// MethodFunc is a method body. The frame carries the receiver and the
// resolution context that Frame.Super resumes from.
type MethodFunc func(f *Frame, args ...any) (any, error)

// InitFunc is a constructor body, applied to a freshly allocated instance.
type InitFunc func(inst *Instance, args ...any) error

// Method is an undecorated method implementation.
// Dispatch compares implementations by *Method identity, so two ancestors
// that share one *Method are treated as supplying the same implementation.
type Method struct {
	fn MethodFunc
}

// NewMethod wraps fn in a new implementation identity
func NewMethod(fn MethodFunc) *Method {
	return &Method{fn: fn}
}

// asMethod converts a member table value to a method implementation.
// Returns nil for plain values.
func asMethod(v any) *Method {
	switch fn := v.(type) {
	case *Method:
		if fn == nil || fn.fn == nil {
			return nil
		}
		return fn
	case MethodFunc:
		if fn == nil {
			return nil
		}
		return NewMethod(fn)
	case func(*Frame, ...any) (any, error):
		if fn == nil {
			return nil
		}
		return NewMethod(fn)
	}
	return nil
}

// asInit converts a member table value to a constructor
func asInit(v any) InitFunc {
	switch fn := v.(type) {
	case InitFunc:
		return fn
	case func(*Instance, ...any) error:
		return fn
	}
	return nil
}
