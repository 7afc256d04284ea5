package class

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"

	"lineage/trace"
	"lineage/types"
)

// DefaultMaxDepth bounds nested dispatch (method calls plus Super hops)
const DefaultMaxDepth = 50

// Registry is an append-only store of class descriptors, indexed by id
// (insertion order) and by unique name.
// Registration is serialized; lookups and dispatch may run concurrently with it.
type Registry struct {
	mu      sync.RWMutex
	classes []*Descriptor
	byName  map[string]*Descriptor

	tracer   *trace.Tracer
	maxDepth int
}

// Option configures a Registry
type Option func(*Registry)

// WithTracer sets the diagnostics/trace sink. A nil tracer is silent.
func WithTracer(t *trace.Tracer) Option {
	return func(r *Registry) {
		r.tracer = t
	}
}

// WithMaxDepth bounds nested dispatch. Values < 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(r *Registry) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// NewRegistry creates an empty registry. Without WithTracer it reports
// through the global tracer, if one was initialized.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byName:   make(map[string]*Descriptor),
		tracer:   trace.Global(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tracer returns the registry's trace sink (may be nil)
func (r *Registry) Tracer() *trace.Tracer {
	return r.tracer
}

// Len returns the number of registered classes
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.classes)
}

// All returns every registered class in id order
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]*Descriptor(nil), r.classes...)
}

// register appends a finished descriptor, assigning its id.
// The name check is repeated under the write lock so that two concurrent
// builds of the same name cannot both succeed.
func (r *Registry) register(d *Descriptor) (types.ClassID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.name != "" {
		if _, exists := r.byName[d.name]; exists {
			return types.NoClass, types.NewError(types.E_NAME, "ClassName '%s' already exists", d.name)
		}
	}

	d.id = types.ClassID(len(r.classes))
	d.registry = r
	r.classes = append(r.classes, d)
	if d.name != "" {
		r.byName[d.name] = d
	}
	return d.id, nil
}

// hasName reports whether a class with that name is registered
func (r *Registry) hasName(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byName[name]
	return ok
}

// owns reports whether d was registered in this registry
func (r *Registry) owns(d *Descriptor) bool {
	if d == nil || d.registry != r {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return d.id >= 0 && int(d.id) < len(r.classes) && r.classes[d.id] == d
}

func (r *Registry) byID(id types.ClassID) *Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id < 0 || int64(id) >= int64(len(r.classes)) {
		return nil
	}
	return r.classes[id]
}

func (r *Registry) byNameLocked(name string) *Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.byName[name]
}

// ByID returns the class registered under id
func (r *Registry) ByID(id types.ClassID) (*Descriptor, error) {
	if d := r.byID(id); d != nil {
		return d, nil
	}
	return nil, r.fail(types.NewError(types.E_NOTFOUND, "Cannot find the Class Id '%d'", id))
}

// ByName returns the class registered under name
func (r *Registry) ByName(name string) (*Descriptor, error) {
	if name != "" {
		if d := r.byNameLocked(name); d != nil {
			return d, nil
		}
	}
	return nil, r.fail(types.NewError(types.E_NOTFOUND, "Cannot find the ClassName '%s'", name))
}

// Lookup resolves a class reference:
//   - *Descriptor: returned if registered here
//   - types.ClassID or any integer kind: id lookup
//   - float: id lookup when integral, otherwise not found
//   - string: id lookup when it parses as a number, otherwise name lookup
//
// Numeric-looking strings are always ids, so a class named "12" can only be
// reached through its descriptor or its own id.
func (r *Registry) Lookup(ref any) (*Descriptor, error) {
	switch v := ref.(type) {
	case *Descriptor:
		if r.owns(v) {
			return v, nil
		}
		return nil, r.fail(types.NewError(types.E_NOTFOUND, "Class %v is not registered", v))
	case string:
		if f, ok := numericString(v); ok {
			return r.lookupFloat(f, v)
		}
		return r.ByName(v)
	case float64:
		return r.lookupFloat(v, strconv.FormatFloat(v, 'g', -1, 64))
	case float32:
		return r.lookupFloat(float64(v), strconv.FormatFloat(float64(v), 'g', -1, 32))
	}

	if id, ok := integerRef(ref); ok {
		return r.ByID(id)
	}
	return nil, r.fail(types.NewError(types.E_INVOCATION, "Cannot look up a class from %T", ref))
}

func (r *Registry) lookupFloat(f float64, text string) (*Descriptor, error) {
	if f != math.Trunc(f) || f < 0 || f >= math.MaxInt64 {
		return nil, r.fail(types.NewError(types.E_NOTFOUND, "Cannot find the Class Id '%s'", text))
	}
	return r.ByID(types.ClassID(f))
}

// Class is the polymorphic entry point: a Spec builds and registers a new
// class, anything else is looked up.
func (r *Registry) Class(x any) (*Descriptor, error) {
	if r == nil {
		return nil, types.NewError(types.E_INVOCATION, "Class called on a nil registry")
	}
	switch spec := x.(type) {
	case Spec:
		return r.Build(spec)
	case *Spec:
		if spec == nil {
			return nil, r.fail(types.NewError(types.E_INVOCATION, "Class called with a nil spec"))
		}
		return r.Build(*spec)
	case nil:
		return nil, r.fail(types.NewError(types.E_INVOCATION, "Class called without an argument"))
	}
	return r.Lookup(x)
}

// New resolves ref and instantiates it
func (r *Registry) New(ref any, args ...any) (*Instance, error) {
	d, err := r.Lookup(ref)
	if err != nil {
		return nil, err
	}
	return d.New(args...)
}

// fail reports err through the diagnostic sink and returns it unchanged
func (r *Registry) fail(err error) error {
	r.tracer.Error(err)
	return err
}

// numericString reports whether s reads as a number: a decimal, or an
// unsigned integer with a 0x, 0o or 0b prefix. NaN and infinities are
// treated as names.
func numericString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if base := prefixBase(s); base != 0 {
		n, err := strconv.ParseUint(s[2:], base, 64)
		switch {
		case err == nil:
			return float64(n), true
		case errors.Is(err, strconv.ErrRange):
			return math.MaxUint64, true
		default:
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func prefixBase(s string) int {
	if len(s) < 3 || s[0] != '0' {
		return 0
	}
	switch s[1] {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}

func integerRef(ref any) (types.ClassID, bool) {
	switch v := ref.(type) {
	case types.ClassID:
		return v, true
	case int:
		return types.ClassID(v), true
	case int8:
		return types.ClassID(v), true
	case int16:
		return types.ClassID(v), true
	case int32:
		return types.ClassID(v), true
	case int64:
		return types.ClassID(v), true
	case uint:
		return clampUnsigned(uint64(v)), true
	case uint8:
		return types.ClassID(v), true
	case uint16:
		return types.ClassID(v), true
	case uint32:
		return types.ClassID(v), true
	case uint64:
		return clampUnsigned(v), true
	}
	return types.NoClass, false
}

func clampUnsigned(v uint64) types.ClassID {
	if v > math.MaxInt64 {
		return types.NoClass
	}
	return types.ClassID(v)
}
