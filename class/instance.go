package class

import (
	"fmt"

	"github.com/google/uuid"
)

// Instance is an object produced by a class constructor. It owns its
// fields and refers to its class surface for method lookup.
type Instance struct {
	id     uuid.UUID
	class  *Descriptor
	fields map[string]any
}

// New allocates an instance of d and applies the effective constructor.
// It is the single construction path for every class.
func (d *Descriptor) New(args ...any) (*Instance, error) {
	inst := &Instance{
		id:     uuid.New(),
		class:  d,
		fields: make(map[string]any),
	}
	if d.ctor != nil {
		if err := d.ctor(inst, args...); err != nil {
			return nil, fmt.Errorf("constructing %s: %w", d.Label(), err)
		}
	}
	return inst, nil
}

// ID returns the instance's unique id
func (i *Instance) ID() uuid.UUID {
	return i.id
}

// Class returns the instance's class
func (i *Instance) Class() *Descriptor {
	return i.class
}

// String returns "<class>@<short id>"
func (i *Instance) String() string {
	return i.class.Label() + "@" + i.id.String()[:8]
}

// Get returns an instance field, falling back to the class surface.
// Method members yield their *Method.
func (i *Instance) Get(name string) (any, bool) {
	if v, ok := i.fields[name]; ok {
		return v, true
	}
	m, ok := i.class.surface[name]
	if !ok {
		return nil, false
	}
	if m.IsMethod() {
		return m.Method, true
	}
	return m.Value, true
}

// Set stores an instance field. Fields shadow surface values for Get but
// never replace surface methods for Call.
func (i *Instance) Set(name string, v any) {
	i.fields[name] = v
}

// Has reports whether name is a field or a surface member
func (i *Instance) Has(name string) bool {
	_, ok := i.Get(name)
	return ok
}

// Fields returns a copy of the instance-local state
func (i *Instance) Fields() map[string]any {
	out := make(map[string]any, len(i.fields))
	for k, v := range i.fields {
		out[k] = v
	}
	return out
}

// Call invokes a surface method
func (i *Instance) Call(name string, args ...any) (any, error) {
	return i.call(name, args, 0)
}

// Super called outside any running method has no resolution context and
// returns (nil, nil). Use Frame.Super from inside a method, or SuperFrom.
func (i *Instance) Super(args ...any) (any, error) {
	i.class.registry.tracer.Diagnostic("Warning", "Super called without a running method on "+i.String())
	return nil, nil
}

// SuperFrom is the fallback for code that holds an implementation but no
// frame: the surface member currently equal to m names the method, and the
// search starts at the instance's own class. Returns (nil, nil) when no
// member matches.
func (i *Instance) SuperFrom(m *Method, args ...any) (any, error) {
	if m == nil {
		return nil, nil
	}
	for _, name := range i.class.MemberNames() {
		if member := i.class.surface[name]; member.Method == m {
			return i.super(i.class, name, m, args, 0)
		}
	}
	return nil, nil
}
