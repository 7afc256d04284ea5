package class

import (
	"fmt"
	"sort"

	"lineage/types"
)

// Member is one entry of a class surface: either a dispatch-aware method
// or a plain value.
type Member struct {
	Name string

	// Method is the original implementation; nil for plain values
	Method *Method
	// Owner is the descriptor whose methods table supplied Method.
	// Invoking the member runs Method with resolution context {Name, Owner}.
	Owner *Descriptor

	Value any
}

// IsMethod reports whether the member is callable
func (m Member) IsMethod() bool {
	return m.Method != nil
}

// Descriptor is a registered class.
// CRITICAL: a descriptor is immutable once Build returns it; all fields are
// written before registration and only read afterwards.
type Descriptor struct {
	id         types.ClassID
	name       string
	methods    map[string]*Method
	surface    map[string]Member
	ancestors  []*Descriptor
	interfaces []*Descriptor
	ctor       InitFunc
	ownCtor    bool
	registry   *Registry
}

// ID returns the class id
func (d *Descriptor) ID() types.ClassID {
	return d.id
}

// Name returns the class name ("" for anonymous classes)
func (d *Descriptor) Name() string {
	return d.name
}

// Label returns the name, or "#<id>" for anonymous classes
func (d *Descriptor) Label() string {
	if d.name != "" {
		return d.name
	}
	return fmt.Sprintf("#%d", d.id)
}

// String returns "[Class: <name or id>]"
func (d *Descriptor) String() string {
	if d.name != "" {
		return "[Class: " + d.name + "]"
	}
	return fmt.Sprintf("[Class: %d]", d.id)
}

// Registry returns the registry the class belongs to
func (d *Descriptor) Registry() *Registry {
	return d.registry
}

// Ancestors returns the declared ancestors in declaration order
func (d *Descriptor) Ancestors() []*Descriptor {
	return append([]*Descriptor(nil), d.ancestors...)
}

// Interfaces returns the declared interfaces in declaration order
func (d *Descriptor) Interfaces() []*Descriptor {
	return append([]*Descriptor(nil), d.interfaces...)
}

// Method returns the original implementation registered under name,
// own or inherited
func (d *Descriptor) Method(name string) (*Method, bool) {
	m, ok := d.methods[name]
	return m, ok
}

// MethodNames returns the sorted names of the methods table
func (d *Descriptor) MethodNames() []string {
	return sortedKeys(d.methods)
}

// Member returns the surface entry for name
func (d *Descriptor) Member(name string) (Member, bool) {
	m, ok := d.surface[name]
	return m, ok
}

// MemberNames returns the sorted surface member names
func (d *Descriptor) MemberNames() []string {
	return sortedKeys(d.surface)
}

// HasOwnConstructor reports whether the class declared its own constructor
func (d *Descriptor) HasOwnConstructor() bool {
	return d.ownCtor
}

// IsA reports whether other is d or reachable through d's ancestor lists
func (d *Descriptor) IsA(other *Descriptor) bool {
	if d == other {
		return true
	}
	for _, a := range d.ancestors {
		if a.IsA(other) {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
