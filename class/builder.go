package class

import (
	"lineage/types"
)

// Reserved member names
const (
	SuperName       = "Super"
	ConstructorName = "Constructor"
	ClassNameMember = "ClassName"
	ctorAlias       = "constructor"
)

// Spec describes a class to build.
type Spec struct {
	// Name is optional; anonymous classes are reachable only by id.
	Name string

	// Members holds methods (*Method, MethodFunc or
	// func(*Frame, ...any) (any, error)) and plain values. An InitFunc under
	// "Constructor" is the class constructor.
	Members map[string]any

	// Constructor is used when Members has no "Constructor" entry
	Constructor InitFunc

	// Inherits and Interfaces hold descriptors, names or ids of
	// already-registered classes.
	Inherits   []any
	Interfaces []any
}

// Build composes a class from spec and registers it.
// On any failure nothing is registered.
func (r *Registry) Build(spec Spec) (*Descriptor, error) {
	d, err := r.build(spec)
	if err != nil {
		return nil, r.fail(err)
	}
	return d, nil
}

func (r *Registry) build(spec Spec) (*Descriptor, error) {
	// Check the name
	if spec.Name == "" {
		r.tracer.Diagnostic("Warning", "No ClassName")
	} else if r.hasName(spec.Name) {
		return nil, types.NewError(types.E_NAME, "ClassName '%s' already exists", spec.Name)
	}

	// Resolve references
	ancestors, err := r.resolveRefs("Inherits", spec.Inherits)
	if err != nil {
		return nil, err
	}
	interfaces, err := r.resolveRefs("Interfaces", spec.Interfaces)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{
		id:         types.NoClass,
		name:       spec.Name,
		methods:    make(map[string]*Method),
		surface:    make(map[string]Member),
		ancestors:  ancestors,
		interfaces: interfaces,
	}

	if err := checkReserved(spec); err != nil {
		return nil, err
	}

	// Constructor: own, then spec-level, then the last ancestor that has one
	if ctor := asInit(spec.Members[ConstructorName]); ctor != nil {
		d.ctor = ctor
		d.ownCtor = true
	} else if spec.Constructor != nil {
		d.ctor = spec.Constructor
		d.ownCtor = true
	} else {
		for i := len(ancestors) - 1; i >= 0; i-- {
			if ancestors[i].ctor != nil {
				d.ctor = ancestors[i].ctor
				break
			}
		}
	}

	// Inherited members: later ancestors overwrite earlier ones
	for _, a := range ancestors {
		for name, m := range a.surface {
			d.surface[name] = m
		}
		for name, m := range a.methods {
			d.methods[name] = m
		}
	}

	d.surface[ClassNameMember] = Member{Name: ClassNameMember, Value: spec.Name}

	// Own members
	for _, name := range sortedKeys(spec.Members) {
		if name == ConstructorName {
			continue
		}
		v := spec.Members[name]
		if m := asMethod(v); m != nil {
			d.methods[name] = m
			d.surface[name] = Member{Name: name, Method: m, Owner: d}
		} else {
			d.surface[name] = Member{Name: name, Value: v}
		}
	}

	if err := validateInterfaces(d, interfaces); err != nil {
		return nil, err
	}

	if _, err := r.register(d); err != nil {
		return nil, err
	}
	return d, nil
}

// checkReserved rejects member tables that would shadow the dispatch
// mechanism or the constructor slot
func checkReserved(spec Spec) error {
	for _, name := range sortedKeys(spec.Members) {
		switch name {
		case SuperName:
			return types.NewError(types.E_RESERVED, "Overwrite 'Super' method of the Class '%s'", spec.Name)
		case ctorAlias:
			return types.NewError(types.E_RESERVED, "Overwrite 'constructor' of the Class '%s', please use 'Constructor' instead", spec.Name)
		case ConstructorName:
			v := spec.Members[name]
			if v != nil && asInit(v) == nil {
				return types.NewError(types.E_RESERVED, "'Constructor' of the Class '%s' must be a constructor function, got %T", spec.Name, v)
			}
		}
	}
	return nil
}
