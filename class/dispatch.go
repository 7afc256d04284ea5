package class

import (
	"lineage/types"
)

// Frame is one running method invocation. It carries the resolution
// context {method, owner} that Super resumes from, so a chain of Super
// calls climbs one ancestor level per hop instead of restarting at the
// receiver's class.
type Frame struct {
	this   *Instance
	method string
	owner  *Descriptor // descriptor whose ancestors Super searches
	impl   *Method     // implementation running in this frame
	args   []any
	depth  int
}

// This returns the receiver. It stays the original instance across Super hops.
func (f *Frame) This() *Instance {
	return f.this
}

// Method returns the name of the method in flight
func (f *Frame) Method() string {
	return f.method
}

// Owner returns the descriptor whose ancestor list Super searches next
func (f *Frame) Owner() *Descriptor {
	return f.owner
}

// Impl returns the running implementation
func (f *Frame) Impl() *Method {
	return f.impl
}

// Args returns the arguments this frame was invoked with
func (f *Frame) Args() []any {
	return append([]any(nil), f.args...)
}

// Depth returns the nesting depth of the frame (1 for a top-level call)
func (f *Frame) Depth() int {
	return f.depth
}

// Super invokes the next ancestor implementation of the running method.
// Reaching the top of the chain returns (nil, nil).
func (f *Frame) Super(args ...any) (any, error) {
	return f.this.super(f.owner, f.method, f.impl, args, f.depth)
}

// Call invokes another method on the receiver
func (f *Frame) Call(name string, args ...any) (any, error) {
	return f.this.call(name, args, f.depth)
}

// Super resumes the search for the frame's method from d's ancestor list,
// as if the running method had been supplied by d. A nil class or frame
// returns (nil, nil).
func (d *Descriptor) Super(f *Frame, args ...any) (any, error) {
	if d == nil || f == nil {
		return nil, nil
	}
	return f.this.super(d, f.method, f.impl, args, f.depth)
}

// nextSuper finds the implementation Super would run next.
// The owner's ancestors are scanned from the last declared to the first for
// an implementation of method that is not the running one. On a full miss
// the search moves to the last ancestor's own ancestors, and so on up that
// spine until a class with no ancestors is reached.
func nextSuper(owner *Descriptor, method string, running *Method) (*Descriptor, *Method) {
	for owner != nil && len(owner.ancestors) > 0 {
		ancestors := owner.ancestors
		for k := len(ancestors) - 1; k >= 0; k-- {
			a := ancestors[k]
			if m, ok := a.methods[method]; ok && m != running {
				return a, m
			}
		}
		owner = ancestors[len(ancestors)-1]
	}
	return nil, nil
}

func (i *Instance) super(owner *Descriptor, method string, running *Method, args []any, depth int) (any, error) {
	tr := i.class.registry.tracer

	next, impl := nextSuper(owner, method, running)
	if next == nil {
		tr.Super(owner.Label(), method, "")
		return nil, nil
	}

	tr.Super(owner.Label(), method, next.Label())
	return i.invoke(next, method, impl, args, depth)
}

func (i *Instance) call(name string, args []any, depth int) (any, error) {
	m, ok := i.class.surface[name]
	if !ok {
		return nil, i.class.registry.fail(types.NewError(types.E_NOMEMBER,
			"%s has no member '%s'", i.class.Label(), name))
	}
	if !m.IsMethod() {
		return nil, i.class.registry.fail(types.NewError(types.E_NOTCALLABLE,
			"Member '%s' of %s is not a method", name, i.class.Label()))
	}
	return i.invoke(m.Owner, name, m.Method, args, depth)
}

// invoke runs impl in a new frame with resolution context {method, owner}
func (i *Instance) invoke(owner *Descriptor, method string, impl *Method, args []any, depth int) (any, error) {
	reg := i.class.registry
	depth++
	if depth > reg.maxDepth {
		return nil, reg.fail(types.NewError(types.E_MAXREC,
			"%s.%s exceeded %d nested calls", owner.Label(), method, reg.maxDepth))
	}

	f := &Frame{
		this:   i,
		method: method,
		owner:  owner,
		impl:   impl,
		args:   args,
		depth:  depth,
	}

	reg.tracer.Call(owner.Label(), method, i.String(), args)
	result, err := impl.fn(f, args...)
	if err != nil {
		reg.tracer.Failure(owner.Label(), method, err)
		return nil, err
	}
	reg.tracer.Return(owner.Label(), method, result)
	return result, nil
}

// SuperChain returns the classes whose implementations run, in order, when
// method is called on an instance of d and every implementation calls Super.
// The first entry is the class supplying the surface member.
func (d *Descriptor) SuperChain(method string) []*Descriptor {
	m, ok := d.surface[method]
	if !ok || !m.IsMethod() {
		return nil
	}

	chain := []*Descriptor{m.Owner}
	owner, running := m.Owner, m.Method
	for {
		next, impl := nextSuper(owner, method, running)
		if next == nil {
			return chain
		}
		chain = append(chain, next)
		owner, running = next, impl
	}
}
