package class

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// returns builds a method that returns v
func returns(v any) *Method {
	return NewMethod(func(f *Frame, args ...any) (any, error) {
		return v, nil
	})
}

// recordThenSuper builds a method that appends tag to the receiver's
// "out" field and returns whatever Super returns
func recordThenSuper(tag string) *Method {
	return NewMethod(func(f *Frame, args ...any) (any, error) {
		record(f.This(), tag)
		return f.Super(args...)
	})
}

// recordAndReturn appends tag to "out" and returns tag
func recordAndReturn(tag string) *Method {
	return NewMethod(func(f *Frame, args ...any) (any, error) {
		record(f.This(), tag)
		return tag, nil
	})
}

func record(inst *Instance, tag string) {
	out, _ := inst.Get("out")
	list, _ := out.([]string)
	inst.Set("out", append(list, tag))
}

func output(inst *Instance) []string {
	out, _ := inst.Get("out")
	list, _ := out.([]string)
	return list
}

func mustBuild(t *testing.T, r *Registry, spec Spec) *Descriptor {
	t.Helper()
	d, err := r.Build(spec)
	require.NoError(t, err, "building %q", spec.Name)
	return d
}

func mustNew(t *testing.T, d *Descriptor, args ...any) *Instance {
	t.Helper()
	inst, err := d.New(args...)
	require.NoError(t, err)
	return inst
}
