package class

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineage/types"
)

func TestNameCollision(t *testing.T) {
	r := NewRegistry(WithTracer(nil))
	mustBuild(t, r, Spec{Name: "A"})

	_, err := r.Build(Spec{Name: "A"})
	assert.True(t, errors.Is(err, types.ErrName), "got %v", err)
	assert.Equal(t, 1, r.Len(), "failed build must not register")

	// Anonymous classes never collide
	mustBuild(t, r, Spec{})
	mustBuild(t, r, Spec{})
	assert.Equal(t, 3, r.Len())
}

func TestReservedNames(t *testing.T) {
	tests := []struct {
		name    string
		members map[string]any
	}{
		{"Super", map[string]any{"Super": returns(1)}},
		{"Super value", map[string]any{"Super": 1}},
		{"lowercase constructor", map[string]any{"constructor": func(*Instance, ...any) error { return nil }}},
		{"Constructor value", map[string]any{"Constructor": 42}},
		{"Constructor method", map[string]any{"Constructor": returns(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(WithTracer(nil))
			_, err := r.Build(Spec{Name: "X", Members: tt.members})
			assert.True(t, errors.Is(err, types.ErrReserved), "got %v", err)
			assert.Equal(t, 0, r.Len())
		})
	}
}

func TestUnresolvedReferences(t *testing.T) {
	r := NewRegistry(WithTracer(nil))
	a := mustBuild(t, r, Spec{Name: "A"})

	_, err := r.Build(Spec{Name: "B", Inherits: []any{a, "Missing"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrUnresolved))
	assert.Contains(t, err.Error(), "Inherits[1]")

	_, err = r.Build(Spec{Name: "B", Interfaces: []any{7}})
	assert.True(t, errors.Is(err, types.ErrUnresolved))
	assert.Contains(t, err.Error(), "Interfaces[0]")

	// Strings are names in reference lists, never ids
	_, err = r.Build(Spec{Name: "B", Inherits: []any{"0"}})
	assert.True(t, errors.Is(err, types.ErrUnresolved), "got %v", err)

	// Unsupported shapes do not resolve
	_, err = r.Build(Spec{Name: "B", Inherits: []any{3.5}})
	assert.True(t, errors.Is(err, types.ErrUnresolved), "got %v", err)

	// Ids do
	b := mustBuild(t, r, Spec{Name: "B", Inherits: []any{types.ClassID(0)}})
	assert.Equal(t, []*Descriptor{a}, b.Ancestors())
	assert.Equal(t, 2, r.Len())
}

func TestNameCheckedBeforeReferences(t *testing.T) {
	r := NewRegistry(WithTracer(nil))
	mustBuild(t, r, Spec{Name: "A"})

	_, err := r.Build(Spec{Name: "A", Inherits: []any{"Missing"}})
	assert.True(t, errors.Is(err, types.ErrName), "got %v", err)
}

func TestSingleInheritancePassThrough(t *testing.T) {
	r := NewRegistry(WithTracer(nil))
	a := mustBuild(t, r, Spec{Name: "A", Members: map[string]any{
		"greet": NewMethod(func(f *Frame, args ...any) (any, error) {
			return "hello " + args[0].(string), nil
		}),
		"size": 3,
	}})
	b := mustBuild(t, r, Spec{Name: "B", Inherits: []any{a}})

	ia, ib := mustNew(t, a), mustNew(t, b)

	va, err := ia.Call("greet", "bob")
	require.NoError(t, err)
	vb, err := ib.Call("greet", "bob")
	require.NoError(t, err)
	assert.Equal(t, va, vb)

	size, ok := ib.Get("size")
	assert.True(t, ok)
	assert.Equal(t, 3, size)

	ma, _ := a.Method("greet")
	mb, _ := b.Method("greet")
	assert.Same(t, ma, mb, "methods table entries are inherited by identity")
}

func TestLaterAncestorOverridesSurface(t *testing.T) {
	r := NewRegistry(WithTracer(nil))
	a := mustBuild(t, r, Spec{Name: "A", Members: map[string]any{"m": returns("A"), "v": "A", "onlyA": 1}})
	b := mustBuild(t, r, Spec{Name: "B", Members: map[string]any{"m": returns("B"), "v": "B"}})
	c := mustBuild(t, r, Spec{Name: "C", Inherits: []any{a, b}})

	inst := mustNew(t, c)
	got, err := inst.Call("m")
	require.NoError(t, err)
	assert.Equal(t, "B", got)

	v, _ := inst.Get("v")
	assert.Equal(t, "B", v)
	assert.True(t, inst.Has("onlyA"))

	member, ok := c.Member("m")
	require.True(t, ok)
	assert.Same(t, b, member.Owner)
}

func TestOwnMembersOverlayInherited(t *testing.T) {
	r := NewRegistry(WithTracer(nil))
	a := mustBuild(t, r, Spec{Name: "A", Members: map[string]any{"m": returns("A"), "v": 1}})
	b := mustBuild(t, r, Spec{Name: "B", Inherits: []any{a}, Members: map[string]any{
		"m": MethodFunc(func(f *Frame, args ...any) (any, error) { return "B", nil }),
		"v": NewMethod(func(f *Frame, args ...any) (any, error) { return 2, nil }),
	}})

	inst := mustNew(t, b)
	got, err := inst.Call("m")
	require.NoError(t, err)
	assert.Equal(t, "B", got)

	// A plain value replaced by a method becomes callable
	got, err = inst.Call("v")
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	assert.Equal(t, []string{"ClassName", "m", "v"}, b.MemberNames())
	assert.Equal(t, []string{"m", "v"}, b.MethodNames())
}

func TestClassNameMember(t *testing.T) {
	r := NewRegistry(WithTracer(nil))
	a := mustBuild(t, r, Spec{Name: "A"})
	b := mustBuild(t, r, Spec{Name: "B", Inherits: []any{a}})
	c := mustBuild(t, r, Spec{Name: "C", Members: map[string]any{"ClassName": "custom"}})

	name, _ := mustNew(t, b).Get("ClassName")
	assert.Equal(t, "B", name, "ClassName is rewritten for each class")

	name, _ = mustNew(t, c).Get("ClassName")
	assert.Equal(t, "custom", name)
}

func TestConstructorFallback(t *testing.T) {
	r := NewRegistry(WithTracer(nil))
	tagger := func(tag string) InitFunc {
		return func(inst *Instance, args ...any) error {
			inst.Set("built_by", tag)
			return nil
		}
	}

	a := mustBuild(t, r, Spec{Name: "A", Constructor: tagger("A")})
	b := mustBuild(t, r, Spec{Name: "B", Members: map[string]any{"Constructor": tagger("B")}})
	plain := mustBuild(t, r, Spec{Name: "Plain"})

	tests := []struct {
		name     string
		inherits []any
		own      InitFunc
		want     any
	}{
		{"last ancestor wins", []any{a, b}, nil, "B"},
		{"order matters", []any{b, a}, nil, "A"},
		{"skips ancestors without a constructor", []any{a, plain}, nil, "A"},
		{"own constructor", []any{a, b}, tagger("own"), "own"},
		{"no constructor anywhere", []any{plain}, nil, nil},
		{"no ancestors", nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := mustBuild(t, r, Spec{Inherits: tt.inherits, Constructor: tt.own})
			inst := mustNew(t, d)
			got, _ := inst.Get("built_by")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.own != nil, d.HasOwnConstructor())
		})
	}
}

func TestConstructorPrecedence(t *testing.T) {
	r := NewRegistry(WithTracer(nil))
	d := mustBuild(t, r, Spec{
		Name: "P",
		Members: map[string]any{"Constructor": InitFunc(func(inst *Instance, args ...any) error {
			inst.Set("by", "member")
			return nil
		})},
		Constructor: func(inst *Instance, args ...any) error {
			inst.Set("by", "spec")
			return nil
		},
	})

	by, _ := mustNew(t, d).Get("by")
	assert.Equal(t, "member", by)
	_, isMember := d.Member("Constructor")
	assert.False(t, isMember, "Constructor never appears on the surface")
}

func TestConstructorError(t *testing.T) {
	r := NewRegistry(WithTracer(nil))
	boom := errors.New("boom")
	d := mustBuild(t, r, Spec{Name: "Bad", Constructor: func(*Instance, ...any) error { return boom }})

	inst, err := d.New()
	assert.Nil(t, inst)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "constructing Bad")
}

func TestConstructorArguments(t *testing.T) {
	r := NewRegistry(WithTracer(nil))
	d := mustBuild(t, r, Spec{Name: "Pair", Constructor: func(inst *Instance, args ...any) error {
		inst.Set("left", args[0])
		inst.Set("right", args[1])
		return nil
	}})

	inst := mustNew(t, d, "l", "r")
	assert.Equal(t, map[string]any{"left": "l", "right": "r"}, inst.Fields())
	assert.Same(t, d, inst.Class())
	assert.NotEqual(t, mustNew(t, d, 1, 2).ID(), inst.ID())
}

func TestInterfaces(t *testing.T) {
	r := NewRegistry(WithTracer(nil))
	iface := mustBuild(t, r, Spec{Name: "Fooer", Members: map[string]any{"foo": returns(nil)}})

	_, err := r.Build(Spec{Name: "Missing", Interfaces: []any{"Fooer"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInterface))
	assert.Contains(t, err.Error(), "'foo'")
	assert.Contains(t, err.Error(), "'Fooer'")
	assert.Equal(t, 1, r.Len())

	// Own member satisfies
	own := mustBuild(t, r, Spec{Name: "Own", Interfaces: []any{iface}, Members: map[string]any{"foo": returns(1)}})
	assert.Equal(t, []*Descriptor{iface}, own.Interfaces())

	// Inherited member satisfies
	base := mustBuild(t, r, Spec{Name: "Base", Members: map[string]any{"foo": returns(2)}})
	mustBuild(t, r, Spec{Name: "Derived", Inherits: []any{base}, Interfaces: []any{"Fooer"}})

	// Presence is enough: a plain value satisfies a method requirement
	mustBuild(t, r, Spec{Name: "Valued", Interfaces: []any{"Fooer"}, Members: map[string]any{"foo": 0}})

	bare := mustBuild(t, r, Spec{Name: "Bare"})
	assert.True(t, base.Satisfies(iface))
	assert.False(t, bare.Satisfies(iface))
}

func TestFirstMissingInterfaceMember(t *testing.T) {
	r := NewRegistry(WithTracer(nil))
	mustBuild(t, r, Spec{Name: "I1", Members: map[string]any{"a": 1}})
	mustBuild(t, r, Spec{Name: "I2", Members: map[string]any{"b": 1, "c": 1}})

	_, err := r.Build(Spec{Name: "X", Interfaces: []any{"I1", "I2"}, Members: map[string]any{"a": 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'b' of the interface 'I2'")
}
