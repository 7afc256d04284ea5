package loader

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lineage/class"
)

// errNoFrame is returned by super steps in constructors, which run
// without a resolution context
var errNoFrame = errors.New("super is not available in a constructor")

// env is the state a step list runs against
type env struct {
	inst   *class.Instance
	frame  *class.Frame // nil in constructors
	args   []any
	result any
}

// compileMethod turns a step list into a method body
func compileMethod(steps []Step) class.MethodFunc {
	return func(f *class.Frame, args ...any) (any, error) {
		e := &env{inst: f.This(), frame: f, args: args}
		return e.run(steps)
	}
}

// compileConstructor turns a step list into a constructor
func compileConstructor(steps []Step) class.InitFunc {
	return func(inst *class.Instance, args ...any) error {
		e := &env{inst: inst, args: args}
		_, err := e.run(steps)
		return err
	}
}

func (e *env) run(steps []Step) (any, error) {
	for i, step := range steps {
		done, err := e.step(step)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		if done {
			break
		}
	}
	return e.result, nil
}

// step executes one step and reports whether the method returns
func (e *env) step(s Step) (bool, error) {
	if s.Value != nil || s.hasValue {
		e.result = e.eval(s.Value)
	}

	if s.Get != "" {
		v, _ := e.inst.Get(s.Get)
		e.result = v
	}

	if s.Super {
		if e.frame == nil {
			return false, errNoFrame
		}
		v, err := e.frame.Super(e.callArgs(s)...)
		if err != nil {
			return false, err
		}
		e.result = v
	}

	if s.Call != "" {
		var (
			v   any
			err error
		)
		if e.frame != nil {
			v, err = e.frame.Call(s.Call, e.callArgs(s)...)
		} else {
			v, err = e.inst.Call(s.Call, e.callArgs(s)...)
		}
		if err != nil {
			return false, err
		}
		e.result = v
	}

	if s.Emit != nil {
		emit(e.inst, fmt.Sprint(e.eval(s.Emit)))
	}

	if s.Set != "" {
		e.inst.Set(s.Set, e.result)
	}

	return s.Return, nil
}

// callArgs returns the step's explicit arguments, or the running
// method's own when none are given
func (e *env) callArgs(s Step) []any {
	if s.With == nil {
		return e.args
	}
	args := make([]any, len(s.With))
	for i, w := range s.With {
		args[i] = e.eval(w)
	}
	return args
}

// eval resolves '$' expressions; everything else is a literal
func (e *env) eval(v any) any {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, "$") {
		return v
	}

	switch {
	case strings.HasPrefix(s, "$$"):
		return s[1:]
	case s == "$result":
		return e.result
	case s == "$args":
		return append([]any(nil), e.args...)
	case strings.HasPrefix(s, "$."):
		val, _ := e.inst.Get(s[2:])
		return val
	}

	if n, err := strconv.Atoi(s[1:]); err == nil {
		if n >= 0 && n < len(e.args) {
			return e.args[n]
		}
		return nil
	}
	return v
}

// emit appends text to the instance's output field
func emit(inst *class.Instance, text string) {
	out, _ := inst.Get(OutputField)
	list, _ := out.([]string)
	inst.Set(OutputField, append(list, text))
}

// Output returns what emit steps appended on inst
func Output(inst *class.Instance) []string {
	out, _ := inst.Get(OutputField)
	list, _ := out.([]string)
	return append([]string(nil), list...)
}
