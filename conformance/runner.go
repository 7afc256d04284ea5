package conformance

import (
	"fmt"
	"reflect"
	"strings"

	"lineage/class"
	"lineage/loader"
	"lineage/types"
)

// TestResult represents the outcome of running a single test
type TestResult struct {
	Test       LoadedTest
	Passed     bool
	Skipped    bool
	SkipReason string
	Error      error
}

// Runner executes conformance tests. Each suite file gets its own
// registry, built from the suite's classes before its first test.
type Runner struct {
	opts   []class.Option
	suites map[string]*suiteState
}

type suiteState struct {
	reg *class.Registry
	err error
}

// outcome is what a test's action produced
type outcome struct {
	class *class.Descriptor
	inst  *class.Instance
	value any
	err   error
}

// NewRunner creates a test runner. The options configure every suite registry.
func NewRunner(opts ...class.Option) *Runner {
	return &Runner{
		opts:   opts,
		suites: make(map[string]*suiteState),
	}
}

// suiteRegistry returns the suite's registry, running its setup on first use
func (r *Runner) suiteRegistry(test LoadedTest) (*class.Registry, error) {
	if st, ok := r.suites[test.File]; ok {
		return st.reg, st.err
	}

	reg := class.NewRegistry(r.opts...)
	_, err := loader.Load(reg, &test.Suite.Document)
	r.suites[test.File] = &suiteState{reg: reg, err: err}
	return reg, err
}

// Run executes a single test case
func (r *Runner) Run(test LoadedTest) TestResult {
	if skipped, reason := test.Test.IsSkipped(); skipped {
		return TestResult{
			Test:       test,
			Skipped:    true,
			SkipReason: reason,
		}
	}

	reg, err := r.suiteRegistry(test)
	if err != nil {
		return TestResult{
			Test:  test,
			Error: fmt.Errorf("suite setup failed: %w", err),
		}
	}

	var out outcome
	tc := test.Test
	switch {
	case tc.Build != nil:
		out = build(reg, test.Suite, tc.Build)
	case tc.New != nil:
		out = instantiate(reg, tc)
	case tc.Lookup != nil:
		out.class, out.err = reg.Class(tc.Lookup)
	default:
		return TestResult{
			Test:       test,
			Skipped:    true,
			SkipReason: "no lookup/build/new",
		}
	}

	passed, err := checkExpectation(tc, reg, out)
	return TestResult{
		Test:   test,
		Passed: passed,
		Error:  err,
	}
}

// RunAll executes all loaded tests
func (r *Runner) RunAll(tests []LoadedTest) []TestResult {
	results := make([]TestResult, len(tests))
	for i, test := range tests {
		results[i] = r.Run(test)
	}
	return results
}

// build defines one class with the suite's shared methods in scope
func build(reg *class.Registry, suite *TestSuite, def *loader.ClassDef) outcome {
	built, err := loader.Load(reg, &loader.Document{
		Shared:  suite.Shared,
		Classes: []loader.ClassDef{*def},
	})
	if err != nil {
		return outcome{err: err}
	}
	return outcome{class: built[0]}
}

// instantiate creates an instance and, when the test names one, calls a method on it
func instantiate(reg *class.Registry, tc TestCase) outcome {
	inst, err := reg.New(tc.New.Class, tc.New.Args...)
	if err != nil {
		return outcome{err: err}
	}

	out := outcome{class: inst.Class(), inst: inst}
	if tc.Call != "" {
		out.value, out.err = inst.Call(tc.Call, tc.Args...)
	}
	return out
}

// SummaryStats computes statistics from test results
type SummaryStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// ComputeStats generates statistics from test results
func ComputeStats(results []TestResult) SummaryStats {
	stats := SummaryStats{Total: len(results)}
	for _, r := range results {
		if r.Skipped {
			stats.Skipped++
		} else if r.Passed {
			stats.Passed++
		} else {
			stats.Failed++
		}
	}
	return stats
}

// FormatStats returns a human-readable summary
func FormatStats(stats SummaryStats) string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped (%d total)",
		stats.Passed, stats.Failed, stats.Skipped, stats.Total)
}

// checkExpectation checks if the outcome matches the expected one
func checkExpectation(tc TestCase, reg *class.Registry, out outcome) (bool, error) {
	expect := tc.Expect
	if expect.IsEmpty() {
		return false, fmt.Errorf("no expectation specified")
	}

	if expect.Len != nil && reg.Len() != *expect.Len {
		return false, fmt.Errorf("expected %d registered classes, got %d", *expect.Len, reg.Len())
	}

	if expect.Error != "" {
		expectedErr, ok := types.ErrorFromString(expect.Error)
		if !ok {
			return false, fmt.Errorf("unknown error kind: %s", expect.Error)
		}
		if out.err == nil {
			return false, fmt.Errorf("expected error %s, got value: %v", expect.Error, out.value)
		}
		if code := types.CodeOf(out.err); code != expectedErr {
			return false, fmt.Errorf("expected error %s, got %v", expect.Error, out.err)
		}
		return true, nil
	}

	if out.err != nil {
		return false, fmt.Errorf("unexpected error: %v", out.err)
	}

	if expect.Class != "" {
		if out.class == nil {
			return false, fmt.Errorf("expected class %s, got none", expect.Class)
		}
		if out.class.Label() != expect.Class {
			return false, fmt.Errorf("expected class %s, got %s", expect.Class, out.class.Label())
		}
	}

	if expect.Nil && out.value != nil {
		return false, fmt.Errorf("expected nil, got %v", out.value)
	}

	if expect.Value != nil {
		if out.value == nil {
			return false, fmt.Errorf("expected %v, got nil", expect.Value)
		}
		if !reflect.DeepEqual(normalize(expect.Value), normalize(out.value)) {
			return false, fmt.Errorf("expected %v, got %v", expect.Value, out.value)
		}
	}

	if expect.Output != nil {
		if out.inst == nil {
			return false, fmt.Errorf("output expected but the test created no instance")
		}
		got := loader.Output(out.inst)
		if !reflect.DeepEqual(got, expect.Output) {
			return false, fmt.Errorf("expected output [%s], got [%s]",
				strings.Join(expect.Output, ", "), strings.Join(got, ", "))
		}
	}

	if expect.Chain != nil {
		if out.class == nil || tc.Call == "" {
			return false, fmt.Errorf("chain expected but the test has no class or call")
		}
		var got []string
		for _, d := range out.class.SuperChain(tc.Call) {
			got = append(got, d.Label())
		}
		if !reflect.DeepEqual(got, expect.Chain) {
			return false, fmt.Errorf("expected chain [%s], got [%s]",
				strings.Join(expect.Chain, ", "), strings.Join(got, ", "))
		}
	}

	return true, nil
}

// normalize maps decoded numbers to float64 so that YAML ints and
// method results compare by value
func normalize(v any) any {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return float64(val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = normalize(elem)
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = elem
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = normalize(elem)
		}
		return out
	default:
		return v
	}
}
