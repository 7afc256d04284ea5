package conformance

import (
	"lineage/loader"
)

// TestSuite represents a complete YAML test file. The suite's classes are
// built into a fresh registry before its first test runs.
type TestSuite struct {
	Name            string `yaml:"name"`
	Description     string `yaml:"description,omitempty"`
	loader.Document `yaml:",inline"`
	Tests           []TestCase `yaml:"tests"`
}

// TestCase represents a single test within a suite. Exactly one of
// Lookup, Build or New drives the test.
type TestCase struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Skip        interface{}      `yaml:"skip,omitempty"` // bool or string
	Lookup      interface{}      `yaml:"lookup,omitempty"`
	Build       *loader.ClassDef `yaml:"build,omitempty"`
	New         *NewBlock        `yaml:"new,omitempty"`
	Call        string           `yaml:"call,omitempty"`
	Args        []interface{}    `yaml:"args,omitempty"`
	Expect      Expectation      `yaml:"expect"`
}

// NewBlock instantiates a class
type NewBlock struct {
	Class interface{}   `yaml:"class"` // id or name
	Args  []interface{} `yaml:"args,omitempty"`
}

// Expectation defines what result is expected from a test
type Expectation struct {
	Value  interface{} `yaml:"value,omitempty"`  // exact match
	Nil    bool        `yaml:"nil,omitempty"`    // result must be nil
	Error  string      `yaml:"error,omitempty"`  // NotFound, NameCollision, etc.
	Class  string      `yaml:"class,omitempty"`  // label of the looked-up or built class
	Output []string    `yaml:"output,omitempty"` // emit steps, in order
	Chain  []string    `yaml:"chain,omitempty"`  // Super plan for Call
	Len    *int        `yaml:"len,omitempty"`    // registry size afterwards
}

// IsSkipped returns true if this test should be skipped
func (tc *TestCase) IsSkipped() (bool, string) {
	if tc.Skip == nil {
		return false, ""
	}

	switch v := tc.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
		return false, ""
	case string:
		return true, v
	default:
		return false, ""
	}
}

// IsEmpty reports whether the expectation checks nothing
func (e Expectation) IsEmpty() bool {
	return e.Value == nil && !e.Nil && e.Error == "" && e.Class == "" &&
		e.Output == nil && e.Chain == nil && e.Len == nil
}
