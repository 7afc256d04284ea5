// Package loader builds classes from declarative YAML or TOML documents.
// Method bodies are short step lists, so a document fully describes a class
// hierarchy and how its methods cooperate through Super.
package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is a set of class definitions built in order
type Document struct {
	// Shared method bodies; every reference to one name shares a single
	// implementation identity
	Shared  map[string]MethodDef `yaml:"shared,omitempty" toml:"shared"`
	Classes []ClassDef           `yaml:"classes" toml:"classes"`

	// Digest of the source bytes, set by Parse
	Digest string `yaml:"-" toml:"-"`
}

// ClassDef describes one class
type ClassDef struct {
	Name        string               `yaml:"name,omitempty" toml:"name"`
	Members     map[string]any       `yaml:"members,omitempty" toml:"members"`
	Methods     map[string]MethodDef `yaml:"methods,omitempty" toml:"methods"`
	Constructor *MethodDef           `yaml:"constructor,omitempty" toml:"constructor"`
	Inherits    []any                `yaml:"inherits,omitempty" toml:"inherits"`
	Inherit     any                  `yaml:"inherit,omitempty" toml:"inherit"`
	Interfaces  []any                `yaml:"interfaces,omitempty" toml:"interfaces"`
	Interface   any                  `yaml:"interface,omitempty" toml:"interface"`
}

// MethodDef is either a reference to a shared body or an inline step list
type MethodDef struct {
	Shared string `yaml:"shared,omitempty" toml:"shared"`
	Steps  []Step `yaml:"steps,omitempty" toml:"steps"`
}

// Step performs the actions that are set, in field order:
// value, get, super, call, emit, set, return. In YAML an explicit
// "value: null" sets the result to nil.
//
// Expressions are literals, except strings starting with '$':
// "$result" (current result), "$args" (argument list), "$0".."$N"
// (one argument) and "$.name" (instance member). "$$" escapes a literal '$'.
type Step struct {
	Value  any    `yaml:"value,omitempty" toml:"value"`
	Get    string `yaml:"get,omitempty" toml:"get"`
	Super  bool   `yaml:"super,omitempty" toml:"super"`
	Call   string `yaml:"call,omitempty" toml:"call"`
	With   []any  `yaml:"with,omitempty" toml:"with"` // arguments for super/call; default: the method's own
	Emit   any    `yaml:"emit,omitempty" toml:"emit"`
	Set    string `yaml:"set,omitempty" toml:"set"`
	Return bool   `yaml:"return,omitempty" toml:"return"`

	hasValue bool // value key present, even as null
}

var stepKeys = map[string]bool{
	"value": true, "get": true, "super": true, "call": true,
	"with": true, "emit": true, "set": true, "return": true,
}

// UnmarshalYAML decodes a step and records whether "value" was given, so
// that "value: null" resets the result
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	type plain Step
	if err := node.Decode((*plain)(s)); err != nil {
		return err
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !stepKeys[key.Value] {
			return fmt.Errorf("line %d: field %s not found in type loader.Step", key.Line, key.Value)
		}
		if key.Value == "value" {
			s.hasValue = true
		}
	}
	return nil
}

// OutputField is the instance field that emit steps append to
const OutputField = "out"
