package loader

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"lineage/class"
)

// Format is a document encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the format from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown document format for %s (want .yaml, .yml or .toml)", path)
	}
}

// Parse decodes a document
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, fmt.Errorf("parsing toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parsing toml: unknown keys %v", undecoded)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	doc.Digest = Digest(data)
	return &doc, nil
}

// Digest identifies a document's source bytes (BLAKE2b-256, hex)
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ReadFile reads and parses a document, choosing the format by extension
func ReadFile(path string) (*Document, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadFile reads a document and builds its classes into reg
func LoadFile(reg *class.Registry, path string) ([]*class.Descriptor, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(reg, doc)
}

// Load builds the document's classes in order. It stops at the first
// failure and returns the classes built before it.
func Load(reg *class.Registry, doc *Document) ([]*class.Descriptor, error) {
	shared, err := compileShared(doc.Shared)
	if err != nil {
		return nil, err
	}

	var built []*class.Descriptor
	for i, def := range doc.Classes {
		spec, err := def.spec(reg, shared)
		if err != nil {
			return built, fmt.Errorf("classes[%d] (%s): %w", i, def.Name, err)
		}
		d, err := reg.Build(spec)
		if err != nil {
			return built, fmt.Errorf("classes[%d] (%s): %w", i, def.Name, err)
		}
		built = append(built, d)
	}
	return built, nil
}

func compileShared(defs map[string]MethodDef) (map[string]*class.Method, error) {
	shared := make(map[string]*class.Method, len(defs))
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := defs[name]
		if def.Shared != "" {
			return nil, fmt.Errorf("shared method %q cannot reference another shared method", name)
		}
		shared[name] = class.NewMethod(compileMethod(def.Steps))
	}
	return shared, nil
}

// spec converts a definition to a class.Spec
func (def ClassDef) spec(reg *class.Registry, shared map[string]*class.Method) (class.Spec, error) {
	spec := class.Spec{
		Name:       def.Name,
		Members:    make(map[string]any, len(def.Members)+len(def.Methods)),
		Inherits:   refList(reg, def.Name, "inherits", def.Inherits, def.Inherit),
		Interfaces: refList(reg, def.Name, "interfaces", def.Interfaces, def.Interface),
	}

	for name, v := range def.Members {
		spec.Members[name] = v
	}

	for name, m := range def.Methods {
		if _, clash := def.Members[name]; clash {
			return class.Spec{}, fmt.Errorf("%q is both a member and a method", name)
		}
		method, err := m.method(shared)
		if err != nil {
			return class.Spec{}, fmt.Errorf("method %q: %w", name, err)
		}
		spec.Members[name] = method
	}

	if def.Constructor != nil {
		if def.Constructor.Shared != "" {
			return class.Spec{}, fmt.Errorf("constructor cannot reference shared method %q", def.Constructor.Shared)
		}
		spec.Constructor = compileConstructor(def.Constructor.Steps)
	}

	return spec, nil
}

func (m MethodDef) method(shared map[string]*class.Method) (*class.Method, error) {
	if m.Shared == "" {
		return class.NewMethod(compileMethod(m.Steps)), nil
	}
	if len(m.Steps) > 0 {
		return nil, fmt.Errorf("both shared %q and inline steps given", m.Shared)
	}
	method, ok := shared[m.Shared]
	if !ok {
		return nil, fmt.Errorf("unknown shared method %q", m.Shared)
	}
	return method, nil
}

// refList merges the plural and singular reference keys. The plural list
// wins when both are present.
func refList(reg *class.Registry, className, key string, plural []any, singular any) []any {
	if singular == nil {
		return plural
	}
	if plural != nil {
		reg.Tracer().Diagnostic("Warning", fmt.Sprintf("class '%s' sets both %s and its singular form; using %s", className, key, key))
		return plural
	}
	return []any{singular}
}
