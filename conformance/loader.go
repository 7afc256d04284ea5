package conformance

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the suite directory, relative to this package
const DefaultPath = "testdata"

// LoadedTest represents a test with its source file path
type LoadedTest struct {
	File  string
	Suite *TestSuite
	Test  TestCase
}

// LoadAllTests walks dir and loads every test case of every .yaml file,
// in file name order
func LoadAllTests(dir string) ([]LoadedTest, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var loaded []LoadedTest
	for _, path := range files {
		suite, err := LoadSuite(path)
		if err != nil {
			return nil, err
		}

		relPath, _ := filepath.Rel(dir, path)
		for _, test := range suite.Tests {
			loaded = append(loaded, LoadedTest{
				File:  relPath,
				Suite: suite,
				Test:  test,
			})
		}
	}

	return loaded, nil
}

// LoadSuite parses a single YAML suite file
func LoadSuite(path string) (*TestSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var suite TestSuite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if suite.Name == "" {
		suite.Name = filepath.Base(path)
	}
	return &suite, nil
}
