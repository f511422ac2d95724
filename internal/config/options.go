package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ErrEmptyOption is returned when an entry has neither a label nor a value.
var ErrEmptyOption = errors.New("option needs a label or a value")

// OptionEntry is one selectable row in an options file.
type OptionEntry struct {
	Label    string `yaml:"label"`
	Value    string `yaml:"value,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
	Icon     string `yaml:"icon,omitempty"`
}

// OptionsFile represents an options YAML document.
type OptionsFile struct {
	Placeholder string        `yaml:"placeholder,omitempty"`
	Options     []OptionEntry `yaml:"options"`
}

// ParseOptions parses options YAML. A missing value defaults to the label and
// a missing label defaults to the value.
func ParseOptions(data []byte) (OptionsFile, error) {
	var f OptionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return OptionsFile{}, fmt.Errorf("parsing options: %w", err)
	}
	for i := range f.Options {
		e := &f.Options[i]
		switch {
		case e.Label == "" && e.Value == "":
			return OptionsFile{}, fmt.Errorf("option %d: %w", i, ErrEmptyOption)
		case e.Value == "":
			e.Value = e.Label
		case e.Label == "":
			e.Label = e.Value
		}
	}
	return f, nil
}

// MarshalOptions serializes an OptionsFile to YAML bytes.
func MarshalOptions(f OptionsFile) ([]byte, error) {
	return yaml.Marshal(f)
}

// LoadOptions reads and parses an options file.
func LoadOptions(path string) (OptionsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return OptionsFile{}, fmt.Errorf("reading options: %w", err)
	}
	return ParseOptions(data)
}

// ReadLines builds options from newline-separated text, one option per
// non-blank line, with the line used as both label and value.
func ReadLines(r io.Reader) (OptionsFile, error) {
	var f OptionsFile
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		f.Options = append(f.Options, OptionEntry{Label: line, Value: line})
	}
	if err := scanner.Err(); err != nil {
		return OptionsFile{}, fmt.Errorf("reading options: %w", err)
	}
	return f, nil
}
