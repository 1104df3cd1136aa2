// Package staticcols builds ordered static column sets for csvin.
package staticcols

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"csvreader/internal/csvin"
)

var ErrInvalid = errors.New("staticcols: invalid static column")

// Parse turns "name=value" pairs into static columns, keeping their order.
func Parse(pairs []string) (csvin.StaticColumns, error) {
	out := make(csvin.StaticColumns, 0, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q (want name=value)", ErrInvalid, p)
		}
		var err error
		if out, err = add(out, strings.TrimSpace(name), value); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Load reads a YAML or JSON file holding one mapping of column name to value.
// Columns keep the order in which the file lists them.
func Load(path string) (csvin.StaticColumns, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil, errors.New("unsupported static columns file format (use .json or .yaml/.yml)")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalid, path)
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s must hold a mapping (line %d)", ErrInvalid, path, m.Line)
	}

	out := make(csvin.StaticColumns, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: %s line %d: only scalar names and values", ErrInvalid, path, k.Line)
		}
		value := v.Value
		if v.Tag == "!!null" {
			value = ""
		}
		if out, err = add(out, k.Value, value); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, k.Line, err)
		}
	}
	return out, nil
}

func add(cols csvin.StaticColumns, name, value string) (csvin.StaticColumns, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalid)
	}
	for _, c := range cols {
		if strings.EqualFold(c.Name, name) {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalid, name)
		}
	}
	return append(cols, csvin.StaticColumn{Name: name, Value: value}), nil
}
