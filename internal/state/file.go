package state

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/enumig/internal/enerr"
	"github.com/hlop3z/enumig/internal/enumset"
)

// stateFile is the on-disk YAML model of a registry.
type stateFile struct {
	Enums   map[string]enumEntry `yaml:"enums"`
	Columns []ColumnRef          `yaml:"columns,omitempty"`
}

type enumEntry struct {
	Values []string `yaml:"values"`
}

// Load reads a registry from a YAML state file.
// A missing file yields an empty registry, so a fresh project needs no setup.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewRegistry(), nil
		}
		return nil, enerr.Wrap(enerr.ErrStateInvalid, err, "failed to read state file").
			With("path", path)
	}

	var sf stateFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, enerr.Wrap(enerr.ErrStateInvalid, err, "failed to parse state file").
			With("path", path)
	}

	r := NewRegistry()
	for name, entry := range sf.Enums {
		r.SetEnumSnapshot(name, enumset.New(name, entry.Values...))
	}
	for _, col := range sf.Columns {
		if err := r.AddColumn(col); err != nil {
			return nil, enerr.Wrap(enerr.ErrStateInvalid, err, "invalid column entry in state file").
				With("path", path)
		}
	}
	return r, nil
}

// Save writes the registry to a YAML state file, creating parent
// directories as needed.
func (r *Registry) Save(path string) error {
	sf := stateFile{
		Enums:   make(map[string]enumEntry, len(r.enums)),
		Columns: r.columns,
	}
	for name, snap := range r.enums {
		sf.Enums[name] = enumEntry{Values: snap.Values()}
	}

	data, err := yaml.Marshal(&sf)
	if err != nil {
		return enerr.Wrap(enerr.ErrStateInvalid, err, "failed to encode state file")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return enerr.Wrap(enerr.ErrStateInvalid, err, "failed to create state directory").
				With("path", dir)
		}
	}
	return os.WriteFile(path, data, 0644)
}
