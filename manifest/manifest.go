// Package manifest handles bfk.toml program manifests.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a bfk.toml file: project metadata plus a catalog
// of named programs that the CLI can run by name.
type Manifest struct {
	Project  Project          `toml:"project"`
	Programs map[string]Entry `toml:"programs"`

	// Dir is the directory containing the bfk.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Entry is a single named program.
type Entry struct {
	Path        string `toml:"path"`
	Description string `toml:"description"`
}

// Load parses a bfk.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "bfk.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a bfk.toml file, then loads
// and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", startDir, err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "bfk.toml")); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Resolve returns the path of a named program, resolved relative to the
// manifest's directory.
func (m *Manifest) Resolve(name string) (string, error) {
	entry, ok := m.Programs[name]
	if !ok {
		return "", fmt.Errorf("no program %q in %s", name, filepath.Join(m.Dir, "bfk.toml"))
	}
	if filepath.IsAbs(entry.Path) {
		return entry.Path, nil
	}
	return filepath.Join(m.Dir, entry.Path), nil
}

// Names returns the names of all programs in the manifest.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Programs))
	for name := range m.Programs {
		names = append(names, name)
	}
	return names
}
