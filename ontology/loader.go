package ontology

import (
	"os"

	"github.com/teranos/standoff/errors"
)

// Loader produces an ontology snapshot.
// Failures are marked errors.ErrConfigUnavailable.
type Loader interface {
	Load() (*Config, error)
}

// FileLoader reads the document from disk on every call
type FileLoader struct {
	Path string
	// Format overrides detection by extension when set
	Format Format
}

// NewFileLoader creates a loader for path
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

// Load reads and parses the document.
func (l *FileLoader) Load() (*Config, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, errors.WithHint(
			errors.WrapConfigUnavailable(err, "read ontology "+l.Path),
			"set ontology.path in am.toml or pass --ontology",
		)
	}

	format := l.Format
	if format == "" {
		format = FormatOf(l.Path)
	}

	cfg, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", l.Path)
	}
	cfg.Source = l.Path
	return cfg, nil
}
