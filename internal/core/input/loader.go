package input

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("input: unsupported bindings file format")

// File is the on-disk layout of a bindings file, in YAML:
//
//	bindings:
//	  attack: space
//	unbind: [run]
//
// or the TOML equivalent with a [bindings] table.
type File struct {
	Bindings map[string]string `yaml:"bindings" toml:"bindings"`
	Unbind   []string          `yaml:"unbind" toml:"unbind"`
}

// Apply overlays f on b. Entries are applied in sorted action order so the
// result does not depend on map iteration.
func (f File) Apply(b *Bindings) error {
	for _, action := range f.Unbind {
		b.Unbind(action)
	}
	var errs []error
	for _, action := range slices.Sorted(maps.Keys(f.Bindings)) {
		key, err := ParseKey(f.Bindings[action])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", action, err))
			continue
		}
		b.Bind(action, key)
	}
	return errors.Join(errs...)
}

// LoadYAML reads a YAML bindings file from r and overlays it on the defaults.
func LoadYAML(r io.Reader) (*Bindings, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("input: decode yaml bindings: %w", err)
	}
	b := DefaultBindings()
	if err := f.Apply(b); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadTOML reads a TOML bindings file and overlays it on the defaults.
func LoadTOML(path string) (*Bindings, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("input: decode toml bindings: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("input: unknown keys in %s: %v", path, undecoded)
	}
	b := DefaultBindings()
	if !meta.IsDefined("bindings") && !meta.IsDefined("unbind") {
		return b, nil
	}
	if err = f.Apply(b); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadFile picks the decoder from the file extension. An empty path yields
// the defaults.
func LoadFile(path string) (*Bindings, error) {
	if path == "" {
		return DefaultBindings(), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return LoadTOML(path)
	case ".yaml", ".yml":
		fh, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("input: open bindings: %w", err)
		}
		defer fh.Close()
		return LoadYAML(fh)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}
