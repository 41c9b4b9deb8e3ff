// Package seed reads the initial contents of a record store from disk.
package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"person-registry/internal/registry"

	"github.com/BurntSushi/toml"
)

var ErrUnsupportedFormat = errors.New("seed: unsupported file format")

type file struct {
	People []registry.Person `json:"people" toml:"people"`
}

// Load returns the records in path in file order.
// An empty path yields no records. Supported formats are .json and .toml.
func Load(path string) ([]registry.Person, error) {
	if path == "" {
		return nil, nil
	}

	var f file
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", path, err)
		}
		if err := json.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("seed %s: decode json: %w", path, err)
		}
	case ".toml":
		if _, err := toml.DecodeFile(path, &f); err != nil {
			return nil, fmt.Errorf("seed %s: decode toml: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	return f.People, nil
}
