// Package yaml loads run configuration from YAML files.
package yaml

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/pagecrawl"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file looked up in the working
// directory when no path is given.
const DefaultConfigFile = ".pagecrawl.yaml"

// LoadConfig reads a YAML file over the built-in defaults.
// Keys absent from the file keep their default values; unknown keys are
// rejected. Returns ENOTFOUND if the file does not exist and EINVALID if it
// cannot be decoded. The result is not validated.
func LoadConfig(path string) (*pagecrawl.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, pagecrawl.Errorf(pagecrawl.ENOTFOUND, "config file %s not found", path)
		}
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over the built-in defaults.
func ParseConfig(data []byte) (*pagecrawl.Config, error) {
	cfg := pagecrawl.DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, pagecrawl.Errorf(pagecrawl.EINVALID, "invalid config: %v", err)
	}

	return cfg, nil
}

// FindConfigFile returns path if it is set, otherwise DefaultConfigFile in
// dir when it exists. Returns "" when there is nothing to load.
func FindConfigFile(path, dir string) string {
	if path != "" {
		return path
	}
	candidate := filepath.Join(dir, DefaultConfigFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}
