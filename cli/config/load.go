package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a shrinkwrap.yaml file, expands environment variables,
// and unmarshals into a Config struct.
//
// Unknown keys are rejected: the scalar shrinker options are silently
// absent when unset, so a typo'd key (`print_maping`) would otherwise
// turn into a missing report file with no warning. Validation beyond
// decoding is the caller's job; read-only commands load the file
// without requiring run settings.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	expanded := ExpandEnv(string(data))

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// An empty file decodes to an empty config; validation
			// reports what is missing.
			return &Config{}, nil
		}
		return nil, fmt.Errorf("invalid shrinkwrap.yaml in %s: %w", path, err)
	}

	return &cfg, nil
}
