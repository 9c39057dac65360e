package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns ~/.config/chordwm/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "chordwm", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file,
// or no home directory to look in, yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration at path on top of the defaults. A
// missing file yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	exists, err := pathExists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	lines, err := decode(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.File = path
			verr.Line = lines[verr.Path]
		}
		return nil, err
	}
	return cfg, nil
}

// decode overlays YAML onto cfg, rejecting unknown keys, and returns the line
// of every top-level key.
func decode(data []byte, cfg *Config) (map[string]int, error) {
	lines := make(map[string]int)

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
		root := doc.Content[0]
		for i := 0; i+1 < len(root.Content); i += 2 {
			lines[root.Content[i].Value] = root.Content[i].Line
		}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, err
	}
	return lines, nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
