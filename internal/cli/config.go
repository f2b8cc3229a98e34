package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up next to the models when --config is not set.
const ConfigFileName = "tixgen.yaml"

// Config is the optional project file. Command-line flags override it.
type Config struct {
	Features []string `yaml:"features,omitempty"`
	Strict   bool     `yaml:"strict,omitempty"`
	Output   string   `yaml:"output,omitempty"`
	Schema   string   `yaml:"schema,omitempty"`
	Ledger   string   `yaml:"ledger,omitempty"`
	// Order lists entity wire names to emit first, in this order.
	Order []string `yaml:"order,omitempty"`

	dir string
}

// LoadConfig reads a project file. Unknown keys are rejected. Relative
// output, schema and ledger paths are resolved against the file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	cfg.Output = cfg.resolve(cfg.Output)
	cfg.Schema = cfg.resolve(cfg.Schema)
	cfg.Ledger = cfg.resolve(cfg.Ledger)
	return &cfg, nil
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// findConfig loads explicit when set, else tixgen.yaml beside the models.
// A missing implicit file yields an empty config.
func findConfig(explicit, modelsPath string) (*Config, error) {
	if explicit != "" {
		return LoadConfig(explicit)
	}
	dir := modelsPath
	if info, err := os.Stat(modelsPath); err == nil && !info.IsDir() {
		dir = filepath.Dir(modelsPath)
	}
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return LoadConfig(path)
}
