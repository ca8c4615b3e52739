// Package config manages the small set of operator-facing defaults that
// are more convenient to override in a file than on the command line.
// Defaults are loaded from an embedded YAML file; an optional overlay file
// at a path supplied via -config replaces any fields it sets.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config.default.yaml
var defaultYAML []byte

// Data holds the serialisable operator configuration.
type Data struct {
	TimeStyle             string `yaml:"time_style"`
	HistoryRetentionDays  int    `yaml:"history_retention_days"`
}

// Global is a thread-safe wrapper around Data, read by every connection
// handler and updated only at startup.
type Global struct {
	mu   sync.RWMutex
	data Data
}

// Load builds a Global from the embedded defaults, optionally overlaid by
// the YAML file at path (no error if path is empty or does not exist).
func Load(path string) (*Global, error) {
	g := &Global{data: defaults()}
	if path == "" {
		return g, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return g, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &g.data); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return g, nil
}

func defaults() Data {
	var d Data
	_ = yaml.Unmarshal(defaultYAML, &d)
	return d
}

// Get returns a thread-safe copy of the current configuration.
func (g *Global) Get() Data {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.data
}
