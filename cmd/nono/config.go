package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Config is the optional JSONC profile file read via --config/-c. spec.md
// §6 marks --config "Reserved; currently inert" at the core level; this
// binary gives it a small concrete schema (modeled on the teacher's own
// config.go) instead of leaving it a no-op: a set of default grants merged
// ahead of this invocation's own flags.
//
// Comments are supported in both .json and .jsonc files via hujson, the
// same as the teacher's config loader.
type Config struct {
	Allow     []string `json:"allow,omitempty"`
	Read      []string `json:"read,omitempty"`
	Write     []string `json:"write,omitempty"`
	AllowFile []string `json:"allowFile,omitempty"`
	ReadFile  []string `json:"readFile,omitempty"`
	WriteFile []string `json:"writeFile,omitempty"`
	NetBlock  bool     `json:"netBlock,omitempty"`
}

// LoadConfig reads and parses the JSONC config file at path. An empty path
// returns the zero Config: --config is optional, and omitting it means no
// default grants are merged in.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	var cfg Config

	decoder := json.NewDecoder(bytes.NewReader(standardized))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
