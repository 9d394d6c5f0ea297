// Package config loads rick's optional configuration file. It carries
// no domain (language) semantics of its own — only the three knobs
// SPEC_FULL.md's ambient stack defines: a scanner-enforced identifier
// length cap, a default trace-eval setting, and a default color
// setting — validated against an embedded JSON Schema the way the
// teacher validates parameter schemas in core/types/validation.go.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

// Config holds the settings a `.rickrc.json` file (or --config file)
// may supply. Zero values are rick's defaults: no identifier length
// cap, tracing off, color on.
type Config struct {
	MaxIdentifierLength int  `json:"max_identifier_length"`
	Trace               bool `json:"trace"`
	NoColor             bool `json:"no_color"`
}

// Default returns rick's built-in configuration, used when no config
// file is supplied.
func Default() *Config {
	return &Config{}
}

// Load reads, schema-validates, and parses the config file at path.
// A schema violation or malformed JSON is returned as an error; the
// caller (cmd/rick) treats it as a fatal invocation error, same as a
// bad CLI flag.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	const schemaURL = "schema://rickrc.json"
	if err := compiler.AddResource(schemaURL, strings.NewReader(string(schemaJSON))); err != nil {
		return nil, fmt.Errorf("internal error: loading config schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("internal error: compiling config schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("config %s failed validation: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	return cfg, nil
}
