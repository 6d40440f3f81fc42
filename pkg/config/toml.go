package config

import (
	"bytes"

	"github.com/BurntSushi/toml"
)

// TOML is a koanf parser backed by github.com/BurntSushi/toml.
type TOML struct{}

// TOMLParser returns a TOML parser for koanf.Load.
func TOMLParser() *TOML { return &TOML{} }

// Unmarshal parses TOML bytes into a nested map.
func (p *TOML) Unmarshal(b []byte) (map[string]any, error) {
	var out map[string]any
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal encodes a nested map as TOML.
func (p *TOML) Marshal(m map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
