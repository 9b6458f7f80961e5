package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CurrentVersion is the schema version written by this build.
const CurrentVersion = 1

// Migration upgrades the payload of one slot kind from version N to N+1.
type Migration func(data json.RawMessage) (json.RawMessage, error)

// Schema holds the registered migrations per slot kind.
type Schema struct {
	migrations map[string]map[int]Migration
}

func NewSchema() *Schema {
	return &Schema{migrations: make(map[string]map[int]Migration)}
}

// Register installs the migration that upgrades kind from version from.
func (s *Schema) Register(kind string, from int, m Migration) {
	if s.migrations[kind] == nil {
		s.migrations[kind] = make(map[int]Migration)
	}
	s.migrations[kind][from] = m
}

type envelope struct {
	Version int             `json:"v"`
	Data    json.RawMessage `json:"data"`
}

// Decode unwraps a stored value and brings it to CurrentVersion. A value
// without an envelope is treated as version 0.
func (s *Schema) Decode(kind string, raw []byte) (json.RawMessage, int, error) {
	data, version, err := unwrap(raw)
	if err != nil {
		return nil, 0, err
	}
	if version > CurrentVersion {
		return nil, version, fmt.Errorf("schema version %d is newer than %d", version, CurrentVersion)
	}
	stored := version
	for version < CurrentVersion {
		if m := s.migrations[kind][version]; m != nil {
			if data, err = m(data); err != nil {
				return nil, stored, fmt.Errorf("failed to migrate %s from v%d: %w", kind, version, err)
			}
		}
		version++
	}
	return data, stored, nil
}

// Encode wraps data in a CurrentVersion envelope.
func (s *Schema) Encode(data []byte) ([]byte, error) {
	return json.Marshal(envelope{Version: CurrentVersion, Data: data})
}

func unwrap(raw []byte) (json.RawMessage, int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, 0, fmt.Errorf("empty value")
	}
	if trimmed[0] == '{' {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return nil, 0, err
		}
		v, hasV := probe["v"]
		d, hasData := probe["data"]
		if hasV && hasData && len(probe) == 2 {
			var version int
			if err := json.Unmarshal(v, &version); err != nil {
				return nil, 0, fmt.Errorf("invalid schema version: %w", err)
			}
			return d, version, nil
		}
	}
	if !json.Valid(trimmed) {
		return nil, 0, fmt.Errorf("value is not valid JSON")
	}
	return json.RawMessage(trimmed), 0, nil
}
