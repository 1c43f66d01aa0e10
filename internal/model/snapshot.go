package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Baseline is a saved scan: the issues of one document at one time. It is
// what later scans carry ignore flags forward from.
type Baseline struct {
	Source    string    `yaml:"source,omitempty" json:"source,omitempty"`
	CreatedAt time.Time `yaml:"created_at"       json:"created_at"`
	Issues    []Issue   `yaml:"issues"           json:"issues"`
}

// EncodeBaseline serialises b as YAML, or JSON when asJSON is set.
func EncodeBaseline(b Baseline, asJSON bool) ([]byte, error) {
	if asJSON {
		data, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal baseline: %w", err)
		}
		return append(data, '\n'), nil
	}
	data, err := yaml.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal baseline: %w", err)
	}
	return data, nil
}

// DecodeBaseline parses a baseline written as JSON or YAML. A bare list of
// issues is accepted as well, so scan output can be reused as a baseline.
func DecodeBaseline(data []byte) (Baseline, error) {
	var b Baseline
	trimmed := strings.TrimSpace(string(data))
	var err error
	switch {
	case strings.HasPrefix(trimmed, "{"):
		err = json.Unmarshal(data, &b)
	case strings.HasPrefix(trimmed, "["):
		err = json.Unmarshal(data, &b.Issues)
	case strings.HasPrefix(trimmed, "- "):
		err = yaml.Unmarshal(data, &b.Issues)
	default:
		err = yaml.Unmarshal(data, &b)
	}
	if err != nil {
		return Baseline{}, fmt.Errorf("unmarshal baseline: %w", err)
	}
	return b, nil
}

// SaveBaseline writes b to path, as JSON when path ends in .json.
func SaveBaseline(path string, b Baseline) error {
	data, err := EncodeBaseline(b, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save baseline: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadBaseline reads a baseline written by SaveBaseline.
func LoadBaseline(path string) (Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Baseline{}, fmt.Errorf("load baseline: %w", err)
	}
	return DecodeBaseline(data)
}
