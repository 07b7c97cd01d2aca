package rules

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Tuning adjusts the default rule set from a rules.yaml file.
type Tuning struct {
	Disabled      []string           `yaml:"disabled"`
	Probabilities map[string]float64 `yaml:"probabilities"`
}

// LoadTuning reads a tuning file. A missing file yields an empty Tuning.
func LoadTuning(path string) (Tuning, error) {
	var t Tuning
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return t, nil
		}
		return t, fmt.Errorf("failed to read rule tuning: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("failed to parse rule tuning %s: %w", path, err)
	}
	return t, nil
}

// ApplyTuning disables rules and overrides probabilities. Unknown names are rejected.
func (s *Set) ApplyTuning(t Tuning) error {
	for _, name := range t.Disabled {
		if err := s.Disable(name); err != nil {
			return err
		}
	}

	keys := make([]string, 0, len(t.Probabilities))
	for k := range t.Probabilities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, ok := s.odds[key]; !ok {
			return fmt.Errorf("%w: no probability named %s", ErrUnknownRule, key)
		}
		if err := s.SetOdds(key, t.Probabilities[key]); err != nil {
			return err
		}
	}
	return nil
}

// Marshal renders t as YAML.
func (t Tuning) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}
