package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ValidationError reports a pipeline file that parsed but does not describe
// a runnable pipeline. It aborts a run before any job is created.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid pipeline: %s: %s", e.Field, e.Reason)
}

// Parse decodes and validates YAML pipeline content.
func Parse(data []byte) (*Pipeline, error) {
	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse pipeline: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads and parses a pipeline file.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline file: %w", err)
	}
	return Parse(data)
}

// Validate checks the structural rules every pipeline must satisfy.
func (p *Pipeline) Validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if p.Matrix.Axis == "" {
		return &ValidationError{Field: "matrix.axis", Reason: "must not be empty"}
	}
	if len(p.Matrix.Values) == 0 {
		return &ValidationError{Field: "matrix.values", Reason: "needs at least one value"}
	}
	seen := make(map[string]bool, len(p.Matrix.Values))
	for _, v := range p.Matrix.Values {
		if v == "" {
			return &ValidationError{Field: "matrix.values", Reason: "values must not be empty"}
		}
		if seen[v] {
			return &ValidationError{Field: "matrix.values", Reason: fmt.Sprintf("duplicate value %q", v)}
		}
		seen[v] = true
	}
	if len(p.Steps) == 0 {
		return &ValidationError{Field: "steps", Reason: "needs at least one step"}
	}
	names := make(map[string]bool, len(p.Steps))
	for i, s := range p.Steps {
		if s.Name == "" {
			return &ValidationError{Field: fmt.Sprintf("steps[%d].name", i), Reason: "must not be empty"}
		}
		if names[s.Name] {
			return &ValidationError{Field: fmt.Sprintf("steps[%d].name", i), Reason: fmt.Sprintf("duplicate step %q", s.Name)}
		}
		names[s.Name] = true
		if s.Run == "" {
			return &ValidationError{Field: fmt.Sprintf("steps[%d].run", i), Reason: "must not be empty"}
		}
	}
	return nil
}
