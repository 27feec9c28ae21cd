package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const fullPipeline = `
name: kitten
matrix:
  axis: python
  values: ["3.6", "3.7"]
setup: "pyenv local {{python}}"
env:
  PIP_DISABLE_PIP_VERSION_CHECK: "1"
steps:
  - name: install
    run: "pip install ."
  - name: smoke
    run: "kitten --version"
  - name: tools
    run: "pip install flake8 check-manifest"
  - name: lint
    run: "flake8 --max-line-length 88 --ignore E203,E501"
  - name: pack-check
    run: "check-manifest"
  - name: test
    run: "python -m pytest"
`

func TestParseFullPipeline(t *testing.T) {
	p, err := Parse([]byte(fullPipeline))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if p.Name != "kitten" {
		t.Errorf("expected name kitten, got %q", p.Name)
	}
	if p.Matrix.Axis != "python" {
		t.Errorf("expected axis python, got %q", p.Matrix.Axis)
	}
	if len(p.Matrix.Values) != 2 {
		t.Fatalf("expected 2 matrix values, got %d", len(p.Matrix.Values))
	}
	if len(p.Steps) != 6 {
		t.Fatalf("expected 6 steps, got %d", len(p.Steps))
	}
	if p.Steps[3].Run != "flake8 --max-line-length 88 --ignore E203,E501" {
		t.Errorf("unexpected lint command: %q", p.Steps[3].Run)
	}
	if p.Env["PIP_DISABLE_PIP_VERSION_CHECK"] != "1" {
		t.Errorf("env not parsed: %v", p.Env)
	}
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("steps: [")); err == nil {
		t.Fatal("expected parse error for broken YAML")
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing name", `
matrix: {axis: python, values: ["3.6"]}
steps: [{name: a, run: "echo hi"}]
`},
		{"missing axis", `
name: p
matrix: {values: ["3.6"]}
steps: [{name: a, run: "echo hi"}]
`},
		{"no matrix values", `
name: p
matrix: {axis: python, values: []}
steps: [{name: a, run: "echo hi"}]
`},
		{"duplicate matrix value", `
name: p
matrix: {axis: python, values: ["3.6", "3.6"]}
steps: [{name: a, run: "echo hi"}]
`},
		{"no steps", `
name: p
matrix: {axis: python, values: ["3.6"]}
steps: []
`},
		{"unnamed step", `
name: p
matrix: {axis: python, values: ["3.6"]}
steps: [{run: "echo hi"}]
`},
		{"duplicate step name", `
name: p
matrix: {axis: python, values: ["3.6"]}
steps: [{name: a, run: "echo hi"}, {name: a, run: "echo again"}]
`},
		{"empty command", `
name: p
matrix: {axis: python, values: ["3.6"]}
steps: [{name: a, run: ""}]
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kittenci.yaml")
	if err := os.WriteFile(path, []byte(fullPipeline), 0o644); err != nil {
		t.Fatalf("write pipeline: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if p.Name != "kitten" {
		t.Errorf("expected name kitten, got %q", p.Name)
	}
}
