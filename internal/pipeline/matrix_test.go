package pipeline

import "testing"

func testPipeline() *Pipeline {
	return &Pipeline{
		Name:   "kitten",
		Matrix: Matrix{Axis: "python", Values: []string{"3.6", "3.7"}},
		Setup:  "pyenv local {{python}}",
		Env:    map[string]string{"VERSION_TAG": "py{{python}}"},
		Steps: []Step{
			{Name: "install", Run: "pip install ."},
			{Name: "smoke", Run: "python{{python}} -c 'import kitten'"},
		},
	}
}

func TestExpandOneJobPerValue(t *testing.T) {
	jobs := testPipeline().Expand()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	// Jobs keep matrix file order and follow the <name>-<value> convention.
	if jobs[0].Name != "kitten-3.6" || jobs[1].Name != "kitten-3.7" {
		t.Errorf("unexpected job names: %q, %q", jobs[0].Name, jobs[1].Name)
	}
	if jobs[0].MatrixValue != "3.6" || jobs[1].MatrixValue != "3.7" {
		t.Errorf("unexpected matrix values: %q, %q", jobs[0].MatrixValue, jobs[1].MatrixValue)
	}
}

func TestExpandInterpolation(t *testing.T) {
	jobs := testPipeline().Expand()

	if jobs[1].Setup != "pyenv local 3.7" {
		t.Errorf("setup not interpolated: %q", jobs[1].Setup)
	}
	if jobs[1].Steps[1].Run != "python3.7 -c 'import kitten'" {
		t.Errorf("step not interpolated: %q", jobs[1].Steps[1].Run)
	}
	if jobs[1].Env["VERSION_TAG"] != "py3.7" {
		t.Errorf("env not interpolated: %q", jobs[1].Env["VERSION_TAG"])
	}
}

func TestExpandExportsMatrixEnv(t *testing.T) {
	jobs := testPipeline().Expand()
	if got := jobs[0].Env["KITTENCI_MATRIX_PYTHON"]; got != "3.6" {
		t.Errorf("expected matrix export 3.6, got %q", got)
	}
}

func TestExpandKeepsStepOrder(t *testing.T) {
	jobs := testPipeline().Expand()
	for _, j := range jobs {
		if j.Steps[0].Name != "install" || j.Steps[1].Name != "smoke" {
			t.Errorf("job %s reordered steps: %v", j.Name, j.Steps)
		}
	}
}

func TestMatrixEnvKeySanitizesAxis(t *testing.T) {
	p := testPipeline()
	p.Matrix.Axis = "node-version"
	p.Setup = ""
	jobs := p.Expand()
	if _, ok := jobs[0].Env["KITTENCI_MATRIX_NODE_VERSION"]; !ok {
		t.Errorf("expected sanitized export key, got env %v", jobs[0].Env)
	}
}
