package pipeline

import (
	"fmt"
	"strings"
)

// JobSpec is one fully resolved job: the pipeline steps with every
// {{axis}} placeholder replaced by a single matrix value.
type JobSpec struct {
	Name        string // "<pipeline>-<value>"
	MatrixAxis  string
	MatrixValue string
	Setup       string // empty when the pipeline has no setup command
	Env         map[string]string
	Steps       []Step
}

// Expand turns the pipeline's matrix into one JobSpec per value, in file
// order. The matrix value is interpolated into setup, step commands and env
// values, and additionally exported as KITTENCI_MATRIX_<AXIS>.
func (p *Pipeline) Expand() []JobSpec {
	jobs := make([]JobSpec, 0, len(p.Matrix.Values))
	for _, value := range p.Matrix.Values {
		env := make(map[string]string, len(p.Env)+1)
		for k, v := range p.Env {
			env[k] = p.interpolate(v, value)
		}
		env[matrixEnvKey(p.Matrix.Axis)] = value

		steps := make([]Step, len(p.Steps))
		for i, s := range p.Steps {
			steps[i] = Step{Name: s.Name, Run: p.interpolate(s.Run, value)}
		}

		jobs = append(jobs, JobSpec{
			Name:        fmt.Sprintf("%s-%s", p.Name, value),
			MatrixAxis:  p.Matrix.Axis,
			MatrixValue: value,
			Setup:       p.interpolate(p.Setup, value),
			Env:         env,
			Steps:       steps,
		})
	}
	return jobs
}

func (p *Pipeline) interpolate(s, value string) string {
	return strings.ReplaceAll(s, "{{"+p.Matrix.Axis+"}}", value)
}

func matrixEnvKey(axis string) string {
	key := strings.ToUpper(axis)
	key = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, key)
	return "KITTENCI_MATRIX_" + key
}
