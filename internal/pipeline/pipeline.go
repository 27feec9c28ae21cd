// Package pipeline defines the kittenci.yaml schema, its validation rules
// and the expansion of the version matrix into independent job specs.
package pipeline

// Pipeline is a parsed pipeline file.
type Pipeline struct {
	Name   string            `yaml:"name"`            // pipeline name, also the job name prefix
	Matrix Matrix            `yaml:"matrix"`          // version axis jobs fan out over
	Setup  string            `yaml:"setup,omitempty"` // optional provisioning command, run before the steps
	Env    map[string]string `yaml:"env,omitempty"`   // run-wide environment
	Steps  []Step            `yaml:"steps"`           // ordered step list, shared by every job
}

// Matrix is a single named axis of version values. One job is created per
// value; values keep file order.
type Matrix struct {
	Axis   string   `yaml:"axis"`
	Values []string `yaml:"values"`
}

// Step is a single named shell command inside a job.
type Step struct {
	Name string `yaml:"name"`
	Run  string `yaml:"run"`
}
