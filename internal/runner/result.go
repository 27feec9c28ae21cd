package runner

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a job or run.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
)

// StepError reports a step that exited non-zero or was cut off by the step
// timeout. It fails the owning job immediately; later steps do not run.
type StepError struct {
	Job      string
	Step     string
	ExitCode int
	TimedOut bool
}

func (e *StepError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("job %s: step %s timed out", e.Job, e.Step)
	}
	return fmt.Sprintf("job %s: step %s exited with status %d", e.Job, e.Step, e.ExitCode)
}

// StepResult is the outcome of one executed step.
type StepResult struct {
	Name     string        `json:"name"`
	ExitCode int           `json:"exitCode"`
	Duration time.Duration `json:"duration"`
	LogPath  string        `json:"logPath,omitempty"`
	TimedOut bool          `json:"timedOut,omitempty"`
}

// JobResult is the outcome of one matrix job. Steps holds only the steps
// that actually ran; a failed job's list ends at the failing step.
type JobResult struct {
	Job         string       `json:"job"`
	MatrixValue string       `json:"matrixValue"`
	Status      Status       `json:"status"`
	Steps       []StepResult `json:"steps"`
	FailedStep  string       `json:"failedStep,omitempty"`
}

// RunResult aggregates a whole matrix run. Passed is the logical AND over
// all jobs.
type RunResult struct {
	RunID    string      `json:"runId"`
	Pipeline string      `json:"pipeline"`
	Jobs     []JobResult `json:"jobs"`
	Passed   bool        `json:"passed"`
}
