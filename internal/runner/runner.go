// Package runner expands a pipeline's matrix into jobs and executes them
// under a bounded worker pool. Jobs are isolated from each other; steps
// within a job run strictly in order and the first failure halts the job.
package runner

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/hoffa/kittenci/internal/history"
	"github.com/hoffa/kittenci/internal/pipeline"
	"github.com/hoffa/kittenci/internal/storage"
	"github.com/hoffa/kittenci/pkg/hashutil"
)

// Options configures a Runner. Zero values fall back to sane defaults.
type Options struct {
	Workers     int           // max jobs in flight, default 10
	StepTimeout time.Duration // per-step limit, default 5m; 0 keeps the default
	Dir         string        // working directory for steps
	Logs        *storage.LogStore
	Journal     *history.Journal // optional
	Logger      *log.Logger
}

// Runner executes matrix runs.
type Runner struct {
	exec        *Executor
	logs        *storage.LogStore
	journal     *history.Journal
	workers     int
	stepTimeout time.Duration
	logger      *log.Logger
}

// New creates a Runner.
func New(opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 10
	}
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = 5 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "runner"})
	}
	return &Runner{
		exec:        NewExecutor(opts.Dir),
		logs:        opts.Logs,
		journal:     opts.Journal,
		workers:     opts.Workers,
		stepTimeout: opts.StepTimeout,
		logger:      opts.Logger,
	}
}

// Run executes every matrix job of the pipeline and returns the aggregated
// result. Job failures are part of the result, not the error; the error is
// reserved for infrastructure problems.
func (r *Runner) Run(ctx context.Context, p *pipeline.Pipeline) (*RunResult, error) {
	runID := newRunID()
	jobs := p.Expand()
	results := make([]JobResult, len(jobs))

	r.logger.Info("starting run", "run", runID, "pipeline", p.Name, "jobs", len(jobs))

	// Each worker writes only its own slot, so no locking is needed. The
	// group never receives an error: a failed job must not cancel its
	// siblings.
	g := new(errgroup.Group)
	g.SetLimit(r.workers)
	for i, spec := range jobs {
		g.Go(func() error {
			results[i] = r.runJob(ctx, runID, spec)
			return nil
		})
	}
	_ = g.Wait()

	res := &RunResult{RunID: runID, Pipeline: p.Name, Jobs: results, Passed: true}
	for _, jr := range results {
		if jr.Status != StatusPassed {
			res.Passed = false
		}
	}
	if res.Passed {
		r.logger.Info("run passed", "run", runID)
	} else {
		r.logger.Error("run failed", "run", runID)
	}
	return res, nil
}

func (r *Runner) runJob(ctx context.Context, runID string, spec pipeline.JobSpec) JobResult {
	jr := JobResult{Job: spec.Name, MatrixValue: spec.MatrixValue, Status: StatusRunning}
	env := buildEnv(spec.Env)

	steps := spec.Steps
	if spec.Setup != "" {
		steps = append([]pipeline.Step{{Name: "setup", Run: spec.Setup}}, steps...)
	}

	var logHashes string
	for i, step := range steps {
		sr, err := r.runStep(ctx, runID, spec.Name, i, step, env)
		jr.Steps = append(jr.Steps, sr)
		if sr.LogPath != "" {
			if h, hErr := hashutil.HashFile(sr.LogPath); hErr == nil {
				logHashes += h + "\n"
			}
		}
		if err != nil {
			r.logger.Error("step failed", "job", spec.Name, "step", step.Name, "err", err)
			jr.Status = StatusFailed
			jr.FailedStep = step.Name
			break
		}
		r.logger.Debug("step ok", "job", spec.Name, "step", step.Name, "duration", sr.Duration)
	}
	if jr.Status != StatusFailed {
		jr.Status = StatusPassed
	}

	r.record(runID, jr, logHashes)
	return jr
}

func (r *Runner) runStep(ctx context.Context, runID, job string, seq int, step pipeline.Step, env []string) (StepResult, error) {
	start := time.Now()
	output, code, timedOut, err := r.exec.Run(ctx, step.Name, step.Run, env, r.stepTimeout)
	sr := StepResult{
		Name:     step.Name,
		ExitCode: code,
		Duration: time.Since(start),
		TimedOut: timedOut,
	}

	if r.logs != nil {
		path, logErr := r.logs.Save(runID, job, seq, step.Name, output)
		if logErr != nil {
			r.logger.Warn("cannot save log", "job", job, "step", step.Name, "err", logErr)
		} else {
			sr.LogPath = path
		}
	}

	if err != nil {
		return sr, err
	}
	if timedOut || code != 0 {
		return sr, &StepError{Job: job, Step: step.Name, ExitCode: code, TimedOut: timedOut}
	}
	return sr, nil
}

// record appends the finished job to the journal, best effort. A journal
// problem must not fail the run.
func (r *Runner) record(runID string, jr JobResult, logHashes string) {
	if r.journal == nil {
		return
	}
	_, err := r.journal.Append(runID, jr.Job, jr.MatrixValue, string(jr.Status), hashutil.HashString(logHashes))
	if err != nil {
		r.logger.Warn("cannot append journal record", "job", jr.Job, "err", err)
	}
}

// buildEnv merges the process environment with the job's resolved env.
func buildEnv(jobEnv map[string]string) []string {
	env := os.Environ()
	for k, v := range jobEnv {
		env = append(env, k+"="+v)
	}
	return env
}

func newRunID() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102-150405"), hex.EncodeToString(b[:]))
}
