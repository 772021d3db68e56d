package pipeline

import (
	"context"
	"log/slog"

	"github.com/procsim/streamreport/internal/model"
)

// Job is the unit of work flowing through a pipeline: one snapshot
// document and everything derived from it.
type Job struct {
	// Path is the input file the job was created from.
	Path string

	// Snapshots holds the decoded records, populated by the ingest step.
	Snapshots []*model.Snapshot

	// Summaries holds derived summaries, parallel to Snapshots,
	// populated by the summarize step.
	Summaries []*model.Summary

	// BytesWritten counts report output produced for this job.
	BytesWritten int

	// Err records a step failure when the pipeline is configured to
	// continue on error.
	Err error

	// CompletedSteps tracks which steps ran, in order.
	CompletedSteps []string
}

// NewJob creates a Job for the given input path.
func NewJob(path string) *Job {
	return &Job{Path: path}
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the
// accumulated job from previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., priority, dependencies)
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation and the job to modify.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, the default logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. Failed steps are logged and recorded in the
// job, but subsequent steps still execute.
//
// Design decision: The default is to stop on error because an ingest
// failure leaves nothing for later steps to work on. Continuing is
// useful when persistence is best-effort and the render should still
// happen.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps are short and synchronous. This allows graceful
// cleanup between steps while still respecting cancellation.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"path", job.Path,
		)

		if err := step.Do(ctx, job); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"path", job.Path,
				"error", err,
			)

			job.Err = err
			if !p.continueOnError {
				return err
			}
		}

		job.CompletedSteps = append(job.CompletedSteps, step.Name())
	}

	return nil
}
