package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/procsim/streamreport/internal/database"
	"github.com/procsim/streamreport/internal/ingest"
	"github.com/procsim/streamreport/internal/model"
	"github.com/procsim/streamreport/internal/report"
)

// IngestStep decodes the job's input file into snapshots.
type IngestStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// NewIngestStep creates an ingest step.
func NewIngestStep(logger *slog.Logger) *IngestStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestStep{logger: logger}
}

// Name returns the step name.
func (s *IngestStep) Name() string {
	return "ingest"
}

// Do decodes the input file.
func (s *IngestStep) Do(_ context.Context, job *Job) error {
	snapshots, err := ingest.LoadFile(job.Path)
	if err != nil {
		return err
	}

	job.Snapshots = snapshots
	s.logger.Debug("ingested snapshots",
		"path", job.Path,
		"count", len(snapshots),
	)
	return nil
}

// ValidateStep rejects snapshots carrying non-finite values.
// NaN and infinities survive decoding but would corrupt the fixed-point
// report layout, so they are caught before rendering.
type ValidateStep struct{}

// NewValidateStep creates a validation step.
func NewValidateStep() *ValidateStep {
	return &ValidateStep{}
}

// Name returns the step name.
func (s *ValidateStep) Name() string {
	return "validate"
}

// Do checks every numeric value in every snapshot.
func (s *ValidateStep) Do(_ context.Context, job *Job) error {
	for _, snapshot := range job.Snapshots {
		if err := validateSnapshot(snapshot); err != nil {
			return fmt.Errorf("%s: %w", job.Path, err)
		}
	}
	return nil
}

// validateSnapshot checks one snapshot for non-finite values.
func validateSnapshot(s *model.Snapshot) error {
	for _, p := range s.Overall {
		if !isFinite(p.Value.Value) {
			return fmt.Errorf("overall property %q is not finite", p.Name)
		}
	}
	for _, c := range s.Composition {
		if !isFinite(c.Mass) {
			return fmt.Errorf("component %q mass is not finite", c.Component)
		}
	}
	for _, d := range s.Distributions {
		for _, v := range d.Values {
			if !isFinite(v) {
				return fmt.Errorf("distribution %q contains a non-finite value", d.Name)
			}
		}
	}
	return nil
}

// isFinite reports whether v is neither NaN nor infinite.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SummarizeStep derives summaries for all snapshots in the job.
type SummarizeStep struct{}

// NewSummarizeStep creates a summarize step.
func NewSummarizeStep() *SummarizeStep {
	return &SummarizeStep{}
}

// Name returns the step name.
func (s *SummarizeStep) Name() string {
	return "summarize"
}

// Do derives one summary per snapshot.
func (s *SummarizeStep) Do(_ context.Context, job *Job) error {
	job.Summaries = make([]*model.Summary, len(job.Snapshots))
	for i, snapshot := range job.Snapshots {
		job.Summaries[i] = model.NewSummary(snapshot)
	}
	return nil
}

// PersistStep stores all snapshots of the job in the history database.
type PersistStep struct {
	// db is the history store.
	db *database.HistoryDB

	// logger for structured logging.
	logger *slog.Logger
}

// NewPersistStep creates a persist step writing to db.
func NewPersistStep(db *database.HistoryDB, logger *slog.Logger) *PersistStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersistStep{db: db, logger: logger}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do saves every snapshot, stopping on the first failure.
func (s *PersistStep) Do(ctx context.Context, job *Job) error {
	for _, snapshot := range job.Snapshots {
		id, err := s.db.SaveSnapshot(ctx, snapshot)
		if err != nil {
			return err
		}
		s.logger.Debug("persisted snapshot",
			"source", snapshot.Source,
			"id", id,
		)
	}
	return nil
}

// RenderStep writes all snapshots of the job through a report writer.
type RenderStep struct {
	// writer receives the rendered snapshots.
	writer report.Writer
}

// NewRenderStep creates a render step writing to w.
func NewRenderStep(w report.Writer) *RenderStep {
	return &RenderStep{writer: w}
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do renders every snapshot in order, accumulating bytes written.
func (s *RenderStep) Do(_ context.Context, job *Job) error {
	for _, snapshot := range job.Snapshots {
		n, err := s.writer.Write(snapshot)
		job.BytesWritten += n
		if err != nil {
			return err
		}
	}
	return nil
}
