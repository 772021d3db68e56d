package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/procsim/streamreport/internal/model"
)

// ErrMissingSection is returned when a snapshot lacks one of the three
// required sections (overall, composition, distributions). The error is
// raised at the point the writer reaches the missing section, so output
// for earlier sections is already flushed.
var ErrMissingSection = errors.New("missing snapshot section")

// errMissing wraps ErrMissingSection with the section name.
func errMissing(section string) error {
	return fmt.Errorf("%w: %s", ErrMissingSection, section)
}

// Writer defines the interface for snapshot report output.
// Implementations write snapshots in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or buffers
// with the same API.
type Writer interface {
	// Write outputs the full snapshot to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(snapshot *model.Snapshot) (int, error)

	// WriteSummary outputs only the derived summary.
	// This is useful for quick overviews without the full record.
	WriteSummary(summary *model.Summary) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write snapshots, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the snapshot to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(snapshot *model.Snapshot) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(snapshot)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary outputs the summary to all configured Writers.
func (m *MultiWriter) WriteSummary(summary *model.Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
