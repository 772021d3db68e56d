package report

import (
	"encoding/json"
	"io"

	"github.com/procsim/streamreport/internal/model"
)

// JSONWriter outputs snapshots in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the snapshot in JSON format.
// Missing sections fail with ErrMissingSection before any output, since
// a partial JSON document would not be parseable anyway.
func (w *JSONWriter) Write(snapshot *model.Snapshot) (int, error) {
	if err := requireSections(snapshot); err != nil {
		return 0, err
	}
	return w.writeJSON(snapshot)
}

// WriteSummary outputs only the derived summary in JSON format.
func (w *JSONWriter) WriteSummary(summary *model.Summary) (int, error) {
	return w.writeJSON(summary)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONDocument wraps a snapshot with output metadata.
//
// Design decision: We wrap the snapshot rather than modifying
// model.Snapshot because this allows adding output-specific fields
// without polluting the core data structure.
type JSONDocument struct {
	// Version is the streamreport version that produced this document.
	Version string `json:"version"`

	// Snapshot is the full snapshot record.
	Snapshot *model.Snapshot `json:"snapshot"`

	// Summary is the derived summary for quick access.
	Summary *model.Summary `json:"summary,omitempty"`
}

// FullJSONWriter outputs snapshots wrapped with version metadata and
// the derived summary.
type FullJSONWriter struct {
	*JSONWriter

	// version is the streamreport version string.
	version string
}

// NewFullJSONWriter creates a writer for wrapped JSON documents.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the snapshot wrapped with metadata and summary.
func (w *FullJSONWriter) Write(snapshot *model.Snapshot) (int, error) {
	if err := requireSections(snapshot); err != nil {
		return 0, err
	}
	return w.writeJSON(&JSONDocument{
		Version:  w.version,
		Snapshot: snapshot,
		Summary:  model.NewSummary(snapshot),
	})
}

// requireSections checks that all three sections are present, returning
// ErrMissingSection naming the first absent one in section order.
func requireSections(snapshot *model.Snapshot) error {
	switch {
	case !snapshot.HasOverall:
		return errMissing("overall")
	case !snapshot.HasComposition:
		return errMissing("composition")
	case !snapshot.HasDistributions:
		return errMissing("distributions")
	}
	return nil
}
