package report

import (
	"fmt"
	"io"

	"github.com/procsim/streamreport/internal/model"
)

// Text layout constants. The column width and digit counts reproduce
// the simulation engine's established console format; changing them
// breaks downstream tooling that parses the output.
const (
	// nameWidth is the left-justified padding applied to entry names.
	nameWidth = 25

	// overallHeader, compositionHeader and distributionsHeader are the
	// fixed section headers, emitted in exactly this order.
	overallHeader       = "=== Overall ==="
	compositionHeader   = "=== Composition ==="
	distributionsHeader = "=== Distributions ==="
)

// TextWriter outputs snapshots in the engine's fixed text layout:
// three sections (Overall, Composition, Distributions) with entries in
// insertion order, fixed-point values with four fractional digits, and
// scientific notation for distribution points.
//
// Design decision: Sections are written to the output incrementally
// rather than assembled in a single buffer. A snapshot missing a
// section fails with ErrMissingSection only when the writer reaches
// it, so everything before the failure point is already flushed. This
// mirrors the fail-fast lookup behavior of the original engine tooling.
type TextWriter struct {
	baseWriter

	// unitOverrides maps property names to units, consulted for plain
	// measurements before the built-in default table.
	unitOverrides map[string]string
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithUnitOverrides sets per-property unit overrides for plain
// measurements. Explicit units on a measurement still win.
func WithUnitOverrides(overrides map[string]string) TextWriterOption {
	return func(w *TextWriter) {
		w.unitOverrides = overrides
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the snapshot in the fixed text layout.
// Section order is Overall, Composition, Distributions; a missing
// section aborts the write at the point it is reached.
func (w *TextWriter) Write(snapshot *model.Snapshot) (int, error) {
	var total int

	n, err := w.writeOverall(snapshot)
	total += n
	if err != nil {
		return total, err
	}

	n, err = w.writeComposition(snapshot)
	total += n
	if err != nil {
		return total, err
	}

	n, err = w.writeDistributions(snapshot)
	total += n
	return total, err
}

// writeOverall writes the Overall section.
// Each line is the property name padded to the fixed width, a colon,
// the value with four fractional digits, a space, and the unit. The
// trailing space remains when the resolved unit is empty.
func (w *TextWriter) writeOverall(snapshot *model.Snapshot) (int, error) {
	if !snapshot.HasOverall {
		return 0, errMissing("overall")
	}

	total, err := fmt.Fprintf(w.output, "%s\n", overallHeader)
	if err != nil {
		return total, err
	}

	for _, p := range snapshot.Overall {
		unit := p.Value.ResolveUnit(p.Name, w.unitOverrides)
		n, err := fmt.Fprintf(w.output, "%-*s: %.4f %s\n", nameWidth, p.Name, p.Value.Value, unit)
		total += n
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// writeComposition writes the Composition section.
// Masses are always reported in kg regardless of component name.
func (w *TextWriter) writeComposition(snapshot *model.Snapshot) (int, error) {
	if !snapshot.HasComposition {
		return 0, errMissing("composition")
	}

	total, err := fmt.Fprintf(w.output, "\n%s\n", compositionHeader)
	if err != nil {
		return total, err
	}

	for _, c := range snapshot.Composition {
		n, err := fmt.Fprintf(w.output, "%-*s: %.4f kg\n", nameWidth, c.Component, c.Mass)
		total += n
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// writeDistributions writes the Distributions section.
// Each distribution is preceded by a blank line; its name is followed
// by a colon, then one value per line in scientific notation.
func (w *TextWriter) writeDistributions(snapshot *model.Snapshot) (int, error) {
	if !snapshot.HasDistributions {
		return 0, errMissing("distributions")
	}

	total, err := fmt.Fprintf(w.output, "\n%s\n", distributionsHeader)
	if err != nil {
		return total, err
	}

	for _, d := range snapshot.Distributions {
		n, err := fmt.Fprintf(w.output, "\n%s:\n", d.Name)
		total += n
		if err != nil {
			return total, err
		}

		for _, v := range d.Values {
			n, err = fmt.Fprintf(w.output, "%.4e\n", v)
			total += n
			if err != nil {
				return total, err
			}
		}
	}

	return total, nil
}

// WriteSummary outputs the derived summary in a compact text block
// using the same padded-name layout as the full report.
func (w *TextWriter) WriteSummary(summary *model.Summary) (int, error) {
	var total int

	n, err := fmt.Fprintf(w.output, "=== Summary ===\n")
	total += n
	if err != nil {
		return total, err
	}

	if summary.Source != "" {
		n, err = fmt.Fprintf(w.output, "%-*s: %s\n", nameWidth, "source", summary.Source)
		total += n
		if err != nil {
			return total, err
		}
	}

	lines := []struct {
		name   string
		format string
		args   []any
	}{
		{"time", "%.4f s", []any{summary.Time}},
		{"total mass", "%.4f kg", []any{summary.TotalMass}},
		{"properties", "%d", []any{summary.PropertyCount}},
		{"components", "%d", []any{summary.ComponentCount}},
	}
	for _, l := range lines {
		n, err = fmt.Fprintf(w.output, "%-*s: %s\n", nameWidth, l.name, fmt.Sprintf(l.format, l.args...))
		total += n
		if err != nil {
			return total, err
		}
	}

	if summary.LargestComponent != "" {
		n, err = fmt.Fprintf(w.output, "%-*s: %s (%.4f kg)\n",
			nameWidth, "largest component", summary.LargestComponent, summary.LargestMass)
		total += n
		if err != nil {
			return total, err
		}
	}

	for _, d := range summary.Distributions {
		n, err = fmt.Fprintf(w.output, "\n%s: %d points, min %.4e, mean %.4e, max %.4e\n",
			d.Name, d.Points, d.Min, d.Mean, d.Max)
		total += n
		if err != nil {
			return total, err
		}
	}

	return total, nil
}
