package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/procsim/streamreport/internal/model"
)

// MarkdownWriter outputs snapshots in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. Mermaid pie charts for the composition breakdown
type MarkdownWriter struct {
	baseWriter

	// unitOverrides maps property names to units for plain measurements.
	unitOverrides map[string]string

	// titler renders section and distribution titles in title case.
	titler cases.Caser
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownUnitOverrides sets per-property unit overrides for plain
// measurements, matching the text writer's resolution order.
func WithMarkdownUnitOverrides(overrides map[string]string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.unitOverrides = overrides
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		titler:     cases.Title(language.English),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the snapshot in Markdown format.
// All three sections must be present; the document is built in memory
// so a missing section fails before any output.
func (w *MarkdownWriter) Write(snapshot *model.Snapshot) (int, error) {
	if err := requireSections(snapshot); err != nil {
		return 0, err
	}

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, snapshot)
	w.writeOverall(md, snapshot)
	w.writeComposition(md, snapshot)
	w.writeDistributions(md, snapshot)

	return len(md.String()), md.Build()
}

// WriteSummary outputs the derived summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Snapshot Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", summaryCell(summary.Source)},
			{"Time", fmt.Sprintf("%.4f s", summary.Time)},
			{"Total mass", fmt.Sprintf("%.4f kg", summary.TotalMass)},
			{"Components", strconv.Itoa(summary.ComponentCount)},
			{"Overall properties", strconv.Itoa(summary.PropertyCount)},
		},
	})
	md.PlainText("")

	if len(summary.Distributions) > 0 {
		md.H2("Distributions")
		md.PlainText("")
		rows := make([][]string, len(summary.Distributions))
		for i, d := range summary.Distributions {
			rows[i] = []string{
				d.Name,
				strconv.Itoa(d.Points),
				fmt.Sprintf("%.4e", d.Min),
				fmt.Sprintf("%.4e", d.Mean),
				fmt.Sprintf("%.4e", d.Max),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Name", "Points", "Min", "Mean", "Max"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and the snapshot metadata table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, snapshot *model.Snapshot) {
	md.H1("Stream Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", summaryCell(snapshot.Source)},
			{"Time", fmt.Sprintf("%.4f s", snapshot.Time)},
			{"Components", strconv.Itoa(len(snapshot.Composition))},
			{"Distributions", strconv.Itoa(len(snapshot.Distributions))},
		},
	})
	md.PlainText("")
}

// writeOverall writes the overall properties table.
func (w *MarkdownWriter) writeOverall(md *markdown.Markdown, snapshot *model.Snapshot) {
	md.H2("Overall")
	md.PlainText("")

	if len(snapshot.Overall) == 0 {
		md.PlainText("No overall properties.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(snapshot.Overall))
	for i, p := range snapshot.Overall {
		unit := p.Value.ResolveUnit(p.Name, w.unitOverrides)
		if unit == "" {
			unit = "-"
		}
		rows[i] = []string{p.Name, fmt.Sprintf("%.4f", p.Value.Value), unit}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value", "Unit"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeComposition writes the composition table and a mermaid pie chart
// of the mass breakdown.
func (w *MarkdownWriter) writeComposition(md *markdown.Markdown, snapshot *model.Snapshot) {
	md.H2("Composition")
	md.PlainText("")

	if len(snapshot.Composition) == 0 {
		md.PlainText("No components.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(snapshot.Composition))
	for i, c := range snapshot.Composition {
		rows[i] = []string{c.Component, fmt.Sprintf("%.4f kg", c.Mass)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Component", "Mass"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeCompositionChart(md, snapshot)
}

// writeCompositionChart renders the mass breakdown as a pie chart.
// Components with non-positive mass are skipped because mermaid pie
// charts reject them.
func (w *MarkdownWriter) writeCompositionChart(md *markdown.Markdown, snapshot *model.Snapshot) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Mass breakdown"),
		piechart.WithShowData(true),
	)

	var plotted int
	for _, c := range snapshot.Composition {
		if c.Mass <= 0 {
			continue
		}
		chart.LabelAndIntValue(c.Component, uint64(c.Mass*10000))
		plotted++
	}

	if plotted == 0 {
		return
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeDistributions writes each distribution as a titled code block.
func (w *MarkdownWriter) writeDistributions(md *markdown.Markdown, snapshot *model.Snapshot) {
	md.H2("Distributions")
	md.PlainText("")

	if len(snapshot.Distributions) == 0 {
		md.PlainText("No distributions.")
		md.PlainText("")
		return
	}

	for _, d := range snapshot.Distributions {
		md.H3(w.titler.String(d.Name))
		md.PlainText("")

		var block string
		for _, v := range d.Values {
			block += fmt.Sprintf("%.4e\n", v)
		}
		md.CodeBlocks(markdown.SyntaxHighlightText, block)
		md.PlainText("")
	}
}

// summaryCell returns a placeholder for empty table cells.
func summaryCell(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
