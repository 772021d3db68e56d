package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/procsim/streamreport/internal/model"
)

// TestMarkdownWriter tests the Markdown report output.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes title and metadata table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(createTestSnapshot()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Stream Report") {
			t.Error("expected H1 title")
		}
		if !strings.Contains(output, "mixer_out") {
			t.Error("expected source in metadata table")
		}
		if !strings.Contains(output, "60.0000 s") {
			t.Error("expected time in metadata table")
		}
	})

	t.Run("writes overall table with resolved units", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(createTestSnapshot()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## Overall") {
			t.Error("expected overall section header")
		}
		if !strings.Contains(output, "5.0000") || !strings.Contains(output, "kg") {
			t.Error("expected mass row with kg unit")
		}
		if !strings.Contains(output, "m/s") {
			t.Error("expected explicit m/s unit in table")
		}
	})

	t.Run("writes composition table and pie chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(createTestSnapshot()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## Composition") {
			t.Error("expected composition section header")
		}
		if !strings.Contains(output, "1.2346 kg") {
			t.Error("expected water mass cell")
		}
		if !strings.Contains(output, "```mermaid") || !strings.Contains(output, "pie") {
			t.Error("expected mermaid pie chart block")
		}
	})

	t.Run("writes distributions as titled code blocks", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(createTestSnapshot()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "### Size") {
			t.Error("expected title-cased distribution heading")
		}
		if !strings.Contains(output, "2.5000e-03") {
			t.Error("expected scientific values in code block")
		}
	})

	t.Run("missing section fails before any output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		s := model.NewSnapshot("", 0)
		s.AddOverall("mass", model.Plain(1.0))
		s.AddDistribution("size", nil)

		_, err := w.Write(s)
		if !errors.Is(err, ErrMissingSection) {
			t.Fatalf("expected ErrMissingSection, got %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})

	t.Run("writes summary tables", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		summary := model.NewSummary(createTestSnapshot())
		if _, err := w.WriteSummary(summary); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Snapshot Summary") {
			t.Error("expected summary title")
		}
		if !strings.Contains(output, "1.7346 kg") {
			t.Error("expected total mass cell")
		}
		if !strings.Contains(output, "## Distributions") {
			t.Error("expected distribution stats table")
		}
	})
}
