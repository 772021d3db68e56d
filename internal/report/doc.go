// Package report provides snapshot report generation and output.
//
// This package contains writers for different output formats:
//   - TextWriter: fixed-layout text output matching the engine's
//     established console format
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown for documentation
//
// Design decision: We separate report writing from the snapshot data
// structures (which live in the model package) so new output formats
// can be added without touching the core types. Writers implement the
// Writer interface, allowing them to be composed for multi-format
// output.
package report
