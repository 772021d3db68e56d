// Package main provides the entry point for the streamreport CLI.
//
// streamreport renders process-simulation snapshot documents as
// fixed-layout text, JSON, or Markdown reports, and keeps an optional
// history database for comparing runs.
//
// Usage:
//
//	streamreport render snapshot.yaml
//	streamreport compare mixer_out
//
// See --help for all available options.
package main

// main is the entry point for streamreport.
func main() {
	Execute()
}
