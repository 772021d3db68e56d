// Package pipeline orchestrates the render flow: ingesting snapshot
// files, validating and summarizing records, optionally persisting them
// to the history database, and writing the report. Steps run in
// sequence per job; batches of jobs run concurrently with a bounded
// errgroup.
package pipeline
