// Package ingest decodes snapshot documents produced by the simulation
// engine into model.Snapshot values.
//
// Documents are YAML (JSON, being a YAML subset, works unchanged) with
// top-level overall/composition/distributions mappings, plus optional
// source and time fields. A document may also carry a "snapshots" list
// holding several records, and a stream may contain several documents.
//
// The scalar-versus-[value, unit] shape question is settled here, at
// the construction boundary: a two-element sequence is a unit pair only
// when its second element is a string. A two-element all-numeric
// sequence is rejected as ambiguous instead of being silently read as
// a unit pair.
package ingest
