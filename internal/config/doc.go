// Package config provides configuration structures and utilities for
// streamreport. It defines the options for snapshot ingestion, report
// format selection, unit overrides, and history storage locations.
package config
