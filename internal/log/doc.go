// Package log provides slog handler utilities for streamreport.
// The numeric handler renders float attributes with the same fixed
// precision as the report output, and elides long value vectors so
// verbose logs stay readable when distributions are in play.
package log
