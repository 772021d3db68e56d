// Package database provides SQLite-based persistence for rendered
// snapshots. The history store backs the compare command, which needs
// at least two stored records per source to show deltas.
package database
