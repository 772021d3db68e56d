// Package model defines the data structures for simulation snapshots.
// It contains the snapshot record handed over by the simulation engine
// (overall properties, composition, distributions), the tagged
// measurement variant with its default-unit table, and the derived
// summary used by the markdown and compare outputs.
package model
