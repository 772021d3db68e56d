package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/procsim/streamreport/internal/config"
	"github.com/procsim/streamreport/internal/database"
	"github.com/procsim/streamreport/internal/model"
)

// NewCompareCmd creates the compare command.
// This command compares the latest stored snapshots for a source.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [source]",
		Short: "Compare the latest two stored snapshots for a source",
		Long: `Compare displays differences between the two most recent snapshots
stored in the history database for a source (stream, holdup, or feed).

It shows:
- Changes in overall properties (mass, temperature, pressure, ...)
- Composition gains and losses per component
- Components that appeared or disappeared between the snapshots

The comparison requires at least two stored snapshots for the source.
Use 'streamreport render --save' to store snapshots while rendering.

Examples:
  # Compare the latest two snapshots of a source
  streamreport compare mixer_out

  # List stored history for a source
  streamreport compare --list mixer_out

  # Output the comparison in JSON format
  streamreport compare --json mixer_out

  # List all sources in the database
  streamreport compare --list-sources`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List stored history for the specified source")
	cmd.Flags().BoolP("list-sources", "L", false,
		"List all sources in the database")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-sources flag first (requires database but no source)
	listSources, err := cmd.Flags().GetBool("list-sources")
	if err != nil {
		return err
	}

	// Validate arguments before opening database (unless --list-sources)
	var source string
	if !listSources {
		if len(args) == 0 {
			return errors.New("source is required (use --list-sources to see available sources)")
		}
		source = args[0]
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()

	// Open database
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	// Handle --list-sources flag
	if listSources {
		return listStoredSources(ctx, db)
	}

	// Handle --list flag
	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listSourceHistory(ctx, db, source)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, source, jsonOutput)
}

// listStoredSources lists all sources that have snapshots in the database.
func listStoredSources(ctx context.Context, db *database.HistoryDB) error {
	sources, err := db.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		fmt.Println("No snapshots found in the database.")
		fmt.Println("\nUse 'streamreport render --save <file>' to store snapshots.")
		return nil
	}

	fmt.Printf("Sources (%d):\n\n", len(sources))
	for _, source := range sources {
		fmt.Printf("  %s\n", source)
	}
	fmt.Println("\nUse 'streamreport compare --list <source>' to see stored history for a source.")

	return nil
}

// listSourceHistory lists all stored snapshots for a source.
func listSourceHistory(ctx context.Context, db *database.HistoryDB, source string) error {
	entries, err := db.History(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Printf("No history found for %s\n", source)
		fmt.Println("\nUse 'streamreport render --save' to store snapshots for this source.")
		return nil
	}

	fmt.Printf("History for %s (%d snapshots):\n\n", source, len(entries))
	fmt.Printf("  %-6s  %-20s  %-12s  %s\n", "ID", "Stored", "Time [s]", "Total Mass [kg]")
	fmt.Println("  " + strings.Repeat("-", 60))

	for _, meta := range entries {
		fmt.Printf("  %-6d  %-20s  %-12.4f  %.4f\n",
			meta.ID,
			meta.CreatedAt.Format("2006-01-02 15:04:05"),
			meta.Time,
			meta.TotalMass,
		)
	}

	fmt.Println("\nUse 'streamreport compare <source>' to compare the latest two snapshots.")

	return nil
}

// runComparison compares the latest two stored snapshots for a source.
func runComparison(ctx context.Context, db *database.HistoryDB, source string, jsonOutput bool) error {
	stored, err := db.LatestSnapshots(ctx, source, 2)
	if err != nil {
		return fmt.Errorf("failed to get snapshots: %w", err)
	}

	if len(stored) == 0 {
		return fmt.Errorf("no history found for %s", source)
	}
	if len(stored) < 2 {
		return fmt.Errorf("at least 2 stored snapshots are required for comparison (found %d)", len(stored))
	}

	// LatestSnapshots returns newest first
	comparison := compareSnapshots(source, stored[1], stored[0])

	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	return outputComparisonText(comparison)
}

// ComparisonResult holds the result of comparing two stored snapshots.
type ComparisonResult struct {
	// Source is the stream, holdup, or feed the snapshots belong to.
	Source string `json:"source"`

	// Previous contains metadata about the older snapshot.
	Previous SnapshotInfo `json:"previous"`

	// Current contains metadata about the newer snapshot.
	Current SnapshotInfo `json:"current"`

	// OverallDeltas contains per-property changes for properties present
	// in both snapshots.
	OverallDeltas []PropertyDelta `json:"overall_deltas,omitempty"`

	// NewProperties lists overall properties only present in the current
	// snapshot.
	NewProperties []string `json:"new_properties,omitempty"`

	// RemovedProperties lists overall properties only present in the
	// previous snapshot.
	RemovedProperties []string `json:"removed_properties,omitempty"`

	// ComponentDeltas contains per-component mass changes for components
	// present in both snapshots.
	ComponentDeltas []ComponentDelta `json:"component_deltas,omitempty"`

	// NewComponents lists components only present in the current snapshot.
	NewComponents []string `json:"new_components,omitempty"`

	// RemovedComponents lists components only present in the previous
	// snapshot.
	RemovedComponents []string `json:"removed_components,omitempty"`

	// TotalMassDelta is the change in total composition mass in kg.
	TotalMassDelta float64 `json:"total_mass_delta"`
}

// SnapshotInfo contains metadata about one side of a comparison.
type SnapshotInfo struct {
	// ID is the database row ID.
	ID int64 `json:"id"`

	// Stored is when the snapshot was saved.
	Stored time.Time `json:"stored"`

	// Time is the simulation time point in seconds.
	Time float64 `json:"time"`

	// TotalMass is the composition mass total in kg.
	TotalMass float64 `json:"total_mass"`
}

// PropertyDelta describes the change of one overall property.
type PropertyDelta struct {
	// Name is the property name.
	Name string `json:"name"`

	// Previous is the older value.
	Previous float64 `json:"previous"`

	// Current is the newer value.
	Current float64 `json:"current"`

	// Delta is Current minus Previous.
	Delta float64 `json:"delta"`

	// Unit is the resolved display unit of the property.
	Unit string `json:"unit,omitempty"`
}

// ComponentDelta describes the mass change of one component.
type ComponentDelta struct {
	// Component is the compound name.
	Component string `json:"component"`

	// Previous is the older mass in kg.
	Previous float64 `json:"previous"`

	// Current is the newer mass in kg.
	Current float64 `json:"current"`

	// Delta is Current minus Previous in kg.
	Delta float64 `json:"delta"`
}

// compareSnapshots builds the comparison between two stored snapshots.
// Entry order follows the current snapshot so the comparison reads like
// the report it came from.
func compareSnapshots(source string, previous, current *database.StoredSnapshot) *ComparisonResult {
	result := &ComparisonResult{
		Source:   source,
		Previous: snapshotInfo(previous),
		Current:  snapshotInfo(current),
	}

	// Overall property changes
	for _, p := range current.Snapshot.Overall {
		prev, ok := previous.Snapshot.OverallValue(p.Name)
		if !ok {
			result.NewProperties = append(result.NewProperties, p.Name)
			continue
		}
		result.OverallDeltas = append(result.OverallDeltas, PropertyDelta{
			Name:     p.Name,
			Previous: prev.Value,
			Current:  p.Value.Value,
			Delta:    p.Value.Value - prev.Value,
			Unit:     p.Value.ResolveUnit(p.Name, nil),
		})
	}
	for _, p := range previous.Snapshot.Overall {
		if _, ok := current.Snapshot.OverallValue(p.Name); !ok {
			result.RemovedProperties = append(result.RemovedProperties, p.Name)
		}
	}

	// Composition gains and losses
	for _, c := range current.Snapshot.Composition {
		prev, ok := previous.Snapshot.ComponentMassOf(c.Component)
		if !ok {
			result.NewComponents = append(result.NewComponents, c.Component)
			continue
		}
		result.ComponentDeltas = append(result.ComponentDeltas, ComponentDelta{
			Component: c.Component,
			Previous:  prev,
			Current:   c.Mass,
			Delta:     c.Mass - prev,
		})
	}
	for _, c := range previous.Snapshot.Composition {
		if _, ok := current.Snapshot.ComponentMassOf(c.Component); !ok {
			result.RemovedComponents = append(result.RemovedComponents, c.Component)
		}
	}

	result.TotalMassDelta = result.Current.TotalMass - result.Previous.TotalMass

	return result
}

// snapshotInfo extracts comparison metadata from a stored snapshot.
func snapshotInfo(stored *database.StoredSnapshot) SnapshotInfo {
	return SnapshotInfo{
		ID:        stored.ID,
		Stored:    stored.CreatedAt,
		Time:      stored.Snapshot.Time,
		TotalMass: model.NewSummary(stored.Snapshot).TotalMass,
	}
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonText outputs the comparison result in human-readable
// text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Snapshot Comparison: %s\n", result.Source)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nPrevious: id %d, stored %s, t=%.4f s\n",
		result.Previous.ID,
		result.Previous.Stored.Format("2006-01-02 15:04:05"),
		result.Previous.Time)
	fmt.Printf("Current:  id %d, stored %s, t=%.4f s\n",
		result.Current.ID,
		result.Current.Stored.Format("2006-01-02 15:04:05"),
		result.Current.Time)

	if len(result.OverallDeltas) > 0 {
		fmt.Println("\nOverall:")
		fmt.Printf("  %-25s  %12s  %12s  %12s\n", "Property", "Previous", "Current", "Change")
		fmt.Println("  " + strings.Repeat("-", 67))
		for _, d := range result.OverallDeltas {
			name := d.Name
			if d.Unit != "" {
				name = fmt.Sprintf("%s [%s]", d.Name, d.Unit)
			}
			fmt.Printf("  %-25s  %12.4f  %12.4f  %+12.4f\n",
				name, d.Previous, d.Current, d.Delta)
		}
	}
	for _, name := range result.NewProperties {
		fmt.Printf("  [+] new property: %s\n", name)
	}
	for _, name := range result.RemovedProperties {
		fmt.Printf("  [-] removed property: %s\n", name)
	}

	if len(result.ComponentDeltas) > 0 {
		fmt.Println("\nComposition [kg]:")
		fmt.Printf("  %-25s  %12s  %12s  %12s\n", "Component", "Previous", "Current", "Change")
		fmt.Println("  " + strings.Repeat("-", 67))
		for _, d := range result.ComponentDeltas {
			fmt.Printf("  %-25s  %12.4f  %12.4f  %+12.4f\n",
				d.Component, d.Previous, d.Current, d.Delta)
		}
	}
	for _, name := range result.NewComponents {
		fmt.Printf("  [+] new component: %s\n", name)
	}
	for _, name := range result.RemovedComponents {
		fmt.Printf("  [-] removed component: %s\n", name)
	}

	fmt.Printf("\nTotal mass change: %+.4f kg\n", result.TotalMassDelta)

	return nil
}
