package database

import (
	"context"
	"testing"

	"github.com/procsim/streamreport/internal/model"
)

// openTestDB opens a HistoryDB in a temporary directory.
func openTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return db
}

// testSnapshot builds a complete snapshot for persistence tests.
func testSnapshot(source string, time, waterMass float64) *model.Snapshot {
	s := model.NewSnapshot(source, time)
	s.AddOverall("mass", model.Plain(waterMass+0.5))
	s.AddOverall("speed", model.WithUnit(1.0, "m/s"))
	s.AddComponent("water", waterMass)
	s.AddComponent("sand", 0.5)
	s.AddDistribution("size", []float64{1.0, 2.5e-3})
	return s
}

// TestSaveAndGetSnapshot verifies the JSON round trip through SQLite.
func TestSaveAndGetSnapshot(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.SaveSnapshot(ctx, testSnapshot("mixer_out", 60.0, 2.0))
	if err != nil {
		t.Fatalf("failed to save snapshot: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero row ID")
	}

	stored, err := db.GetSnapshotByID(ctx, id)
	if err != nil {
		t.Fatalf("failed to get snapshot: %v", err)
	}
	if stored == nil {
		t.Fatal("expected stored snapshot")
	}

	s := stored.Snapshot
	if s.Source != "mixer_out" || s.Time != 60.0 {
		t.Errorf("unexpected identity: %q/%v", s.Source, s.Time)
	}
	if !s.Complete() {
		t.Error("expected section presence to survive the round trip")
	}

	m, ok := s.OverallValue("speed")
	if !ok || !m.Explicit || m.Unit != "m/s" {
		t.Errorf("expected explicit unit to survive the round trip, got %+v", m)
	}
	if mass, ok := s.ComponentMassOf("water"); !ok || mass != 2.0 {
		t.Errorf("unexpected water mass: %v", mass)
	}
	if len(s.Distributions) != 1 || s.Distributions[0].Values[1] != 2.5e-3 {
		t.Errorf("unexpected distributions: %+v", s.Distributions)
	}
}

// TestGetSnapshotByIDMissing verifies nil result for unknown IDs.
func TestGetSnapshotByIDMissing(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)

	stored, err := db.GetSnapshotByID(context.Background(), 12345)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored != nil {
		t.Error("expected nil for unknown ID")
	}
}

// TestLatestSnapshots verifies ordering and the limit.
func TestLatestSnapshots(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	for i, mass := range []float64{1.0, 2.0, 3.0} {
		if _, err := db.SaveSnapshot(ctx, testSnapshot("feed", float64(i), mass)); err != nil {
			t.Fatalf("failed to save snapshot %d: %v", i, err)
		}
	}
	// A different source must not leak into the result.
	if _, err := db.SaveSnapshot(ctx, testSnapshot("outlet", 0, 9.0)); err != nil {
		t.Fatalf("failed to save snapshot: %v", err)
	}

	latest, err := db.LatestSnapshots(ctx, "feed", 2)
	if err != nil {
		t.Fatalf("failed to query snapshots: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(latest))
	}

	// Newest first: the mass 3.0 record was saved last.
	if mass, _ := latest[0].Snapshot.ComponentMassOf("water"); mass != 3.0 {
		t.Errorf("expected newest snapshot first, got water mass %v", mass)
	}
	if mass, _ := latest[1].Snapshot.ComponentMassOf("water"); mass != 2.0 {
		t.Errorf("expected second-newest snapshot, got water mass %v", mass)
	}
}

// TestListSources verifies distinct, ordered source listing.
func TestListSources(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	for _, source := range []string{"outlet", "feed", "feed"} {
		if _, err := db.SaveSnapshot(ctx, testSnapshot(source, 0, 1.0)); err != nil {
			t.Fatalf("failed to save snapshot: %v", err)
		}
	}

	sources, err := db.ListSources(ctx)
	if err != nil {
		t.Fatalf("failed to list sources: %v", err)
	}
	if len(sources) != 2 || sources[0] != "feed" || sources[1] != "outlet" {
		t.Errorf("unexpected sources: %v", sources)
	}
}

// TestHistory verifies the lightweight metadata listing.
func TestHistory(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.SaveSnapshot(ctx, testSnapshot("feed", 30.0, 2.0)); err != nil {
		t.Fatalf("failed to save snapshot: %v", err)
	}

	history, err := db.History(ctx, "feed")
	if err != nil {
		t.Fatalf("failed to query history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(history))
	}

	entry := history[0]
	if entry.Source != "feed" || entry.Time != 30.0 {
		t.Errorf("unexpected entry: %+v", entry)
	}
	// water 2.0 + sand 0.5
	if entry.TotalMass != 2.5 {
		t.Errorf("expected total mass 2.5, got %v", entry.TotalMass)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("expected parsed timestamp")
	}
}

// TestOpenWithoutCreate verifies the strict open mode.
func TestOpenWithoutCreate(t *testing.T) {
	t.Parallel()

	opts := Options{CreateIfNotExists: false, EnableWAL: false}
	if _, err := Open(t.TempDir(), opts); err == nil {
		t.Error("expected error opening a missing database without create")
	}
}
