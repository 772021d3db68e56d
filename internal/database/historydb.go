package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/procsim/streamreport/internal/model"
)

// HistoryDB provides SQLite-based storage for snapshot history.
// It manages connection pooling and provides methods for saving and
// querying snapshots per source.
//
// Design decision: We use a single database file for all sources rather
// than one file per source. This keeps cross-source queries (list all
// sources) trivial and simplifies backup/restore.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "streamreport.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; multiple readers bring little
	// for this access pattern.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Snapshot history stores complete snapshot records as JSON
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		time_point REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		snapshot_json TEXT NOT NULL,
		total_mass REAL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_source ON snapshots(source);
	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// StoredSnapshot is a snapshot record retrieved from the database.
type StoredSnapshot struct {
	// ID is the database row ID.
	ID int64

	// CreatedAt is when the snapshot was stored.
	CreatedAt time.Time

	// Snapshot is the full decoded record.
	Snapshot *model.Snapshot
}

// SnapshotMetadata is a lightweight history entry without the record body.
type SnapshotMetadata struct {
	// ID is the database row ID.
	ID int64

	// Source is the snapshot's stream/holdup/feed name.
	Source string

	// Time is the simulation time point in seconds.
	Time float64

	// CreatedAt is when the snapshot was stored.
	CreatedAt time.Time

	// TotalMass is the composition mass total in kg, stored alongside
	// the JSON so history listings avoid decoding full records.
	TotalMass float64
}

// SaveSnapshot stores a snapshot and returns its row ID.
func (hdb *HistoryDB) SaveSnapshot(ctx context.Context, snapshot *model.Snapshot) (int64, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	summary := model.NewSummary(snapshot)

	query := `
	INSERT INTO snapshots (source, time_point, snapshot_json, total_mass)
	VALUES (?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		snapshot.Source,
		snapshot.Time,
		string(data),
		summary.TotalMass,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return result.LastInsertId()
}

// GetSnapshotByID retrieves a stored snapshot by its database ID.
// Returns nil without error when the ID does not exist.
func (hdb *HistoryDB) GetSnapshotByID(ctx context.Context, id int64) (*StoredSnapshot, error) {
	query := `
	SELECT id, created_at, snapshot_json
	FROM snapshots
	WHERE id = ?
	`

	return hdb.scanStored(hdb.db.QueryRowContext(ctx, query, id))
}

// LatestSnapshots retrieves up to limit most recent snapshots for a
// source, newest first.
func (hdb *HistoryDB) LatestSnapshots(ctx context.Context, source string, limit int) ([]*StoredSnapshot, error) {
	query := `
	SELECT id, created_at, snapshot_json
	FROM snapshots
	WHERE source = ?
	ORDER BY created_at DESC, id DESC
	LIMIT ?
	`

	rows, err := hdb.db.QueryContext(ctx, query, source, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var results []*StoredSnapshot
	for rows.Next() {
		stored, err := hdb.scanStored(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, stored)
	}

	return results, rows.Err()
}

// ListSources returns all distinct sources in the database,
// alphabetically ordered.
func (hdb *HistoryDB) ListSources(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT source FROM snapshots ORDER BY source`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// History returns the stored history for a source, newest first,
// without decoding the full records.
func (hdb *HistoryDB) History(ctx context.Context, source string) ([]SnapshotMetadata, error) {
	query := `
	SELECT id, source, time_point, created_at, total_mass
	FROM snapshots
	WHERE source = ?
	ORDER BY created_at DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var results []SnapshotMetadata
	for rows.Next() {
		var meta SnapshotMetadata
		var createdAt string

		if err := rows.Scan(&meta.ID, &meta.Source, &meta.Time, &createdAt, &meta.TotalMass); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		meta.CreatedAt = parseTimestamp(createdAt)

		results = append(results, meta)
	}

	return results, rows.Err()
}

// rowScanner abstracts sql.Row and sql.Rows for scanStored.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanStored decodes one stored snapshot row.
func (hdb *HistoryDB) scanStored(row rowScanner) (*StoredSnapshot, error) {
	var stored StoredSnapshot
	var createdAt string
	var snapshotJSON string

	err := row.Scan(&stored.ID, &createdAt, &snapshotJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	stored.CreatedAt = parseTimestamp(createdAt)

	var snapshot model.Snapshot
	if err := json.Unmarshal([]byte(snapshotJSON), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	stored.Snapshot = &snapshot

	return &stored, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
