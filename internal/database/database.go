package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"video-manager/internal/logging"
	"video-manager/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// ErrNotFound is returned when a lookup by id matches no catalog row.
var ErrNotFound = errors.New("video not found")

// Database manages the video catalog: discovered video records, user
// metadata, watch history, and playlists, all in a single SQLite file.
type Database struct {
	db      *sql.DB
	dbPath  string
	mu      sync.RWMutex
	txStart time.Time // Track transaction start time for metrics
}

// New opens (or creates) the catalog database at dbPath. The parent
// directory must already exist and be writable; startup.LoadConfig
// validates that before this is called.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Catalog database path: %s", dbPath)

	// WAL mode keeps readers unblocked while the scanner commits batches;
	// busy_timeout prevents "database is locked" errors under write contention.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_temp_store=MEMORY&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Allow multiple readers alongside the single scanning writer
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{
		db:     db,
		dbPath: dbPath,
	}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Catalog database initialized at %s", dbPath)
	return d, nil
}

func (d *Database) initialize(ctx context.Context) error {
	schema := `
	-- Discovered video files; path is the natural key
	CREATE TABLE IF NOT EXISTS videos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE,
		size INTEGER NOT NULL DEFAULT 0,
		modified INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_videos_path ON videos(path);

	-- User metadata, created lazily on first action against a video
	CREATE TABLE IF NOT EXISTS video_meta (
		video_id INTEGER PRIMARY KEY,
		play_count INTEGER NOT NULL DEFAULT 0,
		favorite INTEGER NOT NULL DEFAULT 0,
		tags TEXT NOT NULL DEFAULT '',
		last_played INTEGER
	);

	-- Append-only play log; video_id is a weak reference
	CREATE TABLE IF NOT EXISTS watch_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id INTEGER NOT NULL,
		watched_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_video ON watch_history(video_id);
	CREATE INDEX IF NOT EXISTS idx_history_time ON watch_history(watched_at);

	-- Ordered video_id references stored comma-joined; stale ids tolerated
	CREATE TABLE IF NOT EXISTS playlists (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		created INTEGER NOT NULL,
		video_ids TEXT NOT NULL DEFAULT ''
	);
	`

	_, err := d.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Ping verifies the underlying connection is still usable. Used by the
// readiness probe.
func (d *Database) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return d.db.PingContext(ctx)
}

// BeginBatch starts a transaction for a scanner batch. The caller is
// responsible for calling EndBatch when done.
func (d *Database) BeginBatch() (*sql.Tx, error) {
	// Only protect transaction creation; holding the lock for the whole
	// batch would block every query path for the duration of the flush.
	d.mu.Lock()
	txStart := time.Now()

	// Transaction lifetime is managed by EndBatch, not a timeout context.
	tx, err := d.db.BeginTx(context.Background(), nil)
	d.mu.Unlock()

	if err != nil {
		return nil, err
	}

	d.txStart = txStart
	return tx, nil
}

// EndBatch commits or rolls back a transaction.
func (d *Database) EndBatch(tx *sql.Tx, err error) error {
	duration := time.Since(d.txStart).Seconds()

	if err != nil {
		metrics.DBTransactionDuration.WithLabelValues("rollback").Observe(duration)
		rbErr := tx.Rollback()
		if rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
		}
		return err
	}

	metrics.DBTransactionDuration.WithLabelValues("commit").Observe(duration)
	return tx.Commit()
}

// InsertVideos inserts a batch of discovered videos within a transaction,
// keyed on normalized path. Re-insertion of a known path is a no-op, so
// discovery is idempotent.
func (d *Database) InsertVideos(tx *sql.Tx, records []VideoRecord) error {
	if len(records) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(context.Background(),
		"INSERT OR IGNORE INTO videos (path, size, modified) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for i := range records {
		result, err := stmt.ExecContext(context.Background(),
			records[i].Path, records[i].Size, records[i].Modified.Unix())
		if err != nil {
			return fmt.Errorf("failed to insert %s: %w", records[i].Path, err)
		}
		if rows, _ := result.RowsAffected(); rows > 0 {
			inserted += rows
		}
	}

	if inserted > 0 {
		metrics.DBRowsAffected.WithLabelValues("insert_videos").Observe(float64(inserted))
	}
	return nil
}

// AllVideoPaths enumerates every catalog entry as (id, path) pairs for the
// reconcile phase.
func (d *Database) AllVideoPaths(ctx context.Context) ([]VideoRecord, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("all_paths", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.db.QueryContext(ctx, "SELECT id, path FROM videos")
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate catalog paths: %w", err)
	}
	defer rows.Close()

	var records []VideoRecord
	for rows.Next() {
		var rec VideoRecord
		if err = rows.Scan(&rec.ID, &rec.Path); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return records, nil
}

// DeleteVideos removes catalog entries by id within a transaction. Used by
// the reconcile phase for files that no longer exist on disk.
func (d *Database) DeleteVideos(tx *sql.Tx, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(context.Background(), "DELETE FROM videos WHERE id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare delete: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(context.Background(), id); err != nil {
			return fmt.Errorf("failed to delete video %d: %w", id, err)
		}
	}

	metrics.DBRowsAffected.WithLabelValues("delete_videos").Observe(float64(len(ids)))
	return nil
}

// VideoPath resolves a video id to its stored path. Returns ErrNotFound for
// an unknown id.
func (d *Database) VideoPath(ctx context.Context, id int64) (string, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("video_path", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var path string
	err = d.db.QueryRowContext(ctx, "SELECT path FROM videos WHERE id = ?", id).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up video %d: %w", id, err)
	}
	return path, nil
}

// Vacuum compacts the database. Called best-effort after reconcile.
func (d *Database) Vacuum() error {
	start := time.Now()
	var err error
	defer func() { recordQuery("vacuum", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	_, err = d.db.ExecContext(ctx, "VACUUM")
	return err
}

// NormalizePath converts a path to the catalog's canonical form: absolute,
// cleaned, forward-slash separated.
func NormalizePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", p, err)
	}
	return filepath.ToSlash(abs), nil
}

// recordQuery records database query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}

// UpdateDBMetrics updates database connection metrics
func (d *Database) UpdateDBMetrics() {
	stats := d.db.Stats()
	metrics.DBConnectionsOpen.Set(float64(stats.OpenConnections))
}
