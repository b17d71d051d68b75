package scanner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"video-manager/internal/database"
	"video-manager/internal/logging"
	"video-manager/internal/mediatypes"
	"video-manager/internal/metrics"
)

const (
	// Number of discovered files to buffer before committing a batch
	batchSize = 500

	// Publish progress every N processed files, not per-file, so progress
	// synchronization doesn't dominate the walk
	progressInterval = 50

	// Delay between batch commits to let query traffic through
	batchDelay = 10 * time.Millisecond
)

var (
	// ErrEmptyPath is returned when a scan is requested with no target.
	ErrEmptyPath = errors.New("scan target directory is empty")

	// ErrScanActive is returned when a scan is requested while one is
	// already running. Progress state has no instance identity, so
	// overlapping scans are rejected rather than raced.
	ErrScanActive = errors.New("a scan is already in progress")
)

// Progress is the snapshot published by an in-flight scan and polled by
// status requests.
type Progress struct {
	IsScanning  bool   `json:"is_scanning"`
	Total       int    `json:"total"`
	Processed   int    `json:"processed"`
	CurrentPath string `json:"current_path"`
}

// Scanner walks directory trees, reconciling discovered video files into the
// catalog. At most one scan runs at a time; Status may be polled freely
// while a scan is running.
type Scanner struct {
	db *database.Database

	mu       sync.Mutex // guards progress and active
	progress Progress
	active   bool

	stopChan chan struct{}
	stopOnce sync.Once
}

// New creates a Scanner writing into db.
func New(db *database.Database) *Scanner {
	return &Scanner{
		db:       db,
		stopChan: make(chan struct{}),
	}
}

// Start validates root and launches the scan worker, returning immediately.
// Returns ErrEmptyPath for an empty target and ErrScanActive if a scan is
// already running.
func (s *Scanner) Start(root string) error {
	if root == "" {
		return ErrEmptyPath
	}

	norm, err := database.NormalizePath(root)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return ErrScanActive
	}
	s.active = true
	s.progress = Progress{IsScanning: true, CurrentPath: norm}
	s.mu.Unlock()

	go s.run(norm)
	return nil
}

// Stop requests cooperative cancellation of any in-flight scan. The worker
// checks for it between files and batches; the current batch still commits.
func (s *Scanner) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// Status returns a snapshot of the current scan progress. Safe to call
// concurrently with a running scan.
func (s *Scanner) Status() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// IsScanning reports whether a scan is currently running.
func (s *Scanner) IsScanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Scanner) stopped() bool {
	select {
	case <-s.stopChan:
		return true
	default:
		return false
	}
}

// run executes one scan: estimate, discovery, reconcile, compaction. Once
// started a scan cannot fail, only finish with partial results; the next
// run's reconcile corrects anything left stale.
func (s *Scanner) run(root string) {
	start := time.Now()
	processed := 0

	metrics.ScannerRunsTotal.Inc()
	metrics.ScannerIsRunning.Set(1)

	// Pollers must never observe a stuck "scanning" state, whatever way
	// the worker exits.
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Scan worker panicked: %v", r)
		}
		metrics.ScannerIsRunning.Set(0)

		s.mu.Lock()
		s.active = false
		s.progress.IsScanning = false
		s.progress.Processed = processed
		s.progress.CurrentPath = ""
		s.mu.Unlock()
	}()

	logging.Info("Scan started: %s", root)

	// Phase 1: estimate, published before any mutation
	total := s.estimate(root)
	s.mu.Lock()
	s.progress.Total = total
	s.mu.Unlock()
	logging.Info("Scan estimate: %d video files under %s", total, root)

	// Phase 2: discovery
	processed = s.discover(root)

	// Phase 3: reconcile, strictly after discovery so a file being
	// inserted can't be concurrently considered missing
	if !s.stopped() {
		s.reconcile()
	}

	// Phase 4: best-effort compaction
	if err := s.db.Vacuum(); err != nil {
		logging.Warn("Post-scan vacuum failed: %v", err)
	}

	duration := time.Since(start)
	metrics.ScannerLastRunTimestamp.Set(float64(time.Now().Unix()))
	metrics.ScannerLastRunDuration.Set(duration.Seconds())
	logging.Info("Scan complete: %d files processed in %v", processed, duration)
}

// estimate walks the tree once counting extension matches, giving pollers an
// early approximate total.
func (s *Scanner) estimate(root string) int {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if s.stopped() {
			return fs.SkipAll
		}
		if err != nil {
			// Estimate is advisory; errors are dealt with in discovery
			return nil
		}
		if !d.IsDir() && mediatypes.IsVideoFile(d.Name()) {
			count++
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.SkipAll) {
		logging.Warn("Estimate walk error for %s: %v", root, err)
	}
	return count
}

// discover walks the tree, buffering discovered videos and flushing them as
// insert-if-absent batch transactions. Returns the number of files processed.
func (s *Scanner) discover(root string) int {
	var batch []database.VideoRecord
	processed := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if s.stopped() {
			return fs.SkipAll
		}
		if err != nil {
			s.logFileError(path, err)
			return nil
		}
		if d.IsDir() || !mediatypes.IsVideoFile(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.logFileError(path, err)
			return nil
		}

		norm, err := database.NormalizePath(path)
		if err != nil {
			logging.Error("Failed to normalize %s: %v", path, err)
			return nil
		}

		batch = append(batch, database.VideoRecord{
			Path:     norm,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})

		if len(batch) >= batchSize {
			s.flush(batch)
			batch = batch[:0]
			time.Sleep(batchDelay)
		}

		processed++
		if processed%progressInterval == 0 {
			s.mu.Lock()
			s.progress.Processed = processed
			s.progress.CurrentPath = filepath.ToSlash(filepath.Dir(path))
			s.mu.Unlock()
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.SkipAll) {
		logging.Error("Discovery walk error for %s: %v", root, err)
	}

	if len(batch) > 0 {
		s.flush(batch)
	}

	metrics.ScannerFilesDiscovered.Add(float64(processed))
	return processed
}

// logFileError applies the per-file failure policy: permission denied is
// logged and skipped, a vanished file is a transient race and skipped
// silently, anything else is logged with context. Scanning always continues.
func (s *Scanner) logFileError(path string, err error) {
	switch {
	case errors.Is(err, fs.ErrPermission):
		logging.Warn("Permission denied: %s", path)
		metrics.ScannerFileErrors.WithLabelValues("permission").Inc()
	case errors.Is(err, fs.ErrNotExist):
		metrics.ScannerFileErrors.WithLabelValues("vanished").Inc()
	default:
		logging.Error("Unexpected error scanning %s: %v", path, err)
		metrics.ScannerFileErrors.WithLabelValues("other").Inc()
	}
}

// flush commits one insert-if-absent batch. Batch boundaries are transaction
// boundaries, so concurrent readers never see a partial flush.
func (s *Scanner) flush(batch []database.VideoRecord) {
	tx, err := s.db.BeginBatch()
	if err != nil {
		logging.Error("Failed to begin batch transaction: %v", err)
		return
	}
	if err := s.db.EndBatch(tx, s.db.InsertVideos(tx, batch)); err != nil {
		logging.Error("Failed to commit batch of %d: %v", len(batch), err)
	}
}

// reconcile prunes catalog entries whose backing files are gone, in batches
// of the same size as discovery. Only a definite not-exist prunes; an
// unreadable file keeps its entry.
func (s *Scanner) reconcile() {
	records, err := s.db.AllVideoPaths(context.Background())
	if err != nil {
		logging.Error("Reconcile enumeration failed: %v", err)
		return
	}

	var missing []int64
	pruned := 0
	for _, rec := range records {
		if s.stopped() {
			return
		}
		if _, err := os.Stat(filepath.FromSlash(rec.Path)); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, rec.ID)
			if len(missing) >= batchSize {
				pruned += s.prune(missing)
				missing = missing[:0]
			}
		}
	}
	if len(missing) > 0 {
		pruned += s.prune(missing)
	}

	if pruned > 0 {
		metrics.ScannerFilesPruned.Add(float64(pruned))
		logging.Info("Reconcile removed %d entries with missing files", pruned)
	}
}

func (s *Scanner) prune(ids []int64) int {
	tx, err := s.db.BeginBatch()
	if err != nil {
		logging.Error("Failed to begin prune transaction: %v", err)
		return 0
	}
	if err := s.db.EndBatch(tx, s.db.DeleteVideos(tx, ids)); err != nil {
		logging.Error("Failed to commit prune of %d: %v", len(ids), err)
		return 0
	}
	return len(ids)
}
