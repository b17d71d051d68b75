package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ExportVideo is one row of an export snapshot: a catalog record joined
// with its user metadata.
type ExportVideo struct {
	Path      string `json:"path"`
	Size      int64  `json:"size"`
	Modified  int64  `json:"modified"`
	PlayCount int    `json:"play_count"`
	Favorite  bool   `json:"favorite"`
	Tags      string `json:"tags"`
}

// ExportData is the full snapshot written by ExportSnapshot.
type ExportData struct {
	ExportedAt string        `json:"exported_at"`
	Videos     []ExportVideo `json:"videos"`
}

// ExportSnapshot dumps every video joined with its metadata to a timestamped
// JSON file under dir and returns the file path.
func (d *Database) ExportSnapshot(ctx context.Context, dir string) (string, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("export", start, err) }()

	d.mu.RLock()
	rows, err := d.db.QueryContext(ctx, `
		SELECT v.path, v.size, v.modified, m.play_count, m.favorite, m.tags
		FROM videos v
		LEFT JOIN video_meta m ON v.id = m.video_id`)
	d.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("export query failed: %w", err)
	}
	defer rows.Close()

	data := ExportData{
		ExportedAt: time.Now().Format(time.RFC3339),
		Videos:     []ExportVideo{},
	}

	for rows.Next() {
		var v ExportVideo
		var playCount, favorite sql.NullInt64
		var tags sql.NullString
		if err = rows.Scan(&v.Path, &v.Size, &v.Modified, &playCount, &favorite, &tags); err != nil {
			return "", fmt.Errorf("scan failed: %w", err)
		}
		v.PlayCount = int(playCount.Int64)
		v.Favorite = favorite.Int64 == 1
		v.Tags = tags.String
		data.Videos = append(data.Videos, v)
	}
	if err = rows.Err(); err != nil {
		return "", fmt.Errorf("rows error: %w", err)
	}

	filename := fmt.Sprintf("video_manager_export_%d.json", time.Now().Unix())
	path := filepath.Join(dir, filename)

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}
	if err = os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
