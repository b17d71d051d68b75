package database

import (
	"context"
	"fmt"
	"time"

	"video-manager/internal/logging"
)

// Metadata mutator. Every operation is an idempotent upsert in a single
// bounded transaction; bulk operations make no cross-video atomicity
// promise. The scanner never writes video_meta rows, so user edits and a
// concurrent scan cannot conflict on the same row.

// RecordPlay increments the play count (creating the metadata row at count 1
// if absent), stamps last_played, and appends one watch-history entry.
// The video id is a weak reference: it is not validated against the catalog.
func (d *Database) RecordPlay(ctx context.Context, videoID int64) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("record_play", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin play transaction: %w", err)
	}

	now := time.Now().Unix()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO video_meta (video_id, play_count, last_played)
		VALUES (?, 1, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			play_count = play_count + 1,
			last_played = excluded.last_played`,
		videoID, now)
	if err == nil {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO watch_history (video_id, watched_at) VALUES (?, ?)",
			videoID, now)
	}
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.Error("rollback after play failure also failed: %v", rbErr)
		}
		return fmt.Errorf("failed to record play for video %d: %w", videoID, err)
	}

	return tx.Commit()
}

// ToggleFavorite flips the favorite flag. Toggling a video with no metadata
// row turns the flag on.
func (d *Database) ToggleFavorite(ctx context.Context, videoID int64) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("toggle_favorite", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO video_meta (video_id, favorite)
		VALUES (?, 1)
		ON CONFLICT(video_id) DO UPDATE SET
			favorite = CASE WHEN video_meta.favorite = 1 THEN 0 ELSE 1 END`,
		videoID)
	if err != nil {
		return fmt.Errorf("failed to toggle favorite for video %d: %w", videoID, err)
	}
	return nil
}

// SetTags replaces the entire tag set for a video (overwrite upsert).
func (d *Database) SetTags(ctx context.Context, videoID int64, tags []string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("set_tags", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO video_meta (video_id, tags)
		VALUES (?, ?)
		ON CONFLICT(video_id) DO UPDATE SET tags = excluded.tags`,
		videoID, JoinTags(tags))
	if err != nil {
		return fmt.Errorf("failed to set tags for video %d: %w", videoID, err)
	}
	return nil
}

// BulkAddTags merges (set union) the tags parsed from tagCSV into each
// video's existing tags. Each video is its own transaction; a mid-bulk
// failure leaves earlier videos updated.
func (d *Database) BulkAddTags(ctx context.Context, videoIDs []int64, tagCSV string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("bulk_add_tags", start, err) }()

	for _, id := range videoIDs {
		if err = d.addTagsOne(ctx, id, tagCSV); err != nil {
			return fmt.Errorf("failed to add tags to video %d: %w", id, err)
		}
	}
	return nil
}

func (d *Database) addTagsOne(ctx context.Context, videoID int64, tagCSV string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	var existing string
	row := tx.QueryRowContext(ctx,
		"SELECT tags FROM video_meta WHERE video_id = ?", videoID)
	// ErrNoRows leaves existing empty, which merges to just the new tags.
	_ = row.Scan(&existing)

	merged := MergeTags(existing, tagCSV)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO video_meta (video_id, tags)
		VALUES (?, ?)
		ON CONFLICT(video_id) DO UPDATE SET tags = excluded.tags`,
		videoID, merged)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.Error("rollback after tag merge failure also failed: %v", rbErr)
		}
		return err
	}

	return tx.Commit()
}

// BulkSetFavorite upserts each video's favorite flag to the given state.
func (d *Database) BulkSetFavorite(ctx context.Context, videoIDs []int64, on bool) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("bulk_set_favorite", start, err) }()

	val := 0
	if on {
		val = 1
	}

	for _, id := range videoIDs {
		d.mu.Lock()
		opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
		_, err = d.db.ExecContext(opCtx, `
			INSERT INTO video_meta (video_id, favorite)
			VALUES (?, ?)
			ON CONFLICT(video_id) DO UPDATE SET favorite = excluded.favorite`,
			id, val)
		cancel()
		d.mu.Unlock()

		if err != nil {
			return fmt.Errorf("failed to set favorite for video %d: %w", id, err)
		}
	}
	return nil
}
