package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Playlists returns all playlists, newest first. Video-id references are
// weak: entries that no longer parse or resolve are preserved as stored and
// tolerated by readers.
func (d *Database) Playlists(ctx context.Context) ([]Playlist, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("playlists", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.db.QueryContext(ctx,
		"SELECT id, name, created, video_ids FROM playlists ORDER BY created DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	playlists := []Playlist{}
	for rows.Next() {
		var p Playlist
		var ids string
		if err = rows.Scan(&p.ID, &p.Name, &p.Created, &ids); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		p.VideoIDs = parseVideoIDs(ids)
		playlists = append(playlists, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return playlists, nil
}

// CreatePlaylist stores a new playlist and returns it with its assigned id
// and creation timestamp.
func (d *Database) CreatePlaylist(ctx context.Context, name string, videoIDs []int64) (Playlist, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("create_playlist", start, err) }()

	if name == "" {
		name = "New Playlist"
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	created := time.Now().Unix()
	result, err := d.db.ExecContext(ctx,
		"INSERT INTO playlists (name, created, video_ids) VALUES (?, ?, ?)",
		name, created, joinVideoIDs(videoIDs))
	if err != nil {
		return Playlist{}, fmt.Errorf("failed to create playlist: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Playlist{}, fmt.Errorf("failed to read playlist id: %w", err)
	}

	if videoIDs == nil {
		videoIDs = []int64{}
	}
	return Playlist{ID: id, Name: name, Created: created, VideoIDs: videoIDs}, nil
}

// DeletePlaylist removes a playlist. Deleting an absent id is a silent no-op.
func (d *Database) DeletePlaylist(ctx context.Context, id int64) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("delete_playlist", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(ctx, "DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist %d: %w", id, err)
	}
	return nil
}

func parseVideoIDs(csv string) []int64 {
	ids := []int64{}
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func joinVideoIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
