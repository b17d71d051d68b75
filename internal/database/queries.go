package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	stdpath "path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"video-manager/internal/logging"
	"video-manager/internal/mediatypes"
	"video-manager/internal/metrics"
)

// SortKey selects the ordering of a video listing. Unrecognized keys fall
// back to SortModifiedDesc.
type SortKey string

const (
	SortModifiedDesc  SortKey = "modified_desc"
	SortModifiedAsc   SortKey = "modified_asc"
	SortNameAsc       SortKey = "name_asc"
	SortNameDesc      SortKey = "name_desc"
	SortPlayCountDesc SortKey = "play_count_desc"
	SortSizeDesc      SortKey = "size_desc"
	SortSizeAsc       SortKey = "size_asc"
)

var orderClauses = map[SortKey]string{
	SortModifiedDesc:  "v.modified DESC",
	SortModifiedAsc:   "v.modified ASC",
	SortNameAsc:       "v.path ASC",
	SortNameDesc:      "v.path DESC",
	SortPlayCountDesc: "COALESCE(m.play_count, 0) DESC",
	SortSizeDesc:      "v.size DESC",
	SortSizeAsc:       "v.size ASC",
}

// ListOptions is the filter/sort/paginate configuration for ListVideos.
// Filters are a conjunction; zero values mean "not filtered".
type ListOptions struct {
	Folder        string
	FavoritesOnly bool
	Search        string
	Tag           string
	Sort          SortKey
	Limit         int
	Offset        int
}

const (
	shortsMaxFolders = 50
	topTagLimit      = 20
	recentWatchLimit = 10
)

// ListVideos returns one page of the filtered catalog plus the total count
// matching the filter.
//
// A favorites or tag filter requires a video_meta row (inner join); without
// either, metadata-less videos still appear with zero defaults. If a
// folder-only filter matches nothing, the folder is shallowly adopted into
// the catalog and the query re-run, so browsing outside any scanned root
// works without a full scan.
func (d *Database) ListVideos(ctx context.Context, opts ListOptions) ([]VideoView, int, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_videos", start, err) }()

	if opts.Limit < 1 {
		opts.Limit = 50
	}
	if opts.Limit > 500 {
		opts.Limit = 500
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	orderClause, ok := orderClauses[opts.Sort]
	if !ok {
		orderClause = orderClauses[SortModifiedDesc]
	}

	var whereParts []string
	var params []interface{}

	if opts.Folder != "" {
		folder, normErr := NormalizePath(opts.Folder)
		if normErr != nil {
			err = normErr
			return nil, 0, err
		}
		whereParts = append(whereParts, "v.path LIKE ?")
		params = append(params, strings.TrimSuffix(folder, "/")+"/%")
	}
	if opts.FavoritesOnly {
		whereParts = append(whereParts, "m.favorite = 1")
	}
	if opts.Search != "" {
		whereParts = append(whereParts, "(v.path LIKE ? OR COALESCE(m.tags, '') LIKE ?)")
		pattern := "%" + opts.Search + "%"
		params = append(params, pattern, pattern)
	}
	if opts.Tag != "" {
		whereParts = append(whereParts, "COALESCE(m.tags, '') LIKE ?")
		params = append(params, "%"+opts.Tag+"%")
	}

	joinType := "LEFT JOIN"
	if opts.FavoritesOnly || opts.Tag != "" {
		joinType = "INNER JOIN"
	}

	whereClause := ""
	if len(whereParts) > 0 {
		whereClause = "WHERE " + strings.Join(whereParts, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT v.id, v.path, v.size, m.play_count, m.favorite, m.tags
		FROM videos v
		%s video_meta m ON v.id = m.video_id
		%s
		ORDER BY %s
		LIMIT ? OFFSET ?`, joinType, whereClause, orderClause)

	videos, err := d.queryVideoViews(ctx, query, append(params, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, err
	}

	// Lazy adoption: an empty result for a bare folder filter usually means
	// the folder was never scanned, not that it is empty.
	if len(videos) == 0 && opts.Folder != "" && !opts.FavoritesOnly && opts.Search == "" && opts.Tag == "" {
		if adopted := d.adoptFolder(opts.Folder); adopted > 0 {
			videos, err = d.queryVideoViews(ctx, query, append(params, opts.Limit, opts.Offset)...)
			if err != nil {
				return nil, 0, err
			}
		}
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM videos v
		%s video_meta m ON v.id = m.video_id
		%s`, joinType, whereClause)

	d.mu.RLock()
	var total int
	err = d.db.QueryRowContext(ctx, countQuery, params...).Scan(&total)
	d.mu.RUnlock()
	if err != nil {
		return nil, 0, fmt.Errorf("count query failed: %w", err)
	}

	return videos, total, nil
}

func (d *Database) queryVideoViews(ctx context.Context, query string, params ...interface{}) ([]VideoView, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("select query failed: %w", err)
	}
	defer rows.Close()

	videos := []VideoView{}
	for rows.Next() {
		var v VideoView
		var playCount sql.NullInt64
		var favorite sql.NullInt64
		var tags sql.NullString

		if err := rows.Scan(&v.ID, &v.Path, &v.Size, &playCount, &favorite, &tags); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		v.Filename = stdpath.Base(v.Path)
		v.SizeStr = FormatSize(v.Size)
		v.PlayCount = int(playCount.Int64)
		v.Favorite = favorite.Int64 == 1
		v.Tags = SplitTags(tags.String)

		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return videos, nil
}

// adoptFolder does a shallow, non-recursive adoption of video files directly
// inside folder, with the scanner's insert-if-absent semantics. Returns the
// number of files offered to the catalog (not necessarily newly inserted).
func (d *Database) adoptFolder(folder string) int {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return 0
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		logging.Warn("Failed to read folder %s for adoption: %v", folder, err)
		return 0
	}

	var records []VideoRecord
	for _, entry := range entries {
		if entry.IsDir() || !mediatypes.IsVideoFile(entry.Name()) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		norm, err := NormalizePath(filepath.Join(folder, entry.Name()))
		if err != nil {
			continue
		}
		records = append(records, VideoRecord{
			Path:     norm,
			Size:     fi.Size(),
			Modified: fi.ModTime(),
		})
	}

	if len(records) == 0 {
		return 0
	}

	tx, err := d.BeginBatch()
	if err != nil {
		logging.Error("Failed to begin adoption transaction for %s: %v", folder, err)
		return 0
	}
	if err := d.EndBatch(tx, d.InsertVideos(tx, records)); err != nil {
		logging.Error("Failed to adopt folder %s: %v", folder, err)
		return 0
	}

	logging.Info("Adopted %d videos from unscanned folder %s", len(records), folder)
	return len(records)
}

// Folders returns every distinct parent directory in the catalog with its
// video count, sorted by descending count then ascending path.
func (d *Database) Folders(ctx context.Context) ([]Folder, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("folders", start, err) }()

	d.mu.RLock()
	rows, err := d.db.QueryContext(ctx, "SELECT path FROM videos")
	d.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var p string
		if err = rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		counts[stdpath.Dir(p)]++
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	folders := make([]Folder, 0, len(counts))
	for p, c := range counts {
		folders = append(folders, Folder{Path: p, Name: folderName(p), Count: c})
	}

	sort.Slice(folders, func(i, j int) bool {
		if folders[i].Count != folders[j].Count {
			return folders[i].Count > folders[j].Count
		}
		return folders[i].Path < folders[j].Path
	})

	return folders, nil
}

func folderName(p string) string {
	name := stdpath.Base(p)
	if name == "/" || name == "." {
		return p
	}
	return name
}

// Shorts returns the randomized discovery feed: folders shuffled, one
// uniformly random video per folder, capped at shortsMaxFolders. Sampling is
// fresh on every call.
func (d *Database) Shorts(ctx context.Context) ([]Short, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("shorts", start, err) }()

	d.mu.RLock()
	rows, err := d.db.QueryContext(ctx, "SELECT id, path FROM videos")
	d.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to query videos for shorts: %w", err)
	}
	defer rows.Close()

	groups := make(map[string][]VideoRecord)
	for rows.Next() {
		var rec VideoRecord
		if err = rows.Scan(&rec.ID, &rec.Path); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		dir := stdpath.Dir(rec.Path)
		groups[dir] = append(groups[dir], rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	folders := make([]string, 0, len(groups))
	for f := range groups {
		folders = append(folders, f)
	}
	rand.Shuffle(len(folders), func(i, j int) {
		folders[i], folders[j] = folders[j], folders[i]
	})

	shorts := []Short{}
	for _, f := range folders {
		videos := groups[f]
		pick := videos[rand.IntN(len(videos))]
		shorts = append(shorts, Short{
			ID:         pick.ID,
			Path:       pick.Path,
			Filename:   stdpath.Base(pick.Path),
			FolderPath: f,
			FolderName: folderName(f),
		})
		if len(shorts) >= shortsMaxFolders {
			break
		}
	}

	return shorts, nil
}

// Stats returns the aggregate library view. Stats are best-effort: any
// underlying failure degrades to the zero response instead of an error.
func (d *Database) Stats(ctx context.Context) LibraryStats {
	stats, err := d.calculateStats(ctx)
	if err != nil {
		logging.Error("Stats query failed, returning zero stats: %v", err)
		return LibraryStats{
			TotalSize:     FormatSize(0),
			Tags:          []TagCount{},
			RecentWatched: []WatchEntry{},
		}
	}
	return stats
}

func (d *Database) calculateStats(ctx context.Context) (LibraryStats, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("stats", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := LibraryStats{Tags: []TagCount{}, RecentWatched: []WatchEntry{}}

	if err = d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM videos").Scan(&stats.Total); err != nil {
		return stats, fmt.Errorf("total count failed: %w", err)
	}
	if err = d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM video_meta WHERE favorite = 1").Scan(&stats.Favorites); err != nil {
		return stats, fmt.Errorf("favorite count failed: %w", err)
	}

	var totalSize sql.NullInt64
	if err = d.db.QueryRowContext(ctx, "SELECT SUM(size) FROM videos").Scan(&totalSize); err != nil {
		return stats, fmt.Errorf("size sum failed: %w", err)
	}
	stats.TotalSizeBytes = totalSize.Int64
	stats.TotalSize = FormatSize(totalSize.Int64)

	stats.Tags, err = d.topTags(ctx)
	if err != nil {
		return stats, err
	}

	stats.RecentWatched, err = d.recentWatched(ctx)
	if err != nil {
		return stats, err
	}

	metrics.LibraryVideosTotal.Set(float64(stats.Total))
	metrics.LibrarySizeBytes.Set(float64(stats.TotalSizeBytes))
	metrics.LibraryFavoritesTotal.Set(float64(stats.Favorites))

	return stats, nil
}

// topTags builds the tag histogram. Ties are broken by first-encounter
// order, so the sort must be stable over rows read in insertion order.
func (d *Database) topTags(ctx context.Context) ([]TagCount, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT tags FROM video_meta WHERE tags != '' ORDER BY video_id")
	if err != nil {
		return nil, fmt.Errorf("tag query failed: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	var order []string
	for rows.Next() {
		var csv string
		if err := rows.Scan(&csv); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		for _, tag := range SplitTags(csv) {
			if counts[tag] == 0 {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	tags := make([]TagCount, 0, len(order))
	for _, name := range order {
		tags = append(tags, TagCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(tags, func(i, j int) bool {
		return tags[i].Count > tags[j].Count
	})

	if len(tags) > topTagLimit {
		tags = tags[:topTagLimit]
	}
	return tags, nil
}

// recentWatched returns the latest history entries joined with their video
// paths. The inner join filters out dangling video ids.
func (d *Database) recentWatched(ctx context.Context) ([]WatchEntry, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT v.id, v.path, h.watched_at
		FROM watch_history h
		JOIN videos v ON h.video_id = v.id
		ORDER BY h.watched_at DESC, h.id DESC
		LIMIT ?`, recentWatchLimit)
	if err != nil {
		return nil, fmt.Errorf("history query failed: %w", err)
	}
	defer rows.Close()

	entries := []WatchEntry{}
	for rows.Next() {
		var e WatchEntry
		if err := rows.Scan(&e.ID, &e.Path, &e.WatchedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		e.Filename = stdpath.Base(e.Path)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return entries, nil
}

// Meta returns the user metadata view for one video, or the zero view if no
// metadata row exists yet.
func (d *Database) Meta(ctx context.Context, videoID int64) (VideoMeta, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("meta", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	meta := VideoMeta{Tags: []string{}}

	var favorite int
	var tags string
	err = d.db.QueryRowContext(ctx,
		"SELECT play_count, favorite, tags FROM video_meta WHERE video_id = ?",
		videoID).Scan(&meta.PlayCount, &favorite, &tags)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return meta, nil
	}
	if err != nil {
		return meta, fmt.Errorf("meta query failed: %w", err)
	}

	meta.Favorite = favorite == 1
	meta.Tags = SplitTags(tags)
	return meta, nil
}
