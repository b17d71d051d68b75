package database

import (
	"fmt"
	"time"
)

// VideoRecord is a cataloged video file as discovered by the scanner.
type VideoRecord struct {
	ID       int64     `json:"id"`
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// VideoView is a catalog row joined with its user metadata, shaped for the
// browsing interface.
type VideoView struct {
	ID        int64    `json:"id"`
	Path      string   `json:"path"`
	Filename  string   `json:"filename"`
	Size      int64    `json:"size"`
	SizeStr   string   `json:"size_str"`
	PlayCount int      `json:"play_count"`
	Favorite  bool     `json:"favorite"`
	Tags      []string `json:"tags"`
}

// VideoMeta is the user metadata attached to a single video.
type VideoMeta struct {
	PlayCount int      `json:"play_count"`
	Favorite  bool     `json:"favorite"`
	Tags      []string `json:"tags"`
}

// Folder is a distinct parent directory present in the catalog.
type Folder struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TagCount is a tag with its usage frequency.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// WatchEntry is one watch-history row joined with its video path.
type WatchEntry struct {
	ID        int64  `json:"id"`
	Path      string `json:"path"`
	Filename  string `json:"filename"`
	WatchedAt int64  `json:"watched_at"`
}

// Playlist is a named, ordered sequence of video-id references.
type Playlist struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Created  int64   `json:"created"`
	VideoIDs []int64 `json:"video_ids"`
}

// Short is one entry of the randomized discovery feed.
type Short struct {
	ID         int64  `json:"id"`
	Path       string `json:"path"`
	Filename   string `json:"filename"`
	FolderPath string `json:"folder_path"`
	FolderName string `json:"folder_name"`
}

// LibraryStats is the aggregate view over the whole catalog. Zero value is
// the degraded response when an underlying query fails.
type LibraryStats struct {
	Total          int          `json:"total"`
	Favorites      int          `json:"favorites"`
	TotalSize      string       `json:"total_size"`
	TotalSizeBytes int64        `json:"total_size_bytes"`
	Tags           []TagCount   `json:"tags"`
	RecentWatched  []WatchEntry `json:"recent_watched"`
}

// FormatSize renders a byte count in binary units with one decimal place,
// e.g. "153.4 MB".
func FormatSize(bytes int64) string {
	size := float64(bytes)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f PB", size)
}
