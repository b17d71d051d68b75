package database

import (
	"context"
	"testing"
)

func TestToggleFavoriteFromAbsent(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	insertTestVideos(t, db, []VideoRecord{testRecord("/media/m/x.mp4", 100)})
	paths, err := db.AllVideoPaths(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	id := paths[0].ID

	if err := db.ToggleFavorite(context.Background(), id); err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	meta, err := db.Meta(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if !meta.Favorite {
		t.Error("first toggle on a metadata-less video should set favorite=true")
	}

	if err := db.ToggleFavorite(context.Background(), id); err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	meta, err = db.Meta(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Favorite {
		t.Error("second toggle should set favorite=false")
	}
}

func TestSetTagsOverwrites(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	const id = 1
	if err := db.SetTags(context.Background(), id, []string{"a"}); err != nil {
		t.Fatal(err)
	}
	if err := db.SetTags(context.Background(), id, []string{"b"}); err != nil {
		t.Fatal(err)
	}

	meta, err := db.Meta(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if len(meta.Tags) != 1 || meta.Tags[0] != "b" {
		t.Errorf("tags after overwrite = %v, want [b]", meta.Tags)
	}
}

func TestBulkAddTagsMerges(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	const id = 1
	if err := db.BulkAddTags(context.Background(), []int64{id}, "a"); err != nil {
		t.Fatal(err)
	}
	if err := db.BulkAddTags(context.Background(), []int64{id}, "b"); err != nil {
		t.Fatal(err)
	}
	// Re-adding an existing tag must not duplicate it
	if err := db.BulkAddTags(context.Background(), []int64{id}, "a"); err != nil {
		t.Fatal(err)
	}

	meta, err := db.Meta(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if len(meta.Tags) != 2 || meta.Tags[0] != "a" || meta.Tags[1] != "b" {
		t.Errorf("tags after merges = %v, want [a b]", meta.Tags)
	}
}

func TestRecordPlayCountAndHistory(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	insertTestVideos(t, db, []VideoRecord{testRecord("/media/p/x.mp4", 100)})
	paths, err := db.AllVideoPaths(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	id := paths[0].ID

	for i := 0; i < 3; i++ {
		if err := db.RecordPlay(context.Background(), id); err != nil {
			t.Fatalf("RecordPlay() #%d error = %v", i+1, err)
		}
	}

	meta, err := db.Meta(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if meta.PlayCount != 3 {
		t.Errorf("play count = %d, want 3", meta.PlayCount)
	}

	stats := db.Stats(context.Background())
	if len(stats.RecentWatched) != 3 {
		t.Fatalf("history has %d entries, want 3", len(stats.RecentWatched))
	}
	for _, e := range stats.RecentWatched {
		if e.ID != id {
			t.Errorf("history entry for video %d, want %d", e.ID, id)
		}
	}
	for i := 1; i < len(stats.RecentWatched); i++ {
		if stats.RecentWatched[i-1].WatchedAt < stats.RecentWatched[i].WatchedAt {
			t.Error("recent watched not ordered most-recent-first")
		}
	}
}

func TestRecordPlayUnknownVideo(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	// Weak reference: the id is not validated against the catalog
	if err := db.RecordPlay(context.Background(), 424242); err != nil {
		t.Errorf("RecordPlay(unknown id) error = %v, want nil", err)
	}

	// Dangling history entries are filtered out of recent watched
	stats := db.Stats(context.Background())
	if len(stats.RecentWatched) != 0 {
		t.Errorf("recent watched = %+v, want dangling entry filtered", stats.RecentWatched)
	}
}

func TestBulkSetFavorite(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	ids := []int64{1, 2, 3}
	if err := db.BulkSetFavorite(context.Background(), ids, true); err != nil {
		t.Fatal(err)
	}
	for _, id := range ids {
		meta, err := db.Meta(context.Background(), id)
		if err != nil {
			t.Fatal(err)
		}
		if !meta.Favorite {
			t.Errorf("video %d not favorite after bulk add", id)
		}
	}

	if err := db.BulkSetFavorite(context.Background(), ids[:2], false); err != nil {
		t.Fatal(err)
	}
	meta, err := db.Meta(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Favorite {
		t.Error("video 1 still favorite after bulk remove")
	}
	meta, err = db.Meta(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if !meta.Favorite {
		t.Error("video 3 lost favorite though not in bulk remove")
	}

	// Removing favorite from a metadata-less video must create the row off
	if err := db.BulkSetFavorite(context.Background(), []int64{9}, false); err != nil {
		t.Fatal(err)
	}
	meta, err = db.Meta(context.Background(), 9)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Favorite {
		t.Error("video 9 favorite after bulk remove from absent")
	}
}
