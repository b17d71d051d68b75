package database

import (
	"reflect"
	"testing"
)

func TestSplitTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		csv  string
		want []string
	}{
		{"empty", "", []string{}},
		{"single", "music", []string{"music"}},
		{"multiple", "music,live", []string{"music", "live"}},
		{"whitespace trimmed", " music , live ", []string{"music", "live"}},
		{"blanks dropped", "music,,live,", []string{"music", "live"}},
		{"case preserved", "Music,music", []string{"Music", "music"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTags(tt.csv)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitTags(%q) = %v, want %v", tt.csv, got, tt.want)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	t.Parallel()

	got := NormalizeTags([]string{"b", "a", "b", " ", "c", "a"})
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTags() = %v, want %v (first-occurrence order)", got, want)
	}
}

func TestMergeTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing string
		add      string
		want     string
	}{
		{"into empty", "", "a,b", "a,b"},
		{"union", "a", "b", "a,b"},
		{"no duplicates", "a,b", "b,c", "a,b,c"},
		{"existing order kept", "c,a", "b", "c,a,b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeTags(tt.existing, tt.add); got != tt.want {
				t.Errorf("MergeTags(%q, %q) = %q, want %q", tt.existing, tt.add, got, tt.want)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0.0 B"},
		{512, "512.0 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{160870465536, "149.8 GB"},
		{1099511627776, "1.0 TB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
