package database

import "strings"

// Tags are semantically a set of free-text labels, stored comma-joined.
// Deduplication is case-sensitive and insertion order is preserved.

// SplitTags parses a stored comma-joined tag string into a slice.
// Blank entries are dropped; the result is never nil.
func SplitTags(csv string) []string {
	tags := []string{}
	for _, t := range strings.Split(csv, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// NormalizeTags trims, drops blanks, and deduplicates a tag list while
// preserving first-occurrence order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := []string{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// JoinTags renders a tag list in storage form.
func JoinTags(tags []string) string {
	return strings.Join(NormalizeTags(tags), ",")
}

// MergeTags unions the tags parsed from addCSV into the existing stored
// value, returning the new storage form. Existing tags keep their order;
// new tags are appended in the order given.
func MergeTags(existing, addCSV string) string {
	merged := SplitTags(existing)
	merged = append(merged, SplitTags(addCSV)...)
	return JoinTags(merged)
}
