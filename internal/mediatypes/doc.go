// Package mediatypes defines the set of video file extensions recognized by
// the scanner and query layer, together with their MIME types.
package mediatypes
