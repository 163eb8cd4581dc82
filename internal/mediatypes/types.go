package mediatypes

import (
	"path/filepath"
	"strings"
)

// ImageFormats lists the image extensions (lowercase, no dot) the pure-Go
// backend can decode, directly or via its ffmpeg fallback.
var ImageFormats = []string{
	"bmp", "gif", "heic", "heif", "jpeg", "jpg", "png", "tif", "tiff", "webp",
}

// VideoFormats lists the video extensions (lowercase, no dot) the ffmpeg
// frame-extraction path accepts.
var VideoFormats = []string{
	"3gp", "avi", "flv", "m4v", "mkv", "mov", "mp4", "mpeg", "mpg", "ts", "webm", "wmv",
}

// Ext returns path's extension normalized for catalog lookup: lowercase,
// without the leading dot.
func Ext(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// IsImage reports whether path's extension is in ImageFormats.
func IsImage(path string) bool { return contains(ImageFormats, Ext(path)) }

// IsVideo reports whether path's extension is in VideoFormats.
func IsVideo(path string) bool { return contains(VideoFormats, Ext(path)) }

func contains(list []string, ext string) bool {
	if ext == "" {
		return false
	}
	for _, e := range list {
		if e == ext {
			return true
		}
	}
	return false
}
