// Package mediatypes holds the static media format catalogs shared by the
// graphics backends: which file extensions are treated as images or videos
// for pre-submission filtering.
package mediatypes
