// Package native implements the pure-Go graphics backend. Images are
// decoded with the standard library and x/image codecs and resized with the
// imaging library; video frames are extracted through ffmpeg when it is
// installed. It is the default backend: no cgo, works everywhere.
package native
