package gfx

import (
	"io"
	"os"

	"gfx-engine/internal/logging"
)

// FS is the read-only filesystem access handed to providers. The engine
// never opens files itself; backends decide how much of a file they need.
type FS interface {
	Open(path string) (io.ReadCloser, error)
}

// OSFS reads from the local filesystem.
type OSFS struct{}

// Open opens the file at path for reading.
func (OSFS) Open(path string) (io.ReadCloser, error) { return os.Open(path) }

// Provider is a pluggable graphics backend.
//
// Generate produces one encoded JPEG per requested dimension. The returned
// slice always has the same length as dims; a nil or empty slot marks a
// per-dimension failure. Dimensions arrive sorted from high to low
// resolution, which permits the backend to derive later outputs from earlier
// intermediate downscales. The engine guarantees Generate is never invoked
// concurrently on one provider instance.
//
// SupportedImageFormats and SupportedVideoFormats return lowercase extension
// lists (without dots) used for pre-submission filtering; nil means the
// backend wants no pre-filtering.
type Provider interface {
	Generate(fsys FS, path string, dims []Dimension) [][]byte
	SupportedImageFormats() []string
	SupportedVideoFormats() []string
}

// Renderer is the single-bitmap contract implemented by local backends.
// ReadBitmap decodes the source, holding at most one bitmap at a time;
// hint is the largest target side, allowing decode-time shrinking. Render
// produces the encoded output for one dimension, possibly replacing the held
// bitmap with its own downscaled intermediate. FreeBitmap releases the held
// bitmap. No Renderer method is called concurrently.
type Renderer interface {
	ReadBitmap(fsys FS, path string, hint int) error
	Render(dim Dimension) ([]byte, error)
	FreeBitmap()
}

// RenderAll drives a Renderer through one job's dimension list, which must
// already be in descending resolution order. It always returns exactly
// len(dims) slots; failed dimensions are nil. A failed ReadBitmap fails
// every slot without invoking Render.
func RenderAll(r Renderer, fsys FS, path string, dims []Dimension) [][]byte {
	out := make([][]byte, len(dims))
	if len(dims) == 0 {
		return out
	}

	hint := dims[0].Width
	if dims[0].Height > hint {
		hint = dims[0].Height
	}

	if err := r.ReadBitmap(fsys, path, hint); err != nil {
		logging.Debug("gfx: read bitmap failed for %s: %v", path, err)
		return out
	}
	defer r.FreeBitmap()

	for i, dim := range dims {
		buf, err := r.Render(dim)
		if err != nil {
			logging.Debug("gfx: render %dx%d failed for %s: %v", dim.Width, dim.Height, path, err)
			continue
		}
		out[i] = buf
	}
	return out
}
