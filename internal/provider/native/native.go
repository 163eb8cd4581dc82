package native

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"

	"gfx-engine/internal/gfx"
	"gfx-engine/internal/logging"
	"gfx-engine/internal/mediatypes"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

const (
	// maxDimension caps the working bitmap's longest side. Sources larger
	// than this are downscaled right after decode; every catalog dimension
	// is far below it, so output quality is unaffected.
	maxDimension = 4096

	// maxPixels caps the working bitmap's total pixel count (~20MP is
	// ~80MB as RGBA).
	maxPixels = 20_000_000
)

// Provider is the pure-Go graphics backend.
type Provider struct {
	ffmpeg string // path to ffmpeg, empty if not installed
}

// New returns a Provider. ffmpeg is looked up once; without it, video
// formats are not offered.
func New() *Provider {
	p := &Provider{}
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		p.ffmpeg = path
		logging.Debug("native: using ffmpeg at %s", path)
	} else {
		logging.Info("native: ffmpeg not found, video formats disabled")
	}
	return p
}

// Generate produces one encoded JPEG per dimension. Dimensions arrive in
// descending resolution order; the source is decoded once and later outputs
// are derived from earlier downscales.
func (p *Provider) Generate(fsys gfx.FS, path string, dims []gfx.Dimension) [][]byte {
	return gfx.RenderAll(&bitmap{ffmpeg: p.ffmpeg}, fsys, path, dims)
}

// SupportedImageFormats returns the image extensions this backend decodes.
func (p *Provider) SupportedImageFormats() []string {
	return mediatypes.ImageFormats
}

// SupportedVideoFormats returns the video extensions the ffmpeg path
// accepts, or an empty list when ffmpeg is unavailable.
func (p *Provider) SupportedVideoFormats() []string {
	if p.ffmpeg == "" {
		return []string{}
	}
	return mediatypes.VideoFormats
}

// bitmap holds one decoded source for the duration of a job.
type bitmap struct {
	ffmpeg string
	work   image.Image
}

func (b *bitmap) ReadBitmap(fsys gfx.FS, path string, hint int) error {
	if mediatypes.IsVideo(path) {
		img, err := b.extractFrame(path)
		if err != nil {
			return err
		}
		b.work = constrain(img)
		return nil
	}

	rc, err := fsys.Open(path)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return err
	}

	mt := mimetype.Detect(data)
	logging.Debug("native: %s detected as %s", path, mt.String())

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		// Some containers carry image-like extensions but only decode
		// through ffmpeg (HEIC and friends).
		if b.ffmpeg != "" && ffmpegDecodable(mt) {
			if frame, ferr := b.extractFrame(path); ferr == nil {
				b.work = constrain(frame)
				return nil
			}
		}
		return fmt.Errorf("decode %s: %w", path, err)
	}
	b.work = constrain(img)
	return nil
}

// ffmpegDecodable reports whether a failed decode is worth retrying through
// ffmpeg: video containers and the HEIC/HEIF/AVIF family, which none of the
// registered image decoders handle. Anything else that imaging rejected is
// simply broken.
func ffmpegDecodable(mt *mimetype.MIME) bool {
	if strings.HasPrefix(mt.String(), "video/") {
		return true
	}
	switch mt.String() {
	case "image/heic", "image/heif", "image/heic-sequence", "image/heif-sequence", "image/avif":
		return true
	}
	return false
}

func (b *bitmap) Render(dim gfx.Dimension) ([]byte, error) {
	if b.work == nil {
		return nil, fmt.Errorf("no bitmap loaded")
	}
	bounds := b.work.Bounds()
	crop, outW, outH := dim.Transform(bounds.Dx(), bounds.Dy())
	if outW == 0 || outH == 0 {
		return nil, fmt.Errorf("empty source bitmap")
	}

	var out *image.NRGBA
	if dim.Height == 0 {
		out = imaging.Resize(imaging.Crop(b.work, crop.Add(bounds.Min)), outW, outH, imaging.Lanczos)
	} else {
		out = imaging.Resize(b.work, outW, outH, imaging.Lanczos)
		// A bounding-box fit preserves the whole frame, so later, smaller
		// dimensions can start from this intermediate.
		b.work = out
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(gfx.JPEGQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *bitmap) FreeBitmap() {
	b.work = nil
}

// constrain downscales oversized sources before any per-dimension work, so
// one pathological input cannot hold tens of working megabytes.
func constrain(img image.Image) image.Image {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w <= maxDimension && h <= maxDimension && w*h <= maxPixels {
		return img
	}

	tw, th := w, h
	if tw > maxDimension || th > maxDimension {
		if tw > th {
			th = th * maxDimension / tw
			tw = maxDimension
		} else {
			tw = tw * maxDimension / th
			th = maxDimension
		}
	}
	if tw*th > maxPixels {
		scale := float64(maxPixels) / float64(tw*th)
		tw = int(float64(tw) * scale)
		th = int(float64(th) * scale)
	}
	logging.Info("native: constraining %dx%d source to %dx%d", w, h, tw, th)
	return imaging.Resize(img, tw, th, imaging.Lanczos)
}
