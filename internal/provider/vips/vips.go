package vips

import (
	"fmt"
	"io"
	"sync"

	"gfx-engine/internal/gfx"
	"gfx-engine/internal/logging"
	"gfx-engine/internal/mediatypes"

	govips "github.com/davidbyttow/govips/v2/vips"
)

var (
	initMu      sync.Mutex
	initialized bool
	available   bool
)

// Init starts libvips with conservative memory settings and bridges its log
// output into our leveled logger. Idempotent; must run before New.
func Init() error {
	initMu.Lock()
	defer initMu.Unlock()

	if initialized {
		return nil
	}

	govips.LoggingSettings(logHandler, vipsThreshold())

	govips.Startup(&govips.Config{
		ConcurrencyLevel: 1, // the engine serializes jobs anyway
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	initialized = true
	available = true
	logging.Info("vips: libvips initialized (version %s)", govips.Version)
	return nil
}

// Shutdown releases libvips resources. The process cannot Init again after.
func Shutdown() {
	initMu.Lock()
	defer initMu.Unlock()
	if initialized {
		govips.Shutdown()
		initialized = false
		available = false
		logging.Info("vips: libvips shutdown complete")
	}
}

// Available reports whether Init has completed.
func Available() bool {
	initMu.Lock()
	defer initMu.Unlock()
	return available
}

func vipsThreshold() govips.LogLevel {
	switch logging.GetLevel() {
	case logging.LevelDebug:
		return govips.LogLevelInfo
	case logging.LevelWarn:
		return govips.LogLevelError
	case logging.LevelError:
		return govips.LogLevelCritical
	default:
		return govips.LogLevelWarning
	}
}

func logHandler(domain string, level govips.LogLevel, msg string) {
	switch {
	case level <= govips.LogLevelCritical:
		logging.Error("vips[%s]: %s", domain, msg)
	case level == govips.LogLevelWarning:
		logging.Warn("vips[%s]: %s", domain, msg)
	default:
		logging.Debug("vips[%s]: %s", domain, msg)
	}
}

// Provider is the libvips graphics backend.
type Provider struct{}

// New returns a Provider. Init must have succeeded first.
func New() (*Provider, error) {
	if !Available() {
		return nil, fmt.Errorf("vips: not initialized")
	}
	return &Provider{}, nil
}

// Generate produces one encoded JPEG per dimension. Dimensions arrive in
// descending resolution order; the loaded image is progressively downscaled
// so later dimensions start from the previous intermediate.
func (p *Provider) Generate(fsys gfx.FS, path string, dims []gfx.Dimension) [][]byte {
	return gfx.RenderAll(&bitmap{}, fsys, path, dims)
}

// SupportedImageFormats returns the image extensions libvips handles here.
func (p *Provider) SupportedImageFormats() []string {
	return mediatypes.ImageFormats
}

// SupportedVideoFormats returns an empty list: this backend has no video
// path, so videos are filtered out before submission.
func (p *Provider) SupportedVideoFormats() []string {
	return []string{}
}

type bitmap struct {
	ref *govips.ImageRef
}

func (b *bitmap) ReadBitmap(fsys gfx.FS, path string, hint int) error {
	rc, err := fsys.Open(path)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return err
	}

	ref, err := govips.LoadImageFromBuffer(data, govips.NewImportParams())
	if err != nil {
		return fmt.Errorf("vips load %s: %w", path, err)
	}
	if err := ref.AutoRotate(); err != nil {
		ref.Close()
		return fmt.Errorf("vips autorotate %s: %w", path, err)
	}
	b.ref = ref
	return nil
}

func (b *bitmap) Render(dim gfx.Dimension) ([]byte, error) {
	if b.ref == nil {
		return nil, fmt.Errorf("no bitmap loaded")
	}

	work, err := b.ref.Copy()
	if err != nil {
		return nil, err
	}

	crop, outW, outH := dim.Transform(work.Width(), work.Height())
	if outW == 0 || outH == 0 {
		work.Close()
		return nil, fmt.Errorf("empty source bitmap")
	}

	if dim.Height == 0 {
		if err := work.ExtractArea(crop.Min.X, crop.Min.Y, crop.Dx(), crop.Dy()); err != nil {
			work.Close()
			return nil, err
		}
		err = work.ThumbnailWithSize(outW, outH, govips.InterestingNone, govips.SizeBoth)
	} else {
		err = work.ThumbnailWithSize(outW, outH, govips.InterestingNone, govips.SizeDown)
	}
	if err != nil {
		work.Close()
		return nil, err
	}

	buf, _, err := work.ExportJpeg(&govips.JpegExportParams{
		Quality:        gfx.JPEGQuality,
		StripMetadata:  true,
		OptimizeCoding: true,
	})
	if err != nil {
		work.Close()
		return nil, err
	}

	if dim.Height == 0 {
		// Crops discard the frame; keep deriving from the held image.
		work.Close()
	} else {
		// The fit result keeps the whole frame at reduced size; later,
		// smaller dimensions can start from it.
		b.ref.Close()
		b.ref = work
	}
	return buf, nil
}

func (b *bitmap) FreeBitmap() {
	if b.ref != nil {
		b.ref.Close()
		b.ref = nil
	}
}
