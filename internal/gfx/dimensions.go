package gfx

import (
	"image"
	"sort"
)

// JPEGQuality is the encode quality used for every generated attribute.
// Both the synchronous and asynchronous paths use this constant so the two
// produce identical bytes for identical inputs.
const JPEGQuality = 85

// Dimension describes one requested output size.
//
// Height == 0 means "largest square crop of side Width": centered for
// landscape sources, offset one sixth of the source height above center for
// portrait sources. Width and Height both nonzero means "resize to fit
// inside the Width×Height bounding box", never upscaling.
type Dimension struct {
	Width  int
	Height int
}

// Attr identifies one bitmap attribute family member.
type Attr int

const (
	// AttrThumbnail is the small square-crop attribute.
	AttrThumbnail Attr = iota
	// AttrPreview is the larger bounding-box-fit attribute.
	AttrPreview

	numAttrs
)

// AttrSet is a bitmask of requested attributes for one submission.
type AttrSet uint8

const (
	// SetThumbnail selects the thumbnail attribute.
	SetThumbnail AttrSet = 1 << AttrThumbnail
	// SetPreview selects the preview attribute.
	SetPreview AttrSet = 1 << AttrPreview
)

// Has reports whether the set contains a.
func (s AttrSet) Has(a Attr) bool { return s&(1<<a) != 0 }

// Attrs returns the members of the set in catalog order.
func (s AttrSet) Attrs() []Attr {
	var out []Attr
	for a := Attr(0); a < numAttrs; a++ {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// Dimension catalogs. The avatar family is served by the synchronous path
// only, matching how callers use it.
var (
	// Dimensions maps each async attribute to its output size.
	Dimensions = [numAttrs]Dimension{
		AttrThumbnail: {Width: 120, Height: 0},
		AttrPreview:   {Width: 1000, Height: 1000},
	}

	// DimensionAvatar is the square avatar size.
	DimensionAvatar = Dimension{Width: 250, Height: 0}
)

// area is the resolution used for descending-order sorting. A square crop
// w×0 counts as w×w.
func (d Dimension) area() int {
	if d.Height == 0 {
		return d.Width * d.Width
	}
	return d.Width * d.Height
}

// sortDescending returns dims ordered from high to low resolution together
// with a mapping from sorted position to original slot index. Backends rely
// on the descending order to reuse the intermediate downscale of one
// dimension when producing the next, so the engine enforces it before every
// dispatch rather than trusting callers.
func sortDescending(dims []Dimension) (sorted []Dimension, slot []int) {
	sorted = make([]Dimension, len(dims))
	slot = make([]int, len(dims))
	copy(sorted, dims)
	for i := range slot {
		slot[i] = i
	}
	sort.SliceStable(slot, func(i, j int) bool {
		return sorted[slot[i]].area() > sorted[slot[j]].area()
	})
	ordered := make([]Dimension, len(dims))
	for pos, idx := range slot {
		ordered[pos] = dims[idx]
	}
	return ordered, slot
}

// Transform computes the source crop rectangle and output size for rendering
// a srcW×srcH bitmap at dimension d.
//
// For a square crop the rectangle is the largest square that fits: centered
// horizontally for landscape sources; for portrait sources it sits one sixth
// of the source height above center, clamped to the frame, which keeps faces
// in frame for typical photos. For a bounding-box fit the whole frame is
// used and the output is scaled down to fit, never up.
func (d Dimension) Transform(srcW, srcH int) (crop image.Rectangle, outW, outH int) {
	if srcW <= 0 || srcH <= 0 {
		return image.Rectangle{}, 0, 0
	}

	if d.Height == 0 {
		side := srcW
		if srcH < side {
			side = srcH
		}
		x := (srcW - side) / 2
		y := (srcH - side) / 2
		if srcH > srcW {
			y -= srcH / 6
			if y < 0 {
				y = 0
			}
		}
		return image.Rect(x, y, x+side, y+side), d.Width, d.Width
	}

	outW, outH = srcW, srcH
	if outW > d.Width {
		outH = outH * d.Width / outW
		outW = d.Width
	}
	if outH > d.Height {
		outW = outW * d.Height / outH
		outH = d.Height
	}
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	return image.Rect(0, 0, srcW, srcH), outW, outH
}
