package gfx

import (
	"image"
	"testing"
)

func TestSortDescending(t *testing.T) {
	tests := []struct {
		name      string
		dims      []Dimension
		wantOrder []Dimension
		wantSlots []int
	}{
		{
			name:      "already descending",
			dims:      []Dimension{{1000, 1000}, {120, 0}},
			wantOrder: []Dimension{{1000, 1000}, {120, 0}},
			wantSlots: []int{0, 1},
		},
		{
			name:      "ascending caller order",
			dims:      []Dimension{{120, 0}, {1000, 1000}},
			wantOrder: []Dimension{{1000, 1000}, {120, 0}},
			wantSlots: []int{1, 0},
		},
		{
			name:      "square crop area counts as side squared",
			dims:      []Dimension{{200, 100}, {160, 0}},
			wantOrder: []Dimension{{160, 0}, {200, 100}},
			wantSlots: []int{1, 0},
		},
		{
			name:      "single dimension",
			dims:      []Dimension{{250, 0}},
			wantOrder: []Dimension{{250, 0}},
			wantSlots: []int{0},
		},
		{
			name:      "empty",
			dims:      nil,
			wantOrder: []Dimension{},
			wantSlots: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted, slots := sortDescending(tt.dims)
			if len(sorted) != len(tt.wantOrder) {
				t.Fatalf("sorted length = %d, want %d", len(sorted), len(tt.wantOrder))
			}
			for i := range sorted {
				if sorted[i] != tt.wantOrder[i] {
					t.Errorf("sorted[%d] = %v, want %v", i, sorted[i], tt.wantOrder[i])
				}
				if slots[i] != tt.wantSlots[i] {
					t.Errorf("slots[%d] = %d, want %d", i, slots[i], tt.wantSlots[i])
				}
			}
			// The slot mapping must route each sorted result back to the
			// dimension the caller put at that index.
			for pos, idx := range slots {
				if tt.dims[idx] != sorted[pos] {
					t.Errorf("slot mapping broken: sorted[%d]=%v but dims[%d]=%v",
						pos, sorted[pos], idx, tt.dims[idx])
				}
			}
		})
	}
}

func TestTransformSquareCrop(t *testing.T) {
	tests := []struct {
		name     string
		srcW     int
		srcH     int
		dim      Dimension
		wantCrop image.Rectangle
		wantOut  int
	}{
		{
			name:     "landscape centers horizontally",
			srcW:     400,
			srcH:     200,
			dim:      Dimension{120, 0},
			wantCrop: image.Rect(100, 0, 300, 200),
			wantOut:  120,
		},
		{
			name: "portrait offsets one sixth above center",
			srcW: 200,
			srcH: 400,
			dim:  Dimension{120, 0},
			// centered would be y=100; 400/6=66 higher is y=34
			wantCrop: image.Rect(0, 34, 200, 234),
			wantOut:  120,
		},
		{
			name:     "tall portrait clamps at top",
			srcW:     100,
			srcH:     104,
			dim:      Dimension{120, 0},
			wantCrop: image.Rect(0, 0, 100, 100),
			wantOut:  120,
		},
		{
			name:     "square source uses whole frame",
			srcW:     300,
			srcH:     300,
			dim:      Dimension{250, 0},
			wantCrop: image.Rect(0, 0, 300, 300),
			wantOut:  250,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crop, outW, outH := tt.dim.Transform(tt.srcW, tt.srcH)
			if crop != tt.wantCrop {
				t.Errorf("crop = %v, want %v", crop, tt.wantCrop)
			}
			if outW != tt.wantOut || outH != tt.wantOut {
				t.Errorf("out = %dx%d, want %dx%d", outW, outH, tt.wantOut, tt.wantOut)
			}
		})
	}
}

func TestTransformBoundingBoxFit(t *testing.T) {
	tests := []struct {
		name  string
		srcW  int
		srcH  int
		dim   Dimension
		wantW int
		wantH int
	}{
		{name: "wide source limited by width", srcW: 4000, srcH: 2000, dim: Dimension{1000, 1000}, wantW: 1000, wantH: 500},
		{name: "tall source limited by height", srcW: 2000, srcH: 4000, dim: Dimension{1000, 1000}, wantW: 500, wantH: 1000},
		{name: "small source never upscaled", srcW: 300, srcH: 200, dim: Dimension{1000, 1000}, wantW: 300, wantH: 200},
		{name: "exact fit unchanged", srcW: 1000, srcH: 1000, dim: Dimension{1000, 1000}, wantW: 1000, wantH: 1000},
		{name: "extreme aspect keeps at least one pixel", srcW: 10000, srcH: 2, dim: Dimension{1000, 1000}, wantW: 1000, wantH: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crop, outW, outH := tt.dim.Transform(tt.srcW, tt.srcH)
			if crop != image.Rect(0, 0, tt.srcW, tt.srcH) {
				t.Errorf("crop = %v, want full frame", crop)
			}
			if outW != tt.wantW || outH != tt.wantH {
				t.Errorf("out = %dx%d, want %dx%d", outW, outH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestTransformDegenerateSource(t *testing.T) {
	crop, outW, outH := Dimension{120, 0}.Transform(0, 0)
	if crop != (image.Rectangle{}) || outW != 0 || outH != 0 {
		t.Errorf("Transform(0,0) = %v,%d,%d, want zero values", crop, outW, outH)
	}
}

func TestAttrSet(t *testing.T) {
	tests := []struct {
		name string
		set  AttrSet
		want []Attr
	}{
		{name: "empty", set: 0, want: nil},
		{name: "thumbnail only", set: SetThumbnail, want: []Attr{AttrThumbnail}},
		{name: "preview only", set: SetPreview, want: []Attr{AttrPreview}},
		{name: "both in catalog order", set: SetPreview | SetThumbnail, want: []Attr{AttrThumbnail, AttrPreview}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.set.Attrs()
			if len(got) != len(tt.want) {
				t.Fatalf("Attrs() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Attrs()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCatalogOrderIsDescending(t *testing.T) {
	// The preview must outrank the thumbnail so a thumbnail+preview job
	// processes the preview first and backends can derive the thumbnail
	// from its intermediate.
	if Dimensions[AttrPreview].area() <= Dimensions[AttrThumbnail].area() {
		t.Errorf("preview area %d not greater than thumbnail area %d",
			Dimensions[AttrPreview].area(), Dimensions[AttrThumbnail].area())
	}
}
