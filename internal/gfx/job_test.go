package gfx

import (
	"bytes"
	"testing"
)

func TestTargetVariants(t *testing.T) {
	node := NodeTarget(0xcafe)
	upload := UploadTarget(0xbeef)
	var zero Target

	if !node.Valid() || node.Kind() != TargetNode || node.Handle() != 0xcafe {
		t.Errorf("NodeTarget = %v (kind %v, handle %x)", node, node.Kind(), node.Handle())
	}
	if !upload.Valid() || upload.Kind() != TargetUpload || upload.Handle() != 0xbeef {
		t.Errorf("UploadTarget = %v (kind %v, handle %x)", upload, upload.Kind(), upload.Handle())
	}
	if zero.Valid() {
		t.Error("zero Target reports Valid")
	}

	if node.String() != "node:cafe" {
		t.Errorf("node.String() = %q", node.String())
	}
	if upload.String() != "upload:beef" {
		t.Errorf("upload.String() = %q", upload.String())
	}
	if zero.String() != "invalid" {
		t.Errorf("zero.String() = %q", zero.String())
	}
}

func TestJobOwnsKeyCopy(t *testing.T) {
	key := bytes.Repeat([]byte{0xaa}, KeyLength)
	job := newJob("a.jpg", NodeTarget(1), key, []Attr{AttrThumbnail})

	// Mutating the caller's slice must not touch the job's copy.
	key[0] = 0x00
	if job.Key[0] != 0xaa {
		t.Error("job key aliases the caller's slice")
	}
}

func TestJobReleaseZeroesKey(t *testing.T) {
	key := bytes.Repeat([]byte{0x5c}, KeyLength)
	job := newJob("a.jpg", UploadTarget(7), key, []Attr{AttrThumbnail, AttrPreview})
	job.Images = [][]byte{[]byte("thumb"), []byte("preview")}

	job.Release()

	for i, b := range job.Key {
		if b != 0 {
			t.Fatalf("Key[%d] = %#x after Release, want 0", i, b)
		}
	}
	if job.Images != nil {
		t.Error("Images not dropped on Release")
	}
}

func TestJobDimensions(t *testing.T) {
	job := newJob("a.jpg", NodeTarget(1), make([]byte, KeyLength), []Attr{AttrThumbnail, AttrPreview})
	dims := job.Dimensions()

	if len(dims) != 2 {
		t.Fatalf("Dimensions() length = %d, want 2", len(dims))
	}
	if dims[0] != Dimensions[AttrThumbnail] {
		t.Errorf("dims[0] = %v, want thumbnail %v", dims[0], Dimensions[AttrThumbnail])
	}
	if dims[1] != Dimensions[AttrPreview] {
		t.Errorf("dims[1] = %v, want preview %v", dims[1], Dimensions[AttrPreview])
	}
}
