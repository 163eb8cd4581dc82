package gfx

import (
	"sync"
	"testing"
)

type stubProvider struct {
	name    string
	images  []string
	videos  []string
	results func(path string, dims []Dimension) [][]byte
}

func (s *stubProvider) Generate(fsys FS, path string, dims []Dimension) [][]byte {
	if s.results != nil {
		return s.results(path, dims)
	}
	out := make([][]byte, len(dims))
	for i := range out {
		out[i] = []byte(s.name)
	}
	return out
}

func (s *stubProvider) SupportedImageFormats() []string { return s.images }
func (s *stubProvider) SupportedVideoFormats() []string { return s.videos }

func TestProviderSlotSnapshotSurvivesReplace(t *testing.T) {
	a := &stubProvider{name: "a"}
	b := &stubProvider{name: "b"}

	slot := NewProviderSlot(a)
	snap := slot.Snapshot()
	slot.Replace(b)

	if snap != Provider(a) {
		t.Error("snapshot changed identity after Replace")
	}
	if got := slot.Snapshot(); got != Provider(b) {
		t.Error("Snapshot after Replace did not return the new provider")
	}

	// The old snapshot keeps working regardless of the swap.
	out := snap.Generate(OSFS{}, "x.jpg", []Dimension{{120, 0}})
	if string(out[0]) != "a" {
		t.Errorf("old snapshot generated %q, want %q", out[0], "a")
	}
}

func TestProviderSlotConcurrentReplace(t *testing.T) {
	slot := NewProviderSlot(&stubProvider{name: "initial"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				slot.Replace(&stubProvider{name: "swapped"})
				if slot.Snapshot() == nil {
					t.Error("Snapshot returned nil during concurrent Replace")
					return
				}
			}
		}()
	}
	wg.Wait()
}
