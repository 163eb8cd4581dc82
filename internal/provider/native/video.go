package native

import (
	"bytes"
	"fmt"
	"image"
	"os/exec"

	"gfx-engine/internal/logging"
)

// extractFrame pulls a single frame out of a media file with ffmpeg,
// preferring the frame at one second in so the result is not a black
// lead-in, and falling back to the first frame for very short clips.
func (b *bitmap) extractFrame(path string) (image.Image, error) {
	if b.ffmpeg == "" {
		return nil, fmt.Errorf("ffmpeg not available")
	}

	frame, err := b.runFFmpeg(path, true)
	if err != nil {
		logging.Debug("native: seeked frame extraction failed for %s: %v", path, err)
		frame, err = b.runFFmpeg(path, false)
	}
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("decode extracted frame: %w", err)
	}
	return img, nil
}

func (b *bitmap) runFFmpeg(path string, seek bool) ([]byte, error) {
	args := []string{"-i", path}
	if seek {
		args = []string{"-ss", "00:00:01", "-i", path}
	}
	args = append(args,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	cmd := exec.Command(b.ffmpeg, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %v: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output")
	}
	return stdout.Bytes(), nil
}
