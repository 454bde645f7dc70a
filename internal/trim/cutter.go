package trim

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.senan.xyz/taglib"
)

// Cutter truncates the audio stream of src at lengthMS and writes the result
// to dst, applying the given output tags.
type Cutter interface {
	Cut(ctx context.Context, src, dst string, lengthMS int64, tags map[string][]string) error
}

// FFmpegCutter shells out to ffmpeg for the decode/cut/encode step and
// rewrites tags on the result with taglib. The output codec follows the
// destination extension.
type FFmpegCutter struct {
	Binary string
}

func (c FFmpegCutter) Cut(ctx context.Context, src, dst string, lengthMS int64, tags map[string][]string) error {
	binary := c.Binary
	if binary == "" {
		binary = "ffmpeg"
	}

	duration := fmt.Sprintf("%d.%03d", lengthMS/1000, lengthMS%1000)
	cmd := exec.CommandContext(ctx, binary,
		"-y",
		"-i", src,
		"-t", duration,
		"-map_metadata", "0",
		dst,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if len(detail) > 512 {
			detail = detail[len(detail)-512:]
		}
		return fmt.Errorf("ffmpeg cut %s: %w: %s", src, err, detail)
	}

	if len(tags) > 0 {
		if err := taglib.WriteTags(dst, tags, 0); err != nil {
			return fmt.Errorf("write output tags: %w", err)
		}
	}
	return nil
}
