package canvasrender

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Screenshot queues a labeled capture of the surface. It is written at the
// end of the next Redraw pass to Config.ScreenshotDir as
// <timestamp>_<label>.png.
func (c *Canvas) Screenshot(label string) {
	c.screenshotQueue = append(c.screenshotQueue, label)
	// Make sure a pass happens even if nothing else changed.
	c.RequestRedraw(Rect{})
}

// flushScreenshots writes the surface once per queued label.
func (c *Canvas) flushScreenshots() {
	if len(c.screenshotQueue) == 0 {
		return
	}
	defer func() { c.screenshotQueue = c.screenshotQueue[:0] }()

	dir := c.cfg.ScreenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.log.Error("canvasrender: screenshot mkdir", "dir", dir, "err", err)
		return
	}
	stamp := time.Now().Format("20060102_150405")
	for _, label := range c.screenshotQueue {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := c.writePNG(path); err != nil {
			c.log.Error("canvasrender: screenshot", "path", path, "err", err)
		}
	}
}

func (c *Canvas) writePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := c.surface.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
