package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
)

// LoadProgress shows a running count of rows read from the source file.
// The total is unknown up front, so the bar renders as a spinner.
type LoadProgress struct {
	bar    *progressbar.ProgressBar
	writer io.Writer
	rows   int
}

// NewLoadProgress creates a progress indicator writing to w.
func NewLoadProgress(w io.Writer, description string) *LoadProgress {
	p := &LoadProgress{writer: w}
	p.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]%s[reset]", description)),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return p
}

// Update records the number of rows read so far. It matches the loader's
// progress callback.
func (p *LoadProgress) Update(rows int) {
	p.rows = rows
	if err := p.bar.Set(rows); err != nil {
		slog.Debug("Failed to update progress bar", "error", err)
	}
}

// Finish completes the bar.
func (p *LoadProgress) Finish() {
	if err := p.bar.Finish(); err != nil {
		slog.Debug("Failed to finish progress bar", "error", err)
	}
}

// Rows returns the last reported row count.
func (p *LoadProgress) Rows() int {
	return p.rows
}
