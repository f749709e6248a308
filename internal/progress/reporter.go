package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// TotalSize is the expected size in bytes, or <= 0 when unknown.
	TotalSize int64

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is how often to update the progress display.
	// Default: 500ms
	UpdateInterval time.Duration

	// SourceURL is the source being downloaded (for display).
	SourceURL string
}

// Reporter outputs human-readable progress for one stream.
type Reporter struct {
	opts Options

	completed atomic.Int64

	mu         sync.Mutex
	startTime  time.Time
	lastUpdate time.Time
	lastBytes  int64
	stopped    bool

	stopCh chan struct{}
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
	}
}

// Start begins outputting progress information.
func (r *Reporter) Start() {
	r.mu.Lock()
	r.startTime = time.Now()
	r.lastUpdate = r.startTime
	r.mu.Unlock()

	fmt.Fprintf(r.opts.Output, "[binfetch] Downloading: %s\n", r.opts.SourceURL)
	if r.opts.TotalSize > 0 {
		fmt.Fprintf(r.opts.Output, "[binfetch] Total size: %s\n", formatBytes(r.opts.TotalSize))
	}

	go r.updateLoop()
}

// Stop stops the progress reporter and prints a final summary.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stopCh)
}

// Add records n more bytes as completed. Safe for use as a fetch
// progress hook.
func (r *Reporter) Add(n int64) {
	r.completed.Add(n)
}

// Completed returns the number of bytes recorded so far.
func (r *Reporter) Completed() int64 {
	return r.completed.Load()
}

func (r *Reporter) updateLoop() {
	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

func (r *Reporter) printProgress() {
	now := time.Now()
	completed := r.completed.Load()

	r.mu.Lock()
	elapsed := now.Sub(r.lastUpdate).Seconds()
	if elapsed < 0.1 {
		elapsed = 0.1
	}
	speed := float64(completed-r.lastBytes) / elapsed
	r.lastUpdate = now
	r.lastBytes = completed
	r.mu.Unlock()

	if r.opts.TotalSize > 0 {
		percent := float64(completed) / float64(r.opts.TotalSize) * 100
		fmt.Fprintf(r.opts.Output, "\r[binfetch] Progress: %.1f%% | %s / %s | Speed: %s/s    ",
			percent,
			formatBytes(completed),
			formatBytes(r.opts.TotalSize),
			formatBytes(int64(speed)),
		)
		return
	}

	fmt.Fprintf(r.opts.Output, "\r[binfetch] Progress: %s | Speed: %s/s    ",
		formatBytes(completed),
		formatBytes(int64(speed)),
	)
}

func (r *Reporter) printFinalStatus() {
	completed := r.completed.Load()

	r.mu.Lock()
	duration := time.Since(r.startTime)
	r.mu.Unlock()

	avgSpeed := float64(completed) / duration.Seconds()
	fmt.Fprintf(r.opts.Output, "\r[binfetch] Downloaded %s in %s (%s/s)    \n",
		formatBytes(completed),
		formatDuration(duration),
		formatBytes(int64(avgSpeed)),
	)
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// formatDuration renders a duration rounded to a human scale.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return d.Round(100 * time.Millisecond).String()
	case d < time.Hour:
		return d.Round(time.Second).String()
	default:
		return d.Round(time.Minute).String()
	}
}
