package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer makes bytes.Buffer safe for the reporter's update goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestReporterCountsBytes(t *testing.T) {
	out := &syncBuffer{}
	r := NewReporter(Options{
		TotalSize:      1000,
		Output:         out,
		UpdateInterval: 10 * time.Millisecond,
		SourceURL:      "https://example.com/pkg.tgz",
	})

	r.Start()
	for i := 0; i < 10; i++ {
		r.Add(100)
	}
	time.Sleep(50 * time.Millisecond)
	r.Stop()

	if got := r.Completed(); got != 1000 {
		t.Errorf("Completed() = %d, want 1000", got)
	}
	if !strings.Contains(out.String(), "https://example.com/pkg.tgz") {
		t.Error("output missing source URL header")
	}
	if !strings.Contains(out.String(), "Downloaded") {
		t.Error("output missing final summary")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	r := NewReporter(Options{Output: &syncBuffer{}})
	r.Start()
	r.Stop()
	r.Stop() // second call must not panic or block
}

func TestFormatBytes(t *testing.T) {
	cases := map[int64]string{
		512:             "512 B",
		2048:            "2.0 KiB",
		5 * 1024 * 1024: "5.0 MiB",
	}
	for n, want := range cases {
		if got := formatBytes(n); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}
