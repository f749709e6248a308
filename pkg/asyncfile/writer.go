package asyncfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// queueDepth bounds the number of chunks buffered between the producer
// and the writer goroutine. A full queue suspends the producer.
const queueDepth = 100

// ErrAborted is returned by Write and Close after Abort stopped the
// worker before all queued chunks reached disk.
var ErrAborted = errors.New("asyncfile: writer aborted")

// Writer streams byte chunks to a file through a dedicated writer
// goroutine. It supports exactly one producer; chunks reach disk in the
// order they were passed to Write.
//
// Chunk ownership transfers to the Writer on Write: the caller must not
// reuse or modify a chunk after handing it off.
type Writer struct {
	path string

	queue chan []byte   // producer to worker, FIFO
	quit  chan struct{} // closed by Abort
	done  chan struct{} // closed when the worker exits
	err   error         // worker result; valid once done is closed

	closeOnce sync.Once
	abortOnce sync.Once
}

// New creates missing parent directories, creates or truncates the file
// at path, and starts the writer goroutine. On failure no goroutine is
// started and no file is left open.
func New(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create parent directories: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create destination file: %w", err)
	}

	return newWriter(path, f), nil
}

// newWriter starts the worker around an already-open destination. Split
// from New so tests can substitute the destination.
func newWriter(path string, f io.WriteCloser) *Writer {
	w := &Writer{
		path:  path,
		queue: make(chan []byte, queueDepth),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	go w.run(f)

	return w
}

// run is the writer goroutine. It exclusively owns the destination
// handle until it exits.
func (w *Writer) run(f io.WriteCloser) {
	defer close(w.done)
	w.err = w.drain(f)
}

// drain moves chunks from the queue to the destination until the queue
// is closed and empty (flush, close, success), a write fails (first
// error wins), or Abort fires.
func (w *Writer) drain(f io.WriteCloser) error {
	buf := bufio.NewWriter(f)
	for {
		select {
		case chunk, ok := <-w.queue:
			if !ok {
				if err := buf.Flush(); err != nil {
					_ = f.Close()
					return fmt.Errorf("flush %s: %w", w.path, err)
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("close %s: %w", w.path, err)
				}
				return nil
			}
			if _, err := buf.Write(chunk); err != nil {
				_ = f.Close()
				return fmt.Errorf("write %s: %w", w.path, err)
			}
		case <-w.quit:
			_ = f.Close()
			return ErrAborted
		}
	}
}

// Write enqueues chunk for writing, suspending while the queue is full.
// While the worker is alive it keeps draining, so the enqueue always
// eventually succeeds; once the worker has died Write returns its error
// immediately instead of blocking forever on a full queue.
//
// After Write returns an error the Writer must not be written to again;
// Close reports the worker's terminal error.
func (w *Writer) Write(ctx context.Context, chunk []byte) error {
	select {
	case w.queue <- chunk:
		return nil
	case <-w.done:
		if w.err != nil {
			return w.err
		}
		return errors.New("asyncfile: worker exited before Close")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signals that no more chunks will follow, waits for the worker
// to drain the queue, flush, and close the file, and returns the
// worker's terminal error. Close must be called at most once, after all
// Write calls.
func (w *Writer) Close(ctx context.Context) error {
	w.closeOnce.Do(func() { close(w.queue) })

	select {
	case <-w.done:
		return w.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Abort stops the worker without waiting for queued chunks to reach
// disk. It is idempotent and harmless after a successful Close; a
// deferred Abort guarantees the worker never outlives its owner on any
// exit path.
func (w *Writer) Abort() {
	w.abortOnce.Do(func() { close(w.quit) })
}
