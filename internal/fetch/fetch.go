package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/charmbracelet/log"
	"gocloud.dev/blob"

	binhttp "github.com/ligustah/binfetch/internal/http"
	"github.com/ligustah/binfetch/pkg/asyncfile"
)

// chunkSize is how much of the body is read per chunk. Ownership of
// each chunk transfers to the writer, so a fresh buffer is allocated
// per read.
const chunkSize = 64 * 1024

// Options configures a download.
type Options struct {
	// HTTP configures the HTTP boundary for http/https sources.
	HTTP binhttp.Options

	// Progress, if set, is called with the size of every chunk after it
	// has been accepted by the writer.
	Progress func(n int64)
}

// Download fetches rawURL into dest with default options. See
// DownloadWithOptions.
func Download(ctx context.Context, rawURL, dest string) error {
	return DownloadWithOptions(ctx, rawURL, dest, Options{})
}

// DownloadWithOptions streams the archive at rawURL to dest. On success
// dest holds exactly the served bytes in order; on any failure dest is
// removed and the error names the failing stage.
func DownloadWithOptions(ctx context.Context, rawURL, dest string, opts Options) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("parse url: unsupported scheme %q", u.Scheme)
	}
	log.Debug("downloading", "url", u.Redacted(), "dest", dest)

	body, _, err := binhttp.NewClient(opts.HTTP).Get(ctx, u.String())
	if err != nil {
		return err
	}
	defer body.Close()

	return writeStream(ctx, body, dest, opts)
}

// DownloadFromBucket streams the object at key from an already-open
// bucket into dest. Same all-or-nothing contract as
// DownloadWithOptions; the caller keeps ownership of the bucket.
func DownloadFromBucket(ctx context.Context, bkt *blob.Bucket, key, dest string, opts Options) error {
	log.Debug("downloading", "key", key, "dest", dest)

	r, err := bkt.NewReader(ctx, key, nil)
	if err != nil {
		return fmt.Errorf("open object %s: %w", key, err)
	}
	defer r.Close()

	return writeStream(ctx, r, dest, opts)
}

// Exists reports whether the archive at rawURL is reachable, probing
// with the given method (typically HEAD). Only the status class is
// inspected; the body is discarded.
func Exists(ctx context.Context, method, rawURL string, opts Options) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("parse url: %w", err)
	}
	return binhttp.NewClient(opts.HTTP).Exists(ctx, method, u.String())
}

// ExistsInBucket reports whether the object at key exists in the bucket.
func ExistsInBucket(ctx context.Context, bkt *blob.Bucket, key string) (bool, error) {
	ok, err := bkt.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("probe object %s: %w", key, err)
	}
	return ok, nil
}

// writeStream forwards body to an asyncfile.Writer at dest, chunk by
// chunk in order, and finalizes the file only after the body is
// exhausted and the writer has flushed.
func writeStream(ctx context.Context, body io.Reader, dest string, opts Options) error {
	w, err := asyncfile.New(dest)
	if err != nil {
		return err
	}
	defer w.Abort()

	// Remove the partial file on every failure path. Removal errors are
	// deliberately dropped so they never mask the download error.
	completed := false
	defer func() {
		if !completed {
			_ = os.Remove(dest)
		}
	}()

	for {
		buf := make([]byte, chunkSize)
		n, readErr := body.Read(buf)
		if n > 0 {
			if err := w.Write(ctx, buf[:n]); err != nil {
				return err
			}
			if opts.Progress != nil {
				opts.Progress(int64(n))
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("read response body: %w", readErr)
		}
	}

	if err := w.Close(ctx); err != nil {
		return err
	}
	completed = true

	log.Debug("download complete", "dest", dest)
	return nil
}
