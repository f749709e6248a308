package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"

	binhttp "github.com/ligustah/binfetch/internal/http"
)

func destPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "archive.bin")
}

func TestDownloadChunkedResponse(t *testing.T) {
	// Ten 100-byte chunks, flushed one at a time.
	var want bytes.Buffer
	chunks := make([][]byte, 10)
	for i := range chunks {
		chunks[i] = bytes.Repeat([]byte{byte('a' + i)}, 100)
		want.Write(chunks[i])
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for _, c := range chunks {
			w.Write(c)
			flusher.Flush()
		}
	}))
	defer server.Close()

	dest := destPath(t)
	if err := Download(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("Download: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if len(got) != 1000 {
		t.Fatalf("destination size = %d, want 1000", len(got))
	}
	if !bytes.Equal(got, want.Bytes()) {
		t.Fatal("destination bytes differ from served chunks")
	}
}

func TestDownloadServerErrorLeavesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	dest := destPath(t)
	err := Download(context.Background(), server.URL, dest)

	var httpErr *binhttp.Error
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *http.Error, got %v", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatal("destination file exists after failed download")
	}
}

func TestDownloadTruncatedBodyLeavesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Promise more than is delivered; the client sees an
		// unexpected EOF mid-body.
		w.Header().Set("Content-Length", strconv.Itoa(2000))
		w.Write(bytes.Repeat([]byte{'x'}, 500))
	}))
	defer server.Close()

	dest := destPath(t)
	if err := Download(context.Background(), server.URL, dest); err == nil {
		t.Fatal("expected error for truncated body")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatal("destination file exists after truncated download")
	}
}

func TestDownloadCancelledMidStreamLeavesNoFile(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte{'x'}, 100))
		w.(http.Flusher).Flush()
		<-release // stall the body until the client gives up
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	dest := destPath(t)
	if err := Download(ctx, server.URL, dest); err == nil {
		t.Fatal("expected error after cancellation")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatal("destination file exists after cancelled download")
	}
}

func TestDownloadInvalidURL(t *testing.T) {
	dest := destPath(t)

	if err := Download(context.Background(), "http://bad url/x", dest); err == nil {
		t.Fatal("expected parse error for malformed url")
	}
	if err := Download(context.Background(), "ftp://example.com/pkg", dest); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatal("destination file exists after rejected url")
	}
}

func TestDownloadUncreatableDestination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))
	defer server.Close()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	dest := filepath.Join(blocker, "archive.bin")
	if err := Download(context.Background(), server.URL, dest); err == nil {
		t.Fatal("expected I/O error for uncreatable destination")
	}
}

func TestDownloadProgress(t *testing.T) {
	payload := bytes.Repeat([]byte{'p'}, 4096)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	var reported int64
	opts := Options{Progress: func(n int64) { reported += n }}

	if err := DownloadWithOptions(context.Background(), server.URL, destPath(t), opts); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if reported != int64(len(payload)) {
		t.Errorf("progress reported %d bytes, want %d", reported, len(payload))
	}
}

func TestDownloadFromBucket(t *testing.T) {
	ctx := context.Background()
	bkt, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bkt.Close()

	payload := bytes.Repeat([]byte{0xAB}, 300*1024)
	if err := bkt.WriteAll(ctx, "pkg/v1/archive.tgz", payload, nil); err != nil {
		t.Fatalf("seed bucket: %v", err)
	}

	dest := destPath(t)
	if err := DownloadFromBucket(ctx, bkt, "pkg/v1/archive.tgz", dest, Options{}); err != nil {
		t.Fatalf("DownloadFromBucket: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("destination bytes differ from bucket object")
	}
}

func TestDownloadFromBucketMissingKeyLeavesNoFile(t *testing.T) {
	ctx := context.Background()
	bkt, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bkt.Close()

	dest := destPath(t)
	if err := DownloadFromBucket(ctx, bkt, "absent", dest, Options{}); err == nil {
		t.Fatal("expected error for missing object")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatal("destination file exists after failed bucket download")
	}
}

func TestExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pkg.tgz" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	ok, err := Exists(context.Background(), http.MethodHead, server.URL+"/pkg.tgz", Options{})
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Error("expected archive to exist")
	}

	ok, err = Exists(context.Background(), http.MethodHead, server.URL+"/other", Options{})
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Error("expected missing archive to not exist")
	}
}

func TestExistsInBucket(t *testing.T) {
	ctx := context.Background()
	bkt, err := blob.OpenBucket(ctx, "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bkt.Close()

	if err := bkt.WriteAll(ctx, "pkg.tgz", []byte("data"), nil); err != nil {
		t.Fatalf("seed bucket: %v", err)
	}

	ok, err := ExistsInBucket(ctx, bkt, "pkg.tgz")
	if err != nil {
		t.Fatalf("ExistsInBucket: %v", err)
	}
	if !ok {
		t.Error("expected object to exist")
	}

	ok, err = ExistsInBucket(ctx, bkt, "absent")
	if err != nil {
		t.Fatalf("ExistsInBucket: %v", err)
	}
	if ok {
		t.Error("expected absent object to not exist")
	}
}
