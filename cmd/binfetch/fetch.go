package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"gocloud.dev/blob"

	// Bucket drivers available to -bucket URLs.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/ligustah/binfetch/internal/fetch"
	binhttp "github.com/ligustah/binfetch/internal/http"
	"github.com/ligustah/binfetch/internal/progress"
)

func runFetch(args []string) int {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)

	rawURL := fs.String("url", "", "HTTP or HTTPS URL to download")
	bucketURL := fs.String("bucket", "", "Bucket URL to download from (s3://, gs://, file://)")
	object := fs.String("object", "", "Object key within the bucket")
	output := fs.String("output", "", "Destination file path (required)")
	showProgress := fs.Bool("progress", false, "Report download progress")
	timeout := fs.Duration("timeout", 0, "Overall request timeout (0 disables)")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: binfetch fetch [options]

Download a single archive to a local file, either from an HTTP URL or
from an object storage bucket.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: -output is required")
		fs.Usage()
		return ExitInvalidArgs
	}
	if (*rawURL == "") == (*bucketURL == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -url or -bucket must be given")
		fs.Usage()
		return ExitInvalidArgs
	}
	if *bucketURL != "" && *object == "" {
		fmt.Fprintln(os.Stderr, "Error: -object is required with -bucket")
		fs.Usage()
		return ExitInvalidArgs
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[binfetch] Received interrupt, shutting down...")
		cancel()
	}()

	opts := fetch.Options{HTTP: binhttp.Options{Timeout: *timeout}}

	var reporter *progress.Reporter
	if *showProgress {
		source := *rawURL
		if source == "" {
			source = *bucketURL + "/" + *object
		}
		reporter = progress.NewReporter(progress.Options{SourceURL: source})
		reporter.Start()
		defer reporter.Stop()
		opts.Progress = reporter.Add
	}

	start := time.Now()
	var err error
	if *rawURL != "" {
		err = fetch.DownloadWithOptions(ctx, *rawURL, *output, opts)
	} else {
		var bkt *blob.Bucket
		bkt, err = blob.OpenBucket(ctx, *bucketURL)
		if err == nil {
			defer bkt.Close()
			err = fetch.DownloadFromBucket(ctx, bkt, *object, *output, opts)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitDownloadFailed
	}

	if reporter != nil {
		reporter.Completed()
	}
	log.Debug("download finished", "output", *output, "elapsed", time.Since(start))
	return ExitSuccess
}
