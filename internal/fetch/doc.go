// Package fetch orchestrates all-or-nothing archive downloads.
//
// A download composes three pieces: a chunk stream opened from the
// source (plain HTTP, or an object in a gocloud.dev/blob bucket), an
// asyncfile.Writer at the destination, and a deferred cleanup that
// removes the destination on every failure path. Either the destination
// ends up holding exactly the bytes the source served, in order, or it
// does not exist at all.
//
// # Usage
//
//	err := fetch.Download(ctx, "https://example.com/pkg.tgz", "/tmp/pkg.tgz")
//
// Bucket sources take an already-open bucket plus an object key:
//
//	err := fetch.DownloadFromBucket(ctx, bkt, "pkg/v1.2.0/pkg.tgz", dest, opts)
//
// # Failure behavior
//
// Errors are typed by failing stage: *url.Error for unparseable input,
// *http.Error for transport failures and non-success statuses, and
// wrapped I/O errors from the writer. Cleanup of the partial file is
// best effort and never masks the original error. There are no retries.
package fetch
