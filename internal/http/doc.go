// Package http is the HTTP boundary for package downloads.
//
// This package handles:
//   - GET requests that expose the response body as a chunk stream
//   - Existence probes with a caller-chosen method
//   - Structured errors naming method, URL, and cause
//
// There is deliberately no retry logic here: a failed request is
// reported once and the caller decides what to do.
//
// # Usage
//
//	client := http.NewClient(http.DefaultOptions())
//
//	body, size, err := client.Get(ctx, url)
//	defer body.Close()
//
//	ok, err := client.Exists(ctx, "HEAD", url)
package http
