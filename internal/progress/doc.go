// Package progress reports byte-level progress for a single download
// stream.
//
// The orchestrator feeds completed chunk sizes into Add; a background
// ticker renders percentage, throughput, and ETA to the configured
// output until Stop is called.
//
// # Usage
//
//	r := progress.NewReporter(progress.Options{
//	    TotalSize: size,
//	    SourceURL: url,
//	})
//	r.Start()
//	defer r.Stop()
//
//	opts.Progress = r.Add
package progress
