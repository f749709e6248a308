// Package asyncfile bridges an asynchronous stream of byte chunks into a
// single dedicated disk-writing goroutine.
//
// The writer goroutine is the sole owner of the destination file handle
// for its entire life; producers never touch the file directly. A bounded
// FIFO queue connects the two sides, so a slow disk throttles the
// producer instead of buffering unbounded amounts of data.
//
// # Usage
//
//	w, err := asyncfile.New("/tmp/archive.tgz")
//	if err != nil {
//	    return err
//	}
//	defer w.Abort() // no-op once Close has succeeded
//
//	for chunk := range chunks {
//	    if err := w.Write(ctx, chunk); err != nil {
//	        return err
//	    }
//	}
//	return w.Close(ctx)
//
// # Failure and cancellation
//
// Write never deadlocks against a full queue: it races the enqueue
// against worker termination, so once the worker has died Write returns
// the worker's error promptly. Abort stops the worker without draining;
// chunks still queued are lost and the file is left in an unspecified
// partial state, which callers are expected to clean up.
package asyncfile
