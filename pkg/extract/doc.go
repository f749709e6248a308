// Package extract unpacks package archives into a destination directory.
//
// The archive format is always declared by the caller; nothing is ever
// sniffed from file content. Six formats are supported: plain tar,
// gzip/xz/zstd compressed tar, zip, and a bare binary that is copied
// verbatim.
//
// Entries whose resolved path would escape the destination directory
// are rejected with ErrInsecurePath rather than written outside it.
// Extraction is all-or-nothing: the first corrupt entry, unsupported
// entry, or filesystem error aborts the run, and the caller is expected
// to retry from a clean destination.
package extract
