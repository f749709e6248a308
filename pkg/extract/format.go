package extract

import (
	"fmt"
	"strings"
)

// Format identifies the container/compression scheme of a package
// archive. The set is closed; dispatch in Extract covers exactly these
// six cases.
type Format int

const (
	// Tar is an uncompressed tar archive.
	Tar Format = iota
	// Tgz is a gzip-compressed tar archive.
	Tgz
	// Txz is an xz-compressed tar archive.
	Txz
	// Tzstd is a zstd-compressed tar archive.
	Tzstd
	// Zip is a zip archive.
	Zip
	// Bin is a bare binary, installed by verbatim copy.
	Bin
)

func (f Format) String() string {
	switch f {
	case Tar:
		return "tar"
	case Tgz:
		return "tgz"
	case Txz:
		return "txz"
	case Tzstd:
		return "tzstd"
	case Zip:
		return "zip"
	case Bin:
		return "bin"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps manifest and CLI tokens to a Format. Common file
// extension spellings are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tar":
		return Tar, nil
	case "tgz", "tar.gz":
		return Tgz, nil
	case "txz", "tar.xz":
		return Txz, nil
	case "tzstd", "tzst", "tar.zst":
		return Tzstd, nil
	case "zip":
		return Zip, nil
	case "bin":
		return Bin, nil
	}
	return 0, fmt.Errorf("extract: unknown package format %q", s)
}
