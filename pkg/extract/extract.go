package extract

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// ErrInsecurePath is returned when an archive entry resolves outside
// the destination directory.
var ErrInsecurePath = errors.New("extract: archive entry escapes destination")

// DecodeError reports archive content that does not match the declared
// format: corruption, truncation, or an unsupported entry.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("extract: decode %s archive: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Extract unpacks the archive at source into dest according to the
// declared format, creating dest if absent. For Bin, dest is the target
// file path and the source is copied verbatim.
func Extract(source string, format Format, dest string) error {
	log.Debug("extracting", "source", source, "format", format, "dest", dest)

	switch format {
	case Tar:
		return withArchive(source, func(f *os.File) error {
			return untar(f, Tar, dest)
		})
	case Tgz:
		return withArchive(source, func(f *os.File) error {
			gz, err := gzip.NewReader(f)
			if err != nil {
				return &DecodeError{Format: Tgz, Err: err}
			}
			defer gz.Close()
			return untar(gz, Tgz, dest)
		})
	case Txz:
		return withArchive(source, func(f *os.File) error {
			xr, err := xz.NewReader(f)
			if err != nil {
				return &DecodeError{Format: Txz, Err: err}
			}
			return untar(xr, Txz, dest)
		})
	case Tzstd:
		return withArchive(source, func(f *os.File) error {
			zr, err := zstd.NewReader(f)
			if err != nil {
				return &DecodeError{Format: Tzstd, Err: err}
			}
			defer zr.Close()
			return untar(zr, Tzstd, dest)
		})
	case Zip:
		return unzip(source, dest)
	case Bin:
		return copyFile(source, dest)
	}
	return fmt.Errorf("extract: unsupported format %v", format)
}

// withArchive opens source read-only for the duration of fn.
func withArchive(source string, fn func(*os.File) error) error {
	f, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()
	return fn(f)
}

// untar materializes a tar stream under dest. format is only used to
// attribute decode errors.
func untar(r io.Reader, format Format, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &DecodeError{Format: format, Err: err}
		}

		target, err := securePath(dest, hdr.Name)
		if err != nil {
			return err
		}
		if target == "" {
			// Entry for the archive root itself.
			continue
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, dirMode(hdr.FileInfo().Mode())); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, hdr.FileInfo().Mode().Perm(), format); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := secureLink(dest, target, hdr.Linkname); err != nil {
				return err
			}
		case tar.TypeXGlobalHeader:
			// Metadata-only entry, nothing to materialize.
		default:
			return &DecodeError{
				Format: format,
				Err:    fmt.Errorf("unsupported entry type %q for %s", hdr.Typeflag, hdr.Name),
			}
		}
	}
}

// unzip materializes a zip archive under dest.
func unzip(source, dest string) error {
	zr, err := zip.OpenReader(source)
	if err != nil {
		if zr != nil {
			_ = zr.Close()
		}
		if errors.Is(err, zip.ErrInsecurePath) {
			return fmt.Errorf("%w: %v", ErrInsecurePath, err)
		}
		return &DecodeError{Format: Zip, Err: err}
	}
	defer zr.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	for _, entry := range zr.File {
		target, err := securePath(dest, entry.Name)
		if err != nil {
			return err
		}
		if target == "" {
			continue
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, dirMode(entry.FileInfo().Mode())); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return &DecodeError{Format: Zip, Err: err}
		}
		err = writeEntry(target, rc, entry.FileInfo().Mode().Perm(), Zip)
		_ = rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// writeEntry writes one archive entry to target, creating intermediate
// directories. Read-side failures (truncated or corrupt content) are
// decode errors; everything else is plain I/O.
func writeEntry(target string, r io.Reader, perm fs.FileMode, format Format) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fileMode(perm))
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	_, copyErr := io.Copy(out, r)
	closeErr := out.Close()
	if copyErr != nil {
		if errors.Is(copyErr, io.ErrUnexpectedEOF) {
			return &DecodeError{Format: format, Err: copyErr}
		}
		return fmt.Errorf("write %s: %w", target, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", target, closeErr)
	}
	return nil
}

// copyFile copies source verbatim to dest, preserving the source mode.
// Used for the Bin format, where dest is the installed binary path.
func copyFile(source, dest string) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("stat %s: %w", source, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	return withArchive(source, func(f *os.File) error {
		return writeEntryPlain(dest, f, info.Mode().Perm())
	})
}

func writeEntryPlain(target string, r io.Reader, perm fs.FileMode) error {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fileMode(perm))
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	_, copyErr := io.Copy(out, r)
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("write %s: %w", target, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", target, closeErr)
	}
	return nil
}

// securePath resolves an archive entry name under dest, rejecting
// absolute names and parent traversal. An empty return with nil error
// marks an entry for the root directory itself.
func securePath(dest, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." {
		return "", nil
	}
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf("%w: %s", ErrInsecurePath, name)
	}
	return filepath.Join(dest, clean), nil
}

// secureLink creates a symlink after verifying the link target stays
// inside dest.
func secureLink(dest, target, linkname string) error {
	if filepath.IsAbs(linkname) {
		return fmt.Errorf("%w: symlink to %s", ErrInsecurePath, linkname)
	}
	resolved := filepath.Join(filepath.Dir(target), filepath.FromSlash(linkname))
	if rel, err := filepath.Rel(dest, resolved); err != nil || !filepath.IsLocal(rel) {
		return fmt.Errorf("%w: symlink to %s", ErrInsecurePath, linkname)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.Symlink(linkname, target); err != nil {
		return fmt.Errorf("create symlink: %w", err)
	}
	return nil
}

// dirMode widens archive directory permissions so extraction can keep
// writing into directories that were archived read-only.
func dirMode(m fs.FileMode) fs.FileMode {
	return m.Perm() | 0o700
}

// fileMode guarantees the owner can read back what was just written.
func fileMode(m fs.FileMode) fs.FileMode {
	if m == 0 {
		return 0o644
	}
	return m | 0o400
}
