// Package installpath resolves the directory binaries are installed to.
package installpath

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// Environment variables consulted during resolution, in priority order
// after an explicit override.
const (
	EnvInstallRoot = "BINFETCH_INSTALL_ROOT"
	EnvHome        = "BINFETCH_HOME"
)

// Resolve picks the installation directory. Priority: explicit override,
// $BINFETCH_INSTALL_ROOT/bin, $BINFETCH_HOME/bin, $HOME/.binfetch/bin
// when it already exists, and finally the per-user executable directory.
// Returns ok=false when no rule produces a directory. Resolve never
// creates anything.
func Resolve(override string) (string, bool) {
	if override != "" {
		return override, true
	}

	if p := os.Getenv(EnvInstallRoot); p != "" {
		log.Debug("using install root override", "var", EnvInstallRoot, "path", p)
		return filepath.Join(p, "bin"), true
	}

	if p := os.Getenv(EnvHome); p != "" {
		log.Debug("using binfetch home", "var", EnvHome, "path", p)
		return filepath.Join(p, "bin"), true
	}

	if home, err := os.UserHomeDir(); err == nil {
		d := filepath.Join(home, ".binfetch", "bin")
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			log.Debug("using existing user bin directory", "path", d)
			return d, true
		}
	}

	if xdg.BinHome != "" {
		log.Debug("falling back to user executable directory", "path", xdg.BinHome)
		return xdg.BinHome, true
	}

	return "", false
}
