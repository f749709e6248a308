package manifest

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

// Manifest is a parsed binfetch.toml.
type Manifest struct {
	Package Package `toml:"package"`
}

// Package describes one installable package.
type Package struct {
	Name       string `toml:"name"`
	Version    string `toml:"version"`
	Repository string `toml:"repository"`
	Metadata   Meta   `toml:"metadata"`
}

// Meta carries the fetch metadata for a package.
type Meta struct {
	// PkgURL is a text/template producing the download URL.
	PkgURL string `toml:"pkg-url"`
	// PkgFmt is the declared archive format token (see extract.ParseFormat).
	PkgFmt string `toml:"pkg-fmt"`
	// BinDir is the directory inside the archive holding the binaries.
	BinDir string `toml:"bin-dir"`
}

// Load reads and parses the manifest at path. Parse failures wrap
// go-toml's decode error together with the offending path.
func Load(path string) (*Manifest, error) {
	log.Debug("reading manifest", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	if m.Package.Name == "" {
		return nil, fmt.Errorf("manifest %s: missing package.name", path)
	}
	if m.Package.Version == "" {
		return nil, fmt.Errorf("manifest %s: missing package.version", path)
	}

	return &m, nil
}

// Context is the data available to pkg-url templates.
type Context struct {
	Name       string
	Version    string
	Repository string
	OS         string
	Arch       string
	Format     string
}

// URLContext builds the template context for the running platform and
// the given format token.
func (m *Manifest) URLContext(format string) Context {
	return Context{
		Name:       m.Package.Name,
		Version:    m.Package.Version,
		Repository: strings.TrimSuffix(m.Package.Repository, "/"),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Format:     format,
	}
}

// RenderURL executes a pkg-url template against ctx.
func RenderURL(tmpl string, ctx Context) (string, error) {
	t, err := template.New("pkg-url").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse pkg-url template: %w", err)
	}

	var sb strings.Builder
	if err := t.Execute(&sb, ctx); err != nil {
		return "", fmt.Errorf("render pkg-url template: %w", err)
	}
	return sb.String(), nil
}
