package manifest

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const goodManifest = `
[package]
name = "tool"
version = "1.2.0"
repository = "https://github.com/example/tool"

[package.metadata]
pkg-url = "{{ .Repository }}/releases/download/v{{ .Version }}/{{ .Name }}-{{ .OS }}-{{ .Arch }}.{{ .Format }}"
pkg-fmt = "tgz"
bin-dir = "bin"
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "binfetch.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	m, err := Load(writeManifest(t, goodManifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if m.Package.Name != "tool" {
		t.Errorf("name = %q, want 'tool'", m.Package.Name)
	}
	if m.Package.Version != "1.2.0" {
		t.Errorf("version = %q, want '1.2.0'", m.Package.Version)
	}
	if m.Package.Metadata.PkgFmt != "tgz" {
		t.Errorf("pkg-fmt = %q, want 'tgz'", m.Package.Metadata.PkgFmt)
	}
	if m.Package.Metadata.BinDir != "bin" {
		t.Errorf("bin-dir = %q, want 'bin'", m.Package.Metadata.BinDir)
	}
}

func TestLoadRejectsInvalidTOML(t *testing.T) {
	_, err := Load(writeManifest(t, "[package\nname ="))
	if err == nil {
		t.Fatal("expected parse error for invalid TOML")
	}
	if !strings.Contains(err.Error(), "parse manifest") {
		t.Errorf("error does not name the parse stage: %v", err)
	}
}

func TestLoadRejectsMissingFields(t *testing.T) {
	if _, err := Load(writeManifest(t, "[package]\nversion = \"1.0.0\"\n")); err == nil {
		t.Fatal("expected error for missing package.name")
	}
	if _, err := Load(writeManifest(t, "[package]\nname = \"tool\"\n")); err == nil {
		t.Fatal("expected error for missing package.version")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestRenderURL(t *testing.T) {
	m, err := Load(writeManifest(t, goodManifest))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	url, err := RenderURL(m.Package.Metadata.PkgURL, m.URLContext("tgz"))
	if err != nil {
		t.Fatalf("RenderURL: %v", err)
	}

	want := "https://github.com/example/tool/releases/download/v1.2.0/tool-" +
		runtime.GOOS + "-" + runtime.GOARCH + ".tgz"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}

func TestRenderURLBadTemplate(t *testing.T) {
	if _, err := RenderURL("{{ .Name", Context{}); err == nil {
		t.Fatal("expected error for unterminated template")
	}
}
