package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/ligustah/binfetch/internal/config"
	"github.com/ligustah/binfetch/internal/fetch"
	binhttp "github.com/ligustah/binfetch/internal/http"
	"github.com/ligustah/binfetch/internal/installpath"
	"github.com/ligustah/binfetch/internal/manifest"
	"github.com/ligustah/binfetch/internal/prompt"
	"github.com/ligustah/binfetch/pkg/extract"
)

func runInstall(args []string) int {
	fs := flag.NewFlagSet("install", flag.ExitOnError)

	manifestPath := fs.String("manifest", "binfetch.toml", "Package manifest to install from")
	pathOverride := fs.String("path", "", "Install directory (overrides resolution)")
	formatFlag := fs.String("format", "", "Package format: tar, tgz, txz, tzstd, zip, bin")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: binfetch install [options]

Read a package manifest, download the package archive it describes,
and unpack it into the resolved install directory.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}
	if *verbose || cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[binfetch] Received interrupt, shutting down...")
		cancel()
	}()

	return install(ctx, *manifestPath, firstNonEmpty(*pathOverride, cfg.InstallPath), *formatFlag, *yes || cfg.AssumeYes, cfg)
}

func install(ctx context.Context, manifestPath, pathOverride, formatFlag string, assumeYes bool, cfg config.Config) int {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	formatToken := firstNonEmpty(formatFlag, m.Package.Metadata.PkgFmt, cfg.Format, "tgz")
	format, err := extract.ParseFormat(formatToken)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	url, err := manifest.RenderURL(m.Package.Metadata.PkgURL, m.URLContext(formatToken))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	installDir, ok := installpath.Resolve(pathOverride)
	if !ok {
		fmt.Fprintln(os.Stderr, "Error: no install directory could be resolved; pass -path")
		return ExitGeneralError
	}

	opts := fetch.Options{HTTP: binhttp.Options{Timeout: cfg.HTTPTimeout}}

	exists, err := fetch.Exists(ctx, http.MethodHead, url, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitDownloadFailed
	}
	if !exists {
		fmt.Fprintf(os.Stderr, "Error: package archive not found at %s\n", url)
		return ExitDownloadFailed
	}

	fmt.Fprintf(os.Stderr, "[binfetch] Package: %s %s (%s)\n", m.Package.Name, m.Package.Version, formatToken)
	fmt.Fprintf(os.Stderr, "[binfetch] Source:  %s\n", url)
	fmt.Fprintf(os.Stderr, "[binfetch] Install: %s\n", installDir)

	if !assumeYes {
		if err := prompt.Confirm(os.Stdin, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitUserAbort
		}
	}

	staging, err := os.MkdirTemp("", "binfetch-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}
	defer os.RemoveAll(staging)

	archive := filepath.Join(staging, m.Package.Name+"."+formatToken)
	if err := fetch.DownloadWithOptions(ctx, url, archive, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitDownloadFailed
	}

	// For bare binaries the destination is the final file itself, not
	// a directory to unpack into.
	dest := installDir
	if format == extract.Bin {
		dest = filepath.Join(installDir, m.Package.Name)
	}

	if err := extract.Extract(archive, format, dest); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitExtractFailed
	}

	fmt.Fprintf(os.Stderr, "[binfetch] Installed %s %s to %s\n", m.Package.Name, m.Package.Version, installDir)
	return ExitSuccess
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
