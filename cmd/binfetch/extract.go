package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/ligustah/binfetch/pkg/extract"
)

func runExtract(args []string) int {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)

	archive := fs.String("archive", "", "Archive file to unpack (required)")
	formatFlag := fs.String("format", "", "Archive format: tar, tgz, txz, tzstd, zip, bin (required)")
	dest := fs.String("dest", "", "Destination directory, or file path for bin (required)")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: binfetch extract [options]

Unpack a local archive of a declared format. The format is trusted as
declared; a mismatched payload fails the extraction.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if *archive == "" || *formatFlag == "" || *dest == "" {
		fmt.Fprintln(os.Stderr, "Error: -archive, -format and -dest are all required")
		fs.Usage()
		return ExitInvalidArgs
	}

	format, err := extract.ParseFormat(*formatFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	if err := extract.Extract(*archive, format, *dest); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitExtractFailed
	}

	fmt.Fprintf(os.Stderr, "[binfetch] Extracted %s to %s\n", *archive, *dest)
	return ExitSuccess
}
