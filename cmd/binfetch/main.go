package main

import (
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess        = 0
	ExitGeneralError   = 1
	ExitInvalidArgs    = 2
	ExitDownloadFailed = 3
	ExitExtractFailed  = 4
	ExitUserAbort      = 5
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "install":
		return runInstall(cmdArgs)
	case "fetch":
		return runFetch(cmdArgs)
	case "extract":
		return runExtract(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: binfetch <command> [options]

Commands:
  install   Fetch a package archive per its manifest and unpack it into the install directory
  fetch     Download a single archive from an HTTP URL or object storage bucket
  extract   Unpack a local archive of a declared format into a directory

Run 'binfetch <command> -h' for command-specific help.`)
}
