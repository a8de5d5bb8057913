// Package cli implements the command-line interface for matchprep.
//
// The cli package provides the Cobra-based command tree: clean runs the
// identity pipeline, preview, survey and names inspect raw files, scrape
// saves HTML tables as CSV, and capture records JSON API responses. Every
// command loads the layered configuration, applies its flags on top and
// prints a text or JSON summary. Errors map to exit codes in ExitCode.
package cli
