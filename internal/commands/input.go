package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// inputFile is a --file flag that falls back to stdin.
type inputFile struct {
	path string
}

func (in *inputFile) Flag(usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       usage,
		Destination: &in.path,
	}
}

// Open returns the named file, or stdin when no file was given. With
// allowTerminal unset, an interactive stdin is refused.
func (in *inputFile) Open(allowTerminal bool) (io.ReadCloser, error) {
	if in.path != "" && in.path != "-" {
		f, err := os.Open(in.path)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		return f, nil
	}

	if !allowTerminal && term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe a transcript")
	}
	return io.NopCloser(os.Stdin), nil
}
