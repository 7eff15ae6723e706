package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/anmol3478/podverification/internal/scoring"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiGray  = "\x1b[90m"
)

// statusCell renders a scoring status for table output, colored when the
// destination is a terminal.
func statusCell(status scoring.Status, colorize bool) string {
	if !colorize {
		return string(status)
	}
	switch status {
	case scoring.StatusMatch:
		return ansiGreen + string(status) + ansiReset
	case scoring.StatusHallucination:
		return ansiRed + string(status) + ansiReset
	case scoring.StatusNull:
		return ansiGray + string(status) + ansiReset
	default:
		return string(status)
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
