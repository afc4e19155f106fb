package models

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

// Format selects how an input line is interpreted.
type Format string

const (
	// FormatLdd is dependency-walker output: "<name> <ignored> <path> [...]".
	FormatLdd Format = "ldd"
	// FormatList is a bare DLL file name per line.
	FormatList Format = "list"
	// FormatAuto picks FormatList for single-field lines and FormatLdd otherwise.
	FormatAuto Format = "auto"
)

func (f Format) Valid() bool {
	switch f {
	case FormatLdd, FormatList, FormatAuto:
		return true
	}
	return false
}

func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.Valid() {
		return "", goerr.New(fmt.Sprintf("unknown input format %q (expected ldd, list or auto)", s), goerr.V("format", s))
	}
	return f, nil
}

type Record struct {
	Name   string // DLL file name: "libfoo-1.dll"
	Path   string // Source path as reported by the scanner, ldd lines only
	Format Format // Concrete format, never FormatAuto
	Line   int    // 1-based input line number
}

type CopyPlan struct {
	Name        string
	Source      string
	Destination string
}

type Report struct {
	BundleDir  string
	Copied     []CopyPlan
	Skipped    []Record // ldd records outside the mount marker
	Executable CopyPlan
}
