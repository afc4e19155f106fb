package input

import (
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Stdin is the reader used for "-" and for an empty argument list.
var Stdin io.Reader = os.Stdin

type multiFile struct {
	io.Reader
	files []*os.File
}

func (m *multiFile) Close() error {
	var firstErr error
	for _, f := range m.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Open concatenates the named files in order. No names, or the name "-",
// reads standard input.
func Open(names []string) (io.ReadCloser, error) {
	if len(names) == 0 {
		return io.NopCloser(Stdin), nil
	}

	m := &multiFile{}
	readers := make([]io.Reader, 0, len(names))
	for _, name := range names {
		if name == "-" {
			readers = append(readers, newlineTerminated(Stdin))
			continue
		}

		f, err := os.Open(name)
		if err != nil {
			m.Close()
			return nil, goerr.Wrap(err, "failed to open dependency list", goerr.V("path", name))
		}
		m.files = append(m.files, f)
		readers = append(readers, newlineTerminated(f))
	}
	m.Reader = io.MultiReader(readers...)

	return m, nil
}

// Files returns the names that refer to real files, for watching.
func Files(names []string) []string {
	var files []string
	for _, name := range names {
		if name != "-" {
			files = append(files, name)
		}
	}
	return files
}

// newlineTerminated keeps the last line of one input from running into the
// first line of the next when it lacks a trailing newline.
func newlineTerminated(r io.Reader) io.Reader {
	return io.MultiReader(r, strings.NewReader("\n"))
}
