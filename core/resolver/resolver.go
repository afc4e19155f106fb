package resolver

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tristendillon/dllbundle/core/config"
	"github.com/tristendillon/dllbundle/core/models"
)

var ErrMalformedLine = goerr.New("malformed dependency line")

// ParseLine turns one input line into a Record. Blank lines report ok=false.
func ParseLine(line string, lineNo int, format models.Format) (models.Record, bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return models.Record{}, false, nil
	}

	if format == models.FormatAuto {
		if len(fields) == 1 {
			format = models.FormatList
		} else {
			format = models.FormatLdd
		}
	}

	if !isPlainFileName(fields[0]) {
		return models.Record{}, false, goerr.Wrap(ErrMalformedLine,
			fmt.Sprintf("line %d: %q is not a plain file name", lineNo, fields[0]),
			goerr.V("line", lineNo), goerr.V("text", line))
	}

	switch format {
	case models.FormatList:
		return models.Record{Name: fields[0], Format: models.FormatList, Line: lineNo}, true, nil
	case models.FormatLdd:
		if len(fields) < 3 {
			return models.Record{}, false, goerr.Wrap(ErrMalformedLine,
				fmt.Sprintf("line %d: expected \"<name> <ignored> <path>\", got %d field(s)", lineNo, len(fields)),
				goerr.V("line", lineNo), goerr.V("text", line))
		}
		return models.Record{Name: fields[0], Path: fields[2], Format: models.FormatLdd, Line: lineNo}, true, nil
	default:
		return models.Record{}, false, goerr.New(fmt.Sprintf("unknown input format %q", format), goerr.V("format", format))
	}
}

type Resolver struct {
	toolchain config.Toolchain
	bundleDir string
}

func NewResolver(toolchain config.Toolchain, bundleDir string) *Resolver {
	return &Resolver{
		toolchain: toolchain,
		bundleDir: bundleDir,
	}
}

// Resolve maps a record to the file to copy and where it lands in the
// bundle. ldd records whose path is outside the mount marker are not
// bundled and report ok=false.
func (r *Resolver) Resolve(rec models.Record) (models.CopyPlan, bool) {
	var source string

	switch rec.Format {
	case models.FormatLdd:
		if !strings.HasPrefix(rec.Path, r.toolchain.MountMarker) {
			return models.CopyPlan{}, false
		}
		source = RewriteMountPath(r.toolchain.MountRoot, rec.Path)
	case models.FormatList:
		source = path.Join(filepath.ToSlash(r.toolchain.BinDir), rec.Name)
	default:
		return models.CopyPlan{}, false
	}

	return models.CopyPlan{
		Name:        rec.Name,
		Source:      filepath.FromSlash(source),
		Destination: filepath.Join(r.bundleDir, rec.Name),
	}, true
}

// isPlainFileName rejects names that would land outside the bundle directory.
func isPlainFileName(name string) bool {
	return name != "." && name != ".." && !strings.ContainsAny(name, `/\:`)
}

// RewriteMountPath re-roots a scanner path such as /mingw64/bin/foo.dll onto
// the real installation directory, e.g. C:/msys64/mingw64/bin/foo.dll.
func RewriteMountPath(mountRoot, p string) string {
	return path.Join(filepath.ToSlash(mountRoot), strings.TrimPrefix(p, "/"))
}
