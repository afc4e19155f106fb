package bundler

import (
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tristendillon/dllbundle/core/logger"
)

var ErrSameFile = goerr.New("source and destination are the same file")

// EnsureBundleDirectory creates path and any missing parents and returns its
// absolute form. An existing directory is reused as-is.
func EnsureBundleDirectory(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve bundle directory", goerr.V("path", path))
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return "", goerr.Wrap(err, "failed to create bundle directory", goerr.V("path", absPath))
	}

	logger.Debug("Bundle directory ready: %s", absPath)
	return absPath, nil
}

// CopyFile copies src to dst byte for byte, truncating dst if it exists.
func CopyFile(src, dst string) error {
	logger.Debug("  copying %s -> %s", src, dst)

	in, err := os.Open(src)
	if err != nil {
		return goerr.Wrap(err, "failed to open source file", goerr.V("src", src))
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return goerr.Wrap(err, "failed to stat source file", goerr.V("src", src))
	}
	if info.IsDir() {
		return goerr.New("source is a directory", goerr.V("src", src))
	}

	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(info, dstInfo) {
		return goerr.Wrap(ErrSameFile, "refusing to copy "+src+" onto itself", goerr.V("src", src), goerr.V("dst", dst))
	}

	out, err := os.Create(dst)
	if err != nil {
		return goerr.Wrap(err, "failed to create destination file", goerr.V("dst", dst))
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return goerr.Wrap(err, "failed to copy file", goerr.V("src", src), goerr.V("dst", dst))
	}
	if err := out.Close(); err != nil {
		return goerr.Wrap(err, "failed to close destination file", goerr.V("dst", dst))
	}

	logger.Debug("  copied %d bytes", n)
	return nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
