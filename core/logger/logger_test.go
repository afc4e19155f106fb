package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"
	"github.com/tristendillon/dllbundle/core/logger"
)

func TestLevels(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger.SetWriterForAll(&buf)
	t.Cleanup(func() {
		logger.SetWriterForAll(os.Stdout)
		logger.SetVerbose(false)
	})

	logger.SetVerbose(false)
	logger.Debug("hidden %d", 1)
	logger.Info("copied %s", "foo.dll")
	gt.String(t, buf.String()).NotContains("hidden")
	gt.String(t, buf.String()).Contains("INFO  copied foo.dll")

	logger.SetVerbose(true)
	logger.Debug("shown %d", 2)
	gt.String(t, buf.String()).Contains("DEBUG shown 2")
}

func TestSetLogFile(t *testing.T) {
	color.NoColor = true
	path := filepath.Join(t.TempDir(), "bundle.log")
	var buf bytes.Buffer
	logger.SetWriterForAll(&buf)
	t.Cleanup(func() { logger.SetWriterForAll(os.Stdout) })

	closer, err := logger.SetLogFile(path)
	gt.NoError(t, err)
	logger.Warn("missing %s", "bar.dll")
	gt.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	gt.NoError(t, err)
	gt.String(t, string(data)).Contains("WARN  missing bar.dll")
	gt.String(t, buf.String()).Contains("WARN  missing bar.dll")
}
