package bundler

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tristendillon/dllbundle/core/config"
	"github.com/tristendillon/dllbundle/core/logger"
	"github.com/tristendillon/dllbundle/core/models"
	"github.com/tristendillon/dllbundle/core/resolver"
)

type Bundler struct {
	cfg     *config.Config
	workDir string
	dryRun  bool
	copied  map[string]models.CopyPlan
}

type Option func(*Bundler)

// WithWorkDir sets the directory the executable and a relative bundle
// directory are resolved against. Defaults to the process working directory.
func WithWorkDir(dir string) Option {
	return func(b *Bundler) {
		b.workDir = dir
	}
}

// WithDryRun resolves every line without creating or copying anything.
func WithDryRun(dryRun bool) Option {
	return func(b *Bundler) {
		b.dryRun = dryRun
	}
}

func NewBundler(cfg *config.Config, opts ...Option) *Bundler {
	b := &Bundler{
		cfg:    cfg,
		copied: make(map[string]models.CopyPlan),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run bundles every DLL listed in input plus the configured executable.
// The first failure aborts the run; files copied before it stay in place.
func (b *Bundler) Run(input io.Reader) (*models.Report, error) {
	clear(b.copied)

	workDir := b.workDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get working directory")
		}
		workDir = wd
	}

	bundleDir := b.cfg.BundleDir
	if !filepath.IsAbs(bundleDir) {
		bundleDir = filepath.Join(workDir, bundleDir)
	}

	if b.dryRun {
		logger.Info("Dry run, nothing will be written to %s", bundleDir)
	} else {
		dir, err := EnsureBundleDirectory(bundleDir)
		if err != nil {
			return nil, err
		}
		bundleDir = dir
	}

	report := &models.Report{BundleDir: bundleDir}
	res := resolver.NewResolver(b.cfg.Toolchain, bundleDir)

	scanner := bufio.NewScanner(input)
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		rec, ok, err := resolver.ParseLine(scanner.Text(), lineNo, b.cfg.Format)
		if err != nil {
			return report, err
		}
		if !ok {
			continue
		}

		plan, ok := res.Resolve(rec)
		if !ok {
			logger.Debug("Skipping %s: %s is outside %s", rec.Name, rec.Path, b.cfg.Toolchain.MountMarker)
			report.Skipped = append(report.Skipped, rec)
			continue
		}

		if err := b.copyPlan(plan); err != nil {
			return report, goerr.Wrap(err, "failed to bundle "+rec.Name, goerr.V("line", rec.Line))
		}
		report.Copied = append(report.Copied, plan)
	}
	if err := scanner.Err(); err != nil {
		return report, goerr.Wrap(err, "failed to read dependency list")
	}

	exe := models.CopyPlan{
		Name:        filepath.Base(b.cfg.Executable),
		Source:      filepath.Join(workDir, b.cfg.Executable),
		Destination: filepath.Join(bundleDir, filepath.Base(b.cfg.Executable)),
	}
	if filepath.IsAbs(b.cfg.Executable) {
		exe.Source = b.cfg.Executable
	}
	if err := b.copyPlan(exe); err != nil {
		return report, goerr.Wrap(err, "failed to bundle executable "+b.cfg.Executable)
	}
	report.Executable = exe

	logger.Info("Bundled %d DLL(s) and %s into %s", len(report.Copied), exe.Name, bundleDir)
	if len(report.Skipped) > 0 {
		logger.Debug("Skipped %d DLL(s) outside the toolchain", len(report.Skipped))
	}
	return report, nil
}

func (b *Bundler) copyPlan(plan models.CopyPlan) error {
	if existing, exists := b.copied[plan.Name]; exists {
		logger.Debug("%s listed more than once, %s replaces %s", plan.Name, plan.Source, existing.Source)
	}

	if b.dryRun {
		if !pathExists(plan.Source) {
			logger.Warn("%s would fail: %s does not exist", plan.Name, plan.Source)
		}
		logger.Info("%s -> %s", plan.Source, plan.Destination)
	} else if err := CopyFile(plan.Source, plan.Destination); err != nil {
		return err
	}

	b.copied[plan.Name] = plan
	return nil
}
