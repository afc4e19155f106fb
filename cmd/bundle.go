/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
	"github.com/tristendillon/dllbundle/core/bundler"
	"github.com/tristendillon/dllbundle/core/config"
	"github.com/tristendillon/dllbundle/core/input"
	"github.com/tristendillon/dllbundle/core/logger"
	"github.com/tristendillon/dllbundle/core/models"
	"github.com/tristendillon/dllbundle/core/watcher"
)

var (
	configPath string
	format     string
	destDir    string
	executable string
	dryRun     bool
	watch      bool
)

var bundleCmd = &cobra.Command{
	Use:   "bundle [files...]",
	Short: "Copy the listed DLLs and the executable into the bundle directory",
	Long: `Reads one dependency per line from the given files, or standard input when
no file (or "-") is given, and copies every DLL found in the toolchain plus the
executable into the bundle directory.

  ldd player.exe | dllbundle bundle
  dllbundle bundle --format list dlls.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("bundle called")

		cfg, err := loadBundleConfig(cmd)
		if err != nil {
			return err
		}

		b := bundler.NewBundler(cfg, bundler.WithDryRun(dryRun))
		var mu sync.Mutex
		run := func() error {
			mu.Lock()
			defer mu.Unlock()

			r, err := input.Open(args)
			if err != nil {
				return err
			}
			defer r.Close()

			_, err = b.Run(r)
			return err
		}

		if err := run(); err != nil {
			return err
		}
		if !watch {
			return nil
		}

		w, err := watcher.NewFileWatcher(input.Files(args))
		if err != nil {
			return err
		}
		defer w.Close()
		w.FileWatcher.AddOnChangeFunc(run)
		w.FileWatcher.AddOnCloseFunc(func() error {
			logger.Info("Stopped watching %v", input.Files(args))
			return nil
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("Watching %v for changes, press Ctrl+C to stop", input.Files(args))
		return w.Watch(ctx)
	},
}

func loadBundleConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("format") {
		f, err := models.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		cfg.Format = f
	}
	if cmd.Flags().Changed("dest") {
		cfg.BundleDir = destDir
	}
	if cmd.Flags().Changed("exe") {
		cfg.Executable = executable
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid bundle options")
	}
	return cfg, nil
}

func init() {
	rootCmd.AddCommand(bundleCmd)

	bundleCmd.Flags().StringVar(&configPath, "config", "", "Config file (default ./"+config.FileName+" if present)")
	bundleCmd.Flags().StringVar(&format, "format", string(models.FormatAuto), "Input format: ldd, list or auto")
	bundleCmd.Flags().StringVar(&destDir, "dest", "", "Bundle directory (default \"bundle\")")
	bundleCmd.Flags().StringVar(&executable, "exe", "", "Executable to bundle (default \"player.exe\")")
	bundleCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print what would be copied without copying")
	bundleCmd.Flags().BoolVar(&watch, "watch", false, "Rebundle whenever an input file changes")
}
