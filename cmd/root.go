/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tristendillon/dllbundle/core/logger"
)

var rootCmd = &cobra.Command{
	Use:   "dllbundle",
	Short: "Stage an executable and its DLLs into a distributable directory.",
	Long: `dllbundle reads the DLL list of a Windows executable, either ldd-style
output ("foo.dll => /mingw64/bin/foo.dll (0x...)") or one DLL name per line,
finds every DLL in the local MSYS2 toolchain and copies it next to the
executable in a bundle directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		logger.SetErrorWriter()
		if logfile != "" {
			f, err := logger.SetLogFile(logfile)
			if err != nil {
				return err
			}
			logCloser = f
		}
		return nil
	},
}

var logfile string
var verbose bool
var logCloser io.Closer

func Execute() {
	err := rootCmd.Execute()
	closeLogFile()
	if err != nil {
		os.Exit(1)
	}
}

// closeLogFile releases the --logfile handle whether or not the command
// succeeded.
func closeLogFile() {
	if logCloser == nil {
		return
	}
	if err := logCloser.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
	}
	logCloser = nil
	logger.SetWriterForAll(os.Stdout)
	logger.SetErrorWriter()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
}
