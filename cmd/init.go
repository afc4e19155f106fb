/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
	"github.com/tristendillon/dllbundle/core/config"
	"github.com/tristendillon/dllbundle/core/logger"
)

var (
	force bool
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default dllbundle.yaml",
	Long: `Creates a dllbundle.yaml holding the default bundle directory, executable
and MSYS2 toolchain locations, ready to be edited.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("init called")
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		path := filepath.Join(dir, config.FileName)
		if _, err := os.Stat(path); err == nil {
			if !force {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists. Use --force to overwrite.\n", path)
				return nil
			}
			logger.Debug("%s already exists. Overwriting.", path)
		}

		if err := os.MkdirAll(dir, 0755); err != nil {
			return goerr.Wrap(err, "failed to create config directory", goerr.V("dir", dir))
		}
		if err := config.Write(path, config.Default()); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Successfully wrote %s\n", path)
		fmt.Fprintf(cmd.OutOrStdout(), "Next Steps:\n")
		fmt.Fprintf(cmd.OutOrStdout(), "  - edit the toolchain paths in %s\n", path)
		fmt.Fprintf(cmd.OutOrStdout(), "  - ldd player.exe | dllbundle bundle\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "Force overwrite existing files")
}
