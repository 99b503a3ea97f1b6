package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"buble/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the compile cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached compile result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, err := driver.OpenDiskCache("buble")
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to clear %q: %w", cache.Dir(), err)
		}
		if !quiet(cmd) {
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
		}
		return nil
	},
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, err := driver.OpenDiskCache("buble")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cache.Dir())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheCleanCmd, cacheDirCmd)
}
