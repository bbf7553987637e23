package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/voxnote"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of voxnote",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "voxnote version %s\n", strings.TrimSpace(voxnote.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
