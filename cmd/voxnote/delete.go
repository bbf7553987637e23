package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [timestamp]",
	Short: "Delete a note",
	Long: `Delete removes the note saved at the given timestamp. Timestamps contain
spaces; the arguments are joined, so quoting is optional. Deleting an unknown
note succeeds.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		timestamp := strings.Join(args, " ")

		a, err := openApp(cmd.InOrStdin(), nil)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.nb.Delete(cmd.Context(), timestamp); err != nil {
			return fmt.Errorf("failed to delete note: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note deleted: %s\n", timestamp)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
