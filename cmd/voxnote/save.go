package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/voxnote/pkg/core"
	"github.com/aretw0/voxnote/pkg/session"
)

var saveCmd = &cobra.Command{
	Use:   "save [text...]",
	Short: "Save a typed note",
	Long:  `Save stores the arguments (or stdin when none are given) as a new note.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			text = strings.TrimSuffix(string(data), "\n")
		}

		a, err := openApp(cmd.InOrStdin(), nil)
		if err != nil {
			return err
		}
		defer a.close()

		a.nb.Edit(text)
		note, err := a.nb.Save(cmd.Context())
		if errors.Is(err, core.ErrEmptyNote) {
			fmt.Fprintln(cmd.ErrOrStderr(), session.NewStatus(session.StatusEmpty).Message)
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), note.Timestamp)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
}
