package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aretw0/voxnote"
	"github.com/aretw0/voxnote/pkg/core"
)

var (
	recordScript string
	recordNoSave bool
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Dictate a note",
	Long: `Record starts a dictation session fed by a transcript stream (stdin by
default). Each line is either plain recognized text or a JSON recognizer event.
When the stream ends, or on Ctrl-C, the dictated text is saved as a note.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var src io.Reader = cmd.InOrStdin()
		if recordScript != "" && recordScript != "-" {
			f, err := os.Open(recordScript)
			if err != nil {
				return fmt.Errorf("failed to open script: %w", err)
			}
			defer f.Close()
			src = f
		}

		out := cmd.ErrOrStderr()
		printStatus := func(s voxnote.Status) {
			fmt.Fprintln(out, s.Message)
		}

		a, err := openApp(src, printStatus)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		if err := a.nb.Start(ctx); err != nil {
			return err
		}
		if err := a.nb.Session().Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		// Interrupted: stop listening but keep what was dictated.
		_ = a.nb.Session().Stop(context.Background())

		if recordNoSave {
			fmt.Fprintln(cmd.OutOrStdout(), a.nb.Text())
			return nil
		}

		note, err := a.nb.Save(context.Background())
		if errors.Is(err, core.ErrEmptyNote) {
			// The status handler already explained it.
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", note.Timestamp)
		return nil
	},
}

func init() {
	recordCmd.Flags().StringVar(&recordScript, "script", "", "Read the transcript from a file instead of stdin")
	recordCmd.Flags().BoolVar(&recordNoSave, "no-save", false, "Print the dictated text instead of saving it")
	rootCmd.AddCommand(recordCmd)
}
