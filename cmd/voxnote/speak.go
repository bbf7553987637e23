package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var speakText string

var speakCmd = &cobra.Command{
	Use:   "speak [timestamp]",
	Short: "Read a note aloud",
	Long: `Speak reads the note saved at the given timestamp through the local
text-to-speech engine (espeak-ng, espeak, spd-say or say). With --text it
reads the given text instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if speakText == "" && len(args) == 0 {
			return errors.New("a timestamp or --text is required")
		}

		a, err := openApp(cmd.InOrStdin(), nil)
		if err != nil {
			return err
		}
		defer a.close()

		text := speakText
		if text == "" {
			note, err := a.svc.Get(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("failed to read note: %w", err)
			}
			text = note.Content
		}

		// The process would exit before a fire-and-forget playback ends.
		return a.nb.Say(cmd.Context(), text)
	},
}

func init() {
	speakCmd.Flags().StringVar(&speakText, "text", "", "Read this text instead of a stored note")
	rootCmd.AddCommand(speakCmd)
}
