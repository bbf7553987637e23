package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	vlifecycle "github.com/aretw0/voxnote/pkg/adapters/lifecycle"
	"github.com/aretw0/voxnote/pkg/core"
)

var (
	listJSON  bool
	listYAML  bool
	listMatch string
	listWatch bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored notes",
	Long: `List prints every note. --match filters timestamps with a glob
("10/17/**" for one day in en-US). --watch keeps running and reports changes
made by other processes (fs adapter only).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listJSON && listYAML {
			return errors.New("--json and --yaml are mutually exclusive")
		}

		a, err := openApp(cmd.InOrStdin(), nil)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		notes, err := core.Collect(a.nb.Match(ctx, listMatch))
		if err != nil {
			return fmt.Errorf("failed to list notes: %w", err)
		}

		out := cmd.OutOrStdout()
		switch {
		case listJSON:
			if notes == nil {
				notes = []core.Note{}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(notes); err != nil {
				return fmt.Errorf("failed to encode JSON: %w", err)
			}
		case listYAML:
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(notes); err != nil {
				return fmt.Errorf("failed to encode YAML: %w", err)
			}
			_ = enc.Close()
		default:
			for _, n := range notes {
				fmt.Fprintf(out, "%s\t%s\n", n.Timestamp, n.Content)
			}
		}

		if listWatch {
			return watch(ctx, a.svc, out)
		}
		return nil
	},
}

func watch(parent context.Context, svc *core.Service, out io.Writer) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	events, err := svc.Watch(ctx, listMatch)
	if errors.Is(err, core.ErrNotWatchable) {
		return fmt.Errorf("--watch: %w", err)
	}
	if err != nil {
		return err
	}

	src := vlifecycle.NewSource(events)
	if err := src.Start(ctx); err != nil {
		return err
	}
	for e := range src.Events() {
		fmt.Fprintln(out, e.String())
	}
	return nil
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listYAML, "yaml", false, "Output in YAML format")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Only notes whose timestamp matches this glob")
	listCmd.Flags().BoolVar(&listWatch, "watch", false, "Keep running and print changes")
	rootCmd.AddCommand(listCmd)
}
