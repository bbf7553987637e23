package main

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/aretw0/voxnote"
	"github.com/aretw0/voxnote/pkg/core"
)

type statusReport struct {
	Version  string `json:"version"`
	Adapter  string `json:"adapter"`
	Location string `json:"location,omitempty"`
	Locale   string `json:"locale,omitempty"`
	Notes    int    `json:"notes"`
	Notebook any    `json:"notebook"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show capabilities and storage state as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.InOrStdin(), nil)
		if err != nil {
			return err
		}
		defer a.close()

		notes, err := core.Collect(a.svc.ListAll(cmd.Context()))
		if err != nil {
			return err
		}

		report := statusReport{
			Version:  strings.TrimSpace(voxnote.Version),
			Adapter:  a.cfg.Adapter,
			Location: a.uri,
			Locale:   a.cfg.Locale,
			Notes:    len(notes),
			Notebook: a.nb.State(),
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
