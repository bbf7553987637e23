package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose bool
	cfgFile string
	v       = viper.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "voxnote",
	Short: "Dictate, store and read back short voice notes",
	Long: `voxnote turns dictated speech into text notes, keeps them in a key-value
store (a directory by default, or Redis, S3, memory) and reads them back aloud.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
		slog.SetDefault(logger)

		// A missing .env is fine; the environment and config file still apply.
		_ = godotenv.Load()

		return initConfig(v, cfgFile)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&cfgFile, "config", "", "Config file (default ./voxnote.yaml)")
	flags.String("adapter", "", "Storage adapter: fs, memory, redis, s3")
	flags.String("path", "", "Notes directory for the fs adapter")
	flags.String("locale", "", "Locale for note timestamps (e.g. en-GB)")

	_ = v.BindPFlag("adapter", flags.Lookup("adapter"))
	_ = v.BindPFlag("path", flags.Lookup("path"))
	_ = v.BindPFlag("locale", flags.Lookup("locale"))
}
