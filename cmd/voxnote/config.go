package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/voxnote/pkg/core"
	"github.com/aretw0/voxnote/pkg/speech"
)

// Config is the on-disk and environment configuration of the CLI.
type Config struct {
	Adapter     string      `mapstructure:"adapter" yaml:"adapter" validate:"required,oneof=fs memory redis s3"`
	Path        string      `mapstructure:"path" yaml:"path,omitempty"`
	Locale      string      `mapstructure:"locale" yaml:"locale,omitempty"`
	ReadOnly    bool        `mapstructure:"read_only" yaml:"read_only"`
	Synthesizer string      `mapstructure:"synthesizer" yaml:"synthesizer,omitempty"`
	Voice       VoiceConfig `mapstructure:"voice" yaml:"voice"`
	Redis       RedisConfig `mapstructure:"redis" yaml:"redis"`
	S3          S3Config    `mapstructure:"s3" yaml:"s3"`
}

// VoiceConfig mirrors speech.Voice with bounds.
type VoiceConfig struct {
	Volume float64 `mapstructure:"volume" yaml:"volume" validate:"gte=0,lte=1"`
	Rate   float64 `mapstructure:"rate" yaml:"rate" validate:"gte=0.1,lte=10"`
	Pitch  float64 `mapstructure:"pitch" yaml:"pitch" validate:"gte=0,lte=3"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
	Username  string `mapstructure:"username" yaml:"username,omitempty"`
	Password  string `mapstructure:"password" yaml:"password,omitempty"`
	DB        int    `mapstructure:"db" yaml:"db" validate:"gte=0"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}

type S3Config struct {
	Endpoint   string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	AccessKey  string `mapstructure:"access_key" yaml:"access_key,omitempty"`
	SecretKey  string `mapstructure:"secret_key" yaml:"secret_key,omitempty"`
	Bucket     string `mapstructure:"bucket" yaml:"bucket,omitempty"`
	Region     string `mapstructure:"region" yaml:"region,omitempty"`
	Prefix     string `mapstructure:"prefix" yaml:"prefix"`
	Insecure   bool   `mapstructure:"insecure" yaml:"insecure"`
	AutoCreate bool   `mapstructure:"auto_create" yaml:"auto_create"`
}

func (c Config) voice() speech.Voice {
	return speech.Voice{Volume: c.Voice.Volume, Rate: c.Voice.Rate, Pitch: c.Voice.Pitch}
}

// defaultConfig is what `config init` writes.
func defaultConfig() Config {
	return Config{
		Adapter: "fs",
		Voice: VoiceConfig{
			Volume: speech.DefaultVoice.Volume,
			Rate:   speech.DefaultVoice.Rate,
			Pitch:  speech.DefaultVoice.Pitch,
		},
		Redis: RedisConfig{Addr: "localhost:6379", Namespace: "voxnote:"},
		S3:    S3Config{Prefix: "voxnote/"},
	}
}

func setDefaults(v *viper.Viper) {
	d := defaultConfig()
	v.SetDefault("adapter", d.Adapter)
	v.SetDefault("path", "")
	v.SetDefault("locale", "")
	v.SetDefault("read_only", false)
	v.SetDefault("synthesizer", "")
	v.SetDefault("voice.volume", d.Voice.Volume)
	v.SetDefault("voice.rate", d.Voice.Rate)
	v.SetDefault("voice.pitch", d.Voice.Pitch)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.namespace", d.Redis.Namespace)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.prefix", d.S3.Prefix)
	v.SetDefault("s3.insecure", false)
	v.SetDefault("s3.auto_create", false)
}

// initConfig reads voxnote.yaml (or file) and VOXNOTE_* variables into v.
func initConfig(v *viper.Viper, file string) error {
	setDefaults(v)

	v.SetEnvPrefix("VOXNOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("voxnote")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(dir + "/voxnote")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// loadConfig decodes and validates the configuration held by v.
func loadConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Locale == "" {
		cfg.Locale = systemLocale()
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// systemLocale follows the POSIX precedence for time formatting. A value
// that is not a usable locale falls back to the default format.
func systemLocale() string {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		val := os.Getenv(key)
		if val == "" {
			continue
		}
		if _, err := core.NewTimestampFormat(val); err != nil {
			slog.Debug("ignoring environment locale", "variable", key, "value", val, "error", err)
			return ""
		}
		return val
	}
	return ""
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configForce bool

var configInitCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write a default voxnote.yaml",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "voxnote.yaml"
		if len(args) == 1 {
			target = args[0]
		}
		if _, err := os.Stat(target); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", target)
		}

		data, err := yaml.Marshal(defaultConfig())
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config written: %s\n", target)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(v)
		if err != nil {
			return err
		}
		cfg.Redis.Password = redact(cfg.Redis.Password)
		cfg.S3.SecretKey = redact(cfg.S3.SecretKey)

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "****"
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
