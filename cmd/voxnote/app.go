package main

import (
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/aretw0/voxnote"
	"github.com/aretw0/voxnote/pkg/adapters/redis"
	"github.com/aretw0/voxnote/pkg/adapters/s3"
	"github.com/aretw0/voxnote/pkg/core"
	"github.com/aretw0/voxnote/pkg/notebook"
	"github.com/aretw0/voxnote/pkg/speech"
	"github.com/aretw0/voxnote/pkg/speech/command"
	"github.com/aretw0/voxnote/pkg/speech/script"
)

// app is what every subcommand works with.
type app struct {
	cfg *Config
	uri string
	nb  *notebook.Notebook
	svc *core.Service
}

// openApp loads the configuration and opens the notebook. Dictation reads
// its transcript from src, which is only consumed once a capture starts.
func openApp(src io.Reader, onStatus func(voxnote.Status)) (*app, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}

	uri, err := storeURI(cfg)
	if err != nil {
		return nil, err
	}

	opts := []voxnote.Option{
		voxnote.WithLogger(slog.Default()),
		voxnote.WithAdapter(cfg.Adapter),
		voxnote.WithLocale(cfg.Locale),
		voxnote.WithReadOnly(cfg.ReadOnly),
		voxnote.WithVoice(cfg.voice()),
		voxnote.WithRedis(redis.Config{
			Addr:      cfg.Redis.Addr,
			Username:  cfg.Redis.Username,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			Namespace: cfg.Redis.Namespace,
		}),
		voxnote.WithS3(s3.Config{
			Endpoint:   cfg.S3.Endpoint,
			AccessKey:  cfg.S3.AccessKey,
			SecretKey:  cfg.S3.SecretKey,
			Bucket:     cfg.S3.Bucket,
			Region:     cfg.S3.Region,
			Prefix:     cfg.S3.Prefix,
			Insecure:   cfg.S3.Insecure,
			AutoCreate: cfg.S3.AutoCreate,
		}),
	}
	opts = append(opts, voxnote.WithRecognizer(script.New(src, script.WithLogger(slog.Default()))))
	if synth := synthesizer(cfg); synth != nil {
		opts = append(opts, voxnote.WithSynthesizer(synth))
	}

	nb, err := voxnote.NewNotebook(uri, onStatus, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open notes: %w", err)
	}
	return &app{cfg: cfg, uri: uri, nb: nb, svc: nb.Service()}, nil
}

// close releases the notebook and its store.
func (a *app) close() {
	if err := a.nb.Close(); err != nil {
		slog.Debug("failed to close store", "error", err)
	}
}

// storeURI picks the adapter-specific location.
func storeURI(cfg *Config) (string, error) {
	switch cfg.Adapter {
	case "fs":
		if cfg.Path != "" {
			return cfg.Path, nil
		}
		return voxnote.DefaultPath()
	case "redis":
		return cfg.Redis.Addr, nil
	case "s3":
		return cfg.S3.Bucket, nil
	}
	return "", nil
}

// synthesizer resolves the configured TTS binary: empty detects one on
// PATH, "none" disables playback.
func synthesizer(cfg *Config) speech.Synthesizer {
	switch strings.ToLower(cfg.Synthesizer) {
	case "none", "off":
		return nil
	case "":
		synth, err := command.Detect()
		if err != nil {
			slog.Debug("speech synthesis unavailable", "error", err)
			return nil
		}
		return synth
	}

	path, err := exec.LookPath(cfg.Synthesizer)
	if err != nil {
		slog.Warn("configured synthesizer not found", "synthesizer", cfg.Synthesizer, "error", err)
		return nil
	}
	return command.New(path)
}
