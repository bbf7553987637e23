package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/voxnote/pkg/adapters/fs"
	"github.com/aretw0/voxnote/pkg/adapters/memory"
	"github.com/aretw0/voxnote/pkg/adapters/redis"
	"github.com/aretw0/voxnote/pkg/adapters/s3"
	"github.com/aretw0/voxnote/pkg/core"
)

// Adapters lists the storage adapter names accepted by WithAdapter.
var Adapters = []string{"fs", "memory", "redis", "s3"}

// Init opens and initializes the key-value store selected by the options.
// The 'uri' argument is adapter-specific: a directory for "fs", an address
// for "redis", a bucket for "s3". It is ignored by "memory".
func Init(uri string, opts ...Option) (core.KeyValue, error) {
	o := apply(opts)

	if o.kv != nil {
		return o.kv, nil
	}

	var (
		kv  core.KeyValue
		err error
	)
	switch o.adapter {
	case "fs", "":
		kv = initFS(uri, o)
	case "memory":
		kv = memory.New()
	case "redis":
		kv = initRedis(uri, o)
	case "s3":
		kv, err = initS3(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := kv.Initialize(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize %s adapter: %w", o.adapter, err)
	}
	return kv, nil
}

// initFS resolves the notes directory and builds the filesystem adapter.
func initFS(path string, o *options) *fs.Store {
	// Read-only access is inherently safe, so it bypasses the dev sandbox.
	bypassSafety := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypassSafety)
	resolved := ResolvePath(path, useTemp)

	if o.logger != nil && useTemp && resolved != path {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}

	return fs.NewStore(fs.Config{
		Path:         resolved,
		MustExist:    o.mustExist,
		ReadOnly:     o.readOnly,
		SystemDir:    o.systemDir,
		Logger:       o.logger,
		ErrorHandler: o.errorHandler,
	})
}

func initRedis(addr string, o *options) *redis.Store {
	cfg := o.redis
	if addr != "" {
		cfg.Addr = addr
	}
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.Logger == nil {
		cfg.Logger = o.logger
	}
	return redis.NewStore(cfg)
}

func initS3(bucket string, o *options) (*s3.Store, error) {
	cfg := o.s3
	if bucket != "" {
		cfg.Bucket = bucket
	}
	if cfg.Logger == nil {
		cfg.Logger = o.logger
	}
	return s3.NewStore(cfg)
}
