// Package s3 implements core.KeyValue on an S3-compatible bucket (AWS S3,
// MinIO) through minio-go. Each key is one object holding the raw value.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/aretw0/voxnote/pkg/core"
)

// DefaultPrefix groups the store's objects inside the bucket.
const DefaultPrefix = "voxnote/"

const contentType = "text/plain; charset=utf-8"

// Config holds the bucket coordinates and credentials.
type Config struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	Region     string
	Prefix     string
	Insecure   bool // plain HTTP, for local MinIO
	AutoCreate bool // create the bucket in Initialize when missing
	Logger     *slog.Logger
}

func (c Config) validate() error {
	var errs []error
	if c.Endpoint == "" {
		errs = append(errs, errors.New("endpoint is required"))
	}
	if c.Bucket == "" {
		errs = append(errs, errors.New("bucket is required"))
	}
	if strings.Contains(c.Endpoint, "://") {
		errs = append(errs, fmt.Errorf("endpoint %q must be host[:port] without scheme", c.Endpoint))
	}
	return errors.Join(errs...)
}

// Store implements core.KeyValue using objects in a bucket.
type Store struct {
	client     *minio.Client
	bucket     string
	prefix     string
	region     string
	endpoint   string
	autoCreate bool
	logger     *slog.Logger
}

// NewStore builds the client. No request is sent until Initialize.
func NewStore(cfg Config) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid s3 config: %w", err)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: !cfg.Insecure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Store{
		client:     client,
		bucket:     cfg.Bucket,
		prefix:     prefix,
		region:     cfg.Region,
		endpoint:   cfg.Endpoint,
		autoCreate: cfg.AutoCreate,
		logger:     logger,
	}, nil
}

// ObjectName maps a key to its object name. Keys are query-escaped so that
// slashes in timestamps do not create pseudo-directories.
func ObjectName(prefix, key string) string {
	return prefix + url.QueryEscape(key)
}

// KeyFromObjectName reverses ObjectName.
func KeyFromObjectName(prefix, name string) (string, bool) {
	if !strings.HasPrefix(name, prefix) {
		return "", false
	}
	key, err := url.QueryUnescape(strings.TrimPrefix(name, prefix))
	if err != nil {
		return "", false
	}
	return key, true
}

// Initialize checks the bucket, creating it when configured to.
func (s *Store) Initialize(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if !s.autoCreate {
		return fmt.Errorf("bucket %q does not exist", s.bucket)
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", s.bucket, err)
	}
	s.logger.Info("bucket created", "bucket", s.bucket)
	return nil
}

// Get downloads the object holding key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, ObjectName(s.prefix, key), minio.GetObjectOptions{})
	if err != nil {
		return "", s.translate(key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return "", s.translate(key, err)
	}
	return string(data), nil
}

// Set uploads value as the object for key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.client.PutObject(ctx, s.bucket, ObjectName(s.prefix, key),
		bytes.NewReader([]byte(value)), int64(len(value)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("upload %q failed: %w", key, err)
	}
	return nil
}

// Remove deletes the object for key. S3 treats a missing object as deleted.
func (s *Store) Remove(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, ObjectName(s.prefix, key), minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("remove %q failed: %w", key, err)
	}
	return nil
}

// Keys lists the prefix, oldest object first.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var objects []minio.ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list failed: %w", obj.Err)
		}
		objects = append(objects, obj)
	}
	return keysByAge(s.prefix, objects), nil
}

func keysByAge(prefix string, objects []minio.ObjectInfo) []string {
	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].LastModified.Before(objects[j].LastModified)
	})
	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		if key, ok := KeyFromObjectName(prefix, obj.Key); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

func (s *Store) translate(key string, err error) error {
	if isNotFound(err) {
		return core.ErrNotFound
	}
	return fmt.Errorf("download %q failed: %w", key, err)
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

// StoreState exposes the bucket coordinates for observability.
type StoreState struct {
	Endpoint string `json:"endpoint"`
	Bucket   string `json:"bucket"`
	Prefix   string `json:"prefix"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return StoreState{Endpoint: s.endpoint, Bucket: s.bucket, Prefix: s.prefix}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "s3"
}

var _ core.KeyValue = (*Store)(nil)
