// Package blob is the report archive used to publish run outputs. It wraps
// the backends under internal/infra/blob so that callers only ever depend on
// the Store interface.
package blob

import (
	"context"
	"fmt"
	"net/http"

	"genepri/internal/blob/core"
	fsstore "genepri/internal/infra/blob/fs"
	memstore "genepri/internal/infra/blob/memory"
	s3store "genepri/internal/infra/blob/s3"
)

type (
	Driver     = core.Driver
	PutOptions = core.PutOptions
	Info       = core.Info
	Store      = core.Store
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	ErrExists     = core.ErrExists
	ErrNotFound   = core.ErrNotFound
	ErrInvalidKey = core.ErrInvalidKey
)

// S3Config addresses an S3 or MinIO bucket.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
	HTTPClient      *http.Client
}

// Options selects and configures a backend.
type Options struct {
	Driver Driver
	FSRoot string
	S3     S3Config
}

// Drivers lists the accepted driver names.
func Drivers() []Driver { return []Driver{DriverFilesystem, DriverS3, DriverMemory} }

// ParseDriver maps a configured name onto a Driver. Empty means filesystem.
func ParseDriver(v string) (Driver, error) {
	if v == "" {
		return DriverFilesystem, nil
	}
	for _, d := range Drivers() {
		if Driver(v) == d {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown blob driver %q", v)
}

// Open returns the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	driver, err := ParseDriver(string(opts.Driver))
	if err != nil {
		return nil, err
	}
	switch driver {
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return NewFilesystem(opts.FSRoot)
	}
}

// NewFilesystem returns a store writing under root.
func NewFilesystem(root string) (Store, error) {
	return fsstore.New(root)
}

// NewMemory returns an empty in-memory store.
func NewMemory() Store {
	return memstore.New()
}

// NewS3 returns a store for cfg.Bucket.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	return s3store.New(ctx, s3store.Config{
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		PathStyle:       cfg.PathStyle,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		HTTPClient:      cfg.HTTPClient,
	})
}
