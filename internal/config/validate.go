package config

import (
	"genepri/internal/blob"
	"genepri/internal/kb"
	"genepri/internal/report"
	"genepri/pkg/domain"
	"genepri/pkg/phenotype"
)

// Validate checks every closed vocabulary and required field.
func (c *Config) Validate() error {
	switch c.KB.Driver {
	case "memory":
	case "sqlite":
		if c.KB.SQLitePath == "" {
			return &Error{Field: "kb.sqlite_path", Message: "required for sqlite driver"}
		}
	case "postgres":
		if c.KB.PostgresDSN == "" {
			return &Error{Field: "kb.postgres_dsn", Message: "required for postgres driver"}
		}
	default:
		return &Error{Field: "kb.driver", Message: "unknown driver " + c.KB.Driver}
	}

	switch blob.Driver(c.Blob.Driver) {
	case blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if c.Blob.S3.Bucket == "" {
			return &Error{Field: "blob.s3.bucket", Message: "required for s3 driver"}
		}
	default:
		return &Error{Field: "blob.driver", Message: "unknown driver " + c.Blob.Driver}
	}

	if _, err := kb.ParseAlgorithm(c.Expansion.Algorithm); err != nil {
		return &Error{Field: "expansion.algorithm", Message: err.Error()}
	}
	if _, err := phenotype.ParseFrontierPolicy(c.Expansion.Frontier); err != nil {
		return &Error{Field: "expansion.frontier", Message: err.Error()}
	}
	if c.Expansion.MaxDistance < 0 {
		return &Error{Field: "expansion.max_distance", Message: "must not be negative"}
	}
	if c.Retrieval.MinScore < 0 || c.Retrieval.MinScore > 1 {
		return &Error{Field: "retrieval.min_score", Message: "must be within [0, 1]"}
	}
	if _, err := c.Retrieval.SourceLevels(); err != nil {
		return &Error{Field: "retrieval.levels", Message: err.Error()}
	}
	if _, err := report.ParseFormat(c.Output.Format); err != nil {
		return &Error{Field: "output.format", Message: err.Error()}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return &Error{Field: "log.level", Message: "unknown level " + c.Log.Level}
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return &Error{Field: "log.format", Message: "unknown format " + c.Log.Format}
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return &Error{Field: "metrics.listen", Message: "required when metrics are enabled"}
	}
	return nil
}

// SourceLevels parses the configured level filter. Empty means every level.
func (r Retrieval) SourceLevels() ([]domain.SourceLevel, error) {
	out := make([]domain.SourceLevel, 0, len(r.Levels))
	for _, raw := range r.Levels {
		level, err := domain.ParseSourceLevel(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, level)
	}
	return out, nil
}

// StoreOptions maps the blob section onto blob.Open options.
func (b Blob) StoreOptions() blob.Options {
	return blob.Options{
		Driver: blob.Driver(b.Driver),
		FSRoot: b.FSRoot,
		S3: blob.S3Config{
			Bucket:          b.S3.Bucket,
			Region:          b.S3.Region,
			Endpoint:        b.S3.Endpoint,
			PathStyle:       b.S3.PathStyle,
			AccessKeyID:     b.S3.AccessKeyID,
			SecretAccessKey: b.S3.SecretAccessKey,
		},
	}
}
