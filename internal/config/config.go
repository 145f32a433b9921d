// Package config loads genepri settings from an optional YAML file and
// GENEPRI_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. GENEPRI_KB_DRIVER.
const EnvPrefix = "GENEPRI"

// Config is the complete runtime configuration.
type Config struct {
	KB        KB        `mapstructure:"kb" yaml:"kb"`
	Blob      Blob      `mapstructure:"blob" yaml:"blob"`
	Expansion Expansion `mapstructure:"expansion" yaml:"expansion"`
	Retrieval Retrieval `mapstructure:"retrieval" yaml:"retrieval"`
	Output    Output    `mapstructure:"output" yaml:"output"`
	Log       Log       `mapstructure:"log" yaml:"log"`
	Metrics   Metrics   `mapstructure:"metrics" yaml:"metrics"`
}

// KB selects the knowledge base backend.
type KB struct {
	Driver      string `mapstructure:"driver" yaml:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
	// DatasetDir holds associations.tsv, annotations.tsv and edges.tsv for
	// the memory driver.
	DatasetDir string `mapstructure:"dataset_dir" yaml:"dataset_dir"`
}

// Blob selects where reports are published.
type Blob struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	FSRoot string `mapstructure:"fs_root" yaml:"fs_root"`
	S3     S3     `mapstructure:"s3" yaml:"s3"`
}

// S3 configures the s3 blob driver.
type S3 struct {
	Bucket          string `mapstructure:"bucket" yaml:"bucket"`
	Region          string `mapstructure:"region" yaml:"region"`
	Endpoint        string `mapstructure:"endpoint" yaml:"endpoint"`
	PathStyle       bool   `mapstructure:"path_style" yaml:"path_style"`
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key"`
}

// Expansion controls phenotype network construction.
type Expansion struct {
	Algorithm   string `mapstructure:"algorithm" yaml:"algorithm"`
	MaxDistance int    `mapstructure:"max_distance" yaml:"max_distance"`
	Frontier    string `mapstructure:"frontier" yaml:"frontier"`
}

// Retrieval filters association rows.
type Retrieval struct {
	MinScore float64  `mapstructure:"min_score" yaml:"min_score"`
	Levels   []string `mapstructure:"levels" yaml:"levels"`
}

// Output controls report rendering and publishing.
type Output struct {
	Format    string `mapstructure:"format" yaml:"format"`
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`
}

// Log configures the zap logger.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Metrics configures the prometheus endpoint.
type Metrics struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Listen  string `mapstructure:"listen" yaml:"listen"`
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	return &Config{
		KB:        KB{Driver: "sqlite", SQLitePath: "genepri.db"},
		Blob:      Blob{Driver: "fs", FSRoot: "./reports", S3: S3{Region: "us-east-1"}},
		Expansion: Expansion{Algorithm: "children", MaxDistance: 0, Frontier: "strict"},
		Retrieval: Retrieval{MinScore: 0},
		Output:    Output{Format: "tsv", KeyPrefix: "runs"},
		Log:       Log{Level: "info", Format: "console"},
		Metrics:   Metrics{Enabled: false, Listen: ":9090"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("kb.driver", d.KB.Driver)
	v.SetDefault("kb.sqlite_path", d.KB.SQLitePath)
	v.SetDefault("kb.postgres_dsn", d.KB.PostgresDSN)
	v.SetDefault("kb.dataset_dir", d.KB.DatasetDir)
	v.SetDefault("blob.driver", d.Blob.Driver)
	v.SetDefault("blob.fs_root", d.Blob.FSRoot)
	v.SetDefault("blob.s3.bucket", d.Blob.S3.Bucket)
	v.SetDefault("blob.s3.region", d.Blob.S3.Region)
	v.SetDefault("blob.s3.endpoint", d.Blob.S3.Endpoint)
	v.SetDefault("blob.s3.path_style", d.Blob.S3.PathStyle)
	v.SetDefault("blob.s3.access_key_id", "")
	v.SetDefault("blob.s3.secret_access_key", "")
	v.SetDefault("expansion.algorithm", d.Expansion.Algorithm)
	v.SetDefault("expansion.max_distance", d.Expansion.MaxDistance)
	v.SetDefault("expansion.frontier", d.Expansion.Frontier)
	v.SetDefault("retrieval.min_score", d.Retrieval.MinScore)
	v.SetDefault("retrieval.levels", []string{})
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.key_prefix", d.Output.KeyPrefix)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.listen", d.Metrics.Listen)
}

// Load reads configuration. An explicit path must exist; with an empty path
// ./genepri.yaml is used when present and defaults otherwise. Environment
// overrides apply in both cases.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("genepri")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Retrieval.Levels = splitLevels(cfg.Retrieval.Levels)
	return &cfg, nil
}

// splitLevels accepts both YAML lists and a comma separated env value.
func splitLevels(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Error reports an invalid configuration field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
