package main

import (
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const redacted = "<redacted>"

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration after defaults, the config file and GENEPRI_*
environment overrides have been applied. Secrets are redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *a.cfg
			if cfg.Blob.S3.SecretAccessKey != "" {
				cfg.Blob.S3.SecretAccessKey = redacted
			}
			if cfg.KB.PostgresDSN != "" {
				cfg.KB.PostgresDSN = redactDSN(cfg.KB.PostgresDSN)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

// redactDSN masks the password of a URL DSN. Keyword/value DSNs carrying a
// password are masked whole.
func redactDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
		return u.Redacted()
	}
	if strings.Contains(dsn, "password") {
		return redacted
	}
	return dsn
}
