// Package report serializes prioritization results and publishes them to the
// report archive.
package report

import (
	"fmt"
	"strings"
)

// Format is an output encoding.
type Format string

const (
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats.
func Formats() []Format { return []Format{FormatTSV, FormatJSON, FormatYAML} }

// ParseFormat maps a name onto a Format. "yml" is accepted for yaml.
func ParseFormat(v string) (Format, error) {
	switch s := strings.ToLower(strings.TrimSpace(v)); s {
	case "yml":
		return FormatYAML, nil
	default:
		for _, f := range Formats() {
			if Format(s) == f {
				return f, nil
			}
		}
	}
	return "", fmt.Errorf("unknown output format %q", v)
}

// Ext returns the file extension, without the dot.
func (f Format) Ext() string { return string(f) }

// ContentType returns the MIME type stored with published objects.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "text/tab-separated-values"
	}
}
