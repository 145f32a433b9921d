// Package domain defines the canonical identities used throughout genepri:
// genes, diseases, phenotypes, evidence items and the sources that report
// gene-disease associations.
//
// Every identity has a short prefixed code (for example "ncbigene:2597") and a
// canonical locator URI derived from it through a fixed per-kind template.
// Equality is defined solely on the locator, which is exposed as a comparable
// Key so identities can be used as map keys without carrying display names
// into the comparison.
package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind identifies the type of entity an identity refers to.
type Kind string

// Supported identity kinds.
const (
	KindGene      Kind = "gene"
	KindDisease   Kind = "disease"
	KindPhenotype Kind = "phenotype"
	KindEvidence  Kind = "evidence"
	KindSource    Kind = "source"
)

// Key is the comparable identity of an entity: its canonical locator.
type Key string

var (
	// ErrMalformedIdentifier is returned when a code does not match the pattern
	// required by its kind. Callers may recover by rejecting the offending input.
	ErrMalformedIdentifier = errors.New("malformed identifier")
	// ErrInvalidLocator is returned when a locator does not carry the prefix
	// and payload required by its kind. It signals a data-integrity problem in
	// the upstream source rather than bad user input.
	ErrInvalidLocator = errors.New("invalid locator")
)

// IdentifierError describes a rejected code or locator.
type IdentifierError struct {
	Kind  Kind
	Value string
	Err   error
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Err, e.Kind, e.Value)
}

// Unwrap exposes ErrMalformedIdentifier or ErrInvalidLocator.
func (e *IdentifierError) Unwrap() error { return e.Err }

// scheme is the fixed code/locator template of one identity kind.
type scheme struct {
	kind          Kind
	codePrefix    string
	locatorPrefix string
	payload       *regexp.Regexp
	numeric       bool
}

var (
	geneScheme = &scheme{
		kind:          KindGene,
		codePrefix:    "ncbigene:",
		locatorPrefix: "http://identifiers.org/ncbigene/",
		payload:       regexp.MustCompile(`^[0-9]+$`),
		numeric:       true,
	}
	diseaseScheme = &scheme{
		kind:          KindDisease,
		codePrefix:    "umls:",
		locatorPrefix: "http://linkedlifedata.com/resource/umls/id/",
		payload:       regexp.MustCompile(`^C[0-9]{7}$`),
	}
	phenotypeScheme = &scheme{
		kind:          KindPhenotype,
		codePrefix:    "hp:",
		locatorPrefix: "http://purl.obolibrary.org/obo/HP_",
		payload:       regexp.MustCompile(`^[0-9]{7}$`),
	}
	evidenceScheme = &scheme{
		kind:          KindEvidence,
		codePrefix:    "pmid:",
		locatorPrefix: "http://identifiers.org/pubmed/",
		payload:       regexp.MustCompile(`^[0-9]+$`),
		numeric:       true,
	}
	sourceScheme = &scheme{
		kind:          KindSource,
		locatorPrefix: "http://rdf.disgenet.org/v7.0.0/void/",
		payload:       regexp.MustCompile(`^[A-Za-z0-9_]+$`),
	}
)

// fromCode validates code and returns its payload (the part after the code prefix).
func (s *scheme) fromCode(code string) (string, error) {
	payload, ok := strings.CutPrefix(code, s.codePrefix)
	if !ok || !s.payload.MatchString(payload) {
		return "", &IdentifierError{Kind: s.kind, Value: code, Err: ErrMalformedIdentifier}
	}
	return payload, nil
}

// fromLocator validates locator and returns its payload. A payload that would
// not form a valid code is rejected too, so every identity round-trips.
func (s *scheme) fromLocator(locator string) (string, error) {
	payload, ok := strings.CutPrefix(locator, s.locatorPrefix)
	if !ok || payload == "" || !s.payload.MatchString(payload) {
		return "", &IdentifierError{Kind: s.kind, Value: locator, Err: ErrInvalidLocator}
	}
	return payload, nil
}

// isLocator reports whether v should be read as a locator. Any URI counts, so
// a locator from a foreign namespace fails as ErrInvalidLocator rather than
// passing for a mistyped code.
func (s *scheme) isLocator(v string) bool {
	return strings.HasPrefix(v, s.locatorPrefix) || strings.Contains(v, "://")
}

// identity is the shared immutable core embedded by every entity type.
type identity struct {
	scheme  *scheme
	payload string
	name    string
}

// Kind returns the identity kind, or "" for a zero value.
func (id identity) Kind() Kind {
	if id.scheme == nil {
		return ""
	}
	return id.scheme.kind
}

// Code returns the short prefixed code.
func (id identity) Code() string {
	if id.scheme == nil {
		return ""
	}
	return id.scheme.codePrefix + id.payload
}

// Locator returns the canonical resource locator.
func (id identity) Locator() string {
	if id.scheme == nil {
		return ""
	}
	return id.scheme.locatorPrefix + id.payload
}

// Key returns the comparable identity (the locator).
func (id identity) Key() Key { return Key(id.Locator()) }

// Name returns the optional display name.
func (id identity) Name() string { return id.name }

// IsZero reports whether the identity was never constructed.
func (id identity) IsZero() bool { return id.scheme == nil }

// String renders the code, which is what users type and read.
func (id identity) String() string { return id.Code() }

// compare orders two identities of the same kind: numerically when the kind
// defines a numeric code, lexicographically otherwise.
func (id identity) compare(other identity) int {
	if id.scheme != nil && id.scheme.numeric {
		if c := compareDigits(id.payload, other.payload); c != 0 {
			return c
		}
	}
	return strings.Compare(id.Code(), other.Code())
}

// compareDigits compares two decimal strings by value without overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
