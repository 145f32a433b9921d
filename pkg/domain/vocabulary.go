package domain

import (
	"fmt"
	"strings"
)

// SourceLevel classifies how a gene-disease association source was curated.
type SourceLevel string

// Canonical source levels, ordered from most to least trusted.
const (
	// SourceLevelCurated covers expert-curated resources (UniProt, ClinGen, ...).
	SourceLevelCurated SourceLevel = "curated"
	// SourceLevelInferred covers associations inferred from orthology or HPO annotation.
	SourceLevelInferred    SourceLevel = "inferred"
	SourceLevelAnimalModel SourceLevel = "animal_model"
	SourceLevelLiterature  SourceLevel = "literature"
)

var sourceLevels = []SourceLevel{
	SourceLevelCurated,
	SourceLevelInferred,
	SourceLevelAnimalModel,
	SourceLevelLiterature,
}

// SourceLevels returns every known level in trust order.
func SourceLevels() []SourceLevel {
	out := make([]SourceLevel, len(sourceLevels))
	copy(out, sourceLevels)
	return out
}

// ParseSourceLevel maps a user or upstream spelling ("CURATED",
// "animal model", "animal_models") onto a canonical level.
func ParseSourceLevel(v string) (SourceLevel, error) {
	norm := strings.ToLower(strings.TrimSpace(v))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch norm {
	case "curated":
		return SourceLevelCurated, nil
	case "inferred":
		return SourceLevelInferred, nil
	case "animal_model", "animal_models":
		return SourceLevelAnimalModel, nil
	case "literature":
		return SourceLevelLiterature, nil
	default:
		return "", fmt.Errorf("unknown source level %q", v)
	}
}
