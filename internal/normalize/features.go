package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RishiKendai/codeplag/internal/elements"
	"github.com/rs/zerolog/log"
)

// Feature identifies one normalization pass.
type Feature string

const (
	RemoveComments   Feature = "remove_comments"
	SortMembers      Feature = "sort_members"
	OrderImports     Feature = "order_imports"
	StandardizeNames Feature = "standardize_names"
	ReduceDataTypes  Feature = "reduce_data_types"
	ReduceStructures Feature = "reduce_structures"
)

// Reporter receives the elements a pass could not transform.
type Reporter func(id elements.ID, err error)

// Pass is a transformation over an Element Model. It rewrites the file in
// place and reports elements it skipped.
type Pass func(file *elements.JavaFile, report Reporter)

var passes = map[Feature]Pass{
	RemoveComments:   removeComments,
	SortMembers:      sortMembers,
	OrderImports:     orderImports,
	StandardizeNames: standardizeNames,
	ReduceDataTypes:  reduceDataTypes,
	ReduceStructures: reduceStructures,
}

// names accepted besides the canonical identifiers
var aliases = map[string]Feature{
	"sort_class_members":       SortMembers,
	"standardise_method_names": StandardizeNames,
	"standardize_method_names": StandardizeNames,
	"comments":                 RemoveComments,
	"members":                  SortMembers,
	"imports":                  OrderImports,
	"names":                    StandardizeNames,
	"types":                    ReduceDataTypes,
	"structures":               ReduceStructures,
}

// AllFeatures returns every feature in the recommended application order.
func AllFeatures() []Feature {
	return []Feature{OrderImports, ReduceDataTypes, SortMembers, StandardizeNames, RemoveComments, ReduceStructures}
}

// PassFor returns the transformation registered for f.
func PassFor(f Feature) (Pass, bool) {
	p, ok := passes[f]
	return p, ok
}

// ParseFeature resolves a feature name, case-insensitively.
func ParseFeature(name string) (Feature, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	if _, ok := passes[Feature(key)]; ok {
		return Feature(key), nil
	}
	if f, ok := aliases[key]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFeature, name)
}

// ParseFeatures resolves a list of names. "all" expands to AllFeatures.
func ParseFeatures(names []string) ([]Feature, error) {
	var features []Feature
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), "all") {
			features = append(features, AllFeatures()...)
			continue
		}
		f, err := ParseFeature(name)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, nil
}

// Apply runs the passes for features over file in the order given. A feature
// listed twice runs once. Elements a pass cannot handle are skipped; the
// returned error joins one NormalizationError per skipped element.
func Apply(file *elements.JavaFile, features []Feature) error {
	var errs []error
	seen := make(map[Feature]bool, len(features))
	for _, f := range features {
		if seen[f] {
			continue
		}
		seen[f] = true

		pass, ok := passes[f]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownFeature, f))
			continue
		}
		feature := f
		pass(file, func(id elements.ID, err error) {
			log.Debug().
				Str("path", file.Path).
				Str("feature", string(feature)).
				Uint32("elementId", uint32(id)).
				Err(err).
				Msg("Skipped element during normalization")
			errs = append(errs, &NormalizationError{Feature: feature, Path: file.Path, ElementID: id, Err: err})
		})
	}
	return errors.Join(errs...)
}
