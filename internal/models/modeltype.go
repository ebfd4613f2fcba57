package models

import (
	"fmt"
	"sort"
	"strings"
)

// ModelType identifies an independently trained classifier.
type ModelType string

// Built-in model types. Deployments may extend the set through
// configuration.
const (
	TypeGeneral   ModelType = "GENERAL"
	TypeSentiment ModelType = "SENTIMENT"
	TypeTopic     ModelType = "TOPIC"
	TypeIntent    ModelType = "INTENT"
)

// DefaultTypes returns the built-in model type set.
func DefaultTypes() []ModelType {
	return []ModelType{TypeGeneral, TypeSentiment, TypeTopic, TypeIntent}
}

// TypeSet is the collection of model types a deployment recognizes.
// Parsing is case-insensitive; the canonical form is upper case.
type TypeSet struct {
	types map[ModelType]struct{}
}

// NewTypeSet builds a TypeSet from the given types. Tokens are
// canonicalized to upper case and duplicates collapse.
func NewTypeSet(types ...ModelType) *TypeSet {
	set := make(map[ModelType]struct{}, len(types))
	for _, t := range types {
		set[ModelType(strings.ToUpper(string(t)))] = struct{}{}
	}
	return &TypeSet{types: set}
}

// Parse canonicalizes a raw model type token. Unrecognized tokens
// return ErrUnknownModelType.
func (s *TypeSet) Parse(raw string) (ModelType, error) {
	mt := ModelType(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := s.types[mt]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownModelType, raw)
	}
	return mt, nil
}

// Contains reports whether mt belongs to the set.
func (s *TypeSet) Contains(mt ModelType) bool {
	_, ok := s.types[mt]
	return ok
}

// Types returns the members of the set sorted alphabetically.
func (s *TypeSet) Types() []ModelType {
	out := make([]ModelType, 0, len(s.types))
	for mt := range s.types {
		out = append(out, mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
