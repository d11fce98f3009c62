package profiler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wealthops/risk-profiler/internal/models"
)

// ConfirmationDetector classifies an utterance as an affirmative
// confirmation of the reviewed summary. Pluggable so the keyword heuristic
// can be swapped for a real classifier without touching the state machine.
type ConfirmationDetector interface {
	IsConfirmation(utterance string) bool
}

// EditRequest is a parsed correction request. HasValue is false when the
// user named a field without supplying the replacement value.
type EditRequest struct {
	Field    models.FieldKey
	Value    string
	HasValue bool
}

// EditResolver parses an utterance into an edit request, or nil when the
// utterance does not look like a correction.
type EditResolver interface {
	ResolveEdit(utterance string) *EditRequest
}

// confirmationPhrases is matched case-insensitively as substrings. Known
// limitation carried over from the source system: negations are not
// handled, so "no, not correct" still matches "correct".
var confirmationPhrases = []string{
	"yes", "yep", "yeah", "confirm", "correct", "right",
	"looks good", "look good", "sounds good", "proceed",
	"continue", "sure", "go ahead", "that works", "perfect",
}

type keywordConfirmation struct{}

// NewKeywordConfirmation returns the default substring-based detector.
func NewKeywordConfirmation() ConfirmationDetector {
	return keywordConfirmation{}
}

func (keywordConfirmation) IsConfirmation(utterance string) bool {
	lowered := strings.ToLower(utterance)
	for _, phrase := range confirmationPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// editTriggers gate the edit resolver: without one of these the utterance
// is never treated as a correction.
var editTriggers = []string{
	"edit", "change", "actually", "wrong", "meant", "should be",
	"fix", "correct", "update", "modify", "mistake",
}

var (
	genericValuePattern = regexp.MustCompile(`(?:to|is)\s+\$?(\d+(?:\.\d+)?)\s*(k?)\b`)
	agePattern          = regexp.MustCompile(`(?:i'm|i am|age is)\s+(\d{1,3})\b`)
)

// goalPhrases maps spoken forms to canonical goal values; multi-word forms
// are listed before their underscore spellings so either matches.
var goalPhrases = [][2]string{
	{"retirement", string(models.GoalRetirement)},
	{"wealth building", string(models.GoalWealthBuilding)},
	{"wealth_building", string(models.GoalWealthBuilding)},
	{"income generation", string(models.GoalIncomeGeneration)},
	{"income_generation", string(models.GoalIncomeGeneration)},
	{"capital preservation", string(models.GoalCapitalPreservation)},
	{"capital_preservation", string(models.GoalCapitalPreservation)},
}

var tolerancePhrases = []string{
	string(models.ToleranceConservative),
	string(models.ToleranceModerate),
	string(models.ToleranceAggressive),
}

type keywordEditResolver struct{}

// NewKeywordEditResolver returns the default trigger-word resolver.
func NewKeywordEditResolver() EditResolver {
	return keywordEditResolver{}
}

func (keywordEditResolver) ResolveEdit(utterance string) *EditRequest {
	lowered := strings.ToLower(utterance)

	triggered := false
	for _, trigger := range editTriggers {
		if strings.Contains(lowered, trigger) {
			triggered = true
			break
		}
	}
	if !triggered {
		return nil
	}

	field, named := matchField(lowered)

	// Field-specific value extraction. When the utterance names no field,
	// a field-specific hit also identifies which field is being corrected.
	if m := agePattern.FindStringSubmatch(lowered); m != nil && (!named || field == models.FieldAge) {
		return &EditRequest{Field: models.FieldAge, Value: m[1], HasValue: true}
	}
	if !named || field == models.FieldRiskTolerance {
		for _, phrase := range tolerancePhrases {
			if strings.Contains(lowered, phrase) {
				return &EditRequest{Field: models.FieldRiskTolerance, Value: phrase, HasValue: true}
			}
		}
	}
	if !named || field == models.FieldInvestmentGoal {
		for _, pair := range goalPhrases {
			if strings.Contains(lowered, pair[0]) {
				return &EditRequest{Field: models.FieldInvestmentGoal, Value: pair[1], HasValue: true}
			}
		}
	}

	if !named {
		return nil
	}

	// Generic "to|is <number>[k]" extraction.
	if m := genericValuePattern.FindStringSubmatch(lowered); m != nil {
		value := m[1]
		if m[2] == "k" {
			if f, err := strconv.ParseFloat(m[1], 64); err == nil {
				value = strconv.FormatFloat(f*1000, 'f', -1, 64)
			}
		}
		return &EditRequest{Field: field, Value: value, HasValue: true}
	}

	return &EditRequest{Field: field}
}

// matchField scans the synonym table in declaration order and returns the
// first field whose synonym appears in the utterance.
func matchField(lowered string) (models.FieldKey, bool) {
	for _, key := range models.FieldOrder {
		for _, syn := range models.FieldSynonyms[key] {
			if strings.Contains(lowered, syn) {
				return key, true
			}
		}
	}
	return "", false
}
