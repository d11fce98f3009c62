package models

import (
	"fmt"
	"strconv"
	"strings"
)

type FieldKey string

const (
	FieldAge                 FieldKey = "age"
	FieldInvestmentHorizon   FieldKey = "investment_horizon"
	FieldRiskTolerance       FieldKey = "risk_tolerance"
	FieldInvestmentGoal      FieldKey = "investment_goal"
	FieldAnnualIncome        FieldKey = "annual_income"
	FieldExistingInvestments FieldKey = "existing_investments"
)

// FieldOrder is the canonical declaration order. MissingFields, summaries
// and the edit resolver's first-match tie-break all depend on it.
var FieldOrder = []FieldKey{
	FieldAge,
	FieldInvestmentHorizon,
	FieldRiskTolerance,
	FieldInvestmentGoal,
	FieldAnnualIncome,
	FieldExistingInvestments,
}

// FieldSynonyms maps each field to the words a user may call it by.
// Order matters: resolution scans fields in FieldOrder and takes the
// first synonym hit.
var FieldSynonyms = map[FieldKey][]string{
	FieldAge:                 {"age"},
	FieldInvestmentHorizon:   {"timeline", "horizon", "investment_horizon"},
	FieldRiskTolerance:       {"risk", "tolerance", "risk_tolerance"},
	FieldInvestmentGoal:      {"goal", "investment_goal"},
	FieldAnnualIncome:        {"income", "salary", "annual_income"},
	FieldExistingInvestments: {"investments", "portfolio", "existing_investments"},
}

var fieldLabels = map[FieldKey]string{
	FieldAge:                 "Age",
	FieldInvestmentHorizon:   "Investment Horizon",
	FieldRiskTolerance:       "Risk Tolerance",
	FieldInvestmentGoal:      "Investment Goal",
	FieldAnnualIncome:        "Annual Income",
	FieldExistingInvestments: "Existing Investments",
}

// ResolveFieldKey maps a field name or synonym to its canonical key.
func ResolveFieldKey(name string) (FieldKey, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false
	}
	needle = strings.ReplaceAll(needle, " ", "_")
	for _, key := range FieldOrder {
		if needle == string(key) {
			return key, true
		}
		for _, syn := range FieldSynonyms[key] {
			if needle == syn || strings.Contains(needle, syn) {
				return key, true
			}
		}
	}
	return "", false
}

// ValidationError reports a field value that could not be coerced into the
// field's semantic type, or an unrecognized enum member.
type ValidationError struct {
	Field  FieldKey
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %q for field %s: %s", e.Value, e.Field, e.Reason)
}

// UpdateField resolves the field name through the synonym table, coerces the
// raw value into the field's type and mutates the record. It returns false
// when the field name is unrecognized and a ValidationError when the value
// does not fit.
func (p *ClientProfile) UpdateField(name string, raw any) (bool, error) {
	key, ok := ResolveFieldKey(name)
	if !ok {
		return false, nil
	}
	if err := p.SetField(key, raw); err != nil {
		return true, err
	}
	return true, nil
}

// SetField coerces and assigns a single attribute by canonical key.
func (p *ClientProfile) SetField(key FieldKey, raw any) error {
	switch key {
	case FieldAge:
		n, err := coerceInt(raw)
		if err != nil {
			return &ValidationError{Field: key, Value: rawString(raw), Reason: "expected a whole number of years"}
		}
		p.Age = &n
	case FieldInvestmentHorizon:
		n, err := coerceInt(raw)
		if err != nil {
			return &ValidationError{Field: key, Value: rawString(raw), Reason: "expected a whole number of years"}
		}
		p.InvestmentHorizon = &n
	case FieldRiskTolerance:
		t, err := ParseRiskTolerance(rawString(raw))
		if err != nil {
			return &ValidationError{Field: key, Value: rawString(raw), Reason: err.Error()}
		}
		p.RiskTolerance = &t
	case FieldInvestmentGoal:
		g, err := ParseInvestmentGoal(rawString(raw))
		if err != nil {
			return &ValidationError{Field: key, Value: rawString(raw), Reason: err.Error()}
		}
		p.InvestmentGoal = &g
	case FieldAnnualIncome:
		f, err := coerceFloat(raw)
		if err != nil {
			return &ValidationError{Field: key, Value: rawString(raw), Reason: "expected an amount"}
		}
		p.AnnualIncome = &f
	case FieldExistingInvestments:
		f, err := coerceFloat(raw)
		if err != nil {
			return &ValidationError{Field: key, Value: rawString(raw), Reason: "expected an amount"}
		}
		p.ExistingInvestments = &f
	default:
		return &ValidationError{Field: key, Value: rawString(raw), Reason: "unknown field"}
	}
	p.Touch()
	return nil
}

func ParseRiskTolerance(s string) (RiskTolerance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ToleranceConservative):
		return ToleranceConservative, nil
	case string(ToleranceModerate):
		return ToleranceModerate, nil
	case string(ToleranceAggressive):
		return ToleranceAggressive, nil
	}
	return "", fmt.Errorf("must be conservative, moderate or aggressive")
}

func ParseInvestmentGoal(s string) (InvestmentGoal, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	switch normalized {
	case string(GoalRetirement):
		return GoalRetirement, nil
	case string(GoalWealthBuilding):
		return GoalWealthBuilding, nil
	case string(GoalIncomeGeneration):
		return GoalIncomeGeneration, nil
	case string(GoalCapitalPreservation):
		return GoalCapitalPreservation, nil
	}
	return "", fmt.Errorf("must be retirement, wealth_building, income_generation or capital_preservation")
}

// Summary projects the record into human-readable labels and values.
// Unset fields render as "Not Provided".
func (p *ClientProfile) Summary() map[string]string {
	out := make(map[string]string, len(FieldOrder))
	for _, key := range FieldOrder {
		out[fieldLabels[key]] = p.DisplayValue(key)
	}
	return out
}

// SummaryLines renders the summary in field declaration order, one
// "Label: value" line per field.
func (p *ClientProfile) SummaryLines() []string {
	lines := make([]string, 0, len(FieldOrder))
	for _, key := range FieldOrder {
		lines = append(lines, fmt.Sprintf("%s: %s", fieldLabels[key], p.DisplayValue(key)))
	}
	return lines
}

func (p *ClientProfile) DisplayValue(key FieldKey) string {
	const notProvided = "Not Provided"
	switch key {
	case FieldAge:
		if p.Age == nil {
			return notProvided
		}
		return strconv.Itoa(*p.Age)
	case FieldInvestmentHorizon:
		if p.InvestmentHorizon == nil {
			return notProvided
		}
		return fmt.Sprintf("%d years", *p.InvestmentHorizon)
	case FieldRiskTolerance:
		if p.RiskTolerance == nil {
			return notProvided
		}
		return titleCase(string(*p.RiskTolerance))
	case FieldInvestmentGoal:
		if p.InvestmentGoal == nil {
			return notProvided
		}
		return titleCase(string(*p.InvestmentGoal))
	case FieldAnnualIncome:
		if p.AnnualIncome == nil {
			return notProvided
		}
		return formatCurrency(*p.AnnualIncome)
	case FieldExistingInvestments:
		if p.ExistingInvestments == nil {
			return notProvided
		}
		return formatCurrency(*p.ExistingInvestments)
	}
	return notProvided
}

// titleCase renders an enum value for display: underscores become spaces
// and each word is capitalized ("wealth_building" -> "Wealth Building").
func titleCase(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// formatCurrency renders an amount with thousands separators, dropping the
// cents when the amount is whole ("$120,000").
func formatCurrency(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v)
	frac := v - float64(whole)

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	out := "$" + b.String()
	if frac > 0.004 {
		out += strings.TrimPrefix(strconv.FormatFloat(frac, 'f', 2, 64), "0")
	}
	if neg {
		out = "-" + out
	}
	return out
}

func rawString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func coerceInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		f, err := parseAmount(v)
		if err != nil {
			return 0, err
		}
		return int(f), nil
	}
	return 0, fmt.Errorf("unsupported type %T", raw)
}

func coerceFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		return parseAmount(v)
	}
	return 0, fmt.Errorf("unsupported type %T", raw)
}

// parseAmount reads a numeric string, tolerating "$", thousands commas and
// a trailing "k" multiplier ("120k" -> 120000).
func parseAmount(s string) (float64, error) {
	cleaned := strings.ToLower(strings.TrimSpace(s))
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	multiplier := 1.0
	if strings.HasSuffix(cleaned, "k") {
		multiplier = 1000
		cleaned = strings.TrimSuffix(cleaned, "k")
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	return f * multiplier, nil
}
