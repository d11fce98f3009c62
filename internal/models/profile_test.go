package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientProfile(t *testing.T) {
	p := NewClientProfile("abc")
	assert.Equal(t, "abc", p.ClientID)
	assert.Equal(t, StatusCollecting, p.Status)
	assert.Equal(t, 1, p.Version)
	assert.Empty(t, p.LastReportHandle)
	assert.False(t, p.IsComplete())
}

func TestMissingFieldsOrder(t *testing.T) {
	p := NewClientProfile("abc")
	assert.Equal(t, FieldOrder, p.MissingFields())

	require.NoError(t, p.SetField(FieldRiskTolerance, "moderate"))
	require.NoError(t, p.SetField(FieldAge, "40"))
	assert.Equal(t, []FieldKey{
		FieldInvestmentHorizon,
		FieldInvestmentGoal,
		FieldAnnualIncome,
		FieldExistingInvestments,
	}, p.MissingFields())
}

func TestIsCompleteAfterAllSix(t *testing.T) {
	p := NewClientProfile("abc")
	require.NoError(t, p.SetField(FieldAge, 28))
	require.NoError(t, p.SetField(FieldInvestmentHorizon, 30))
	require.NoError(t, p.SetField(FieldRiskTolerance, "aggressive"))
	require.NoError(t, p.SetField(FieldInvestmentGoal, "wealth_building"))
	require.NoError(t, p.SetField(FieldAnnualIncome, 120000))
	assert.False(t, p.IsComplete())
	require.NoError(t, p.SetField(FieldExistingInvestments, 50000))
	assert.True(t, p.IsComplete())
}

func TestUpdateFieldSynonyms(t *testing.T) {
	p := NewClientProfile("abc")

	known, err := p.UpdateField("salary", "95000")
	require.NoError(t, err)
	assert.True(t, known)
	require.NotNil(t, p.AnnualIncome)
	assert.Equal(t, 95000.0, *p.AnnualIncome)

	known, err = p.UpdateField("timeline", "20")
	require.NoError(t, err)
	assert.True(t, known)
	require.NotNil(t, p.InvestmentHorizon)
	assert.Equal(t, 20, *p.InvestmentHorizon)

	known, _ = p.UpdateField("shoe_size", "42")
	assert.False(t, known)
}

func TestUpdateFieldCoercionErrors(t *testing.T) {
	p := NewClientProfile("abc")

	known, err := p.UpdateField("age", "very old")
	assert.True(t, known)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, FieldAge, validation.Field)

	known, err = p.UpdateField("risk_tolerance", "yolo")
	assert.True(t, known)
	require.ErrorAs(t, err, &validation)

	// Failed updates leave the record untouched.
	assert.Nil(t, p.Age)
	assert.Nil(t, p.RiskTolerance)
}

func TestUpdateFieldEnumCaseInsensitive(t *testing.T) {
	p := NewClientProfile("abc")

	_, err := p.UpdateField("risk_tolerance", "CONSERVATIVE")
	require.NoError(t, err)
	assert.Equal(t, ToleranceConservative, *p.RiskTolerance)
	assert.Equal(t, "Conservative", p.Summary()["Risk Tolerance"])

	_, err = p.UpdateField("goal", "Wealth Building")
	require.NoError(t, err)
	assert.Equal(t, GoalWealthBuilding, *p.InvestmentGoal)
}

func TestUpdateFieldAmountParsing(t *testing.T) {
	p := NewClientProfile("abc")

	_, err := p.UpdateField("income", "$120,000")
	require.NoError(t, err)
	assert.Equal(t, 120000.0, *p.AnnualIncome)

	_, err = p.UpdateField("portfolio", "50k")
	require.NoError(t, err)
	assert.Equal(t, 50000.0, *p.ExistingInvestments)
}

func TestSummaryRendering(t *testing.T) {
	p := NewClientProfile("abc")
	summary := p.Summary()
	for _, label := range []string{
		"Age", "Investment Horizon", "Risk Tolerance",
		"Investment Goal", "Annual Income", "Existing Investments",
	} {
		assert.Equal(t, "Not Provided", summary[label])
	}

	require.NoError(t, p.SetField(FieldAge, 28))
	require.NoError(t, p.SetField(FieldInvestmentHorizon, 30))
	require.NoError(t, p.SetField(FieldInvestmentGoal, "income_generation"))
	require.NoError(t, p.SetField(FieldAnnualIncome, 1234567.0))

	summary = p.Summary()
	assert.Equal(t, "28", summary["Age"])
	assert.Equal(t, "30 years", summary["Investment Horizon"])
	assert.Equal(t, "Income Generation", summary["Investment Goal"])
	assert.Equal(t, "$1,234,567", summary["Annual Income"])
}

func TestSummaryLinesOrder(t *testing.T) {
	p := NewClientProfile("abc")
	lines := p.SummaryLines()
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "Age:")
	assert.Contains(t, lines[5], "Existing Investments:")
}

func TestResolveFieldKey(t *testing.T) {
	tests := map[string]FieldKey{
		"age":                  FieldAge,
		"Age":                  FieldAge,
		"horizon":              FieldInvestmentHorizon,
		"investment horizon":   FieldInvestmentHorizon,
		"risk":                 FieldRiskTolerance,
		"tolerance":            FieldRiskTolerance,
		"goal":                 FieldInvestmentGoal,
		"income":               FieldAnnualIncome,
		"salary":               FieldAnnualIncome,
		"portfolio":            FieldExistingInvestments,
		"existing_investments": FieldExistingInvestments,
	}
	for name, want := range tests {
		got, ok := ResolveFieldKey(name)
		require.True(t, ok, "expected %q to resolve", name)
		assert.Equal(t, want, got)
	}

	_, ok := ResolveFieldKey("favorite_color")
	assert.False(t, ok)
}

func TestTouchRefreshesUpdatedAt(t *testing.T) {
	p := NewClientProfile("abc")
	before := p.UpdatedAt
	require.NoError(t, p.SetField(FieldAge, 30))
	assert.False(t, p.UpdatedAt.Before(before))
}
