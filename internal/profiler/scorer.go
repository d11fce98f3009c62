package profiler

import (
	"fmt"

	"github.com/wealthops/risk-profiler/internal/models"
)

// Score computes the deterministic risk score on a 1-100 scale from the
// five scored attributes. Base 50, adjusted per attribute band, clamped.
func Score(age, horizon int, tolerance models.RiskTolerance, income, existing float64) int {
	score := 50

	switch {
	case age < 30:
		score += 20
	case age < 40:
		score += 10
	case age < 50:
		// no adjustment
	case age < 60:
		score -= 10
	default:
		score -= 20
	}

	switch {
	case horizon >= 25:
		score += 20
	case horizon >= 15:
		score += 15
	case horizon >= 10:
		score += 10
	case horizon >= 5:
		score += 5
	}

	switch tolerance {
	case models.ToleranceConservative:
		score -= 20
	case models.ToleranceAggressive:
		score += 20
	}

	switch {
	case income >= 200000:
		score += 15
	case income >= 150000:
		score += 10
	case income >= 100000:
		score += 5
	case income < 50000:
		score -= 5
	}

	switch {
	case existing >= 500000:
		score += 10
	case existing >= 250000:
		score += 5
	}

	if score < 1 {
		score = 1
	}
	if score > 100 {
		score = 100
	}
	return score
}

// CategoryForScore is the fallback mapping used when the agent's completion
// payload omits risk_category.
func CategoryForScore(score int) models.RiskTolerance {
	switch {
	case score <= 35:
		return models.ToleranceConservative
	case score <= 65:
		return models.ToleranceModerate
	default:
		return models.ToleranceAggressive
	}
}

// AllocationForCategory is the contractual allocation table. The numbers are
// a fixed output contract, not a computed value.
func AllocationForCategory(category models.RiskTolerance) models.Allocation {
	switch category {
	case models.ToleranceConservative:
		return models.Allocation{Stocks: 30, Bonds: 50, Cash: 15, Alternatives: 5}
	case models.ToleranceAggressive:
		return models.Allocation{Stocks: 80, Bonds: 10, Cash: 5, Alternatives: 5}
	default:
		return models.Allocation{Stocks: 60, Bonds: 30, Cash: 5, Alternatives: 5}
	}
}

// Assess derives a full assessment from a complete profile without agent
// involvement. Used on explicit regeneration, where no fresh completion
// payload exists.
func Assess(p *models.ClientProfile) models.RiskAssessment {
	score := Score(*p.Age, *p.InvestmentHorizon, *p.RiskTolerance, *p.AnnualIncome, *p.ExistingInvestments)
	category := CategoryForScore(score)
	return models.RiskAssessment{
		RiskScore:    score,
		RiskCategory: category,
		Allocation:   AllocationForCategory(category),
		Insights: []string{
			fmt.Sprintf("Your profile places you in the %s risk band with a score of %d/100.", category, score),
			fmt.Sprintf("An investment horizon of %d years supports the recommended allocation below.", *p.InvestmentHorizon),
			fmt.Sprintf("Stated goal: %s.", p.DisplayValue(models.FieldInvestmentGoal)),
		},
		NextSteps: []string{
			"Review the recommended allocation with your advisor.",
			"Revisit this profile after any major change in income or portfolio value.",
			"Schedule an annual risk review.",
		},
	}
}
