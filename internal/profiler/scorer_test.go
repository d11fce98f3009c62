package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wealthops/risk-profiler/internal/models"
)

func TestScoreBands(t *testing.T) {
	tests := []struct {
		name      string
		age       int
		horizon   int
		tolerance models.RiskTolerance
		income    float64
		existing  float64
		want      int
	}{
		{
			// 50 +20 (age<30) +20 (horizon>=25) +20 (aggressive) +5 (income 100-150k) +0
			name: "young aggressive", age: 28, horizon: 30,
			tolerance: models.ToleranceAggressive, income: 120000, existing: 50000,
			want: 100, // 115 clamped
		},
		{
			// 50 -20 (age>=60) +0 (horizon<5) -20 (conservative) -5 (income<50k) +0
			name: "retiree conservative", age: 65, horizon: 3,
			tolerance: models.ToleranceConservative, income: 30000, existing: 10000,
			want: 5,
		},
		{
			// 50 +0 (age 40-49) +10 (horizon 10-14) +0 (moderate) +0 (income 50-100k) +0
			name: "middle of the road", age: 45, horizon: 12,
			tolerance: models.ToleranceModerate, income: 80000, existing: 100000,
			want: 60,
		},
		{
			// 50 +10 (age 30-39) +15 (horizon 15-24) +0 +15 (income>=200k) +10 (existing>=500k)
			name: "high earner", age: 35, horizon: 20,
			tolerance: models.ToleranceModerate, income: 250000, existing: 600000,
			want: 100,
		},
		{
			// 50 -10 (age 50-59) +5 (horizon 5-9) -20 (conservative) +10 (income 150-200k) +5 (existing>=250k)
			name: "pre-retirement saver", age: 55, horizon: 7,
			tolerance: models.ToleranceConservative, income: 160000, existing: 300000,
			want: 40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.age, tt.horizon, tt.tolerance, tt.income, tt.existing)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreAlwaysInRange(t *testing.T) {
	tolerances := []models.RiskTolerance{
		models.ToleranceConservative, models.ToleranceModerate, models.ToleranceAggressive,
	}
	for _, age := range []int{18, 29, 30, 39, 40, 49, 50, 59, 60, 85} {
		for _, horizon := range []int{0, 4, 5, 9, 10, 14, 15, 24, 25, 40} {
			for _, tol := range tolerances {
				for _, income := range []float64{0, 49999, 50000, 99999, 100000, 149999, 150000, 199999, 200000} {
					for _, existing := range []float64{0, 249999, 250000, 499999, 500000} {
						got := Score(age, horizon, tol, income, existing)
						assert.GreaterOrEqual(t, got, 1)
						assert.LessOrEqual(t, got, 100)
					}
				}
			}
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	a := Score(28, 30, models.ToleranceAggressive, 120000, 50000)
	b := Score(28, 30, models.ToleranceAggressive, 120000, 50000)
	assert.Equal(t, a, b)
}

func TestCategoryForScore(t *testing.T) {
	assert.Equal(t, models.ToleranceConservative, CategoryForScore(1))
	assert.Equal(t, models.ToleranceConservative, CategoryForScore(35))
	assert.Equal(t, models.ToleranceModerate, CategoryForScore(36))
	assert.Equal(t, models.ToleranceModerate, CategoryForScore(65))
	assert.Equal(t, models.ToleranceAggressive, CategoryForScore(66))
	assert.Equal(t, models.ToleranceAggressive, CategoryForScore(100))
}

func TestAllocationTable(t *testing.T) {
	assert.Equal(t,
		models.Allocation{Stocks: 30, Bonds: 50, Cash: 15, Alternatives: 5},
		AllocationForCategory(models.ToleranceConservative))
	assert.Equal(t,
		models.Allocation{Stocks: 60, Bonds: 30, Cash: 5, Alternatives: 5},
		AllocationForCategory(models.ToleranceModerate))
	assert.Equal(t,
		models.Allocation{Stocks: 80, Bonds: 10, Cash: 5, Alternatives: 5},
		AllocationForCategory(models.ToleranceAggressive))
}
