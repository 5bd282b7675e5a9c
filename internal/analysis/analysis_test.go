package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentgrowth/leadflow/internal/model"
)

func sampleLead() model.Lead {
	return model.Lead{
		FirstName:          "Dana",
		LastName:           "Reyes",
		SphereSize:         300,
		AnnualTransactions: 12,
		WeeklyHours:        40,
		TargetIncome:       150000,
		BiggestChallenge:   model.ChallengeFollowUp,
	}
}

func TestAnalyze_ExampleScenario(t *testing.T) {
	t.Parallel()

	r := Analyze(sampleLead())

	assert.InDelta(t, 42000, r.CurrentEarnings, 1e-9)
	assert.InDelta(t, 175000, r.ProjectedEarnings, 1e-9)
	assert.InDelta(t, 17, r.TimePerTransaction, 1e-9)
	assert.InDelta(t, 50, r.ProjectedTransactions, 1e-9)
	assert.InDelta(t, 4, r.SphereUtilization, 1e-9)
	assert.Equal(t, "316.7%", r.ImprovementPercent)
	assert.InDelta(t, 133000, r.EarningsGap, 1e-9)
	assert.InDelta(t, 108000, r.IncomeGap, 1e-9)
	assert.Equal(t, int64(43), r.TransactionsForTarget)

	require.NotEmpty(t, r.MarketOpportunities)
	assert.Contains(t, r.MarketOpportunities[0], "$175,000")
	assert.Contains(t, r.MarketOpportunities[0], "50 transactions")
	assert.Equal(t, actionsByChallenge[model.ChallengeFollowUp], r.RecommendedActions)
}

func TestAnalyze_Deterministic(t *testing.T) {
	t.Parallel()

	l := sampleLead()
	assert.Equal(t, Analyze(l), Analyze(l))

	l.SphereSize = 0
	l.AnnualTransactions = 0
	assert.Equal(t, Analyze(l), Analyze(l))
}

func TestAnalyze_ZeroSphere(t *testing.T) {
	t.Parallel()

	l := sampleLead()
	l.SphereSize = 0

	r := Analyze(l)
	assert.Zero(t, r.ProjectedEarnings)
	assert.Zero(t, r.ProjectedTransactions)
	assert.Zero(t, r.SphereUtilization)
	assert.Zero(t, r.EarningsGap)
	for _, s := range r.MarketOpportunities {
		assert.NotContains(t, s, "NaN")
		assert.NotContains(t, s, "Inf")
	}
}

func TestAnalyze_ZeroTransactions(t *testing.T) {
	t.Parallel()

	l := sampleLead()
	l.AnnualTransactions = 0

	r := Analyze(l)
	assert.Equal(t, "100%", r.ImprovementPercent)
	assert.Zero(t, r.CurrentEarnings)
	assert.Zero(t, r.SphereUtilization)
	assert.False(t, math.IsNaN(r.SphereUtilization))

	for _, s := range r.MarketOpportunities {
		assert.NotContains(t, s, "NaN")
		assert.NotContains(t, s, "Inf")
	}
	require.Len(t, r.MarketOpportunities, 5)
	assert.Contains(t, r.MarketOpportunities[1], "100%")
}

func TestAnalyze_HoursSavedFloor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hours float64
		want  float64
	}{
		{0, 25},
		{40, 17},
		{75, 10},
		{168, 10},
	}
	for _, tt := range tests {
		l := sampleLead()
		l.WeeklyHours = tt.hours
		assert.InDelta(t, tt.want, Analyze(l).TimePerTransaction, 1e-9, "hours=%v", tt.hours)
	}
}

func TestAnalyze_ProductionAboveProjection(t *testing.T) {
	t.Parallel()

	l := sampleLead()
	l.SphereSize = 60
	l.AnnualTransactions = 20
	l.TargetIncome = 0

	r := Analyze(l)
	assert.Zero(t, r.EarningsGap)
	assert.Equal(t, "0.0%", r.ImprovementPercent)
	assert.Zero(t, r.TransactionsForTarget)
	assert.Zero(t, r.IncomeGap)
}

func TestRecommendations(t *testing.T) {
	t.Parallel()

	for _, c := range model.Challenges {
		assert.NotEmpty(t, Recommendations(c), string(c))
	}
	assert.Equal(t, defaultActions, Recommendations(""))
	assert.Equal(t, defaultActions, Recommendations("something_else"))

	got := Recommendations(model.ChallengeSystems)
	got[0] = "changed"
	assert.NotEqual(t, "changed", actionsByChallenge[model.ChallengeSystems][0])
}

func TestFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$42,000", Currency(42000))
	assert.Equal(t, "$175,000", Currency(175000))
	assert.Equal(t, "$0", Currency(0))
	assert.Equal(t, "$1,234,568", Currency(1234567.5))
	assert.Equal(t, "-$500", Currency(-500))
	assert.Equal(t, "16.7%", Percent(16.666))
	assert.Equal(t, "4.0%", Percent(4))
	assert.Equal(t, "50", Count(50))
	assert.Equal(t, "1,000", Count(1000))
	assert.Equal(t, "16.7", Count(16.66666))
	assert.Equal(t, "52.55", Number(52.55))
	assert.Equal(t, "40", Number(40))
	assert.Equal(t, "1,234.5", Number(1234.5))
	assert.Equal(t, "0.125", Number(0.125))
	assert.Equal(t, "-7.25", Number(-7.25))
}
