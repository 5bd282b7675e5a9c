// Package analysis derives business-health metrics and narratives from a
// lead's intake answers. Everything here is a pure function of the lead.
package analysis

import (
	"fmt"
	"math"

	"github.com/agentgrowth/leadflow/internal/model"
)

const (
	// AverageCommission is the assumed gross commission per closed deal.
	AverageCommission = 3500.0
	// SphereDivisor is the rule-of-thumb number of worked sphere contacts
	// per closed deal.
	SphereDivisor = 6.0

	minHoursSaved  = 10.0
	baseHoursSaved = 25.0
)

// Result is the derived analysis for one lead. It is never persisted.
type Result struct {
	CurrentEarnings       float64 `json:"currentEarnings"`
	ProjectedEarnings     float64 `json:"projectedEarnings"`
	TimePerTransaction    float64 `json:"timePerTransaction"`
	ProjectedTransactions float64 `json:"projectedTransactions"`
	SphereUtilization     float64 `json:"sphereUtilization"`
	ImprovementPercent    string  `json:"improvementPercent"`
	EarningsGap           float64 `json:"earningsGap"`
	IncomeGap             float64 `json:"incomeGap"`
	TransactionsForTarget int64   `json:"transactionsForTarget"`

	MarketOpportunities []string `json:"marketOpportunities"`
	RecommendedActions  []string `json:"recommendedActions"`
}

// Analyze computes the analysis for l. Calling it twice on the same lead
// yields identical output.
func Analyze(l model.Lead) Result {
	sphere := float64(l.SphereSize)
	tx := float64(l.AnnualTransactions)

	r := Result{
		CurrentEarnings:       tx * AverageCommission,
		ProjectedTransactions: sphere / SphereDivisor,
		TimePerTransaction:    math.Max(minHoursSaved, baseHoursSaved-l.WeeklyHours/5),
	}
	r.ProjectedEarnings = r.ProjectedTransactions * AverageCommission

	if tx > 0 && sphere > 0 {
		r.SphereUtilization = tx / sphere * 100
	}

	r.ImprovementPercent = improvement(tx, r.ProjectedTransactions)
	r.EarningsGap = math.Max(0, r.ProjectedEarnings-r.CurrentEarnings)

	if l.TargetIncome > 0 {
		r.IncomeGap = math.Max(0, l.TargetIncome-r.CurrentEarnings)
		r.TransactionsForTarget = int64(math.Ceil(l.TargetIncome / AverageCommission))
	}

	r.MarketOpportunities = opportunities(l, r)
	r.RecommendedActions = Recommendations(l.BiggestChallenge)
	return r
}

// improvement is the relative gain from current to projected deal volume.
// With no current deals any projected volume reads as "100%".
func improvement(current, projected float64) string {
	if current <= 0 {
		return "100%"
	}
	return Percent(math.Max(0, (projected-current)/current*100))
}

func opportunities(l model.Lead, r Result) []string {
	var out []string

	if l.SphereSize > 0 {
		out = append(out, fmt.Sprintf(
			"Working your sphere of %s contacts at one closing per %d contacts projects %s transactions and %s in annual commission.",
			Count(float64(l.SphereSize)), int(SphereDivisor), Count(round1(r.ProjectedTransactions)), Currency(r.ProjectedEarnings)))
	} else {
		out = append(out, "Building a documented sphere of past clients, friends and referral partners is the fastest route to predictable business.")
	}

	if r.SphereUtilization > 0 {
		out = append(out, fmt.Sprintf(
			"You currently convert %s of your sphere into closed transactions each year.", Percent(r.SphereUtilization)))
	}

	if r.EarningsGap > 0 {
		out = append(out, fmt.Sprintf(
			"Closing the gap to your projected volume is worth an additional %s per year, a %s increase over today.",
			Currency(r.EarningsGap), r.ImprovementPercent))
	} else if l.SphereSize > 0 {
		out = append(out, "Your production already meets the sphere projection; growth now comes from widening your sphere.")
	}

	if r.TransactionsForTarget > 0 {
		out = append(out, fmt.Sprintf(
			"Reaching your %s income goal takes about %d closings a year at a %s average commission.",
			Currency(l.TargetIncome), r.TransactionsForTarget, Currency(AverageCommission)))
	}
	if r.IncomeGap > 0 {
		out = append(out, fmt.Sprintf(
			"At your current volume you are %s short of that goal.", Currency(r.IncomeGap)))
	}

	out = append(out, fmt.Sprintf(
		"Systemizing your transaction workflow can save roughly %s hours per deal.", Count(r.TimePerTransaction)))
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
