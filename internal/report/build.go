package report

import (
	"fmt"
	"math"
	"time"

	"github.com/agentgrowth/leadflow/internal/analysis"
	"github.com/agentgrowth/leadflow/internal/model"
)

// Options carries branding and contact details printed in the document.
type Options struct {
	BrandName    string
	SupportEmail string
	SupportPhone string
	BookingURL   string
	// Date is shown in the header only.
	Date time.Time
}

// Build lays out the document content for a lead in its fixed section order.
func Build(l model.Lead, r analysis.Result, cat Catalog, opts Options) []Block {
	blocks := []Block{
		{
			Kind: KindHeader,
			Text: opts.BrandName + " Success Analysis",
			Sub:  fmt.Sprintf("Prepared for %s | %s", l.FullName(), opts.Date.Format("January 2, 2006")),
		},
		{Kind: KindHeading, Text: "Executive Summary", KeepWithNext: true},
		{Kind: KindParagraph, Text: summary(l, r)},

		{Kind: KindHeading, Text: "Current Business Metrics", KeepWithNext: true},
		{Kind: KindTable, ID: IDCurrentMetrics, Rows: CurrentMetrics(l, r)},

		{Kind: KindHeading, Text: "Projected Opportunity", KeepWithNext: true},
		{Kind: KindTable, ID: IDProjectedMetrics, Rows: projectedMetrics(r)},
		{Kind: KindFootnote, Text: fmt.Sprintf(
			"* Projections assume one closing for every %d sphere contacts at an average commission of %s.",
			int(analysis.SphereDivisor), analysis.Currency(analysis.AverageCommission))},

		{Kind: KindHeading, Text: "Market Opportunities", KeepWithNext: true},
	}

	for _, o := range r.MarketOpportunities {
		blocks = append(blocks, Block{Kind: KindBullet, Text: o})
	}

	blocks = append(blocks, Block{Kind: KindHeading, Text: "Your Action Plan", KeepWithNext: true})
	for i, a := range r.RecommendedActions {
		blocks = append(blocks, Block{Kind: KindNumbered, Index: i + 1, Text: a})
	}

	blocks = append(blocks,
		Block{Kind: KindPageBreak},
		Block{Kind: KindHeading, Text: "How We Can Help", KeepWithNext: true},
	)
	for _, d := range cat.Divisions {
		blocks = append(blocks,
			Block{Kind: KindSubheading, Text: d.Name, KeepWithNext: true},
			Block{Kind: KindParagraph, Text: d.Description},
		)
		for _, s := range d.Services {
			blocks = append(blocks, Block{Kind: KindBullet, Text: s})
		}
	}

	blocks = append(blocks,
		Block{Kind: KindSpacer, Height: 4},
		Block{Kind: KindCallout, Text: "Ready to close the gap?", Lines: callToAction(opts)},
	)
	return blocks
}

// CurrentMetrics returns the label/value rows of the current-metrics table.
func CurrentMetrics(l model.Lead, r analysis.Result) []Row {
	return []Row{
		{"Sphere of influence", analysis.Count(float64(l.SphereSize)) + " contacts"},
		{"Annual transactions", analysis.Count(float64(l.AnnualTransactions))},
		{"Weekly hours worked", analysis.Number(l.WeeklyHours)},
		{"Current annual earnings", analysis.Currency(r.CurrentEarnings)},
		{"Sphere conversion rate", analysis.Percent(r.SphereUtilization)},
		{"Target annual income", analysis.Currency(l.TargetIncome)},
	}
}

func projectedMetrics(r analysis.Result) []Row {
	return []Row{
		{"Projected annual transactions*", analysis.Count(roundTenth(r.ProjectedTransactions))},
		{"Projected annual earnings*", analysis.Currency(r.ProjectedEarnings)},
		{"Additional earnings potential", analysis.Currency(r.EarningsGap)},
		{"Potential improvement", r.ImprovementPercent},
		{"Hours saved per transaction", analysis.Count(r.TimePerTransaction)},
	}
}

func summary(l model.Lead, r analysis.Result) string {
	s := fmt.Sprintf(
		"%s, based on your answers you closed %s transactions last year from a sphere of %s contacts, earning an estimated %s in commission.",
		l.FirstName, analysis.Count(float64(l.AnnualTransactions)), analysis.Count(float64(l.SphereSize)), analysis.Currency(r.CurrentEarnings))
	if r.ProjectedEarnings > 0 {
		s += fmt.Sprintf(" Working that sphere consistently projects %s in annual commission.", analysis.Currency(r.ProjectedEarnings))
	}
	if l.TargetIncome > 0 {
		s += fmt.Sprintf(" Your goal of %s requires about %d closings a year.", analysis.Currency(l.TargetIncome), r.TransactionsForTarget)
	}
	s += " The plan below focuses on the few changes with the largest return."
	return s
}

func callToAction(opts Options) []string {
	lines := []string{"Book a complimentary strategy session to turn this analysis into a 90-day plan."}
	if opts.BookingURL != "" {
		lines = append(lines, "Schedule: "+opts.BookingURL)
	}
	if opts.SupportEmail != "" {
		lines = append(lines, "Email: "+opts.SupportEmail)
	}
	if opts.SupportPhone != "" {
		lines = append(lines, "Phone: "+opts.SupportPhone)
	}
	return lines
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
