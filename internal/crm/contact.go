// Package crm maps leads into scored, tagged marketing contacts and pushes
// them to the configured CRM sinks.
package crm

import (
	"strings"

	"github.com/agentgrowth/leadflow/internal/model"
)

// Source identifies contacts created by the intake funnel.
const Source = "success-analysis"

// MaxScore is the ceiling of the lead score.
const MaxScore = 100

// Contact is the payload forwarded to marketing systems.
type Contact struct {
	LeadID    string `json:"leadId"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`

	Tags            []string       `json:"tags"`
	LeadScore       int            `json:"leadScore"`
	ScoreComponents map[string]int `json:"scoreComponents"`
	Source          string         `json:"source"`

	CustomFields map[string]any `json:"customFields"`
}

// MapContact derives the CRM contact for a lead. It is pure.
func MapContact(l model.Lead) Contact {
	components := map[string]int{
		"sphere":       spherePoints(l.SphereSize),
		"transactions": transactionPoints(l.AnnualTransactions),
		"income":       incomePoints(l.TargetIncome),
		"timeline":     timelinePoints[l.StartTimeline],
		"stress":       stressPoints[l.BusinessStressLevel],
		"frequency":    frequencyPoints[l.SphereContactFrequency],
	}
	total := 0
	for _, v := range components {
		total += v
	}

	return Contact{
		LeadID:          l.ID,
		Email:           l.Email,
		FirstName:       l.FirstName,
		LastName:        l.LastName,
		Phone:           l.Phone,
		Location:        l.Location,
		Tags:            Tags(l),
		LeadScore:       min(max(total, 0), MaxScore),
		ScoreComponents: components,
		Source:          Source,
		CustomFields: map[string]any{
			"experienceLevel":    string(l.ExperienceLevel),
			"currentBrokerage":   l.CurrentBrokerage,
			"sphereSize":         l.SphereSize,
			"annualTransactions": l.AnnualTransactions,
			"weeklyHours":        l.WeeklyHours,
			"targetIncome":       l.TargetIncome,
			"startTimeline":      string(l.StartTimeline),
			"biggestChallenge":   string(l.BiggestChallenge),
		},
	}
}

// Tags returns the segmentation tags for a lead, in a fixed order.
func Tags(l model.Lead) []string {
	tags := []string{
		"sphere-" + sphereTier(l.SphereSize),
		"producer-" + producerTier(l.AnnualTransactions),
	}
	if l.BusinessStressLevel != "" {
		tags = append(tags, "stress-"+string(l.BusinessStressLevel))
	}
	if l.BiggestChallenge != "" {
		tags = append(tags, "challenge-"+strings.ReplaceAll(string(l.BiggestChallenge), "_", "-"))
	}
	return append(tags, "urgency-"+urgency(l.StartTimeline))
}

func sphereTier(n int64) string {
	switch {
	case n < 150:
		return "small"
	case n < 500:
		return "medium"
	default:
		return "large"
	}
}

func producerTier(n int64) string {
	switch {
	case n <= 5:
		return "low"
	case n <= 15:
		return "mid"
	default:
		return "top"
	}
}

func urgency(t model.StartTimeline) string {
	switch t {
	case model.TimelineImmediately:
		return "hot"
	case model.TimelineWithinMonth:
		return "warm"
	case model.TimelineWithinQuarter:
		return "nurture"
	default:
		return "cold"
	}
}
