package crm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentgrowth/leadflow/internal/model"
)

func sampleLead() model.Lead {
	return model.Lead{
		ID:                     "lead-1",
		Email:                  "dana@example.com",
		FirstName:              "Dana",
		LastName:               "Reyes",
		Phone:                  "5125550100",
		CurrentBrokerage:       "Summit Realty",
		SphereSize:             300,
		AnnualTransactions:     12,
		WeeklyHours:            40,
		TargetIncome:           150000,
		StartTimeline:          model.TimelineWithinMonth,
		SphereContactFrequency: model.ContactQuarterly,
		BusinessStressLevel:    model.StressHigh,
		BiggestChallenge:       model.ChallengeLeadGeneration,
	}
}

func TestMapContact(t *testing.T) {
	t.Parallel()

	c := MapContact(sampleLead())

	assert.Equal(t, "lead-1", c.LeadID)
	assert.Equal(t, Source, c.Source)
	assert.Equal(t, []string{
		"sphere-medium",
		"producer-mid",
		"stress-high",
		"challenge-lead-generation",
		"urgency-warm",
	}, c.Tags)

	// 15 sphere + 15 transactions + 15 income + 12 timeline + 8 stress + 3 frequency.
	assert.Equal(t, 68, c.LeadScore)
	assert.Equal(t, 15, c.ScoreComponents["sphere"])
	assert.Equal(t, 3, c.ScoreComponents["frequency"])
	assert.Equal(t, "Summit Realty", c.CustomFields["currentBrokerage"])
}

func TestMapContact_ScoreClamped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lead model.Lead
	}{
		{"extreme", model.Lead{
			SphereSize:             1_000_000,
			AnnualTransactions:     10_000,
			TargetIncome:           100_000_000,
			StartTimeline:          model.TimelineImmediately,
			BusinessStressLevel:    model.StressSevere,
			SphereContactFrequency: model.ContactRarely,
		}},
		{"empty", model.Lead{}},
		{"unknown enums", model.Lead{
			StartTimeline:          "someday",
			BusinessStressLevel:    "meh",
			SphereContactFrequency: "never",
		}},
		{"negative", model.Lead{SphereSize: -5, AnnualTransactions: -1, TargetIncome: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := MapContact(tt.lead)
			assert.GreaterOrEqual(t, c.LeadScore, 0)
			assert.LessOrEqual(t, c.LeadScore, MaxScore)
		})
	}

	assert.Equal(t, MaxScore, MapContact(tests[0].lead).LeadScore)
	assert.Equal(t, 0, MapContact(tests[1].lead).LeadScore)
}

func TestTags_Tiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sphere, txns int64
		timeline     model.StartTimeline
		want         []string
	}{
		{0, 0, "", []string{"sphere-small", "producer-low", "urgency-cold"}},
		{149, 5, model.TimelineImmediately, []string{"sphere-small", "producer-low", "urgency-hot"}},
		{150, 6, model.TimelineWithinQuarter, []string{"sphere-medium", "producer-mid", "urgency-nurture"}},
		{499, 15, model.TimelineWithinYear, []string{"sphere-medium", "producer-mid", "urgency-cold"}},
		{500, 16, model.TimelineWithinMonth, []string{"sphere-large", "producer-top", "urgency-warm"}},
	}
	for _, tt := range tests {
		got := Tags(model.Lead{SphereSize: tt.sphere, AnnualTransactions: tt.txns, StartTimeline: tt.timeline})
		assert.Equal(t, tt.want, got)
	}
}

func TestPointTablesSumToMax(t *testing.T) {
	t.Parallel()

	best := func(m map[string]int) int {
		hi := 0
		for _, v := range m {
			hi = max(hi, v)
		}
		return hi
	}
	timeline, stress, freq := map[string]int{}, map[string]int{}, map[string]int{}
	for k, v := range timelinePoints {
		timeline[string(k)] = v
	}
	for k, v := range stressPoints {
		stress[string(k)] = v
	}
	for k, v := range frequencyPoints {
		freq[string(k)] = v
	}

	total := spherePoints(1<<40) + transactionPoints(1<<40) + incomePoints(1e12) +
		best(timeline) + best(stress) + best(freq)
	require.Equal(t, MaxScore, total)
}
