package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		valid bool
	}{
		{"experience_veteran", ExperienceLevel("veteran").Valid()},
		{"experience_unknown", !ExperienceLevel("guru").Valid()},
		{"timeline_within_quarter", StartTimeline("within_quarter").Valid()},
		{"timeline_unknown", !StartTimeline("someday").Valid()},
		{"comm_video_call", CommunicationPreference("video_call").Valid()},
		{"comm_unknown", !CommunicationPreference("fax").Valid()},
		{"frequency_rarely", ContactFrequency("rarely").Valid()},
		{"frequency_unknown", !ContactFrequency("hourly").Valid()},
		{"budget_none", BudgetStyle("none").Valid()},
		{"budget_empty", !BudgetStyle("").Valid()},
		{"stress_severe", StressLevel("severe").Valid()},
		{"stress_case_sensitive", !StressLevel("High").Valid()},
		{"challenge_systems", Challenge("systems").Valid()},
		{"challenge_unknown", !Challenge("everything").Valid()},
		{"status_lost", LeadStatus("lost").Valid()},
		{"status_unknown", !LeadStatus("converted").Valid()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, tt.valid)
		})
	}
}

func TestLeadFullName(t *testing.T) {
	t.Parallel()

	l := Lead{FirstName: "Dana", LastName: "Reyes"}
	assert.Equal(t, "Dana Reyes", l.FullName())

	l.LastName = ""
	assert.Equal(t, "Dana", l.FullName())
}

func TestLeadDelivered(t *testing.T) {
	t.Parallel()

	l := Lead{PDFGenerated: true}
	assert.False(t, l.Delivered())

	l.PDFSent = true
	assert.True(t, l.Delivered())
}
