package intake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentgrowth/leadflow/internal/model"
)

func validSubmission() Submission {
	return Submission{
		FirstName:                "Dana",
		LastName:                 "Reyes",
		Email:                    "dana@example.com",
		Phone:                    "555-010-2030",
		Location:                 "Austin, TX",
		ExperienceLevel:          "experienced",
		CurrentBrokerage:         "Keystone Realty",
		SphereSize:               300,
		AnnualTransactions:       12,
		WeeklyHours:              40,
		TargetIncome:             150000,
		PreferredMarkets:         []string{"Austin", "Round Rock"},
		BusinessObjectives:       "Double my referral business",
		StartTimeline:            "within_month",
		CommunicationPreferences: []string{"email", "phone"},
		SphereContactFrequency:   "quarterly",
		BudgetManagement:         "flexible",
		BusinessStressLevel:      "high",
		BiggestChallenge:         "lead_generation",
	}
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()

	res, err := Validate(validSubmission())
	require.NoError(t, err)
	assert.False(t, res.Bot)

	l := res.Lead
	assert.Equal(t, "Dana", l.FirstName)
	assert.Equal(t, "dana@example.com", l.Email)
	assert.Equal(t, model.ExperienceExperienced, l.ExperienceLevel)
	assert.Equal(t, model.TimelineWithinMonth, l.StartTimeline)
	assert.Equal(t, []model.CommunicationPreference{model.CommEmail, model.CommPhone}, l.CommunicationPreferences)
	assert.Equal(t, model.LeadStatusNew, l.Status)
	assert.Equal(t, int64(300), l.SphereSize)
}

func TestValidate_Honeypot(t *testing.T) {
	t.Parallel()

	s := validSubmission()
	s.Honeypot = "http://spam.example"
	s.Email = "not-an-email"

	res, err := Validate(s)
	require.NoError(t, err)
	assert.True(t, res.Bot)
	assert.Empty(t, res.Lead.Email)
}

func TestValidate_Rules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edit  func(*Submission)
		field string
		code  string
	}{
		{"missing first name", func(s *Submission) { s.FirstName = "  " }, "firstName", CodeRequired},
		{"missing last name", func(s *Submission) { s.LastName = "" }, "lastName", CodeRequired},
		{"missing email", func(s *Submission) { s.Email = "" }, "email", CodeRequired},
		{"required before format", func(s *Submission) { s.FirstName = ""; s.Email = "bad" }, "firstName", CodeRequired},
		{"email without tld", func(s *Submission) { s.Email = "dana@example" }, "email", CodeInvalid},
		{"email with spaces", func(s *Submission) { s.Email = "da na@example.com" }, "email", CodeInvalid},
		{"email too long", func(s *Submission) { s.Email = strings.Repeat("a", 250) + "@x.com" }, "email", CodeTooLong},
		{"first name too long", func(s *Submission) { s.FirstName = strings.Repeat("a", 101) }, "firstName", CodeTooLong},
		{"last name too long", func(s *Submission) { s.LastName = strings.Repeat("b", 101) }, "lastName", CodeTooLong},
		{"phone too short", func(s *Submission) { s.Phone = "12345" }, "phone", CodeBadLength},
		{"phone too long", func(s *Submission) { s.Phone = strings.Repeat("1", 21) }, "phone", CodeBadLength},
		{"negative sphere", func(s *Submission) { s.SphereSize = -1 }, "sphereSize", CodeOutOfRange},
		{"sphere too large", func(s *Submission) { s.SphereSize = 1_000_001 }, "sphereSize", CodeOutOfRange},
		{"transactions too large", func(s *Submission) { s.AnnualTransactions = 10_001 }, "annualTransactions", CodeOutOfRange},
		{"hours over a week", func(s *Submission) { s.WeeklyHours = 168.5 }, "weeklyHours", CodeOutOfRange},
		{"income too large", func(s *Submission) { s.TargetIncome = 100_000_001 }, "targetIncome", CodeOutOfRange},
		{"bad experience", func(s *Submission) { s.ExperienceLevel = "guru" }, "experienceLevel", CodeNotAllowed},
		{"bad frequency", func(s *Submission) { s.SphereContactFrequency = "hourly" }, "sphereContactFrequency", CodeNotAllowed},
		{"bad budget", func(s *Submission) { s.BudgetManagement = "yolo" }, "budgetManagement", CodeNotAllowed},
		{"bad stress", func(s *Submission) { s.BusinessStressLevel = "extreme" }, "businessStressLevel", CodeNotAllowed},
		{"bad challenge", func(s *Submission) { s.BiggestChallenge = "everything" }, "biggestChallenge", CodeNotAllowed},
		{"bad timeline", func(s *Submission) { s.StartTimeline = "someday" }, "startTimeline", CodeNotAllowed},
		{"bad comm pref", func(s *Submission) { s.CommunicationPreferences = []string{"email", "fax"} }, "communicationPreferences", CodeNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := validSubmission()
			tt.edit(&s)

			_, err := Validate(s)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.code, verr.Code)
		})
	}
}

func TestValidate_Boundaries(t *testing.T) {
	t.Parallel()

	s := validSubmission()
	s.SphereSize = MaxSphereSize
	s.AnnualTransactions = MaxAnnualTransactions
	s.WeeklyHours = MaxWeeklyHours
	s.TargetIncome = MaxTargetIncome
	s.Phone = strings.Repeat("1", MinPhoneLen)
	s.FirstName = strings.Repeat("a", MaxNameLen)

	_, err := Validate(s)
	assert.NoError(t, err)

	s = validSubmission()
	s.SphereSize = 0
	s.AnnualTransactions = 0
	s.WeeklyHours = 0
	s.TargetIncome = 0
	s.Phone = ""

	_, err = Validate(s)
	assert.NoError(t, err)
}

func TestValidate_OptionalEnumsMayBeEmpty(t *testing.T) {
	t.Parallel()

	s := validSubmission()
	s.ExperienceLevel = ""
	s.StartTimeline = " "
	s.BiggestChallenge = ""
	s.CommunicationPreferences = nil

	res, err := Validate(s)
	require.NoError(t, err)
	assert.Empty(t, res.Lead.StartTimeline)
	assert.Empty(t, res.Lead.BiggestChallenge)
	assert.Nil(t, res.Lead.CommunicationPreferences)
}

func TestValidate_SanitizesFreeText(t *testing.T) {
	t.Parallel()

	s := validSubmission()
	s.FirstName = "  Dana "
	s.Location = "   Austin   "
	s.BusinessObjectives = strings.Repeat("x", 800)
	s.PreferredMarkets = []string{" Austin ", "", "   ", strings.Repeat("m", 600)}
	s.CommunicationPreferences = []string{"email", " email ", "text"}

	res, err := Validate(s)
	require.NoError(t, err)

	l := res.Lead
	assert.Equal(t, "Dana", l.FirstName)
	assert.Equal(t, "Austin", l.Location)
	assert.Len(t, l.BusinessObjectives, MaxFreeTextLen)
	require.Len(t, l.PreferredMarkets, 2)
	assert.Equal(t, "Austin", l.PreferredMarkets[0])
	assert.Len(t, l.PreferredMarkets[1], MaxFreeTextLen)
	assert.Equal(t, []model.CommunicationPreference{model.CommEmail, model.CommText}, l.CommunicationPreferences)
}

func TestValidate_TruncatesByRune(t *testing.T) {
	t.Parallel()

	s := validSubmission()
	s.CurrentBrokerage = strings.Repeat("é", 600)

	res, err := Validate(s)
	require.NoError(t, err)
	assert.Equal(t, MaxFreeTextLen, len([]rune(res.Lead.CurrentBrokerage)))
}

func TestValidationError_Message(t *testing.T) {
	t.Parallel()

	err := newError("email", CodeInvalid, "email address is not valid")
	assert.Equal(t, "intake: email: email address is not valid", err.Error())
}
