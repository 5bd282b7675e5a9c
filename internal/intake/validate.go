package intake

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agentgrowth/leadflow/internal/model"
)

// Field limits.
const (
	MaxEmailLen    = 255
	MaxNameLen     = 100
	MinPhoneLen    = 10
	MaxPhoneLen    = 20
	MaxFreeTextLen = 500

	MaxSphereSize         = 1_000_000
	MaxAnnualTransactions = 10_000
	MaxWeeklyHours        = 168
	MaxTargetIncome       = 100_000_000
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate applies the intake rules in order and returns the normalized
// lead. The first failing rule wins. A tripped honeypot is not an error:
// it yields Result{Bot: true} so callers can answer normally.
func Validate(s Submission) (Result, error) {
	if strings.TrimSpace(s.Honeypot) != "" {
		return Result{Bot: true}, nil
	}

	first := strings.TrimSpace(s.FirstName)
	last := strings.TrimSpace(s.LastName)
	email := strings.TrimSpace(s.Email)
	phone := strings.TrimSpace(s.Phone)

	if first == "" {
		return Result{}, newError("firstName", CodeRequired, "first name is required")
	}
	if last == "" {
		return Result{}, newError("lastName", CodeRequired, "last name is required")
	}
	if email == "" {
		return Result{}, newError("email", CodeRequired, "email is required")
	}

	if utf8.RuneCountInString(email) > MaxEmailLen {
		return Result{}, newError("email", CodeTooLong, "email must be at most %d characters", MaxEmailLen)
	}
	if !emailPattern.MatchString(email) {
		return Result{}, newError("email", CodeInvalid, "email address is not valid")
	}

	if utf8.RuneCountInString(first) > MaxNameLen {
		return Result{}, newError("firstName", CodeTooLong, "first name must be at most %d characters", MaxNameLen)
	}
	if utf8.RuneCountInString(last) > MaxNameLen {
		return Result{}, newError("lastName", CodeTooLong, "last name must be at most %d characters", MaxNameLen)
	}

	if phone != "" {
		if n := utf8.RuneCountInString(phone); n < MinPhoneLen || n > MaxPhoneLen {
			return Result{}, newError("phone", CodeBadLength, "phone must be between %d and %d characters", MinPhoneLen, MaxPhoneLen)
		}
	}

	if err := checkRange("sphereSize", float64(s.SphereSize), MaxSphereSize); err != nil {
		return Result{}, err
	}
	if err := checkRange("annualTransactions", float64(s.AnnualTransactions), MaxAnnualTransactions); err != nil {
		return Result{}, err
	}
	if err := checkRange("weeklyHours", s.WeeklyHours, MaxWeeklyHours); err != nil {
		return Result{}, err
	}
	if err := checkRange("targetIncome", s.TargetIncome, MaxTargetIncome); err != nil {
		return Result{}, err
	}

	lead := model.Lead{
		Email:              email,
		FirstName:          first,
		LastName:           last,
		Phone:              phone,
		Location:           cleanText(s.Location),
		CurrentBrokerage:   cleanText(s.CurrentBrokerage),
		SphereSize:         s.SphereSize,
		AnnualTransactions: s.AnnualTransactions,
		WeeklyHours:        s.WeeklyHours,
		TargetIncome:       s.TargetIncome,
		PreferredMarkets:   cleanList(s.PreferredMarkets),
		BusinessObjectives: cleanText(s.BusinessObjectives),
		Status:             model.LeadStatusNew,
	}

	var err error
	if lead.ExperienceLevel, err = enumField("experienceLevel", s.ExperienceLevel, model.ExperienceLevel.Valid); err != nil {
		return Result{}, err
	}
	if lead.SphereContactFrequency, err = enumField("sphereContactFrequency", s.SphereContactFrequency, model.ContactFrequency.Valid); err != nil {
		return Result{}, err
	}
	if lead.BudgetManagement, err = enumField("budgetManagement", s.BudgetManagement, model.BudgetStyle.Valid); err != nil {
		return Result{}, err
	}
	if lead.BusinessStressLevel, err = enumField("businessStressLevel", s.BusinessStressLevel, model.StressLevel.Valid); err != nil {
		return Result{}, err
	}
	if lead.BiggestChallenge, err = enumField("biggestChallenge", s.BiggestChallenge, model.Challenge.Valid); err != nil {
		return Result{}, err
	}
	if lead.StartTimeline, err = enumField("startTimeline", s.StartTimeline, model.StartTimeline.Valid); err != nil {
		return Result{}, err
	}

	seen := make(map[model.CommunicationPreference]bool, len(s.CommunicationPreferences))
	for _, raw := range s.CommunicationPreferences {
		pref, err := enumField("communicationPreferences", raw, model.CommunicationPreference.Valid)
		if err != nil {
			return Result{}, err
		}
		if pref == "" || seen[pref] {
			continue
		}
		seen[pref] = true
		lead.CommunicationPreferences = append(lead.CommunicationPreferences, pref)
	}

	return Result{Lead: lead}, nil
}

func checkRange(field string, v, limit float64) *ValidationError {
	if v < 0 || v > limit {
		return newError(field, CodeOutOfRange, "%s must be between 0 and %.0f", field, limit)
	}
	return nil
}

// enumField trims raw and checks it against the allow-list. Empty values
// are allowed because every enum field on the form is optional.
func enumField[T ~string](field, raw string, valid func(T) bool) (T, error) {
	v := T(strings.TrimSpace(raw))
	if v == "" {
		return "", nil
	}
	if !valid(v) {
		return "", newError(field, CodeNotAllowed, "%q is not an allowed value", string(v))
	}
	return v, nil
}

// cleanText trims s and truncates it to MaxFreeTextLen runes.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxFreeTextLen {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:MaxFreeTextLen]))
}

func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		if c := cleanText(item); c != "" {
			out = append(out, c)
		}
	}
	return out
}
