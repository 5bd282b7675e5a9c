// Package intake sanitizes and validates prospect submissions from the
// multi-step intake form.
package intake

import "github.com/agentgrowth/leadflow/internal/model"

// Submission is the raw intake form payload as posted by the website.
type Submission struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`

	ExperienceLevel          string   `json:"experienceLevel"`
	CurrentBrokerage         string   `json:"currentBrokerage"`
	SphereSize               int64    `json:"sphereSize"`
	AnnualTransactions       int64    `json:"annualTransactions"`
	WeeklyHours              float64  `json:"weeklyHours"`
	TargetIncome             float64  `json:"targetIncome"`
	PreferredMarkets         []string `json:"preferredMarkets"`
	BusinessObjectives       string   `json:"businessObjectives"`
	StartTimeline            string   `json:"startTimeline"`
	CommunicationPreferences []string `json:"communicationPreferences"`
	SphereContactFrequency   string   `json:"sphereContactFrequency"`
	BudgetManagement         string   `json:"budgetManagement"`
	BusinessStressLevel      string   `json:"businessStressLevel"`
	BiggestChallenge         string   `json:"biggestChallenge"`

	// Honeypot is a hidden field real visitors never fill in.
	Honeypot string `json:"honeypot"`
}

// Result is the outcome of a successful validation.
type Result struct {
	// Lead is the normalized record, ready for persistence. Zero when Bot is set.
	Lead model.Lead
	// Bot is set when the honeypot tripped. Callers must answer as if the
	// submission succeeded and skip all downstream processing.
	Bot bool
}
