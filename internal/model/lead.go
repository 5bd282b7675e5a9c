package model

import "time"

// Lead is a prospect's submitted business profile plus pipeline status.
type Lead struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`

	ExperienceLevel          ExperienceLevel           `json:"experienceLevel,omitempty"`
	CurrentBrokerage         string                    `json:"currentBrokerage,omitempty"`
	SphereSize               int64                     `json:"sphereSize"`
	AnnualTransactions       int64                     `json:"annualTransactions"`
	WeeklyHours              float64                   `json:"weeklyHours"`
	TargetIncome             float64                   `json:"targetIncome"`
	PreferredMarkets         []string                  `json:"preferredMarkets,omitempty"`
	BusinessObjectives       string                    `json:"businessObjectives,omitempty"`
	StartTimeline            StartTimeline             `json:"startTimeline,omitempty"`
	CommunicationPreferences []CommunicationPreference `json:"communicationPreferences,omitempty"`
	SphereContactFrequency   ContactFrequency          `json:"sphereContactFrequency,omitempty"`
	BudgetManagement         BudgetStyle               `json:"budgetManagement,omitempty"`
	BusinessStressLevel      StressLevel               `json:"businessStressLevel,omitempty"`
	BiggestChallenge         Challenge                 `json:"biggestChallenge,omitempty"`

	Status       LeadStatus `json:"status"`
	PDFGenerated bool       `json:"pdfGenerated"`
	PDFSent      bool       `json:"pdfSent"`
	CRMSynced    bool       `json:"crmSynced"`

	SourceIP  string    `json:"-"`
	UserAgent string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName returns "First Last".
func (l *Lead) FullName() string {
	if l.LastName == "" {
		return l.FirstName
	}
	return l.FirstName + " " + l.LastName
}

// Delivered reports whether the report was both generated and emailed.
func (l *Lead) Delivered() bool {
	return l.PDFGenerated && l.PDFSent
}
