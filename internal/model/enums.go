package model

import "slices"

// ExperienceLevel is how long an agent has been licensed.
type ExperienceLevel string

const (
	ExperienceNew         ExperienceLevel = "new"
	ExperienceExperienced ExperienceLevel = "experienced"
	ExperienceVeteran     ExperienceLevel = "veteran"
)

// ExperienceLevels is the allow-list for ExperienceLevel.
var ExperienceLevels = []ExperienceLevel{ExperienceNew, ExperienceExperienced, ExperienceVeteran}

// Valid reports whether e is in the allow-list.
func (e ExperienceLevel) Valid() bool { return slices.Contains(ExperienceLevels, e) }

// StartTimeline is when the prospect wants to begin coaching.
type StartTimeline string

const (
	TimelineImmediately   StartTimeline = "immediately"
	TimelineWithinMonth   StartTimeline = "within_month"
	TimelineWithinQuarter StartTimeline = "within_quarter"
	TimelineWithinYear    StartTimeline = "within_year"
)

// StartTimelines is the allow-list for StartTimeline.
var StartTimelines = []StartTimeline{TimelineImmediately, TimelineWithinMonth, TimelineWithinQuarter, TimelineWithinYear}

// Valid reports whether t is in the allow-list.
func (t StartTimeline) Valid() bool { return slices.Contains(StartTimelines, t) }

// CommunicationPreference is a channel the prospect agreed to be contacted on.
type CommunicationPreference string

const (
	CommEmail     CommunicationPreference = "email"
	CommPhone     CommunicationPreference = "phone"
	CommText      CommunicationPreference = "text"
	CommVideoCall CommunicationPreference = "video_call"
)

// CommunicationPreferences is the allow-list for CommunicationPreference.
var CommunicationPreferences = []CommunicationPreference{CommEmail, CommPhone, CommText, CommVideoCall}

// Valid reports whether c is in the allow-list.
func (c CommunicationPreference) Valid() bool { return slices.Contains(CommunicationPreferences, c) }

// ContactFrequency is how often the agent reaches out to their sphere.
type ContactFrequency string

const (
	ContactWeekly    ContactFrequency = "weekly"
	ContactMonthly   ContactFrequency = "monthly"
	ContactQuarterly ContactFrequency = "quarterly"
	ContactAnnually  ContactFrequency = "annually"
	ContactRarely    ContactFrequency = "rarely"
)

// ContactFrequencies is the allow-list for ContactFrequency.
var ContactFrequencies = []ContactFrequency{ContactWeekly, ContactMonthly, ContactQuarterly, ContactAnnually, ContactRarely}

// Valid reports whether f is in the allow-list.
func (f ContactFrequency) Valid() bool { return slices.Contains(ContactFrequencies, f) }

// BudgetStyle describes how the agent manages business spending.
type BudgetStyle string

const (
	BudgetDetailed BudgetStyle = "detailed"
	BudgetFlexible BudgetStyle = "flexible"
	BudgetNone     BudgetStyle = "none"
)

// BudgetStyles is the allow-list for BudgetStyle.
var BudgetStyles = []BudgetStyle{BudgetDetailed, BudgetFlexible, BudgetNone}

// Valid reports whether b is in the allow-list.
func (b BudgetStyle) Valid() bool { return slices.Contains(BudgetStyles, b) }

// StressLevel is the self-reported business stress.
type StressLevel string

const (
	StressLow      StressLevel = "low"
	StressModerate StressLevel = "moderate"
	StressHigh     StressLevel = "high"
	StressSevere   StressLevel = "severe"
)

// StressLevels is the allow-list for StressLevel.
var StressLevels = []StressLevel{StressLow, StressModerate, StressHigh, StressSevere}

// Valid reports whether s is in the allow-list.
func (s StressLevel) Valid() bool { return slices.Contains(StressLevels, s) }

// Challenge is the prospect's biggest business challenge.
type Challenge string

const (
	ChallengeLeadGeneration  Challenge = "lead_generation"
	ChallengeTimeManagement  Challenge = "time_management"
	ChallengeFollowUp        Challenge = "follow_up"
	ChallengeMarketing       Challenge = "marketing"
	ChallengeSystems         Challenge = "systems"
	ChallengeWorkLifeBalance Challenge = "work_life_balance"
)

// Challenges is the allow-list for Challenge.
var Challenges = []Challenge{
	ChallengeLeadGeneration, ChallengeTimeManagement, ChallengeFollowUp,
	ChallengeMarketing, ChallengeSystems, ChallengeWorkLifeBalance,
}

// Valid reports whether c is in the allow-list.
func (c Challenge) Valid() bool { return slices.Contains(Challenges, c) }

// LeadStatus is the sales status an operator assigns to a lead.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusClosed    LeadStatus = "closed"
	LeadStatusLost      LeadStatus = "lost"
)

// LeadStatuses is the allow-list for LeadStatus.
var LeadStatuses = []LeadStatus{LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusClosed, LeadStatusLost}

// Valid reports whether s is in the allow-list.
func (s LeadStatus) Valid() bool { return slices.Contains(LeadStatuses, s) }
