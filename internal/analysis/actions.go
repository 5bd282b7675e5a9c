package analysis

import "github.com/agentgrowth/leadflow/internal/model"

var actionsByChallenge = map[model.Challenge][]string{
	model.ChallengeLeadGeneration: {
		"Segment your sphere into A, B and C contacts and call the A list every month.",
		"Launch a monthly market update email to your full database.",
		"Host one client appreciation event per quarter to generate referrals.",
		"Set a weekly goal of five new conversations with people outside your sphere.",
	},
	model.ChallengeTimeManagement: {
		"Time-block two hours every morning for lead generation before anything else.",
		"Batch showings and appointments into fixed days of the week.",
		"Delegate transaction coordination to an assistant or service.",
		"Review your calendar every Friday and remove one low-value recurring task.",
	},
	model.ChallengeFollowUp: {
		"Adopt a CRM and log every conversation the same day it happens.",
		"Build an automated 8 by 8 follow-up campaign for every new contact.",
		"Schedule a 90-day check-in with every past client.",
		"Send handwritten notes after every showing and closing.",
	},
	model.ChallengeMarketing: {
		"Define one ideal client profile and build every campaign around it.",
		"Publish one neighborhood-focused video or article per week.",
		"Create a listing presentation that showcases your marketing plan.",
		"Track cost per lead for every channel and cut the bottom performer.",
	},
	model.ChallengeSystems: {
		"Document your listing and buyer checklists as repeatable workflows.",
		"Connect your lead sources to a single CRM pipeline.",
		"Use templated emails for every stage of a transaction.",
		"Review your pipeline dashboard every Monday morning.",
	},
	model.ChallengeWorkLifeBalance: {
		"Set fixed working hours and communicate them to clients up front.",
		"Partner with a showing agent to cover evenings and weekends.",
		"Take one full day off every week and protect it on your calendar.",
		"Focus on fewer, higher-value clients through your sphere.",
	},
}

var defaultActions = []string{
	"Build a complete database of everyone you know and categorize each contact.",
	"Commit to a weekly lead-generation schedule and track your activity.",
	"Create a consistent follow-up system for past clients and referrals.",
	"Book a strategy session to turn this analysis into a 90-day plan.",
}

// Recommendations returns the action plan for a challenge. Unknown or empty
// challenges get the default plan. The returned slice is a copy.
func Recommendations(c model.Challenge) []string {
	actions, ok := actionsByChallenge[c]
	if !ok {
		actions = defaultActions
	}
	return append([]string(nil), actions...)
}
