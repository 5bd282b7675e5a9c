package crm

import "github.com/agentgrowth/leadflow/internal/model"

// Point tables. The maxima sum to MaxScore.

func spherePoints(n int64) int {
	switch {
	case n >= 1000:
		return 25
	case n >= 500:
		return 20
	case n >= 250:
		return 15
	case n >= 100:
		return 10
	case n > 0:
		return 5
	default:
		return 0
	}
}

func transactionPoints(n int64) int {
	switch {
	case n >= 30:
		return 25
	case n >= 15:
		return 20
	case n >= 8:
		return 15
	case n >= 3:
		return 10
	case n > 0:
		return 5
	default:
		return 0
	}
}

func incomePoints(v float64) int {
	switch {
	case v >= 250000:
		return 20
	case v >= 150000:
		return 15
	case v >= 100000:
		return 10
	case v >= 50000:
		return 5
	default:
		return 0
	}
}

var timelinePoints = map[model.StartTimeline]int{
	model.TimelineImmediately:   15,
	model.TimelineWithinMonth:   12,
	model.TimelineWithinQuarter: 8,
	model.TimelineWithinYear:    4,
}

var stressPoints = map[model.StressLevel]int{
	model.StressSevere:   10,
	model.StressHigh:     8,
	model.StressModerate: 5,
	model.StressLow:      2,
}

// Scarcer sphere contact scores higher.
var frequencyPoints = map[model.ContactFrequency]int{
	model.ContactRarely:    5,
	model.ContactAnnually:  4,
	model.ContactQuarterly: 3,
	model.ContactMonthly:   1,
	model.ContactWeekly:    0,
}
