package usage

import "time"

const (
	defaultLimit = 25
	periodLength = 7 * 24 * time.Hour
)

func defaultUsage() Usage {
	return Usage{
		Limit:    defaultLimit,
		Used:     0,
		ResetsAt: time.Now().UTC().Add(periodLength),
	}
}
