package usage

import "time"

// Usage represents a user's quota consumption snapshot.
type Usage struct {
	Limit    int       `json:"limit"`
	Used     int       `json:"used"`
	ResetsAt time.Time `json:"resetsAt"`
}
