package model

import "time"

// ChannelMessage is the unit handed from the publisher to the broadcast
// gateway. It exists only during publish → fan-out transit and is never
// persisted.
type ChannelMessage struct {
	Channel string
	Payload []byte
}

// CycleRun records one execution of a scheduled job, for the health
// endpoint and post-hoc inspection.
type CycleRun struct {
	RunID      string    `json:"runId"`
	Category   Category  `json:"category"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Status     string    `json:"status"` // succeeded, failed
	RecordsIn  int       `json:"recordsIn"`
	RecordsOut int       `json:"recordsOut"`
	Error      string    `json:"error,omitempty"`
}
