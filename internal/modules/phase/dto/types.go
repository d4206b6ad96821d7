package dto

import "time"

type Phase struct {
	ID          string
	Hours       float64
	Title       string
	Description string
	Citation    string
	Message     string
}

type Transition struct {
	Phase Phase
	At    time.Time
}

type StatusOutput struct {
	FastID    string
	ProfileID string
	StartedAt time.Time
	Elapsed   time.Duration
	Phase     Phase
	Next      *Transition
}

type ReferenceOutput struct {
	Key       string
	Reference string
}
