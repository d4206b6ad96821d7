package dto

import "time"

type Fast struct {
	ID        string
	ProfileID string
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
	Notes     string
}

type StartInput struct {
	ProfileID string
}

type StopInput struct {
	ProfileID string
	EndedAt   *time.Time
	Notes     string
}

type EditStartInput struct {
	ProfileID string
	StartedAt time.Time
}

type HistoryInput struct {
	ProfileID string
	From      *time.Time
	To        *time.Time
}

type StatsOutput struct {
	TotalFasts         int
	TotalFastingTime   time.Duration
	AverageFastingTime time.Duration
	LongestFast        time.Duration
}

type SnapshotOutput struct {
	Payload []byte
}

type ImportInput struct {
	ProfileID string
	Payload   []byte
}

type ImportOutput struct {
	TotalFasts int
	InProgress bool
}
