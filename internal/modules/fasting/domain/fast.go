package domain

import "time"

const SchemaVersion = 1

// Fast is one contiguous fasting interval. Timestamps are epoch
// milliseconds and Duration is milliseconds, so exported snapshots stay
// portable across installations.
type Fast struct {
	ID        string `json:"id"`
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime,omitempty"`
	Duration  int64  `json:"duration,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	ProfileID string `json:"userId"`
}

func (f Fast) InProgress() bool {
	return f.EndTime == 0
}

func (f Fast) StartedAt() time.Time {
	return FromMillis(f.StartTime)
}

func (f Fast) EndedAt() time.Time {
	return FromMillis(f.EndTime)
}

func (f Fast) Elapsed(now time.Time) time.Duration {
	elapsed := now.Sub(f.StartedAt())
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Log is one profile's persisted fasting data: the in-progress fast, the
// completed history (most recent first) and the running aggregates.
// TotalFasts and TotalFastingTime are part of the persisted format and are
// maintained incrementally; everything else is derived on read.
type Log struct {
	CurrentFast      *Fast  `json:"currentSession"`
	Fasts            []Fast `json:"sessions"`
	TotalFasts       int    `json:"totalSessions"`
	TotalFastingTime int64  `json:"totalFastingTime"`
}

func EmptyLog() Log {
	return Log{Fasts: []Fast{}}
}

type Stats struct {
	TotalFasts         int
	TotalFastingTime   int64
	AverageFastingTime int64
	LongestFast        int64
}

func (l Log) Stats() Stats {
	stats := Stats{
		TotalFasts:       l.TotalFasts,
		TotalFastingTime: l.TotalFastingTime,
	}
	if l.TotalFasts > 0 {
		stats.AverageFastingTime = l.TotalFastingTime / int64(l.TotalFasts)
	}
	for _, fast := range l.Fasts {
		if fast.Duration > stats.LongestFast {
			stats.LongestFast = fast.Duration
		}
	}
	return stats
}

func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
