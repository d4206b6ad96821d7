package service

import (
	"time"

	"fastlog/internal/modules/phase/domain"
	"fastlog/internal/platform/clock"
)

// PhaseService answers phase lookups against the static table. It holds no
// persistent state.
type PhaseService struct {
	clock clock.Clock
	table domain.Table
}

func NewPhaseService(clock clock.Clock, table domain.Table) *PhaseService {
	return &PhaseService{clock: clock, table: table}
}

func (s *PhaseService) Phases() []domain.Phase {
	return s.table.Phases()
}

func (s *PhaseService) PhaseFor(elapsed time.Duration) domain.Phase {
	return s.table.PhaseFor(elapsed)
}

func (s *PhaseService) Transitions(start time.Time) []domain.Transition {
	return s.table.Transitions(start)
}

// Snapshot derives everything the status surfaces need from a fast's start
// time: elapsed duration, the current phase, and the next upcoming
// transition (nil once the final phase is reached).
func (s *PhaseService) Snapshot(start time.Time) (time.Duration, domain.Phase, *domain.Transition) {
	now := s.clock.Now()
	elapsed := now.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	current := s.table.PhaseFor(elapsed)
	for _, transition := range s.table.Transitions(start) {
		if transition.At.After(now) {
			next := transition
			return elapsed, current, &next
		}
	}
	return elapsed, current, nil
}
