package domain

import (
	"fmt"
	"strings"
	"time"
)

// ID tags one entry of the phase table. Keeping it a closed set means a
// table entry without a status message is a compile- or test-time fault,
// not a silent gap at display time.
type ID string

const (
	PhaseFed            ID = "fed"
	PhasePostAbsorptive ID = "post-absorptive"
	PhaseFatBurning     ID = "fat-burning"
	PhaseKetosis        ID = "ketosis"
	PhaseDeepKetosis    ID = "deep-ketosis"
	PhaseAutophagy      ID = "autophagy"
	PhaseGrowthHormone  ID = "growth-hormone"
	PhaseInsulinReset   ID = "insulin-reset"
	PhaseImmuneRenewal  ID = "immune-renewal"
)

func (id ID) Validate() error {
	switch id {
	case PhaseFed, PhasePostAbsorptive, PhaseFatBurning, PhaseKetosis,
		PhaseDeepKetosis, PhaseAutophagy, PhaseGrowthHormone,
		PhaseInsulinReset, PhaseImmuneRenewal:
		return nil
	default:
		return fmt.Errorf("unknown phase id %q", string(id))
	}
}

// Phase describes one named interval of elapsed fasting time. The table is
// open-ended: the last entry applies to everything at or beyond its
// threshold.
type Phase struct {
	ID          ID
	Hours       float64
	Title       string
	Description string
	Citation    string
}

// Table is an ordered set of phases with strictly ascending thresholds,
// the first one at zero hours.
type Table struct {
	phases []Phase
}

func NewTable(phases []Phase) (Table, error) {
	if len(phases) == 0 {
		return Table{}, fmt.Errorf("phase table is empty")
	}
	if phases[0].Hours != 0 {
		return Table{}, fmt.Errorf("first phase must start at zero hours, got %v", phases[0].Hours)
	}
	seen := map[ID]struct{}{}
	for i, phase := range phases {
		if err := phase.ID.Validate(); err != nil {
			return Table{}, err
		}
		if _, ok := seen[phase.ID]; ok {
			return Table{}, fmt.Errorf("duplicate phase id %q", string(phase.ID))
		}
		seen[phase.ID] = struct{}{}
		if strings.TrimSpace(phase.Title) == "" {
			return Table{}, fmt.Errorf("phase %q has no title", string(phase.ID))
		}
		if i > 0 && phase.Hours <= phases[i-1].Hours {
			return Table{}, fmt.Errorf("phase thresholds must ascend: %q at %v after %v", string(phase.ID), phase.Hours, phases[i-1].Hours)
		}
	}
	return Table{phases: phases}, nil
}

func (t Table) Phases() []Phase {
	return t.phases
}

// PhaseFor returns the last phase whose threshold the elapsed time has
// crossed, scanning from the highest threshold backward. Anything short of
// the second entry's threshold resolves to the first entry, whose own
// threshold of zero doubles as the catch-all.
func (t Table) PhaseFor(elapsed time.Duration) Phase {
	hours := elapsed.Hours()
	if len(t.phases) >= 2 && hours < t.phases[1].Hours {
		return t.phases[0]
	}
	for i := len(t.phases) - 1; i >= 0; i-- {
		if hours >= t.phases[i].Hours {
			return t.phases[i]
		}
	}
	return t.phases[0]
}

// Transition pairs a phase with the moment a fast started at a given time
// will enter it.
type Transition struct {
	Phase Phase
	At    time.Time
}

// Transitions predicts entry times for every phase past the zero-hour
// entry, in table order.
func (t Table) Transitions(start time.Time) []Transition {
	transitions := make([]Transition, 0, len(t.phases))
	for _, phase := range t.phases {
		if phase.Hours <= 0 {
			continue
		}
		at := start.Add(time.Duration(phase.Hours * float64(time.Hour)))
		transitions = append(transitions, Transition{Phase: phase, At: at})
	}
	return transitions
}
