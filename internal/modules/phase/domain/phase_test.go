package domain_test

import (
	"testing"
	"time"

	"fastlog/internal/modules/phase/domain"
)

func mustDefaultTable(t *testing.T) domain.Table {
	t.Helper()
	table, err := domain.DefaultTable()
	if err != nil {
		t.Fatalf("default table: %v", err)
	}
	return table
}

func TestDefaultTableParsesAndCoversAllMessages(t *testing.T) {
	t.Parallel()
	table := mustDefaultTable(t)
	phases := table.Phases()
	if len(phases) != 9 {
		t.Fatalf("expected 9 phases, got %d", len(phases))
	}
	for _, phase := range phases {
		if _, ok := domain.MessageFor(phase.ID); !ok {
			t.Fatalf("phase %q has no status message", phase.ID)
		}
		if phase.Description == "" {
			t.Fatalf("phase %q has no description", phase.ID)
		}
		if phase.Citation == "" {
			t.Fatalf("phase %q has no citation", phase.ID)
		}
	}
}

func TestPhaseForResolvesThresholds(t *testing.T) {
	t.Parallel()
	table := mustDefaultTable(t)

	cases := []struct {
		name    string
		elapsed time.Duration
		want    domain.ID
	}{
		{"at zero", 0, domain.PhaseFed},
		{"just under first threshold", 4*time.Hour - time.Second, domain.PhaseFed},
		{"exactly on a threshold", 4 * time.Hour, domain.PhasePostAbsorptive},
		{"mid interval", 13 * time.Hour, domain.PhaseKetosis},
		{"at the deepest threshold", 72 * time.Hour, domain.PhaseImmuneRenewal},
		{"far past the table", 200 * time.Hour, domain.PhaseImmuneRenewal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := table.PhaseFor(tc.elapsed); got.ID != tc.want {
				t.Fatalf("PhaseFor(%v) = %q, want %q", tc.elapsed, got.ID, tc.want)
			}
		})
	}
}

func TestTransitionsSkipTheZeroHourEntry(t *testing.T) {
	t.Parallel()
	table := mustDefaultTable(t)
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	transitions := table.Transitions(start)
	if len(transitions) != 8 {
		t.Fatalf("expected 8 transitions, got %d", len(transitions))
	}
	if transitions[0].Phase.ID != domain.PhasePostAbsorptive {
		t.Fatalf("first transition should be the 4h phase, got %q", transitions[0].Phase.ID)
	}
	if want := start.Add(4 * time.Hour); !transitions[0].At.Equal(want) {
		t.Fatalf("first transition at %v, want %v", transitions[0].At, want)
	}
	last := transitions[len(transitions)-1]
	if last.Phase.ID != domain.PhaseImmuneRenewal {
		t.Fatalf("last transition should be the 72h phase, got %q", last.Phase.ID)
	}
	if want := start.Add(72 * time.Hour); !last.At.Equal(want) {
		t.Fatalf("last transition at %v, want %v", last.At, want)
	}
}

func TestNewTableRejectsBrokenTables(t *testing.T) {
	t.Parallel()
	valid := func() []domain.Phase {
		return []domain.Phase{
			{ID: domain.PhaseFed, Hours: 0, Title: "Fed"},
			{ID: domain.PhaseKetosis, Hours: 12, Title: "Ketosis"},
		}
	}

	cases := []struct {
		name   string
		phases []domain.Phase
	}{
		{"empty", nil},
		{"first phase not at zero", []domain.Phase{{ID: domain.PhaseFed, Hours: 1, Title: "Fed"}}},
		{"unknown id", func() []domain.Phase {
			phases := valid()
			phases[1].ID = "mystery"
			return phases
		}()},
		{"duplicate id", func() []domain.Phase {
			phases := valid()
			phases[1].ID = domain.PhaseFed
			return phases
		}()},
		{"missing title", func() []domain.Phase {
			phases := valid()
			phases[1].Title = "  "
			return phases
		}()},
		{"thresholds not ascending", []domain.Phase{
			{ID: domain.PhaseFed, Hours: 0, Title: "Fed"},
			{ID: domain.PhaseKetosis, Hours: 12, Title: "Ketosis"},
			{ID: domain.PhaseAutophagy, Hours: 12, Title: "Autophagy"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := domain.NewTable(tc.phases); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestParseTableRejectsInvalidYAML(t *testing.T) {
	t.Parallel()
	if _, err := domain.ParseTable([]byte("phases: [")); err == nil {
		t.Fatal("expected a decode error")
	}
}
