package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	fastingin "fastlog/internal/modules/fasting/port/in"
	"fastlog/internal/modules/phase/domain"
	phasedto "fastlog/internal/modules/phase/dto"
	phasein "fastlog/internal/modules/phase/port/in"
	phaseout "fastlog/internal/modules/phase/port/out"
	"fastlog/internal/modules/phase/service"
	apperrors "fastlog/internal/platform/errors"
)

type Interactor struct {
	svc      *service.PhaseService
	fasting  fastingin.Usecase
	resolver phaseout.ReferenceResolver
}

func NewInteractor(svc *service.PhaseService, fasting fastingin.Usecase, resolver phaseout.ReferenceResolver) phasein.Usecase {
	return &Interactor{svc: svc, fasting: fasting, resolver: resolver}
}

func (i *Interactor) List(_ context.Context) ([]phasedto.Phase, error) {
	phases := i.svc.Phases()
	out := make([]phasedto.Phase, 0, len(phases))
	for _, phase := range phases {
		out = append(out, toDTO(phase))
	}
	return out, nil
}

func (i *Interactor) PhaseFor(_ context.Context, elapsed time.Duration) (phasedto.Phase, error) {
	if elapsed < 0 {
		return phasedto.Phase{}, fmt.Errorf("%w: elapsed time must be non-negative", apperrors.ErrInvalidInput)
	}
	return toDTO(i.svc.PhaseFor(elapsed)), nil
}

func (i *Interactor) Transitions(_ context.Context, start time.Time) ([]phasedto.Transition, error) {
	if start.IsZero() {
		return []phasedto.Transition{}, nil
	}
	transitions := i.svc.Transitions(start)
	out := make([]phasedto.Transition, 0, len(transitions))
	for _, transition := range transitions {
		out = append(out, phasedto.Transition{Phase: toDTO(transition.Phase), At: transition.At})
	}
	return out, nil
}

// Status combines the profile's in-progress fast with the phase table:
// elapsed time, the phase it puts the fast in, and the next transition.
func (i *Interactor) Status(ctx context.Context, profileID string) (phasedto.StatusOutput, error) {
	if i.fasting == nil {
		return phasedto.StatusOutput{}, fmt.Errorf("fasting usecase is not configured")
	}
	fast, err := i.fasting.Current(ctx, profileID)
	if err != nil {
		return phasedto.StatusOutput{}, err
	}
	elapsed, current, next := i.svc.Snapshot(fast.StartedAt)
	out := phasedto.StatusOutput{
		FastID:    fast.ID,
		ProfileID: fast.ProfileID,
		StartedAt: fast.StartedAt,
		Elapsed:   elapsed,
		Phase:     toDTO(current),
	}
	if next != nil {
		out.Next = &phasedto.Transition{Phase: toDTO(next.Phase), At: next.At}
	}
	return out, nil
}

func (i *Interactor) Reference(ctx context.Context, citationKey string) (phasedto.ReferenceOutput, error) {
	citationKey = strings.TrimSpace(citationKey)
	if citationKey == "" {
		return phasedto.ReferenceOutput{}, fmt.Errorf("%w: citation key is required", apperrors.ErrInvalidInput)
	}
	if i.resolver == nil {
		return phasedto.ReferenceOutput{}, fmt.Errorf("no reference resolver is configured")
	}
	reference, err := i.resolver.Resolve(ctx, citationKey)
	if err != nil {
		return phasedto.ReferenceOutput{}, err
	}
	return phasedto.ReferenceOutput{Key: citationKey, Reference: reference}, nil
}

func toDTO(phase domain.Phase) phasedto.Phase {
	message, _ := domain.MessageFor(phase.ID)
	return phasedto.Phase{
		ID:          string(phase.ID),
		Hours:       phase.Hours,
		Title:       phase.Title,
		Description: phase.Description,
		Citation:    phase.Citation,
		Message:     message,
	}
}
