package in

import (
	"context"
	"time"

	phasedto "fastlog/internal/modules/phase/dto"
	phasein "fastlog/internal/modules/phase/port/in"
)

type CLIHandler struct {
	usecase phasein.Usecase
}

func NewCLIHandler(usecase phasein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]phasedto.Phase, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) PhaseFor(ctx context.Context, elapsed time.Duration) (phasedto.Phase, error) {
	return h.usecase.PhaseFor(ctx, elapsed)
}

func (h CLIHandler) Transitions(ctx context.Context, start time.Time) ([]phasedto.Transition, error) {
	return h.usecase.Transitions(ctx, start)
}

func (h CLIHandler) Status(ctx context.Context, profileID string) (phasedto.StatusOutput, error) {
	return h.usecase.Status(ctx, profileID)
}

func (h CLIHandler) Reference(ctx context.Context, citationKey string) (phasedto.ReferenceOutput, error) {
	return h.usecase.Reference(ctx, citationKey)
}
