package in

import (
	"context"
	"time"

	"fastlog/internal/modules/phase/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.Phase, error)
	PhaseFor(ctx context.Context, elapsed time.Duration) (dto.Phase, error)
	Transitions(ctx context.Context, start time.Time) ([]dto.Transition, error)
	Status(ctx context.Context, profileID string) (dto.StatusOutput, error)
	Reference(ctx context.Context, citationKey string) (dto.ReferenceOutput, error)
}
