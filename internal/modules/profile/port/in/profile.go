package in

import (
	"context"

	"fastlog/internal/modules/profile/dto"
)

type Usecase interface {
	Create(ctx context.Context, input dto.CreateInput) (dto.Profile, error)
	List(ctx context.Context) ([]dto.Profile, error)
	Get(ctx context.Context, id string) (dto.Profile, error)
	Active(ctx context.Context) (dto.Profile, error)
	SetActive(ctx context.Context, id string) error
	Update(ctx context.Context, input dto.UpdateInput) (dto.Profile, error)
	Delete(ctx context.Context, id string) error
	EnsureDefault(ctx context.Context) (dto.Profile, error)
}
