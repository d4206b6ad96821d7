package in

import (
	"context"

	"fastlog/internal/modules/fasting/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.Fast, error)
	Stop(ctx context.Context, input dto.StopInput) (dto.Fast, error)
	EditStartTime(ctx context.Context, input dto.EditStartInput) (dto.Fast, error)
	Current(ctx context.Context, profileID string) (dto.Fast, error)
	History(ctx context.Context, input dto.HistoryInput) ([]dto.Fast, error)
	Stats(ctx context.Context, profileID string) (dto.StatsOutput, error)
	Delete(ctx context.Context, profileID, fastID string) error
	Export(ctx context.Context, profileID string) (dto.SnapshotOutput, error)
	Import(ctx context.Context, input dto.ImportInput) (dto.ImportOutput, error)
	Clear(ctx context.Context, profileID string) error
	Reindex(ctx context.Context, profileID string) error
}
