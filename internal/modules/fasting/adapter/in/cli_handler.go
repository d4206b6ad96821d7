package in

import (
	"context"
	"time"

	fastingdto "fastlog/internal/modules/fasting/dto"
	fastingin "fastlog/internal/modules/fasting/port/in"
)

type CLIHandler struct {
	usecase fastingin.Usecase
}

func NewCLIHandler(usecase fastingin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, profileID string) (fastingdto.Fast, error) {
	return h.usecase.Start(ctx, fastingdto.StartInput{ProfileID: profileID})
}

func (h CLIHandler) Stop(ctx context.Context, profileID string, endedAt *time.Time, notes string) (fastingdto.Fast, error) {
	return h.usecase.Stop(ctx, fastingdto.StopInput{ProfileID: profileID, EndedAt: endedAt, Notes: notes})
}

func (h CLIHandler) EditStartTime(ctx context.Context, profileID string, startedAt time.Time) (fastingdto.Fast, error) {
	return h.usecase.EditStartTime(ctx, fastingdto.EditStartInput{ProfileID: profileID, StartedAt: startedAt})
}

func (h CLIHandler) Current(ctx context.Context, profileID string) (fastingdto.Fast, error) {
	return h.usecase.Current(ctx, profileID)
}

func (h CLIHandler) History(ctx context.Context, profileID string, from, to *time.Time) ([]fastingdto.Fast, error) {
	return h.usecase.History(ctx, fastingdto.HistoryInput{ProfileID: profileID, From: from, To: to})
}

func (h CLIHandler) Stats(ctx context.Context, profileID string) (fastingdto.StatsOutput, error) {
	return h.usecase.Stats(ctx, profileID)
}

func (h CLIHandler) Delete(ctx context.Context, profileID, fastID string) error {
	return h.usecase.Delete(ctx, profileID, fastID)
}

func (h CLIHandler) Export(ctx context.Context, profileID string) ([]byte, error) {
	out, err := h.usecase.Export(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return out.Payload, nil
}

func (h CLIHandler) Import(ctx context.Context, profileID string, payload []byte) (fastingdto.ImportOutput, error) {
	return h.usecase.Import(ctx, fastingdto.ImportInput{ProfileID: profileID, Payload: payload})
}

func (h CLIHandler) Clear(ctx context.Context, profileID string) error {
	return h.usecase.Clear(ctx, profileID)
}

func (h CLIHandler) Reindex(ctx context.Context, profileID string) error {
	return h.usecase.Reindex(ctx, profileID)
}
