package usecase

import (
	"context"
	"math"
	"time"

	"fastlog/internal/modules/fasting/domain"
	fastingdto "fastlog/internal/modules/fasting/dto"
	fastingin "fastlog/internal/modules/fasting/port/in"
	"fastlog/internal/modules/fasting/service"
	profilein "fastlog/internal/modules/profile/port/in"
	apperrors "fastlog/internal/platform/errors"
)

// Interactor runs fasting operations against an explicit profile id. An
// empty id is resolved to the active profile once, here at the edge; the
// service below never consults ambient state.
type Interactor struct {
	svc      *service.FastingService
	profiles profilein.Usecase
}

func NewInteractor(svc *service.FastingService, profiles profilein.Usecase) fastingin.Usecase {
	return &Interactor{svc: svc, profiles: profiles}
}

func (i *Interactor) resolve(ctx context.Context, profileID string) (string, error) {
	if profileID != "" {
		return profileID, nil
	}
	active, err := i.profiles.Active(ctx)
	if err != nil {
		return "", err
	}
	return active.ID, nil
}

func (i *Interactor) Start(ctx context.Context, input fastingdto.StartInput) (fastingdto.Fast, error) {
	profileID, err := i.resolve(ctx, input.ProfileID)
	if err != nil {
		return fastingdto.Fast{}, err
	}
	fast, err := i.svc.Start(ctx, profileID)
	if err != nil {
		return fastingdto.Fast{}, err
	}
	return toDTO(fast), nil
}

func (i *Interactor) Stop(ctx context.Context, input fastingdto.StopInput) (fastingdto.Fast, error) {
	profileID, err := i.resolve(ctx, input.ProfileID)
	if err != nil {
		return fastingdto.Fast{}, err
	}
	fast, err := i.svc.Stop(ctx, profileID, input.EndedAt, input.Notes)
	if err != nil {
		return fastingdto.Fast{}, err
	}
	return toDTO(fast), nil
}

func (i *Interactor) EditStartTime(ctx context.Context, input fastingdto.EditStartInput) (fastingdto.Fast, error) {
	profileID, err := i.resolve(ctx, input.ProfileID)
	if err != nil {
		return fastingdto.Fast{}, err
	}
	fast, err := i.svc.UpdateStartTime(ctx, profileID, input.StartedAt)
	if err != nil {
		return fastingdto.Fast{}, err
	}
	return toDTO(fast), nil
}

func (i *Interactor) Current(ctx context.Context, profileID string) (fastingdto.Fast, error) {
	resolved, err := i.resolve(ctx, profileID)
	if err != nil {
		return fastingdto.Fast{}, err
	}
	fast, err := i.svc.Current(ctx, resolved)
	if err != nil {
		return fastingdto.Fast{}, err
	}
	if fast == nil {
		return fastingdto.Fast{}, apperrors.ErrNoActiveFast
	}
	return toDTO(*fast), nil
}

func (i *Interactor) History(ctx context.Context, input fastingdto.HistoryInput) ([]fastingdto.Fast, error) {
	profileID, err := i.resolve(ctx, input.ProfileID)
	if err != nil {
		return nil, err
	}
	var fasts []domain.Fast
	if input.From != nil || input.To != nil {
		fromMs := int64(0)
		if input.From != nil {
			fromMs = domain.Millis(*input.From)
		}
		toMs := int64(math.MaxInt64)
		if input.To != nil {
			toMs = domain.Millis(*input.To)
		}
		fasts, err = i.svc.HistoryRange(ctx, profileID, fromMs, toMs)
	} else {
		fasts, err = i.svc.History(ctx, profileID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]fastingdto.Fast, 0, len(fasts))
	for _, fast := range fasts {
		out = append(out, toDTO(fast))
	}
	return out, nil
}

func (i *Interactor) Stats(ctx context.Context, profileID string) (fastingdto.StatsOutput, error) {
	resolved, err := i.resolve(ctx, profileID)
	if err != nil {
		return fastingdto.StatsOutput{}, err
	}
	stats, err := i.svc.Stats(ctx, resolved)
	if err != nil {
		return fastingdto.StatsOutput{}, err
	}
	return fastingdto.StatsOutput{
		TotalFasts:         stats.TotalFasts,
		TotalFastingTime:   time.Duration(stats.TotalFastingTime) * time.Millisecond,
		AverageFastingTime: time.Duration(stats.AverageFastingTime) * time.Millisecond,
		LongestFast:        time.Duration(stats.LongestFast) * time.Millisecond,
	}, nil
}

func (i *Interactor) Delete(ctx context.Context, profileID, fastID string) error {
	resolved, err := i.resolve(ctx, profileID)
	if err != nil {
		return err
	}
	return i.svc.Delete(ctx, resolved, fastID)
}

func (i *Interactor) Export(ctx context.Context, profileID string) (fastingdto.SnapshotOutput, error) {
	resolved, err := i.resolve(ctx, profileID)
	if err != nil {
		return fastingdto.SnapshotOutput{}, err
	}
	payload, err := i.svc.Export(ctx, resolved)
	if err != nil {
		return fastingdto.SnapshotOutput{}, err
	}
	return fastingdto.SnapshotOutput{Payload: payload}, nil
}

func (i *Interactor) Import(ctx context.Context, input fastingdto.ImportInput) (fastingdto.ImportOutput, error) {
	profileID, err := i.resolve(ctx, input.ProfileID)
	if err != nil {
		return fastingdto.ImportOutput{}, err
	}
	log, err := i.svc.Import(ctx, profileID, input.Payload)
	if err != nil {
		return fastingdto.ImportOutput{}, err
	}
	return fastingdto.ImportOutput{
		TotalFasts: log.TotalFasts,
		InProgress: log.CurrentFast != nil,
	}, nil
}

func (i *Interactor) Clear(ctx context.Context, profileID string) error {
	resolved, err := i.resolve(ctx, profileID)
	if err != nil {
		return err
	}
	return i.svc.Clear(ctx, resolved)
}

func (i *Interactor) Reindex(ctx context.Context, profileID string) error {
	resolved, err := i.resolve(ctx, profileID)
	if err != nil {
		return err
	}
	return i.svc.Reindex(ctx, resolved)
}

func toDTO(fast domain.Fast) fastingdto.Fast {
	out := fastingdto.Fast{
		ID:        fast.ID,
		ProfileID: fast.ProfileID,
		StartedAt: fast.StartedAt(),
		Notes:     fast.Notes,
	}
	if !fast.InProgress() {
		out.EndedAt = fast.EndedAt()
		out.Duration = time.Duration(fast.Duration) * time.Millisecond
	}
	return out
}
