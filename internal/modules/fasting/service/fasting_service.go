package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fastlog/internal/modules/fasting/domain"
	fastingout "fastlog/internal/modules/fasting/port/out"
	"fastlog/internal/platform/clock"
	apperrors "fastlog/internal/platform/errors"
	"fastlog/internal/platform/id"
)

// FastingService owns one profile's fasting log. Every mutation is a
// read-modify-write of the whole blob; the projector is updated afterwards
// as a derived index.
type FastingService struct {
	clock     clock.Clock
	idGen     id.Generator
	store     fastingout.LogStore
	projector fastingout.HistoryProjector
}

func NewFastingService(clock clock.Clock, idGen id.Generator, store fastingout.LogStore, projector fastingout.HistoryProjector) *FastingService {
	return &FastingService{clock: clock, idGen: idGen, store: store, projector: projector}
}

func (s *FastingService) Start(ctx context.Context, profileID string) (domain.Fast, error) {
	if strings.TrimSpace(profileID) == "" {
		return domain.Fast{}, fmt.Errorf("%w: profile id is required", apperrors.ErrInvalidInput)
	}
	log, err := s.store.Load(ctx, profileID)
	if err != nil {
		return domain.Fast{}, err
	}
	if log.CurrentFast != nil {
		return domain.Fast{}, apperrors.ErrFastAlreadyActive
	}
	now := domain.Millis(s.clock.Now())
	fast := domain.Fast{
		ID:        s.idGen.New(),
		StartTime: now,
		CreatedAt: now,
		ProfileID: profileID,
	}
	log.CurrentFast = &fast
	if err := s.store.Save(ctx, profileID, log); err != nil {
		return domain.Fast{}, err
	}
	return fast, nil
}

func (s *FastingService) Stop(ctx context.Context, profileID string, customEnd *time.Time, notes string) (domain.Fast, error) {
	log, err := s.store.Load(ctx, profileID)
	if err != nil {
		return domain.Fast{}, err
	}
	if log.CurrentFast == nil {
		return domain.Fast{}, apperrors.ErrNoActiveFast
	}
	fast := *log.CurrentFast
	end := s.clock.Now()
	if customEnd != nil {
		end = *customEnd
	}
	fast.EndTime = domain.Millis(end)
	fast.Duration = fast.EndTime - fast.StartTime
	fast.Notes = strings.TrimSpace(notes)

	log.CurrentFast = nil
	log.Fasts = append([]domain.Fast{fast}, log.Fasts...)
	log.TotalFasts++
	log.TotalFastingTime += fast.Duration
	if err := s.store.Save(ctx, profileID, log); err != nil {
		return domain.Fast{}, err
	}
	if s.projector != nil {
		if err := s.projector.Upsert(ctx, fast); err != nil {
			return domain.Fast{}, err
		}
	}
	return fast, nil
}

func (s *FastingService) UpdateStartTime(ctx context.Context, profileID string, newStart time.Time) (domain.Fast, error) {
	log, err := s.store.Load(ctx, profileID)
	if err != nil {
		return domain.Fast{}, err
	}
	if log.CurrentFast == nil {
		return domain.Fast{}, apperrors.ErrNoActiveFast
	}
	log.CurrentFast.StartTime = domain.Millis(newStart)
	if err := s.store.Save(ctx, profileID, log); err != nil {
		return domain.Fast{}, err
	}
	return *log.CurrentFast, nil
}

func (s *FastingService) Current(ctx context.Context, profileID string) (*domain.Fast, error) {
	log, err := s.store.Load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return log.CurrentFast, nil
}

func (s *FastingService) History(ctx context.Context, profileID string) ([]domain.Fast, error) {
	log, err := s.store.Load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return log.Fasts, nil
}

// HistoryRange serves date-filtered queries from the projector so history
// lookups do not rescan the blob. Bounds are epoch milliseconds against the
// fast's start time.
func (s *FastingService) HistoryRange(ctx context.Context, profileID string, fromMs, toMs int64) ([]domain.Fast, error) {
	if s.projector == nil {
		return nil, fmt.Errorf("history projector is not configured")
	}
	return s.projector.ListRange(ctx, profileID, fromMs, toMs)
}

func (s *FastingService) Stats(ctx context.Context, profileID string) (domain.Stats, error) {
	log, err := s.store.Load(ctx, profileID)
	if err != nil {
		return domain.Stats{}, err
	}
	return log.Stats(), nil
}

func (s *FastingService) Delete(ctx context.Context, profileID, fastID string) error {
	log, err := s.store.Load(ctx, profileID)
	if err != nil {
		return err
	}
	idx := -1
	for i, fast := range log.Fasts {
		if fast.ID == fastID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperrors.ErrNotFound
	}
	removed := log.Fasts[idx]
	log.Fasts = append(log.Fasts[:idx], log.Fasts[idx+1:]...)
	log.TotalFasts--
	log.TotalFastingTime -= removed.Duration
	if err := s.store.Save(ctx, profileID, log); err != nil {
		return err
	}
	if s.projector != nil {
		if err := s.projector.Delete(ctx, profileID, fastID); err != nil {
			return err
		}
	}
	return nil
}

func (s *FastingService) Export(ctx context.Context, profileID string) ([]byte, error) {
	log, err := s.store.Load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	payload, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return payload, nil
}

// Import replaces the profile's log wholesale. The payload is fully parsed
// before anything is written, so a malformed snapshot mutates nothing.
func (s *FastingService) Import(ctx context.Context, profileID string, payload []byte) (domain.Log, error) {
	log := domain.EmptyLog()
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&log); err != nil {
		return domain.Log{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedSnapshot, err)
	}
	if log.Fasts == nil {
		log.Fasts = []domain.Fast{}
	}
	// Snapshots may come from another profile's export; re-stamp ownership
	// so the namespacing invariant holds.
	for i := range log.Fasts {
		log.Fasts[i].ProfileID = profileID
	}
	if log.CurrentFast != nil {
		log.CurrentFast.ProfileID = profileID
	}
	if err := s.store.Save(ctx, profileID, log); err != nil {
		return domain.Log{}, err
	}
	if err := s.reproject(ctx, profileID, log); err != nil {
		return domain.Log{}, err
	}
	return log, nil
}

func (s *FastingService) Clear(ctx context.Context, profileID string) error {
	if err := s.store.Clear(ctx, profileID); err != nil {
		return err
	}
	return s.reproject(ctx, profileID, domain.EmptyLog())
}

// Reindex rebuilds the projector for one profile from the blob of record.
func (s *FastingService) Reindex(ctx context.Context, profileID string) error {
	log, err := s.store.Load(ctx, profileID)
	if err != nil {
		return err
	}
	return s.reproject(ctx, profileID, log)
}

func (s *FastingService) reproject(ctx context.Context, profileID string, log domain.Log) error {
	if s.projector == nil {
		return nil
	}
	if err := s.projector.Reset(ctx, profileID); err != nil {
		return err
	}
	for _, fast := range log.Fasts {
		if err := s.projector.Upsert(ctx, fast); err != nil {
			return err
		}
	}
	return nil
}
