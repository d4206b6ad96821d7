package service

import (
	"context"
	"fmt"
	"strings"

	"fastlog/internal/modules/profile/domain"
	profileout "fastlog/internal/modules/profile/port/out"
	"fastlog/internal/platform/clock"
	apperrors "fastlog/internal/platform/errors"
	"fastlog/internal/platform/id"
)

type ProfileService struct {
	clock    clock.Clock
	idGen    id.Generator
	store    profileout.DirectoryStore
	migrator profileout.LegacyMigrator
}

func NewProfileService(clock clock.Clock, idGen id.Generator, store profileout.DirectoryStore, migrator profileout.LegacyMigrator) *ProfileService {
	return &ProfileService{clock: clock, idGen: idGen, store: store, migrator: migrator}
}

func (s *ProfileService) Create(ctx context.Context, name, email string) (domain.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Profile{}, fmt.Errorf("%w: profile name is required", apperrors.ErrInvalidInput)
	}
	directory, err := s.store.Load(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	first := len(directory.Profiles) == 0
	profile := domain.Profile{
		ID:        s.idGen.New(),
		Name:      name,
		Email:     strings.TrimSpace(email),
		CreatedAt: s.clock.Now().UnixMilli(),
		IsActive:  first,
	}
	directory.Profiles = append(directory.Profiles, profile)
	if first {
		directory.ActiveProfileID = profile.ID
	}
	if err := s.store.Save(ctx, directory); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

func (s *ProfileService) List(ctx context.Context) ([]domain.Profile, error) {
	directory, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return directory.Profiles, nil
}

func (s *ProfileService) Get(ctx context.Context, profileID string) (domain.Profile, error) {
	directory, err := s.store.Load(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	idx := directory.IndexOf(profileID)
	if idx < 0 {
		return domain.Profile{}, apperrors.ErrNotFound
	}
	return directory.Profiles[idx], nil
}

func (s *ProfileService) Active(ctx context.Context) (domain.Profile, error) {
	directory, err := s.store.Load(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	active, ok := directory.Active()
	if !ok {
		return domain.Profile{}, apperrors.ErrNoActiveProfile
	}
	return active, nil
}

func (s *ProfileService) SetActive(ctx context.Context, profileID string) error {
	directory, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if directory.IndexOf(profileID) < 0 {
		return apperrors.ErrNotFound
	}
	directory.ActiveProfileID = profileID
	return s.store.Save(ctx, directory)
}

// Update merges name and email changes. ID and CreatedAt are immutable.
func (s *ProfileService) Update(ctx context.Context, profileID string, name, email *string) (domain.Profile, error) {
	directory, err := s.store.Load(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	idx := directory.IndexOf(profileID)
	if idx < 0 {
		return domain.Profile{}, apperrors.ErrNotFound
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return domain.Profile{}, fmt.Errorf("%w: profile name is required", apperrors.ErrInvalidInput)
		}
		directory.Profiles[idx].Name = trimmed
	}
	if email != nil {
		directory.Profiles[idx].Email = strings.TrimSpace(*email)
	}
	if err := s.store.Save(ctx, directory); err != nil {
		return domain.Profile{}, err
	}
	return directory.Profiles[idx], nil
}

// Delete removes a profile; when it was the active one the first remaining
// profile is adopted, or none when the directory becomes empty. Guarding
// against deleting the last profile is the caller's concern.
func (s *ProfileService) Delete(ctx context.Context, profileID string) error {
	directory, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	idx := directory.IndexOf(profileID)
	if idx < 0 {
		return apperrors.ErrNotFound
	}
	directory.Profiles = append(directory.Profiles[:idx], directory.Profiles[idx+1:]...)
	if directory.ActiveProfileID == profileID {
		directory.ActiveProfileID = ""
		if len(directory.Profiles) > 0 {
			directory.ActiveProfileID = directory.Profiles[0].ID
		}
	}
	return s.store.Save(ctx, directory)
}

// EnsureDefault bootstraps the directory. An empty directory gets a default
// profile which adopts any pre-profile fasting data; a directory with
// profiles but no active selection adopts the first entry. Calling it again
// after a successful run changes nothing.
func (s *ProfileService) EnsureDefault(ctx context.Context) (domain.Profile, error) {
	directory, err := s.store.Load(ctx)
	if err != nil {
		return domain.Profile{}, err
	}
	if len(directory.Profiles) == 0 {
		profile := domain.Profile{
			ID:        s.idGen.New(),
			Name:      domain.DefaultProfileName,
			CreatedAt: s.clock.Now().UnixMilli(),
			IsActive:  true,
		}
		directory.Profiles = []domain.Profile{profile}
		directory.ActiveProfileID = profile.ID
		if err := s.store.Save(ctx, directory); err != nil {
			return domain.Profile{}, err
		}
		if err := s.migrateLegacy(ctx, profile.ID); err != nil {
			return domain.Profile{}, err
		}
		return profile, nil
	}
	if _, ok := directory.Active(); !ok {
		directory.ActiveProfileID = directory.Profiles[0].ID
		if err := s.store.Save(ctx, directory); err != nil {
			return domain.Profile{}, err
		}
	}
	active, _ := directory.Active()
	// Re-running the migration is safe: it no-ops once the legacy blob is
	// gone, which also heals a run interrupted mid-migration.
	if err := s.migrateLegacy(ctx, active.ID); err != nil {
		return domain.Profile{}, err
	}
	return active, nil
}

func (s *ProfileService) migrateLegacy(ctx context.Context, profileID string) error {
	if s.migrator == nil {
		return nil
	}
	_, err := s.migrator.Migrate(ctx, profileID)
	return err
}
