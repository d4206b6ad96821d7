package usecase

import (
	"context"
	"time"

	"fastlog/internal/modules/profile/domain"
	profiledto "fastlog/internal/modules/profile/dto"
	profilein "fastlog/internal/modules/profile/port/in"
	"fastlog/internal/modules/profile/service"
)

type Interactor struct {
	svc *service.ProfileService
}

func NewInteractor(svc *service.ProfileService) profilein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Create(ctx context.Context, input profiledto.CreateInput) (profiledto.Profile, error) {
	profile, err := i.svc.Create(ctx, input.Name, input.Email)
	if err != nil {
		return profiledto.Profile{}, err
	}
	// A freshly created profile is active only when it was the first one.
	return toDTO(profile, profile.IsActive), nil
}

func (i *Interactor) List(ctx context.Context) ([]profiledto.Profile, error) {
	profiles, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	active, activeErr := i.svc.Active(ctx)
	out := make([]profiledto.Profile, 0, len(profiles))
	for _, profile := range profiles {
		out = append(out, toDTO(profile, activeErr == nil && profile.ID == active.ID))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (profiledto.Profile, error) {
	profile, err := i.svc.Get(ctx, id)
	if err != nil {
		return profiledto.Profile{}, err
	}
	active, activeErr := i.svc.Active(ctx)
	return toDTO(profile, activeErr == nil && profile.ID == active.ID), nil
}

func (i *Interactor) Active(ctx context.Context) (profiledto.Profile, error) {
	profile, err := i.svc.Active(ctx)
	if err != nil {
		return profiledto.Profile{}, err
	}
	return toDTO(profile, true), nil
}

func (i *Interactor) SetActive(ctx context.Context, id string) error {
	return i.svc.SetActive(ctx, id)
}

func (i *Interactor) Update(ctx context.Context, input profiledto.UpdateInput) (profiledto.Profile, error) {
	profile, err := i.svc.Update(ctx, input.ID, input.Name, input.Email)
	if err != nil {
		return profiledto.Profile{}, err
	}
	active, activeErr := i.svc.Active(ctx)
	return toDTO(profile, activeErr == nil && profile.ID == active.ID), nil
}

func (i *Interactor) Delete(ctx context.Context, id string) error {
	return i.svc.Delete(ctx, id)
}

func (i *Interactor) EnsureDefault(ctx context.Context) (profiledto.Profile, error) {
	profile, err := i.svc.EnsureDefault(ctx)
	if err != nil {
		return profiledto.Profile{}, err
	}
	return toDTO(profile, true), nil
}

func toDTO(profile domain.Profile, active bool) profiledto.Profile {
	return profiledto.Profile{
		ID:        profile.ID,
		Name:      profile.Name,
		Email:     profile.Email,
		CreatedAt: time.UnixMilli(profile.CreatedAt).UTC(),
		Active:    active,
	}
}
