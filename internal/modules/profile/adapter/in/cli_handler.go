package in

import (
	"context"

	profiledto "fastlog/internal/modules/profile/dto"
	profilein "fastlog/internal/modules/profile/port/in"
)

type CLIHandler struct {
	usecase profilein.Usecase
}

func NewCLIHandler(usecase profilein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Create(ctx context.Context, name, email string) (profiledto.Profile, error) {
	return h.usecase.Create(ctx, profiledto.CreateInput{Name: name, Email: email})
}

func (h CLIHandler) List(ctx context.Context) ([]profiledto.Profile, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Active(ctx context.Context) (profiledto.Profile, error) {
	return h.usecase.Active(ctx)
}

func (h CLIHandler) SetActive(ctx context.Context, id string) error {
	return h.usecase.SetActive(ctx, id)
}

func (h CLIHandler) Update(ctx context.Context, id string, name, email *string) (profiledto.Profile, error) {
	return h.usecase.Update(ctx, profiledto.UpdateInput{ID: id, Name: name, Email: email})
}

func (h CLIHandler) Delete(ctx context.Context, id string) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) EnsureDefault(ctx context.Context) (profiledto.Profile, error) {
	return h.usecase.EnsureDefault(ctx)
}
