package bootstrap

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	fastinginadapter "fastlog/internal/modules/fasting/adapter/in"
	fastingoutadapter "fastlog/internal/modules/fasting/adapter/out"
	fastingservice "fastlog/internal/modules/fasting/service"
	fastingusecase "fastlog/internal/modules/fasting/usecase"
	phaseinadapter "fastlog/internal/modules/phase/adapter/in"
	phaseoutadapter "fastlog/internal/modules/phase/adapter/out"
	phasedomain "fastlog/internal/modules/phase/domain"
	phaseservice "fastlog/internal/modules/phase/service"
	phaseusecase "fastlog/internal/modules/phase/usecase"
	plugininadapter "fastlog/internal/modules/plugin/adapter/in"
	pluginoutadapter "fastlog/internal/modules/plugin/adapter/out"
	pluginservice "fastlog/internal/modules/plugin/service"
	pluginusecase "fastlog/internal/modules/plugin/usecase"
	profileinadapter "fastlog/internal/modules/profile/adapter/in"
	profileoutadapter "fastlog/internal/modules/profile/adapter/out"
	profileservice "fastlog/internal/modules/profile/service"
	profileusecase "fastlog/internal/modules/profile/usecase"
	"fastlog/internal/platform/clock"
	"fastlog/internal/platform/config"
	"fastlog/internal/platform/id"
	"fastlog/internal/platform/storage"
	uiapp "fastlog/internal/ui/app"
)

type App struct {
	FastingCLI fastinginadapter.CLIHandler
	ProfileCLI profileinadapter.CLIHandler
	PhaseCLI   phaseinadapter.CLIHandler
	PluginCLI  plugininadapter.CLIHandler
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.RandomHex{}
	kv := storage.NewFileStore(cfg.StorePath)

	profileSvc := profileservice.NewProfileService(
		clk,
		ids,
		profileoutadapter.NewKVDirectoryStore(kv),
		profileoutadapter.NewKVLegacyMigrator(kv),
	)
	profileUC := profileusecase.NewInteractor(profileSvc)

	projector, err := fastingoutadapter.NewSQLiteHistoryProjector(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new history projector: %w", err)
	}
	fastingSvc := fastingservice.NewFastingService(clk, ids, fastingoutadapter.NewKVLogStore(kv), projector)
	fastingUC := fastingusecase.NewInteractor(fastingSvc, profileUC)

	pluginUC := pluginusecase.NewInteractor(pluginservice.NewPluginService(
		pluginoutadapter.NewFileManifestStore(cfg.StorePath),
		pluginoutadapter.NewGRPCHost(),
	))

	table, err := phasedomain.DefaultTable()
	if err != nil {
		return nil, fmt.Errorf("load phase table: %w", err)
	}
	phaseUC := phaseusecase.NewInteractor(
		phaseservice.NewPhaseService(clk, table),
		fastingUC,
		phaseoutadapter.NewPluginReferenceAdapter(pluginUC, cfg.DataPath),
	)

	// First run: seed the default profile and adopt any legacy
	// single-profile data.
	if _, err := profileUC.EnsureDefault(context.Background()); err != nil {
		return nil, fmt.Errorf("ensure default profile: %w", err)
	}

	return &App{
		FastingCLI: fastinginadapter.NewCLIHandler(fastingUC),
		ProfileCLI: profileinadapter.NewCLIHandler(profileUC),
		PhaseCLI:   phaseinadapter.NewCLIHandler(phaseUC),
		PluginCLI:  plugininadapter.NewCLIHandler(pluginUC),
	}, nil
}

func RunTUI(dataPath string, app *App) error {
	model := uiapp.NewModel(dataPath, app.FastingCLI, app.ProfileCLI, app.PhaseCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
