package bootstrap

import (
	"context"
	"fmt"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/api"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/api/handler"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/pkg/config"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/pkg/logger"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/service"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/source"
)

type Application struct {
	Config *config.Config
	Logger *logger.Logger

	Github   *source.GithubClient
	Snapshot *source.SnapshotStore
	Loader   *source.Loader

	Dashboard *service.DashboardService

	DashboardHandler *handler.DashboardHandler
	ExportHandler    *handler.ExportHandler

	HTTPServer *api.HTTPServer
}

func New() (*Application, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: cfg.LogAddSource,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &Application{
		Config: cfg,
		Logger: log,
	}, nil
}

func (app *Application) Init(ctx context.Context) error {
	app.Logger.Info("initializing application")
	cfg := app.Config

	// live tracker source is optional; without a repo the loader falls
	// through to the snapshot url / file
	if cfg.GithubRepo != "" {
		github, err := source.NewGithubClient(&source.GithubConfig{
			BaseURL:       cfg.GithubAPIURL,
			Owner:         cfg.GithubOwner,
			Repo:          cfg.GithubRepo,
			Token:         cfg.GithubToken,
			Timeout:       cfg.GithubTimeout,
			PerPage:       cfg.IssuesPerPage,
			FetchWindow:   cfg.FetchWindow,
			FetchComments: cfg.FetchComments,
		}, app.Logger)
		if err != nil {
			return fmt.Errorf("failed to create github client: %w", err)
		}
		app.Github = github
	}

	app.Snapshot = source.NewSnapshotStore(cfg.SnapshotPath, cfg.SnapshotCap, app.Logger)
	app.Loader = source.NewLoader(app.Github, cfg.SnapshotURL, app.Snapshot, cfg.CacheTTL, app.Logger)

	app.Dashboard = service.NewDashboardService(app.Loader, app.Logger)

	app.DashboardHandler = handler.NewDashboardHandler(app.Dashboard, app.Logger)
	app.ExportHandler = handler.NewExportHandler(app.Dashboard, app.Logger)

	serverConfig := &api.ServerConfig{
		Host:         cfg.ServerHost,
		Port:         cfg.ServerPort,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	app.HTTPServer = api.NewHTTPServer(
		serverConfig,
		app.DashboardHandler,
		app.ExportHandler,
		app.Logger,
	)

	if err := app.HTTPServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start http server: %w", err)
	}

	app.Logger.Info("application initialized successfully")
	return nil
}

func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("shutting down application")

	if app.HTTPServer != nil {
		if err := app.HTTPServer.Stop(ctx); err != nil {
			app.Logger.Error("error stopping http server", "error", err)
		}
	}

	app.Logger.Info("application shutdown completed")
	return nil
}
