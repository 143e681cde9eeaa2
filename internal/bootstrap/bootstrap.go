package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	cueinadapter "moodooro/internal/modules/cue/adapter/in"
	cueoutadapter "moodooro/internal/modules/cue/adapter/out"
	cueout "moodooro/internal/modules/cue/port/out"
	cueservice "moodooro/internal/modules/cue/service"
	cueusecase "moodooro/internal/modules/cue/usecase"
	insightinadapter "moodooro/internal/modules/insight/adapter/in"
	insightin "moodooro/internal/modules/insight/port/in"
	insightservice "moodooro/internal/modules/insight/service"
	insightusecase "moodooro/internal/modules/insight/usecase"
	moodinadapter "moodooro/internal/modules/mood/adapter/in"
	moodoutadapter "moodooro/internal/modules/mood/adapter/out"
	moodin "moodooro/internal/modules/mood/port/in"
	moodservice "moodooro/internal/modules/mood/service"
	moodusecase "moodooro/internal/modules/mood/usecase"
	sessioninadapter "moodooro/internal/modules/session/adapter/in"
	sessionoutadapter "moodooro/internal/modules/session/adapter/out"
	sessionin "moodooro/internal/modules/session/port/in"
	sessionservice "moodooro/internal/modules/session/service"
	sessionusecase "moodooro/internal/modules/session/usecase"
	timeroutadapter "moodooro/internal/modules/timer/adapter/out"
	timerdto "moodooro/internal/modules/timer/dto"
	timerin "moodooro/internal/modules/timer/port/in"
	timerusecase "moodooro/internal/modules/timer/usecase"
	"moodooro/internal/platform/clock"
	"moodooro/internal/platform/config"
	"moodooro/internal/platform/id"
	"moodooro/internal/platform/logging"
	"moodooro/internal/platform/sqlitedb"
	"moodooro/internal/platform/stream"
	"moodooro/internal/server"
	uiapp "moodooro/internal/ui/app"
)

type Options struct {
	// Console adds a stderr log core. The TUI owns the terminal and must
	// leave it off.
	Console bool
}

type App struct {
	Config config.Config
	Logger *zap.Logger

	SessionCLI sessioninadapter.CLIHandler
	MoodCLI    moodinadapter.CLIHandler
	InsightCLI insightinadapter.CLIHandler
	CueCLI     cueinadapter.CLIHandler

	Sessions sessionin.Usecase
	Moods    moodin.Usecase
	Insights insightin.Usecase
	Timer    timerin.Usecase

	clock    clock.Clock
	db       *sqlitedb.DB
	bus      *stream.Bus
	closeLog func() error
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	logger, closeLog, err := logging.New(logging.Options{
		FilePath: cfg.LogPath,
		Level:    cfg.LogLevel,
		Console:  opts.Console,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	db, err := sqlitedb.Open(ctx, cfg.DBPath)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open database: %w", err)
	}
	if v, err := db.Version(ctx); err == nil {
		logger.Debug("database ready", zap.String("path", cfg.DBPath), zap.Int("schema_version", v))
	}

	clk := clock.SystemClock{}
	bus := stream.NewBus(logger, id.UUID{})

	sessionUC := sessionusecase.NewInteractor(sessionservice.NewSessionService(
		sessionoutadapter.NewSQLiteRepository(db),
		sessionoutadapter.NewMarkdownJournal(),
		bus,
		logger.Named("session"),
	))
	moodUC := moodusecase.NewInteractor(moodservice.NewMoodService(
		moodoutadapter.NewSQLiteRepository(db),
		clk,
		bus,
		logger.Named("mood"),
	))
	insightUC := insightusecase.NewInteractor(insightservice.NewInsightService(
		sessionUC,
		moodUC,
		clk,
		logger.Named("insight"),
	))

	var chime cueout.Chime
	if cfg.Cue.Bell {
		chime = cueoutadapter.NewTerminalBell(os.Stdout)
	}
	cueUC := cueusecase.NewInteractor(cueservice.NewCueService(
		cueoutadapter.NewFileManifestStore(cfg.Cue.ManifestPath),
		cueoutadapter.NewGRPCHost(),
		chime,
		logger.Named("cue"),
	))

	timerUC := timerusecase.NewInteractor(
		timerdto.ConfigInput{
			Focus:   cfg.Timer.FocusDuration(),
			Break:   cfg.Timer.BreakDuration(),
			Subject: cfg.Timer.Subject,
		},
		timeroutadapter.NewRecorder(sessionUC, moodUC, db),
		cueUC,
		clk,
		logger.Named("timer"),
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		MoodCLI:    moodinadapter.NewCLIHandler(moodUC),
		InsightCLI: insightinadapter.NewCLIHandler(insightUC),
		CueCLI:     cueinadapter.NewCLIHandler(cueUC),
		Sessions:   sessionUC,
		Moods:      moodUC,
		Insights:   insightUC,
		Timer:      timerUC,
		clock:      clk,
		db:         db,
		bus:        bus,
		closeLog:   closeLog,
	}, nil
}

// Now is the application clock, used by CLI commands for relative windows.
func (a *App) Now() time.Time {
	return a.clock.Now()
}

// Close stops the change bus, then closes the database and flushes logs.
func (a *App) Close() error {
	return errors.Join(a.bus.Close(), a.db.Close(), a.closeLog())
}

// RunTUI blocks until the user quits. Live feeds are released on return.
func RunTUI(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	model := uiapp.NewModel(ctx, app.Timer, app.Insights, app.Insights)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Serve runs the local dashboard until ctx ends.
func Serve(ctx context.Context, app *App, addr string) error {
	srv := server.New(server.Deps{
		Sessions: app.Sessions,
		Moods:    app.Moods,
		Insights: app.Insights,
		Clock:    app.clock,
		Logger:   app.Logger.Named("server"),
	})
	return srv.Run(ctx, addr)
}
