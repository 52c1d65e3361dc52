package bootstrap

import (
	"fmt"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	dictinadapter "folio/internal/modules/dictionary/adapter/in"
	dictoutadapter "folio/internal/modules/dictionary/adapter/out"
	dictin "folio/internal/modules/dictionary/port/in"
	dictservice "folio/internal/modules/dictionary/service"
	dictusecase "folio/internal/modules/dictionary/usecase"
	engineinadapter "folio/internal/modules/engine/adapter/in"
	engineoutadapter "folio/internal/modules/engine/adapter/out"
	engineservice "folio/internal/modules/engine/service"
	engineusecase "folio/internal/modules/engine/usecase"
	positioninadapter "folio/internal/modules/position/adapter/in"
	positionoutadapter "folio/internal/modules/position/adapter/out"
	positionservice "folio/internal/modules/position/service"
	positionusecase "folio/internal/modules/position/usecase"
	readerinadapter "folio/internal/modules/reader/adapter/in"
	readeroutadapter "folio/internal/modules/reader/adapter/out"
	readerservice "folio/internal/modules/reader/service"
	readerusecase "folio/internal/modules/reader/usecase"
	relayinadapter "folio/internal/modules/relay/adapter/in"
	relayoutadapter "folio/internal/modules/relay/adapter/out"
	relayservice "folio/internal/modules/relay/service"
	relayusecase "folio/internal/modules/relay/usecase"
	sessioninadapter "folio/internal/modules/session/adapter/in"
	sessionoutadapter "folio/internal/modules/session/adapter/out"
	sessionin "folio/internal/modules/session/port/in"
	sessionservice "folio/internal/modules/session/service"
	sessionusecase "folio/internal/modules/session/usecase"
	shelfinadapter "folio/internal/modules/shelf/adapter/in"
	shelfoutadapter "folio/internal/modules/shelf/adapter/out"
	shelfin "folio/internal/modules/shelf/port/in"
	shelfservice "folio/internal/modules/shelf/service"
	shelfusecase "folio/internal/modules/shelf/usecase"
	"folio/internal/platform/clock"
	"folio/internal/platform/config"
	"folio/internal/platform/id"
	uiapp "folio/internal/ui/app"
)

type App struct {
	Config config.Config
	Logger hclog.Logger

	ShelfCLI      shelfinadapter.CLIHandler
	PositionCLI   positioninadapter.CLIHandler
	ReaderCLI     readerinadapter.CLIHandler
	ReaderTUI     readerinadapter.TUIHandler
	SessionCLI    sessioninadapter.CLIHandler
	EngineCLI     engineinadapter.CLIHandler
	RelayCLI      relayinadapter.CLIHandler
	DictionaryCLI dictinadapter.CLIHandler

	SyncRouter http.Handler
	RelayCron  *relayinadapter.CronRunner

	shelf      shelfin.Usecase
	session    sessionin.Usecase
	dictionary dictin.Usecase
}

func New(cfg config.Config, logger hclog.Logger) (*App, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	clk := clock.SystemClock{}
	ids := id.UUID{}

	positionStore, err := positionoutadapter.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new position store: %w", err)
	}
	positionUC := positionusecase.NewInteractor(positionservice.NewPositionService(clk, positionStore))

	shelfUC := shelfusecase.NewInteractor(
		shelfservice.NewShelfService(clk, shelfoutadapter.NewLibraryBookStore(cfg.LibraryPath)),
		positionUC,
	)

	engineUC := engineusecase.NewInteractor(engineservice.NewEngineService(
		engineoutadapter.NewFileManifestStore(cfg.LibraryPath),
		engineoutadapter.NewGRPCHost(logger),
	))

	readerLogger := logger.Named("reader")
	readerUC := readerusecase.NewInteractor(readerservice.NewReaderService(
		readeroutadapter.NewShelfBookResolver(shelfUC),
		readeroutadapter.NewEngineAwareFactory(engineUC, readeroutadapter.NewLocalNavigatorFactory(), readerLogger),
		readeroutadapter.NewPositionLedger(positionUC),
		clk,
		readerLogger,
	))

	relayLogger := logger.Named("relay")
	outbox := relayoutadapter.NewJSONLOutbox(cfg.Relay.OutboxPath)
	sessionUC := sessionusecase.NewInteractor(sessionservice.Deps{
		Positions: sessionoutadapter.NewLedgerPositionSource(positionUC),
		Sessions:  sessionoutadapter.NewNoteSessionStore(cfg.LibraryPath),
		Open:      sessionoutadapter.NewFileOpenSessionStore(cfg.StateDir),
		Publisher: relayoutadapter.NewOutboxPublisher(outbox, ids, relayLogger),
		Clock:     clk,
		IDs:       ids,
		Logger:    logger.Named("shell"),
	}, readerUC)

	relayUC := relayusecase.NewInteractor(relayservice.NewPusher(
		outbox,
		relayoutadapter.NewHTTPRemote(cfg.Relay.RemoteURL, 0),
		relayLogger,
	))

	dictUC := dictusecase.NewInteractor(dictservice.NewHintService(
		dictoutadapter.NewHTTPHintSource(cfg.Dictionary.ServerURL, cfg.Dictionary.Timeout, logger.Named("dictionary")),
	))

	return &App{
		Config:        cfg,
		Logger:        logger,
		ShelfCLI:      shelfinadapter.NewCLIHandler(shelfUC),
		PositionCLI:   positioninadapter.NewCLIHandler(positionUC),
		ReaderCLI:     readerinadapter.NewCLIHandler(readerUC),
		ReaderTUI:     readerinadapter.NewTUIHandler(readerUC),
		SessionCLI:    sessioninadapter.NewCLIHandler(sessionUC),
		EngineCLI:     engineinadapter.NewCLIHandler(engineUC),
		RelayCLI:      relayinadapter.NewCLIHandler(relayUC),
		DictionaryCLI: dictinadapter.NewCLIHandler(dictUC),
		SyncRouter:    relayinadapter.NewRouter(relayinadapter.NewSyncHandler(positionUC, relayLogger.Named("server"))),
		RelayCron:     relayinadapter.NewCronRunner(relayUC, relayLogger.Named("cron")),
		shelf:         shelfUC,
		session:       sessionUC,
		dictionary:    dictUC,
	}, nil
}

// RunTUI runs the terminal reader; startBook, when set, is opened right away.
func RunTUI(app *App, startBook string) error {
	model := uiapp.NewModel(app.Config.DeviceID, startBook, app.shelf, app.ReaderTUI, app.session, app.dictionary)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	_, err := program.Run()
	return err
}
