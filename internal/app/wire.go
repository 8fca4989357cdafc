package app

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchday/platform/internal/boxscore"
	"github.com/matchday/platform/internal/handler"
	"github.com/matchday/platform/internal/infra"
	"github.com/matchday/platform/internal/ledger"
	"github.com/matchday/platform/internal/repository"
	"github.com/matchday/platform/internal/service"
	"github.com/matchday/platform/internal/standings"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool   *pgxpool.Pool
	Store  boxscore.Store
	Hub    *infra.WSHub
	Logger *slog.Logger
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	logger := deps.Logger

	// Repositories
	matchRepo := repository.NewMatchRepository()
	eventRepo := repository.NewEventRepository()
	champRepo := repository.NewChampionshipRepository()
	standingRepo := repository.NewStandingRepository()
	outboxRepo := repository.NewOutboxRepository()

	// Engines
	ledgerEngine := ledger.NewEngine(eventRepo, outboxRepo)
	recomputer := standings.NewRecomputer(pool, champRepo, matchRepo, eventRepo, standingRepo, outboxRepo, logger)

	// Services
	matchControl := service.NewMatchControl(pool, matchRepo, champRepo, outboxRepo, ledgerEngine, recomputer, deps.Store, deps.Hub, logger)
	standingsSvc := service.NewStandings(pool, standingRepo, champRepo, recomputer)

	// Handlers
	matchHandler := handler.NewMatchHandler(matchControl)
	standingsHandler := handler.NewStandingsHandler(standingsSvc)
	wsHandler := handler.NewWSHandler(deps.Hub)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS)
	r.Use(handler.JSONContentType)

	// Health
	r.Get("/health", handler.HealthHandler(pool))

	r.Route("/matches", func(r chi.Router) {
		r.Post("/", matchHandler.CreateFixture)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", matchHandler.GetMatch)
			r.Post("/commands", matchHandler.Command)
			r.Post("/clock", matchHandler.Clock)
			r.Get("/events", matchHandler.ListEvents)
			r.Post("/events", matchHandler.AppendEvent)
			r.Get("/boxscore", matchHandler.BoxScore)
			r.Post("/replay", matchHandler.Replay)
			r.Get("/live", wsHandler.Subscribe)
		})
	})

	r.Route("/championships/{id}", func(r chi.Router) {
		r.Get("/matches", matchHandler.ListMatches)
		r.Get("/standings", standingsHandler.GetTable)
		r.Post("/standings/recompute", standingsHandler.Recompute)
	})

	return r
}
