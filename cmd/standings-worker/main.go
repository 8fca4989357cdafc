package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/infra"
	"github.com/matchday/platform/internal/repository"
	"github.com/matchday/platform/internal/standings"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("standings worker failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("standings-worker connected to postgres")

	matchRepo := repository.NewMatchRepository()
	eventRepo := repository.NewEventRepository()
	champRepo := repository.NewChampionshipRepository()
	standingRepo := repository.NewStandingRepository()
	outboxRepo := repository.NewOutboxRepository()

	recomputer := standings.NewRecomputer(pool, champRepo, matchRepo, eventRepo, standingRepo, outboxRepo, logger)

	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()

	notifier := &recomputeNotifier{recomputer: recomputer, logger: logger}
	poller := infra.NewOutboxPoller(pool, outboxRepo, producer, notifier, cfg.OutboxPollInterval, cfg.OutboxBatchSize, logger)
	poller.Start(ctx)

	<-ctx.Done()
	logger.Info("standings-worker shutting down")
	return nil
}

// recomputeNotifier triggers a full standings recomputation whenever a match
// finishes or a finished match's score is corrected.
type recomputeNotifier struct {
	recomputer *standings.Recomputer
	logger     *slog.Logger
}

type recomputePayload struct {
	ChampionshipID uuid.UUID `json:"championship_id"`
	Group          string    `json:"group"`
}

func (n *recomputeNotifier) Notify(ctx context.Context, draft domain.OutboxDraft) {
	switch draft.EventType {
	case domain.OutboxMatchFinished, domain.OutboxScoreAdjusted:
	default:
		return
	}

	var p recomputePayload
	if err := json.Unmarshal(draft.Payload, &p); err != nil || p.ChampionshipID == uuid.Nil {
		n.logger.Error("unreadable recompute payload", "event_id", draft.EventID, "error", err)
		return
	}

	if err := n.recomputer.Trigger(ctx, p.ChampionshipID, p.Group); err != nil {
		n.logger.Error("standings recomputation failed",
			"championship_id", p.ChampionshipID, "group", p.Group, "error", err)
	}
}
