package gameservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	gametypes "github.com/oh-hell-club/kachuful-bot/app/modules/game/domain"
	gamedb "github.com/oh-hell-club/kachuful-bot/app/modules/game/infrastructure/repositories"
	"github.com/oh-hell-club/kachuful-bot/internal/attr"
	"github.com/oh-hell-club/kachuful-bot/internal/eventbus"
	"github.com/oh-hell-club/kachuful-bot/internal/metrics"
	"github.com/oh-hell-club/kachuful-bot/internal/results"
)

// GameFailure is the handled-failure payload for game operations: a rejected
// submission or a guarded no-op, never an infrastructure fault.
type GameFailure struct {
	Reason string                   `json:"reason"`
	Code   gametypes.ValidationCode `json:"code,omitempty"`
}

// GameOperationResult is the outcome envelope for game operations.
type GameOperationResult = results.OperationResult[*gametypes.GameState, *GameFailure]

// noActiveGameReason is the guarded no-op reason used when a mutation
// arrives with no active game. Preserved as a handled failure so stale UI
// state never crashes the caller.
const noActiveGameReason = "no active game"

// SettingsPatch carries optional overrides applied on top of the default
// settings at game init.
type SettingsPatch struct {
	ScoringVariant    *gametypes.ScoringVariant `json:"scoring_variant,omitempty"`
	StartingCards     *int                      `json:"starting_cards,omitempty"`
	TotalRounds       *int                      `json:"total_rounds,omitempty"`
	RoundPattern      *gametypes.RoundPattern   `json:"round_pattern,omitempty"`
	TrumpPattern      *gametypes.TrumpPattern   `json:"trump_pattern,omitempty"`
	DealerRestriction *bool                     `json:"dealer_restriction,omitempty"`
}

// Apply overlays the patch onto base and returns the result.
func (p SettingsPatch) Apply(base gametypes.GameSettings) gametypes.GameSettings {
	if p.ScoringVariant != nil {
		base.ScoringVariant = *p.ScoringVariant
	}
	if p.StartingCards != nil {
		base.StartingCards = *p.StartingCards
	}
	if p.TotalRounds != nil {
		base.TotalRounds = *p.TotalRounds
	}
	if p.RoundPattern != nil {
		base.RoundPattern = *p.RoundPattern
	}
	if p.TrumpPattern != nil {
		base.TrumpPattern = *p.TrumpPattern
	}
	if p.DealerRestriction != nil {
		base.DealerRestriction = *p.DealerRestriction
	}
	return base
}

// GameService implements the Service interface.
type GameService struct {
	repo     gamedb.Repository
	eventBus eventbus.EventBus
	logger   *slog.Logger
	metrics  metrics.GameMetrics
	tracer   trace.Tracer
	db       *bun.DB
	now      func() time.Time
}

// NewGameService creates a new GameService.
func NewGameService(
	repo gamedb.Repository,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	gameMetrics metrics.GameMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *GameService {
	if logger == nil {
		logger = slog.Default()
	}
	if gameMetrics == nil {
		gameMetrics = metrics.NoOpGameMetrics{}
	}
	return &GameService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		metrics:  gameMetrics,
		tracer:   tracer,
		db:       db,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// loadActive fetches the active aggregate, translating a missing game into
// the guarded no-op failure.
func (s *GameService) loadActive(ctx context.Context, db bun.IDB) (*gametypes.GameState, *GameFailure, error) {
	game, err := s.repo.GetActive(ctx, db)
	if err != nil {
		if err == gamedb.ErrNotFound {
			return nil, &GameFailure{Reason: noActiveGameReason}, nil
		}
		return nil, nil, fmt.Errorf("failed to load active game: %w", err)
	}
	return game.ToDomain(), nil, nil
}

// saveSnapshot persists the whole aggregate.
func (s *GameService) saveSnapshot(ctx context.Context, db bun.IDB, state *gametypes.GameState) error {
	if err := s.repo.Save(ctx, db, gamedb.FromDomain(state)); err != nil {
		return fmt.Errorf("failed to persist game snapshot: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *GameService,
	ctx context.Context,
	operationName string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, "Operation triggered",
		attr.ExtractCorrelationID(ctx),
		attr.String("operation", operationName),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("operation", operationName),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *GameService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {

	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
