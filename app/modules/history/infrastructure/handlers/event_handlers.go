package historyhandlers

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/trace"

	"github.com/oh-hell-club/kachuful-bot/internal/attr"
	"github.com/oh-hell-club/kachuful-bot/internal/events"
)

// HandleGameCompleted consumes game completion events and archives the
// snapshot. Unmarshalable payloads are dropped; archive errors are returned
// so the router can retry.
func (h *HistoryHandlers) HandleGameCompleted(msg *message.Message) error {
	ctx := msg.Context()
	if correlationID := middleware.MessageCorrelationID(msg); correlationID != "" {
		ctx = attr.WithCorrelationID(ctx, correlationID)
	}

	if h.tracer != nil {
		var span trace.Span
		ctx, span = h.tracer.Start(ctx, "HistoryHandlers.HandleGameCompleted")
		defer span.End()
	}

	var payload events.GameCompletedPayloadV1
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		h.logger.ErrorContext(ctx, "Dropping malformed game completion event",
			attr.ExtractCorrelationID(ctx),
			attr.String("message_id", msg.UUID),
			attr.Error(err),
		)
		return nil
	}

	h.logger.InfoContext(ctx, "Received game completion event",
		attr.ExtractCorrelationID(ctx),
		attr.String("game_id", payload.GameID.String()),
	)

	result, err := h.service.ArchiveGame(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to archive completed game: %w", err)
	}

	if result.IsFailure() {
		// A snapshot the archive rejects will never become archivable;
		// retrying would loop forever.
		h.logger.WarnContext(ctx, "Completion event rejected by archive",
			attr.ExtractCorrelationID(ctx),
			attr.String("game_id", payload.GameID.String()),
			attr.String("reason", result.Failure.Reason),
		)
	}

	return nil
}
