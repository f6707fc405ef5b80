// Package events defines the topics and payloads exchanged between modules.
package events

import (
	"time"

	"github.com/google/uuid"

	gametypes "github.com/oh-hell-club/kachuful-bot/app/modules/game/domain"
)

// GameCompletedV1 is published when a game transitions to completed, either
// by running past its final round or by an explicit end.
const GameCompletedV1 = "game.completed.v1"

// GameCompletedPayloadV1 carries a full, independent snapshot of the
// completed aggregate. Consumers must not assume the live game still matches
// it by the time they run.
type GameCompletedPayloadV1 struct {
	GameID      uuid.UUID           `json:"game_id"`
	CompletedAt time.Time           `json:"completed_at"`
	Snapshot    gametypes.GameState `json:"snapshot"`
}
