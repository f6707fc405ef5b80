package gametypes

import (
	"fmt"
	"hash/fnv"
)

// ValidationCode identifies a validation failure category.
type ValidationCode string

const (
	CodeEmptyBidSet                ValidationCode = "EmptyBidSet"
	CodeBidOutOfRange              ValidationCode = "BidOutOfRange"
	CodeDealerRestrictionViolation ValidationCode = "DealerRestrictionViolation"
	CodeTrickSumMismatch           ValidationCode = "TrickSumMismatch"
)

// ValidationResult reports the outcome of a rules check. Invalid input is a
// routine, user-correctable state, so it is a value rather than an error.
type ValidationResult struct {
	Valid   bool           `json:"valid"`
	Code    ValidationCode `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
}

// ValidResult returns a passing validation result.
func ValidResult() ValidationResult {
	return ValidationResult{Valid: true}
}

// InvalidResult returns a failing validation result with the given code.
func InvalidResult(code ValidationCode, message string) ValidationResult {
	return ValidationResult{Valid: false, Code: code, Message: message}
}

// CalculateScore computes a player's round score from their predicted and
// actual trick counts. Unknown variants fall back to standard scoring.
func CalculateScore(predicted, actual int, variant ScoringVariant) int {
	switch variant {
	case ScoringStandard:
		if predicted == actual {
			return 10 + predicted
		}
		return 0

	case ScoringHighIncentive:
		if predicted == actual {
			return (predicted+1)*10 + predicted
		}
		diff := predicted - actual
		if diff < 0 {
			diff = -diff
		}
		return -diff

	case ScoringMediumIncentive:
		if predicted == actual {
			return 10 * predicted
		}
		return 0

	case ScoringPointPerTrick:
		score := actual
		if predicted == actual {
			score += 10
		}
		return score

	default:
		if predicted == actual {
			return 10 + predicted
		}
		return 0
	}
}

// ValidateBids checks a full bid set for a round. The dealer restriction
// ("hook" rule) forbids the bid total from equaling the tricks available, so
// at least one player must miss. The dealer bids last, so in practice the
// restriction lands on the dealer's choice; the violating value is attributed
// to the dealer's bid in the message.
func ValidateBids(bids []PlayerBid, totalTricks, dealerIndex int, dealerRestriction bool) ValidationResult {
	if len(bids) == 0 {
		return InvalidResult(CodeEmptyBidSet, "no bids submitted")
	}

	for _, bid := range bids {
		if bid.Predicted < 0 || bid.Predicted > totalTricks {
			return InvalidResult(CodeBidOutOfRange,
				fmt.Sprintf("bid must be between 0 and %d", totalTricks))
		}
	}

	if !dealerRestriction {
		return ValidResult()
	}

	sumOfBids := 0
	for _, bid := range bids {
		sumOfBids += bid.Predicted
	}

	if sumOfBids == totalTricks {
		dealerBid := 0
		if dealerIndex >= 0 && dealerIndex < len(bids) {
			dealerBid = bids[dealerIndex].Predicted
		}
		return InvalidResult(CodeDealerRestrictionViolation,
			fmt.Sprintf("dealer cannot bid %d: total bids cannot equal total tricks (%d)", dealerBid, totalTricks))
	}

	return ValidResult()
}

// ValidateTricksTotal enforces trick conservation: the tricks taken across
// all players must equal the cards dealt that round.
func ValidateTricksTotal(tricks []int, expectedTotal int) ValidationResult {
	sum := 0
	for _, t := range tricks {
		sum += t
	}

	if sum != expectedTotal {
		return InvalidResult(CodeTrickSumMismatch,
			fmt.Sprintf("total tricks (%d) must equal cards dealt (%d)", sum, expectedTotal))
	}

	return ValidResult()
}

// CardsDealt returns the number of cards dealt in the given 1-indexed round.
func CardsDealt(roundNumber int, settings GameSettings) int {
	if settings.RoundPattern == RoundPatternDownOnly {
		cards := settings.StartingCards - (roundNumber - 1)
		if cards < 1 {
			return 1
		}
		return cards
	}

	// down_up pattern: descend to the midpoint, then climb from one card.
	midPoint := (settings.TotalRounds + 1) / 2

	if roundNumber <= midPoint {
		return settings.StartingCards - (roundNumber - 1)
	}
	return 1 + (roundNumber - midPoint)
}

// trumpCycle is the fixed rotation order for the rotating trump pattern.
var trumpCycle = [5]TrumpSuit{TrumpSpades, TrumpDiamonds, TrumpClubs, TrumpHearts, TrumpNone}

// RotatingTrumpSuit returns the trump suit for the given 1-indexed round
// under the rotating pattern.
func RotatingTrumpSuit(roundNumber int) TrumpSuit {
	return trumpCycle[(roundNumber-1)%5]
}

// TrumpForRound picks the trump suit for a round, honoring the configured
// trump pattern. The random pattern is deterministic per game: the choice is
// derived from the game seed and round number, so reloading a snapshot never
// changes an already-announced trump.
func TrumpForRound(roundNumber int, settings GameSettings, gameSeed uint64) TrumpSuit {
	switch settings.TrumpPattern {
	case TrumpPatternFixed:
		return TrumpSpades
	case TrumpPatternRandom:
		h := fnv.New64a()
		var buf [16]byte
		seed := gameSeed
		for i := 0; i < 8; i++ {
			buf[i] = byte(seed >> (8 * i))
		}
		n := uint64(roundNumber)
		for i := 0; i < 8; i++ {
			buf[8+i] = byte(n >> (8 * i))
		}
		h.Write(buf[:])
		return trumpCycle[h.Sum64()%uint64(len(trumpCycle))]
	default:
		return RotatingTrumpSuit(roundNumber)
	}
}

// DealerIndexForRound derives the dealer seat for a 1-indexed round. The
// dealer rotates one seat per round; round number is the single source of
// truth, so extending a game never drifts the rotation.
func DealerIndexForRound(roundNumber, totalPlayers, startingDealerIndex int) int {
	return (startingDealerIndex + (roundNumber - 1)) % totalPlayers
}

// BiddingOrder returns seat indices in bidding order: clockwise starting from
// the seat after the dealer, with the dealer bidding last.
func BiddingOrder(dealerIndex, totalPlayers int) []int {
	order := make([]int, 0, totalPlayers)
	for i := 1; i <= totalPlayers; i++ {
		order = append(order, (dealerIndex+i)%totalPlayers)
	}
	return order
}

// IsGameComplete reports whether the game has run past its final round.
func IsGameComplete(currentRound, totalRounds int) bool {
	return currentRound > totalRounds
}

// ForbiddenDealerBid returns the single bid value the dealer may not choose
// given everyone else's bids. The second return is false when every value in
// range is legal for the dealer.
func ForbiddenDealerBid(bids []PlayerBid, dealerIndex, cardsDealt int) (int, bool) {
	sumOthers := 0
	for i, bid := range bids {
		if i == dealerIndex {
			continue
		}
		sumOthers += bid.Predicted
	}

	forbidden := cardsDealt - sumOthers
	if forbidden < 0 || forbidden > cardsDealt {
		return 0, false
	}
	return forbidden, true
}

// SuitSymbol returns the display glyph for a trump suit.
func SuitSymbol(suit TrumpSuit) string {
	switch suit {
	case TrumpSpades:
		return "♠"
	case TrumpHearts:
		return "♥"
	case TrumpDiamonds:
		return "♦"
	case TrumpClubs:
		return "♣"
	case TrumpNone:
		return "—"
	default:
		return ""
	}
}
