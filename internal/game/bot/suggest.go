package bot

import (
	"fmt"

	"Cruce/internal/game/rules"
	"Cruce/internal/game/table"
)

// Suggestion 给真人座位的出牌提示
type Suggestion struct {
	Card             table.Card `json:"card"`
	AnnounceMarriage bool       `json:"announceMarriage"`
	Reason           string     `json:"reason"`
}

// Suggest 确定性提示，不使用随机
func Suggest(hand, trick []table.Card, trump *table.Suit) (Suggestion, bool) {
	if len(hand) == 0 {
		return Suggestion{}, false
	}
	legal := rules.PlayableCards(hand, trick, trump)
	if len(legal) == 0 {
		return Suggestion{Card: hand[0], Reason: "No playable cards available"}, true
	}

	if len(trick) == 0 {
		if card, ok := marriageLead(hand, trump); ok {
			pts := rules.MarriagePoints(card.Suit, trump)
			return Suggestion{
				Card:             card,
				AnnounceMarriage: true,
				Reason:           fmt.Sprintf("Play marriage in %s for %d points", card.Suit.DisplayName(), pts),
			}, true
		}
		var scoring []table.Card
		for _, c := range legal {
			if c.Points() > 0 {
				scoring = append(scoring, c)
			}
		}
		if len(scoring) > 0 {
			best := highest(scoring)
			return Suggestion{Card: best, Reason: fmt.Sprintf("Lead with high-value card (%d points)", best.Points())}, true
		}
		return Suggestion{Card: legal[0], Reason: "Lead with any card"}, true
	}

	if winning := winningCards(legal, trick, trump); len(winning) > 0 {
		return Suggestion{Card: lowest(winning), Reason: "Win trick with lowest winning card"}, true
	}
	for _, c := range legal {
		if c.Points() == 0 {
			return Suggestion{Card: c, Reason: "Cannot win, play low card to save points"}, true
		}
	}
	return Suggestion{Card: lowest(legal), Reason: "Cannot win, play lowest available card"}, true
}
