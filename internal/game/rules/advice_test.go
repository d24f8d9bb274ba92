package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"Cruce/internal/game/table"
)

func TestSuggestTrumpSuit(t *testing.T) {
	hand := []table.Card{
		c(V, table.RankQueen), c(V, table.RankKing), c(V, table.RankTwo),
		c(R, table.RankAce), c(G, table.RankTen), c(D, table.RankNine),
	}
	s := SuggestTrumpSuit(hand)
	assert.Equal(t, V, s.Suit)
	// 3*10 + 9 + 40 + 0
	assert.Equal(t, 79, s.Score)
	assert.Contains(t, s.Reasoning, "has marriage")
}

func TestBiddingAdvice(t *testing.T) {
	weak := []table.Card{c(R, table.RankNine), c(G, table.RankNine), c(V, table.RankTwo)}
	assert.Equal(t, 0, BiddingAdvice(weak).Bid)

	decent := []table.Card{c(R, table.RankAce), c(G, table.RankAce), c(V, table.RankTen), c(D, table.RankTwo)}
	assert.Equal(t, 1, BiddingAdvice(decent).Bid)

	// 两组婚配 +1
	two := []table.Card{
		c(R, table.RankQueen), c(R, table.RankKing), c(G, table.RankQueen), c(G, table.RankKing),
		c(V, table.RankAce), c(D, table.RankAce),
	}
	adv := BiddingAdvice(two)
	assert.Equal(t, 3, adv.Bid)
	assert.Contains(t, adv.Reasoning, "Multiple marriages")
}

func TestExplainPlay(t *testing.T) {
	state := &table.GameState{Players: table.NewPlayers(0), CurrentPlayer: 0}
	state.Players[0].Hand = []table.Card{c(R, table.RankTwo), c(G, table.RankAce)}

	assert.Contains(t, ExplainPlay(c(R, table.RankTwo), state), "leading")

	state.CurrentTrick = []table.Card{c(R, table.RankAce)}
	assert.Contains(t, ExplainPlay(c(R, table.RankTwo), state), "valid")
	assert.Contains(t, ExplainPlay(c(G, table.RankAce), state), "not playable")

	state.CurrentTrick = []table.Card{c(D, table.RankAce)}
	state.TrumpSuit = suitPtr(G)
	assert.Contains(t, ExplainPlay(c(G, table.RankAce), state), "trump card is valid")
	assert.Contains(t, ExplainPlay(c(R, table.RankTwo), state), "must play trump")
}

func TestDetectRuleViolations(t *testing.T) {
	state := &table.GameState{Players: table.NewPlayers(0)}
	state.Players[0].Hand = []table.Card{c(R, table.RankTwo), c(G, table.RankAce)}
	state.Players[1].Hand = []table.Card{c(G, table.RankAce)}
	state.CurrentTrick = []table.Card{c(R, table.RankAce)}

	played := c(G, table.RankAce)
	v := DetectRuleViolations(state, &played)
	assert.Len(t, v, 2)
	assert.Equal(t, "Card played violates suit-following rules", v[0])

	state.Players[1].Hand = nil
	assert.Empty(t, DetectRuleViolations(state, nil))
}

func TestGameSummary(t *testing.T) {
	state := &table.GameState{
		Players:     table.NewPlayers(0),
		Bid:         2,
		Bidder:      1,
		TrumpSuit:   suitPtr(R),
		TargetScore: 15,
		GameScore:   [2]int{4, 7},
	}
	s := GameSummary(state)
	assert.Contains(t, s, "Game to 15 points")
	assert.Contains(t, s, "Bot 1 bid 2 with Roșu as trump")
	assert.Contains(t, s, "0 of 6 tricks played")
}
