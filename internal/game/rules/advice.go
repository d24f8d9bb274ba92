package rules

import (
	"fmt"
	"strings"

	"Cruce/internal/game/table"
)

type TrumpSuggestion struct {
	Suit      table.Suit `json:"suit"`
	Score     int        `json:"score"`
	Reasoning string     `json:"reasoning"`
}

// SuggestTrumpSuit 花色评分 = 张数*10 + 点数 + 婚配 40 + 大牌(10/A)*5；同分取花色顺序靠前的
func SuggestTrumpSuit(hand []table.Card) TrumpSuggestion {
	var best TrumpSuggestion
	for i, s := range table.Suits {
		cards := table.FilterBySuit(hand, s)
		pts := table.SumPoints(cards)
		marriage := table.HasMarriage(hand, s)
		high := countHigh(cards)

		score := len(cards)*10 + pts + high*5
		has := "no"
		if marriage {
			score += table.TrumpMarriage
			has = "has"
		}
		if i == 0 || score > best.Score {
			best = TrumpSuggestion{
				Suit:      s,
				Score:     score,
				Reasoning: fmt.Sprintf("%d cards, %d points, %s marriage, %d high cards", len(cards), pts, has, high),
			}
		}
	}
	return best
}

func countHigh(cards []table.Card) int {
	n := 0
	for _, c := range cards {
		if c.Rank == table.RankTen || c.Rank == table.RankAce {
			n++
		}
	}
	return n
}

type BidAdvice struct {
	Bid       int    `json:"bid"`
	Reasoning string `json:"reasoning"`
}

// BiddingAdvice 按牌点+婚配(按 20 计)估算：33/66/99 对应 1/2/3，两组以上婚配再 +1，上限 4
func BiddingAdvice(hand []table.Card) BidAdvice {
	pts := table.SumPoints(hand)
	marriages := len(table.FindMarriages(hand))
	potential := pts + marriages*table.RegularMarriage
	high := countHigh(hand)

	var adv BidAdvice
	switch {
	case potential >= 3*table.PointsPerGamePt:
		adv = BidAdvice{3, fmt.Sprintf("Strong hand with %d card points, %d marriages, and %d high cards.", pts, marriages, high)}
	case potential >= 2*table.PointsPerGamePt:
		adv = BidAdvice{2, fmt.Sprintf("Good hand with %d card points and %d marriages.", pts, marriages)}
	case potential >= table.PointsPerGamePt:
		adv = BidAdvice{1, fmt.Sprintf("Decent hand with %d card points, worth a conservative bid.", pts)}
	default:
		adv = BidAdvice{0, fmt.Sprintf("Weak hand with only %d card points. Better to pass.", pts)}
	}
	if marriages >= 2 {
		adv.Bid = min(adv.Bid+1, 4)
		adv.Reasoning += " Multiple marriages increase bid potential."
	}
	return adv
}

// ExplainPlay 说明某张牌为何可出/不可出
func ExplainPlay(card table.Card, state *table.GameState) string {
	if len(state.CurrentTrick) == 0 {
		return "You are leading this trick and can play any card."
	}
	hand := state.CurrentHand()
	lead := state.CurrentTrick[0].Suit
	if table.HasSuit(hand, lead) {
		if card.Suit == lead {
			return fmt.Sprintf("You must follow suit (%s) and this card is valid.", lead.DisplayName())
		}
		return fmt.Sprintf("You must follow suit (%s). This card is not playable.", lead.DisplayName())
	}
	trump := state.TrumpSuit
	if trump != nil && *trump != lead && table.HasSuit(hand, *trump) {
		if card.Suit == *trump {
			return "You cannot follow suit, so you must play trump. This trump card is valid."
		}
		return "You cannot follow suit and must play trump. This card is not playable."
	}
	return "You cannot follow suit and have no trump, so you can play any card."
}

// DetectRuleViolations 出牌违规 + 手牌与当前墩中的重复牌
func DetectRuleViolations(state *table.GameState, played *table.Card) []string {
	out := []string{}
	if played != nil && !IsCardPlayable(*played, state) {
		out = append(out, "Card played violates suit-following rules")
	}
	seen := map[table.Card]bool{}
	check := func(c table.Card) {
		if seen[c] {
			out = append(out, "Duplicate card detected: "+c.String())
		}
		seen[c] = true
	}
	for _, p := range state.Players {
		for _, c := range p.Hand {
			check(c)
		}
	}
	for _, c := range state.CurrentTrick {
		check(c)
	}
	return out
}

// ValidateGameState 结构一致性检查，只诊断不修复
func ValidateGameState(state *table.GameState) table.Validation {
	v := table.NewValidation()
	n := len(state.Players)
	if n != table.SeatCount {
		v.Fail(fmt.Sprintf("game must have exactly %d players, has %d", table.SeatCount, n))
	}
	for i, p := range state.Players {
		if len(p.Hand) > table.CardsPerPlayer {
			v.Fail(fmt.Sprintf("player %d has too many cards: %d", i, len(p.Hand)))
		}
	}
	if state.CurrentPlayer < 0 || state.CurrentPlayer >= n {
		v.Fail(fmt.Sprintf("invalid current player index: %d", state.CurrentPlayer))
	}
	if len(state.CurrentTrick) > table.SeatCount {
		v.Fail(fmt.Sprintf("trick cannot have more than %d cards, has %d", table.SeatCount, len(state.CurrentTrick)))
	}
	if state.Bid < 0 || state.Bid > table.MaxBid {
		v.Fail(fmt.Sprintf("invalid bid amount: %d", state.Bid))
	}
	if state.Bidder != -1 && (state.Bidder < 0 || state.Bidder >= n) {
		v.Fail(fmt.Sprintf("invalid bidder index: %d", state.Bidder))
	}
	return v
}

// GameSummary 一段文字摘要
func GameSummary(state *table.GameState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Game to %d points. Current score: Your team %d, Opponents %d.\n",
		state.TargetScore, state.GameScore[0], state.GameScore[1])
	if state.Bid > 0 && state.Bidder >= 0 && state.Bidder < len(state.Players) {
		fmt.Fprintf(&b, "%s bid %d", state.Players[state.Bidder].Name, state.Bid)
		if state.TrumpSuit != nil {
			fmt.Fprintf(&b, " with %s as trump", state.TrumpSuit.DisplayName())
		}
		b.WriteString(".\n")
	}
	fmt.Fprintf(&b, "%d of %d tricks played.", len(state.TrickHistory), table.CardsPerPlayer)
	return b.String()
}
