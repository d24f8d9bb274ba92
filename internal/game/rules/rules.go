package rules

import (
	"errors"
	"fmt"

	"Cruce/internal/game/table"
)

var (
	ErrIncompleteTrick = errors.New("trick must have exactly 4 cards")
	ErrNoLeadCard      = errors.New("trick has no lead card")
)

// TrickRank 吃墩强弱（与计分无关）：2 < 9 < Q < K < 10 < A
func TrickRank(r table.Rank) int {
	switch r {
	case table.RankTwo:
		return 0
	case table.RankNine:
		return 1
	case table.RankQueen:
		return 2
	case table.RankKing:
		return 3
	case table.RankTen:
		return 4
	case table.RankAce:
		return 5
	default:
		return -1
	}
}

func isTrump(c table.Card, trump *table.Suit) bool {
	return trump != nil && c.Suit == *trump
}

// CanPlay 出牌合法性：首家随意；能跟花色必须跟；不能跟则有将必须出将
func CanPlay(card table.Card, hand, trick []table.Card, trump *table.Suit) bool {
	if len(trick) == 0 {
		return true
	}
	lead := trick[0].Suit
	if table.HasSuit(hand, lead) {
		return card.Suit == lead
	}
	if trump != nil && *trump != lead && table.HasSuit(hand, *trump) {
		return card.Suit == *trump
	}
	return true
}

// IsCardPlayable 以当前行动座位的手牌判断
func IsCardPlayable(card table.Card, state *table.GameState) bool {
	return CanPlay(card, state.CurrentHand(), state.CurrentTrick, state.TrumpSuit)
}

// PlayableCards 手牌中的合法子集（保持手牌顺序）
func PlayableCards(hand, trick []table.Card, trump *table.Suit) []table.Card {
	out := make([]table.Card, 0, len(hand))
	for _, c := range hand {
		if CanPlay(c, hand, trick, trump) {
			out = append(out, c)
		}
	}
	return out
}

// CompareForTrick >0 表示 a 压过 b，<0 表示 b 压过 a，0 表示都不能赢
func CompareForTrick(a, b table.Card, lead table.Suit, trump *table.Suit) int {
	at, bt := isTrump(a, trump), isTrump(b, trump)
	switch {
	case at && !bt:
		return 1
	case bt && !at:
		return -1
	case at && bt:
		return TrickRank(a.Rank) - TrickRank(b.Rank)
	}
	al, bl := a.Suit == lead, b.Suit == lead
	switch {
	case al && !bl:
		return 1
	case bl && !al:
		return -1
	case al && bl:
		return TrickRank(a.Rank) - TrickRank(b.Rank)
	}
	return 0
}

// LeadingPosition 当前（可能未满）一墩中领先牌的位置
func LeadingPosition(trick []table.Card, trump *table.Suit) (int, error) {
	if len(trick) == 0 {
		return 0, ErrNoLeadCard
	}
	lead := trick[0].Suit
	best := 0
	for i := 1; i < len(trick); i++ {
		if CompareForTrick(trick[i], trick[best], lead, trump) > 0 {
			best = i
		}
	}
	return best, nil
}

// DetermineTrickWinner 满 4 张的一墩，返回获胜位置（0-3）
func DetermineTrickWinner(trick []table.Card, trump *table.Suit) (int, error) {
	if len(trick) != table.SeatCount {
		return 0, fmt.Errorf("%w: got %d", ErrIncompleteTrick, len(trick))
	}
	return LeadingPosition(trick, trump)
}

// DetermineTrickWinnerSeat 把位置映射回绝对座位
func DetermineTrickWinnerSeat(trick []table.Card, trump *table.Suit, leadingPlayer int) (int, error) {
	pos, err := DetermineTrickWinner(trick, trump)
	if err != nil {
		return 0, err
	}
	return (leadingPlayer + pos) % table.SeatCount, nil
}

func TrickPoints(trick []table.Card) int {
	return table.SumPoints(trick)
}

// CanAnnounceMarriage 只有首家出 Q/K 且手里有同花色另一张时才可宣布
func CanAnnounceMarriage(card table.Card, hand []table.Card, isLeadingCard bool) bool {
	if !isLeadingCard {
		return false
	}
	partner, ok := card.Partner()
	if !ok {
		return false
	}
	return table.ContainsCard(hand, partner)
}

// MarriagePoints 将牌花色 40，其余 20
func MarriagePoints(suit table.Suit, trump *table.Suit) int {
	if trump != nil && suit == *trump {
		return table.TrumpMarriage
	}
	return table.RegularMarriage
}

// AvailableMarriage 当前可宣布的婚配及其分值
type AvailableMarriage struct {
	Suit  table.Suit `json:"suit"`
	Value int        `json:"value"`
}

// AvailableMarriages 首家出牌时可宣布的婚配；叫牌人首出且未定将时按将牌计分
func AvailableMarriages(state *table.GameState) []AvailableMarriage {
	out := []AvailableMarriage{}
	if state.Phase != table.PhasePlaying || len(state.CurrentTrick) != 0 {
		return out
	}
	for _, m := range table.FindMarriages(state.CurrentHand()) {
		trump := state.TrumpSuit
		if trump == nil && state.CurrentPlayer == state.Bidder {
			s := m.Suit
			trump = &s
		}
		out = append(out, AvailableMarriage{Suit: m.Suit, Value: MarriagePoints(m.Suit, trump)})
	}
	return out
}
