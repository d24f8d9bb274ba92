package table

import "sort"

// Marriage 手中同花色的 Q+K
type Marriage struct {
	Suit  Suit `json:"suit"`
	Queen Card `json:"queen"`
	King  Card `json:"king"`
}

// FindMarriages 按花色顺序列出手中所有婚配
func FindMarriages(hand []Card) []Marriage {
	out := []Marriage{}
	for _, s := range Suits {
		q := Card{Suit: s, Rank: RankQueen}
		k := Card{Suit: s, Rank: RankKing}
		if ContainsCard(hand, q) && ContainsCard(hand, k) {
			out = append(out, Marriage{Suit: s, Queen: q, King: k})
		}
	}
	return out
}

// HasMarriage 是否持有某花色的婚配
func HasMarriage(hand []Card, suit Suit) bool {
	return ContainsCard(hand, Card{Suit: suit, Rank: RankQueen}) &&
		ContainsCard(hand, Card{Suit: suit, Rank: RankKing})
}

// SortHand 展示顺序：先花色，再牌面升序（仅用于展示）
func SortHand(hand []Card) {
	sort.SliceStable(hand, func(i, j int) bool {
		if hand[i].Suit != hand[j].Suit {
			return hand[i].Suit < hand[j].Suit
		}
		return hand[i].Rank < hand[j].Rank
	})
}

// Validation 诊断结果，只报告不修复
type Validation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func (v *Validation) Fail(msg string) {
	v.Valid = false
	v.Errors = append(v.Errors, msg)
}

func NewValidation() Validation {
	return Validation{Valid: true, Errors: []string{}}
}
