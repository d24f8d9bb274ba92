package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit 花色（罗马尼亚牌组的四种花色）
type Suit int

const (
	SuitRosu Suit = iota
	SuitGhinda
	SuitVerde
	SuitDuba
)

// Suits 固定花色顺序，同时也是手牌展示顺序
var Suits = [4]Suit{SuitRosu, SuitGhinda, SuitVerde, SuitDuba}

func (s Suit) String() string {
	switch s {
	case SuitRosu:
		return "rosu"
	case SuitGhinda:
		return "ghinda"
	case SuitVerde:
		return "verde"
	case SuitDuba:
		return "duba"
	default:
		return "?"
	}
}

// DisplayName 罗马尼亚语花色名
func (s Suit) DisplayName() string {
	switch s {
	case SuitRosu:
		return "Roșu"
	case SuitGhinda:
		return "Ghindă"
	case SuitVerde:
		return "Verde"
	case SuitDuba:
		return "Dubă"
	default:
		return "?"
	}
}

func (s Suit) Valid() bool {
	return s >= SuitRosu && s <= SuitDuba
}

func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid suit %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Suit) UnmarshalText(b []byte) error {
	v, err := ParseSuit(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func ParseSuit(v string) (Suit, error) {
	switch strings.ToLower(v) {
	case "rosu", "r":
		return SuitRosu, nil
	case "ghinda", "g":
		return SuitGhinda, nil
	case "verde", "v":
		return SuitVerde, nil
	case "duba", "d":
		return SuitDuba, nil
	default:
		return SuitRosu, fmt.Errorf("invalid suit %q", v)
	}
}

// Rank 牌面值；数值即牌面（3 相当于 Q，4 相当于 K）
type Rank int

const (
	RankTwo   Rank = 2
	RankQueen Rank = 3
	RankKing  Rank = 4
	RankNine  Rank = 9
	RankTen   Rank = 10
	RankAce   Rank = 11
)

// Ranks 按牌面升序
var Ranks = [6]Rank{RankTwo, RankQueen, RankKing, RankNine, RankTen, RankAce}

func (r Rank) Valid() bool {
	switch r {
	case RankTwo, RankQueen, RankKing, RankNine, RankTen, RankAce:
		return true
	}
	return false
}

// Points 计分点数：2→2, Q→3, K→4, 9→0, 10→10, A→11
func (r Rank) Points() int {
	switch r {
	case RankTwo:
		return 2
	case RankQueen:
		return 3
	case RankKing:
		return 4
	case RankTen:
		return 10
	case RankAce:
		return 11
	default:
		return 0
	}
}

func (r Rank) DisplayName() string {
	switch r {
	case RankTwo:
		return "Doiar"
	case RankQueen:
		return "Treiar"
	case RankKing:
		return "Pătrar"
	case RankNine:
		return "Nouar"
	case RankTen:
		return "Zecar"
	case RankAce:
		return "As"
	default:
		return "?"
	}
}

// Card 不可变的牌值
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// ID 由 (suit, rank) 派生的稳定标识，例如 "rosu-3"
func (c Card) ID() string {
	return fmt.Sprintf("%s-%d", c.Suit, int(c.Rank))
}

func (c Card) Points() int {
	return c.Rank.Points()
}

func (c Card) String() string {
	return fmtCard(c)
}

func fmtCard(c Card) string {
	return fmt.Sprintf("%s %s", c.Rank.DisplayName(), c.Suit.DisplayName())
}

// ParseCardID 解析 "rosu-3" 形式的 id
func ParseCardID(id string) (Card, error) {
	i := strings.LastIndex(id, "-")
	if i <= 0 {
		return Card{}, fmt.Errorf("invalid card id %q", id)
	}
	s, err := ParseSuit(id[:i])
	if err != nil {
		return Card{}, err
	}
	v, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card id %q", id)
	}
	r := Rank(v)
	if !r.Valid() {
		return Card{}, fmt.Errorf("invalid rank in card id %q", id)
	}
	return Card{Suit: s, Rank: r}, nil
}

// IsMarriageRank Q 或 K
func (c Card) IsMarriageRank() bool {
	return c.Rank == RankQueen || c.Rank == RankKing
}

// Partner 返回同花色的婚配牌（Q↔K）；非 Q/K 返回 false
func (c Card) Partner() (Card, bool) {
	switch c.Rank {
	case RankQueen:
		return Card{Suit: c.Suit, Rank: RankKing}, true
	case RankKing:
		return Card{Suit: c.Suit, Rank: RankQueen}, true
	}
	return Card{}, false
}

// 牌组常量
const (
	DeckSize          = 24
	CardsPerSuit      = 6
	CardsPerPlayer    = 6
	SeatCount         = 4
	DeckPoints        = 120
	MaxMarriagePoints = 100
	MaxHandPoints     = 220
	PointsPerGamePt   = 33
	TrumpMarriage     = 40
	RegularMarriage   = 20
	MaxBid            = 6
	DefaultTarget     = 15
)

func ContainsCard(cards []Card, card Card) bool {
	return IndexOfCard(cards, card) >= 0
}

func IndexOfCard(cards []Card, card Card) int {
	for i, c := range cards {
		if c == card {
			return i
		}
	}
	return -1
}

// RemoveCard 从手牌中移除一张牌
func RemoveCard(hand *[]Card, card Card) bool {
	i := IndexOfCard(*hand, card)
	if i < 0 {
		return false
	}
	*hand = append((*hand)[:i], (*hand)[i+1:]...)
	return true
}

func HasSuit(cards []Card, suit Suit) bool {
	for _, c := range cards {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

func FilterBySuit(cards []Card, suit Suit) []Card {
	out := []Card{}
	for _, c := range cards {
		if c.Suit == suit {
			out = append(out, c)
		}
	}
	return out
}

func SumPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points()
	}
	return total
}
