package dealer

import (
	"fmt"
	"math/rand"
	"sort"

	"Cruce/internal/game/table"
)

// Dealer 只负责洗牌与发牌（无规则判断）
type Dealer struct {
	rnd *rand.Rand
}

func NewDealer(seed int64) *Dealer {
	return &Dealer{rnd: rand.New(rand.NewSource(seed))}
}

// CreateDeck 生成一副新的 24 张牌并洗好；每次返回新的切片
func (d *Dealer) CreateDeck() []table.Card {
	deck := make([]table.Card, 0, table.DeckSize)
	for _, s := range table.Suits {
		for _, r := range table.Ranks {
			deck = append(deck, table.Card{Suit: s, Rank: r})
		}
	}
	d.shuffle(deck)
	return deck
}

// Fisher–Yates
func (d *Dealer) shuffle(deck []table.Card) {
	for i := len(deck) - 1; i > 0; i-- {
		j := d.rnd.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// Deal 从座位 0 开始轮流每人一张，直到每人 perPlayer 张；原地写入手牌，返回剩余牌
func Deal(deck []table.Card, players []table.Player, perPlayer int) ([]table.Card, error) {
	need := perPlayer * len(players)
	if need > len(deck) {
		return deck, fmt.Errorf("deck has %d cards, need %d", len(deck), need)
	}
	for i := range players {
		players[i].Hand = make([]table.Card, 0, perPlayer)
	}
	next := 0
	for round := 0; round < perPlayer; round++ {
		for i := range players {
			players[i].Hand = append(players[i].Hand, deck[next])
			next++
		}
	}
	for i := range players {
		table.SortHand(players[i].Hand)
	}
	return deck[next:], nil
}

// ValidateDeck 检查总张数、每花色张数和总点数
func ValidateDeck(deck []table.Card) table.Validation {
	v := table.NewValidation()
	if len(deck) != table.DeckSize {
		v.Fail(fmt.Sprintf("deck has %d cards, expected %d", len(deck), table.DeckSize))
	}
	perSuit := map[table.Suit]int{}
	for _, c := range deck {
		perSuit[c.Suit]++
	}
	for _, s := range table.Suits {
		if perSuit[s] != table.CardsPerSuit {
			v.Fail(fmt.Sprintf("suit %s has %d cards, expected %d", s, perSuit[s], table.CardsPerSuit))
		}
	}
	if pts := table.SumPoints(deck); pts != table.DeckPoints {
		v.Fail(fmt.Sprintf("deck has %d points, expected %d", pts, table.DeckPoints))
	}
	for _, id := range DetectDuplicates(deck) {
		v.Fail("duplicate card " + id)
	}
	return v
}

// DetectDuplicates 返回重复出现的牌 id（按 id 排序）
func DetectDuplicates(cards []table.Card) []string {
	seen := make(map[table.Card]int, len(cards))
	for _, c := range cards {
		seen[c]++
	}
	out := []string{}
	for c, n := range seen {
		if n > 1 {
			out = append(out, c.ID())
		}
	}
	sort.Strings(out)
	return out
}
