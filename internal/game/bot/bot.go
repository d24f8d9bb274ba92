package bot

import (
	"math/rand"
	"sort"

	"Cruce/internal/game/rules"
	"Cruce/internal/game/table"
)

// DefaultDifficulty 每个座位固定的难度系数
var DefaultDifficulty = [table.SeatCount]float64{0.3, 0.5, 0.4, 0.6}

const (
	aggressiveChance   = 0.2
	conservativeChance = 0.2
	// 难度达到此值的座位首出偏向将牌/A
	strategicLead = 0.5
	// 跟牌时争墩的概率 = 难度 * contestScale
	contestScale = 1.5
	leadPool     = 3
)

// Play 机器人选择的出牌
type Play struct {
	Card             table.Card `json:"card"`
	AnnounceMarriage bool       `json:"announceMarriage"`
}

// Bot 只读取输入、返回决策，不修改对局状态
type Bot struct {
	rnd        *rand.Rand
	difficulty [table.SeatCount]float64
}

func New(seed int64) *Bot {
	return &Bot{
		rnd:        rand.New(rand.NewSource(seed)),
		difficulty: DefaultDifficulty,
	}
}

// WithDifficulty 覆盖座位难度表
func (b *Bot) WithDifficulty(d [table.SeatCount]float64) *Bot {
	b.difficulty = d
	return b
}

func (b *Bot) Difficulty(seat int) float64 {
	if seat < 0 || seat >= table.SeatCount || b.difficulty[seat] <= 0 {
		return 1.0
	}
	return b.difficulty[seat]
}

// Bid 强度/难度映射到 1-4，±1 随机扰动；不高于当前叫分则不叫（0）
func (b *Bot) Bid(hand []table.Card, currentBid, seat int) int {
	bid := bidForStrength(EvaluateHandStrength(hand) / b.Difficulty(seat))

	r := b.rnd.Float64()
	switch {
	case r > 1-aggressiveChance && bid > 0:
		bid++
	case r < conservativeChance && bid > 1:
		bid--
	}
	bid = min(bid, table.MaxBid)
	if bid > currentBid {
		return bid
	}
	return 0
}

// Play 首出：优先宣布婚配，否则从高分牌中随机挑；跟牌：能赢出最小赢牌，否则垫 0 分牌或最小牌
func (b *Bot) Play(hand, trick []table.Card, trump *table.Suit, seat int) Play {
	legal := rules.PlayableCards(hand, trick, trump)
	if len(legal) == 0 {
		return Play{}
	}
	if len(trick) == 0 {
		if card, ok := marriageLead(hand, trump); ok {
			return Play{Card: card, AnnounceMarriage: true}
		}
		return Play{Card: b.lead(legal, trump, seat)}
	}
	return Play{Card: b.follow(legal, trick, trump, seat)}
}

// marriageLead 分值最高的婚配（将牌优先，同分取花色顺序靠前），出 K
func marriageLead(hand []table.Card, trump *table.Suit) (table.Card, bool) {
	ms := table.FindMarriages(hand)
	if len(ms) == 0 {
		return table.Card{}, false
	}
	best := ms[0]
	for _, m := range ms[1:] {
		if rules.MarriagePoints(m.Suit, trump) > rules.MarriagePoints(best.Suit, trump) {
			best = m
		}
	}
	return best.King, true
}

func (b *Bot) lead(legal []table.Card, trump *table.Suit, seat int) table.Card {
	if b.Difficulty(seat) >= strategicLead {
		if trump != nil {
			if trumps := table.FilterBySuit(legal, *trump); len(trumps) > 0 && b.rnd.Float64() > 0.3 {
				return highest(trumps)
			}
		}
		var aces []table.Card
		for _, c := range legal {
			if c.Rank == table.RankAce {
				aces = append(aces, c)
			}
		}
		if len(aces) > 0 && b.rnd.Float64() > 0.4 {
			return aces[b.rnd.Intn(len(aces))]
		}
	}

	sorted := append([]table.Card(nil), legal...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Points() > sorted[j].Points()
	})
	top := sorted[:min(leadPool, len(sorted))]
	return top[b.rnd.Intn(len(top))]
}

func (b *Bot) follow(legal, trick []table.Card, trump *table.Suit, seat int) table.Card {
	winning := winningCards(legal, trick, trump)
	if len(winning) > 0 && b.rnd.Float64() < b.Difficulty(seat)*contestScale {
		return lowest(winning)
	}
	var zero []table.Card
	for _, c := range legal {
		if c.Points() == 0 {
			zero = append(zero, c)
		}
	}
	if len(zero) > 0 {
		return zero[b.rnd.Intn(len(zero))]
	}
	return lowest(legal)
}

// winningCards 出了之后能领先当前墩的合法牌
func winningCards(legal, trick []table.Card, trump *table.Suit) []table.Card {
	pos, err := rules.LeadingPosition(trick, trump)
	if err != nil {
		return nil
	}
	best := trick[pos]
	lead := trick[0].Suit
	out := []table.Card{}
	for _, c := range legal {
		if rules.CompareForTrick(c, best, lead, trump) > 0 {
			out = append(out, c)
		}
	}
	return out
}

func highest(cards []table.Card) table.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if rules.TrickRank(c.Rank) > rules.TrickRank(best.Rank) {
			best = c
		}
	}
	return best
}

// lowest 吃墩顺序最小；同级取点数小的
func lowest(cards []table.Card) table.Card {
	low := cards[0]
	for _, c := range cards[1:] {
		rc, rl := rules.TrickRank(c.Rank), rules.TrickRank(low.Rank)
		if rc < rl || (rc == rl && c.Points() < low.Points()) {
			low = c
		}
	}
	return low
}
