package bot

import (
	"fmt"

	"Cruce/internal/game/rules"
	"Cruce/internal/game/table"
)

// 手牌强度权重
const (
	pointWeight      = 1.5
	marriageWeight   = 25.0
	highCardWeight   = 8.0
	suitWeight       = 5.0
	longSuitWeight   = 10.0
	longSuitFrom     = 3
	bidStrengthPerPt = 30.0
)

// 叫分门槛，对应 1/2/3/4
var bidThresholds = [...]float64{35, 50, 65, 80}

func suitDistribution(hand []table.Card) [4]int {
	var out [4]int
	for _, c := range hand {
		if c.Suit.Valid() {
			out[c.Suit]++
		}
	}
	return out
}

func countHigh(hand []table.Card) int {
	n := 0
	for _, c := range hand {
		if c.Rank == table.RankAce || c.Rank == table.RankTen {
			n++
		}
	}
	return n
}

// EvaluateHandStrength 牌点*1.5 + 婚配*25 + A/10*8 + 花色数*5 + 长套加成
func EvaluateHandStrength(hand []table.Card) float64 {
	s := float64(table.SumPoints(hand)) * pointWeight
	s += float64(len(table.FindMarriages(hand))) * marriageWeight
	s += float64(countHigh(hand)) * highCardWeight

	dist := suitDistribution(hand)
	longest := 0
	for _, n := range dist {
		if n > 0 {
			s += suitWeight
		}
		longest = max(longest, n)
	}
	if longest >= longSuitFrom {
		s += float64(longest-(longSuitFrom-1)) * longSuitWeight
	}
	return s
}

// bidForStrength 强度对应的基础叫分（0 表示不叫）
func bidForStrength(strength float64) int {
	bid := 0
	for i, th := range bidThresholds {
		if strength >= th {
			bid = i + 1
		}
	}
	return bid
}

type BidCheck struct {
	Reasonable bool   `json:"reasonable"`
	Reason     string `json:"reason"`
}

// EvaluateBid 强度是否支撑该叫分（每档约 30）
func EvaluateBid(hand []table.Card, bid int) BidCheck {
	strength := EvaluateHandStrength(hand)
	need := float64(bid) * bidStrengthPerPt
	if strength >= need {
		return BidCheck{true, fmt.Sprintf("Hand strength (%.1f) supports bid of %d", strength, bid)}
	}
	return BidCheck{false, fmt.Sprintf("Hand strength (%.1f) too low for bid of %d (need ~%.0f)", strength, bid, need)}
}

type Analysis struct {
	TotalPoints      int                       `json:"totalPoints"`
	Marriages        []rules.AvailableMarriage `json:"marriages"`
	HandStrength     int                       `json:"handStrength"`
	HighCards        int                       `json:"highCards"`
	TrumpCards       int                       `json:"trumpCards"`
	SuitDistribution map[string]int            `json:"suitDistribution"`
	RecommendedBid   int                       `json:"recommendedBid"`
}

// Analyze 手牌分析，供界面展示
func Analyze(hand []table.Card, trump *table.Suit) Analysis {
	strength := EvaluateHandStrength(hand)
	a := Analysis{
		TotalPoints:      table.SumPoints(hand),
		Marriages:        []rules.AvailableMarriage{},
		HandStrength:     int(strength + 0.5),
		HighCards:        countHigh(hand),
		SuitDistribution: map[string]int{},
		RecommendedBid:   bidForStrength(strength),
	}
	for _, m := range table.FindMarriages(hand) {
		a.Marriages = append(a.Marriages, rules.AvailableMarriage{Suit: m.Suit, Value: rules.MarriagePoints(m.Suit, trump)})
	}
	dist := suitDistribution(hand)
	for _, s := range table.Suits {
		a.SuitDistribution[s.String()] = dist[s]
	}
	if trump != nil {
		a.TrumpCards = dist[*trump]
	}
	return a
}
