package rules

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Cruce/internal/game/table"
)

func c(s table.Suit, r table.Rank) table.Card { return table.Card{Suit: s, Rank: r} }

func suitPtr(s table.Suit) *table.Suit { return &s }

const (
	R = table.SuitRosu
	G = table.SuitGhinda
	V = table.SuitVerde
	D = table.SuitDuba
)

func TestTrickRankOrder(t *testing.T) {
	order := []table.Rank{table.RankTwo, table.RankNine, table.RankQueen, table.RankKing, table.RankTen, table.RankAce}
	for i := 1; i < len(order); i++ {
		assert.Less(t, TrickRank(order[i-1]), TrickRank(order[i]))
	}
}

// 无将：同花色最大者赢
func TestScenarioLeadSuitWins(t *testing.T) {
	trick := []table.Card{c(D, table.RankTwo), c(D, table.RankAce), c(D, table.RankNine), c(D, table.RankKing)}
	pos, err := DetermineTrickWinner(trick, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	assert.Equal(t, 17, TrickPoints(trick))
}

// 有将：任何将牌压过非将
func TestScenarioTrumpBeatsLead(t *testing.T) {
	trick := []table.Card{c(D, table.RankTwo), c(D, table.RankNine), c(G, table.RankQueen), c(D, table.RankKing)}
	pos, err := DetermineTrickWinner(trick, suitPtr(G))
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	seat, err := DetermineTrickWinnerSeat(trick, suitPtr(G), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, seat)
}

func TestOffSuitNeverWins(t *testing.T) {
	trick := []table.Card{c(R, table.RankNine), c(V, table.RankAce), c(G, table.RankAce), c(R, table.RankTwo)}
	pos, err := DetermineTrickWinner(trick, suitPtr(D))
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
}

func TestIncompleteTrickIsError(t *testing.T) {
	_, err := DetermineTrickWinner([]table.Card{c(R, table.RankAce)}, nil)
	assert.ErrorIs(t, err, ErrIncompleteTrick)

	_, err = LeadingPosition(nil, nil)
	assert.ErrorIs(t, err, ErrNoLeadCard)
}

// 随机满墩：恰好一个赢家且结果确定
func TestTrickWinnerDeterministic(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	deck := make([]table.Card, 0, table.DeckSize)
	for _, s := range table.Suits {
		for _, r := range table.Ranks {
			deck = append(deck, c(s, r))
		}
	}
	for i := 0; i < 500; i++ {
		rnd.Shuffle(len(deck), func(a, b int) { deck[a], deck[b] = deck[b], deck[a] })
		trick := deck[:4]
		var trump *table.Suit
		if i%2 == 0 {
			trump = suitPtr(table.Suits[rnd.Intn(4)])
		}
		p1, err := DetermineTrickWinner(trick, trump)
		require.NoError(t, err)
		p2, _ := DetermineTrickWinner(trick, trump)
		assert.Equal(t, p1, p2)

		for j := range trick {
			if j != p1 {
				assert.Greater(t, CompareForTrick(trick[p1], trick[j], trick[0].Suit, trump), 0)
			}
		}
	}
}

func TestCanPlay(t *testing.T) {
	hand := []table.Card{c(R, table.RankTwo), c(G, table.RankAce), c(V, table.RankTen)}

	// 首家随意
	for _, card := range hand {
		assert.True(t, CanPlay(card, hand, nil, nil))
	}

	// 必须跟花色
	trick := []table.Card{c(R, table.RankAce)}
	assert.True(t, CanPlay(c(R, table.RankTwo), hand, trick, suitPtr(G)))
	assert.False(t, CanPlay(c(G, table.RankAce), hand, trick, suitPtr(G)))

	// 不能跟则必须出将
	trick = []table.Card{c(D, table.RankAce)}
	assert.True(t, CanPlay(c(G, table.RankAce), hand, trick, suitPtr(G)))
	assert.False(t, CanPlay(c(R, table.RankTwo), hand, trick, suitPtr(G)))
	assert.Equal(t, []table.Card{c(G, table.RankAce)}, PlayableCards(hand, trick, suitPtr(G)))

	// 无将可出
	assert.True(t, CanPlay(c(R, table.RankTwo), hand, trick, nil))
	assert.Len(t, PlayableCards(hand, trick, nil), 3)
}

func TestMarriage(t *testing.T) {
	hand := []table.Card{c(D, table.RankQueen), c(D, table.RankKing), c(R, table.RankQueen)}

	assert.True(t, CanAnnounceMarriage(c(D, table.RankQueen), hand, true))
	assert.True(t, CanAnnounceMarriage(c(D, table.RankKing), hand, true))
	assert.False(t, CanAnnounceMarriage(c(D, table.RankQueen), hand, false))
	assert.False(t, CanAnnounceMarriage(c(R, table.RankQueen), hand, true))
	assert.False(t, CanAnnounceMarriage(c(D, table.RankAce), hand, true))

	for _, s := range table.Suits {
		for _, tr := range table.Suits {
			want := table.RegularMarriage
			if s == tr {
				want = table.TrumpMarriage
			}
			assert.Equal(t, want, MarriagePoints(s, suitPtr(tr)))
		}
		assert.Equal(t, table.RegularMarriage, MarriagePoints(s, nil))
	}
}

func TestAvailableMarriages(t *testing.T) {
	state := &table.GameState{
		Players:       table.NewPlayers(0),
		Phase:         table.PhasePlaying,
		CurrentPlayer: 1,
		Bidder:        1,
	}
	state.Players[1].Hand = []table.Card{c(R, table.RankQueen), c(R, table.RankKing), c(V, table.RankQueen), c(V, table.RankKing)}

	// 叫牌人首出且未定将：按将牌计
	got := AvailableMarriages(state)
	assert.Equal(t, []AvailableMarriage{{R, 40}, {V, 40}}, got)

	state.TrumpSuit = suitPtr(V)
	got = AvailableMarriages(state)
	assert.Equal(t, []AvailableMarriage{{R, 20}, {V, 40}}, got)

	state.CurrentTrick = []table.Card{c(G, table.RankTwo)}
	assert.Empty(t, AvailableMarriages(state))
}

func TestIsValidBid(t *testing.T) {
	for cur := 0; cur <= 6; cur++ {
		assert.True(t, IsValidBid(0, cur))
		for b := 1; b <= 8; b++ {
			assert.Equal(t, cur < b && b <= 6, IsValidBid(b, cur), "bid=%d cur=%d", b, cur)
		}
	}
}

func TestIsBiddingComplete(t *testing.T) {
	assert.True(t, IsBiddingComplete([]int{1, 2, 3}, 4, 2))
	assert.False(t, IsBiddingComplete([]int{1, 2, 3}, 4, 0))
	assert.False(t, IsBiddingComplete([]int{1, 2}, 4, 2))
	assert.False(t, IsBiddingComplete([]int{0, 1, 2, 3}, 4, 0))
}

func TestCalculateHandResult(t *testing.T) {
	// 叫 2，队伍 0 得 70：成约
	res := CalculateHandResult([4]int{40, 20, 30, 30}, [4]int{}, 2, 0)
	assert.True(t, res.BidMade)
	assert.Equal(t, [2]int{70, 50}, res.TeamScores)
	assert.Equal(t, [2]int{2, 1}, res.GamePoints)

	// 叫 3 未成：-3
	res = CalculateHandResult([4]int{40, 20, 30, 30}, [4]int{}, 3, 2)
	assert.False(t, res.BidMade)
	assert.Equal(t, [2]int{-3, 1}, res.GamePoints)

	// 婚配分计入座位所属队伍
	res = CalculateHandResult([4]int{10, 50, 10, 50}, [4]int{0, 0, 40, 0}, 2, 1)
	assert.Equal(t, [2]int{60, 100}, res.TeamScores)
	assert.Equal(t, [2]int{1, 3}, res.GamePoints)
	assert.True(t, res.BidMade)

	// 成约仍只得 floor(total/33)：恰好 66 叫 2 得 2，65 叫 1 得 1
	res = CalculateHandResult([4]int{33, 0, 33, 0}, [4]int{}, 2, 0)
	assert.True(t, res.BidMade)
	assert.Equal(t, 2, res.GamePoints[0])
}

func TestCalculateHandResultProperty(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		var ps, ms [4]int
		for s := 0; s < 4; s++ {
			ps[s] = rnd.Intn(60)
			if rnd.Intn(4) == 0 {
				ms[s] = 20
			}
		}
		bid := 1 + rnd.Intn(6)
		bidder := rnd.Intn(4)
		res := CalculateHandResult(ps, ms, bid, bidder)
		team := table.TeamOf(bidder)
		if res.TeamScores[team] < bid*33 {
			assert.Equal(t, -bid, res.GamePoints[team])
		} else {
			assert.Equal(t, res.TeamScores[team]/33, res.GamePoints[team])
		}
		assert.Equal(t, res.TeamScores[1-team]/33, res.GamePoints[1-team])
	}
}

func TestValidateGameState(t *testing.T) {
	state := &table.GameState{Players: table.NewPlayers(0), Bidder: -1}
	assert.True(t, ValidateGameState(state).Valid)

	state.Bid = 9
	state.CurrentPlayer = 7
	state.CurrentTrick = make([]table.Card, 5)
	v := ValidateGameState(state)
	assert.False(t, v.Valid)
	assert.Len(t, v.Errors, 3)
	// 只诊断
	assert.Equal(t, 9, state.Bid)
}
