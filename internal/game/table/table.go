package table

import "fmt"

// Phase 对局阶段
type Phase int

const (
	PhaseBidding Phase = iota
	PhasePlaying
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseBidding:
		return "bidding"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Player 座位（0-3），0/2 对 1/3 组队
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Hand    []Card `json:"hand"`
	IsHuman bool   `json:"isHuman"`
	Score   int    `json:"score"`
}

// MarriageAnnouncement 本手牌内宣布的婚配（手牌结束时才计入得分）
type MarriageAnnouncement struct {
	Seat  int  `json:"seat"`
	Suit  Suit `json:"suit"`
	Value int  `json:"value"`
}

// TrickResult 已完成的一墩
type TrickResult struct {
	Leader int    `json:"leader"`
	Winner int    `json:"winner"`
	Cards  []Card `json:"cards"`
	Points int    `json:"points"`
}

// HandSummary 一手牌结算结果
type HandSummary struct {
	Hand         int                    `json:"hand"`
	PlayerScores [SeatCount]int         `json:"playerScores"`
	TeamScores   [2]int                 `json:"teamScores"`
	GamePoints   [2]int                 `json:"gamePoints"`
	BidMade      bool                   `json:"bidMade"`
	Bid          int                    `json:"bid"`
	Bidder       int                    `json:"bidder"`
	Marriages    []MarriageAnnouncement `json:"marriages"`
}

// GameState 唯一的可变聚合，只由状态机修改
type GameState struct {
	Players       []Player               `json:"players"`
	Phase         Phase                  `json:"phase"`
	CurrentPlayer int                    `json:"currentPlayer"`
	TrumpSuit     *Suit                  `json:"trumpSuit"`
	CurrentTrick  []Card                 `json:"currentTrick"`
	LeadingPlayer int                    `json:"leadingPlayer"`
	Bid           int                    `json:"bid"`
	Bidder        int                    `json:"bidder"`
	PassedPlayers []int                  `json:"passedPlayers"`
	Scores        [SeatCount]int         `json:"scores"`
	GameScore     [2]int                 `json:"gameScore"`
	TargetScore   int                    `json:"targetScore"`
	Marriages     []MarriageAnnouncement `json:"marriageAnnouncements"`
	TrickHistory  []TrickResult          `json:"trickHistory"`
	LastHand      *HandSummary           `json:"lastHand,omitempty"`
	HandNumber    int                    `json:"handNumber"`
	Winner        int                    `json:"winner"`
}

// NewPlayers 座位 0 为真人，其余为机器人
func NewPlayers(humans ...int) []Player {
	players := make([]Player, SeatCount)
	for i := range players {
		players[i] = Player{
			ID:   fmt.Sprintf("%d", i+1),
			Name: fmt.Sprintf("Bot %d", i),
		}
	}
	for _, h := range humans {
		if h >= 0 && h < SeatCount {
			players[h].IsHuman = true
			players[h].Name = "Player"
		}
	}
	return players
}

// TeamOf 座位所属队伍（0: 座位0&2，1: 座位1&3）
func TeamOf(seat int) int {
	return seat % 2
}

// Partner 同队座位
func Partner(seat int) int {
	return (seat + 2) % SeatCount
}

// NextSeat 顺时针下一个座位
func NextSeat(seat int) int {
	return (seat + 1) % SeatCount
}

func (g *GameState) HasPassed(seat int) bool {
	for _, p := range g.PassedPlayers {
		if p == seat {
			return true
		}
	}
	return false
}

// Trump 返回当前将牌；未确定时 ok=false
func (g *GameState) Trump() (Suit, bool) {
	if g.TrumpSuit == nil {
		return SuitRosu, false
	}
	return *g.TrumpSuit, true
}

// CurrentHand 当前行动座位的手牌
func (g *GameState) CurrentHand() []Card {
	if g.CurrentPlayer < 0 || g.CurrentPlayer >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayer].Hand
}

// HandsEmpty 所有座位手牌都已出完
func (g *GameState) HandsEmpty() bool {
	for _, p := range g.Players {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

// MarriageScores 按座位累计本手宣布的婚配分
func (g *GameState) MarriageScores() [SeatCount]int {
	var out [SeatCount]int
	for _, m := range g.Marriages {
		if m.Seat >= 0 && m.Seat < SeatCount {
			out[m.Seat] += m.Value
		}
	}
	return out
}

// Clone 深拷贝，用于对外发布的快照
func (g *GameState) Clone() GameState {
	out := *g
	out.Players = make([]Player, len(g.Players))
	for i, p := range g.Players {
		p.Hand = append([]Card(nil), p.Hand...)
		out.Players[i] = p
	}
	if g.TrumpSuit != nil {
		s := *g.TrumpSuit
		out.TrumpSuit = &s
	}
	out.CurrentTrick = append([]Card(nil), g.CurrentTrick...)
	out.PassedPlayers = append([]int(nil), g.PassedPlayers...)
	out.Marriages = append([]MarriageAnnouncement(nil), g.Marriages...)
	out.TrickHistory = make([]TrickResult, len(g.TrickHistory))
	for i, t := range g.TrickHistory {
		t.Cards = append([]Card(nil), t.Cards...)
		out.TrickHistory[i] = t
	}
	if g.LastHand != nil {
		h := *g.LastHand
		h.Marriages = append([]MarriageAnnouncement(nil), g.LastHand.Marriages...)
		out.LastHand = &h
	}
	return out
}
