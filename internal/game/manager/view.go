package manager

import (
	"Cruce/internal/game/rules"
	"Cruce/internal/game/table"
)

// SeatView 对外展示的座位；只有真人座位带手牌
type SeatView struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	IsHuman  bool         `json:"isHuman"`
	Score    int          `json:"score"`
	HandSize int          `json:"handSize"`
	Hand     []table.Card `json:"hand,omitempty"`
}

// View 推送给前端的快照
type View struct {
	TableID       string                       `json:"tableId"`
	Seat          int                          `json:"seat"`
	Players       []SeatView                   `json:"players"`
	Phase         table.Phase                  `json:"phase"`
	CurrentPlayer int                          `json:"currentPlayer"`
	TrumpSuit     *table.Suit                  `json:"trumpSuit"`
	CurrentTrick  []table.Card                 `json:"currentTrick"`
	LeadingPlayer int                          `json:"leadingPlayer"`
	Bid           int                          `json:"bid"`
	Bidder        int                          `json:"bidder"`
	PassedPlayers []int                        `json:"passedPlayers"`
	Scores        [table.SeatCount]int         `json:"scores"`
	GameScore     [2]int                       `json:"gameScore"`
	TargetScore   int                          `json:"targetScore"`
	Marriages     []table.MarriageAnnouncement `json:"marriageAnnouncements"`
	TrickHistory  []table.TrickResult          `json:"trickHistory"`
	LastHand      *table.HandSummary           `json:"lastHand,omitempty"`
	HandNumber    int                          `json:"handNumber"`
	Winner        int                          `json:"winner"`

	// 轮到真人时的可出牌与可宣布婚配
	Playable           []string                  `json:"playable"`
	AvailableMarriages []rules.AvailableMarriage `json:"availableMarriages"`
	Summary            string                    `json:"summary"`
}

// viewOf 快照 -> 视图。只用纯函数，可在执行器线程上调用
func viewOf(tableID string, seat int, s table.GameState) View {
	v := View{
		TableID:            tableID,
		Seat:               seat,
		Players:            make([]SeatView, len(s.Players)),
		Phase:              s.Phase,
		CurrentPlayer:      s.CurrentPlayer,
		TrumpSuit:          s.TrumpSuit,
		CurrentTrick:       s.CurrentTrick,
		LeadingPlayer:      s.LeadingPlayer,
		Bid:                s.Bid,
		Bidder:             s.Bidder,
		PassedPlayers:      s.PassedPlayers,
		Scores:             s.Scores,
		GameScore:          s.GameScore,
		TargetScore:        s.TargetScore,
		Marriages:          s.Marriages,
		TrickHistory:       s.TrickHistory,
		LastHand:           s.LastHand,
		HandNumber:         s.HandNumber,
		Winner:             s.Winner,
		Playable:           []string{},
		AvailableMarriages: []rules.AvailableMarriage{},
		Summary:            rules.GameSummary(&s),
	}
	for i, p := range s.Players {
		sv := SeatView{ID: p.ID, Name: p.Name, IsHuman: p.IsHuman, Score: p.Score, HandSize: len(p.Hand)}
		if i == seat {
			sv.Hand = p.Hand
		}
		v.Players[i] = sv
	}

	if s.Phase == table.PhasePlaying && s.CurrentPlayer == seat && len(s.CurrentTrick) < table.SeatCount {
		for _, c := range rules.PlayableCards(s.Players[seat].Hand, s.CurrentTrick, s.TrumpSuit) {
			v.Playable = append(v.Playable, c.ID())
		}
		v.AvailableMarriages = rules.AvailableMarriages(&s)
	}
	return v
}
