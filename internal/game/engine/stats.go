package engine

import "Cruce/internal/game/table"

// Stats 展示用的只读统计
type Stats struct {
	Phase           table.Phase          `json:"phase"`
	HandNumber      int                  `json:"handNumber"`
	TricksPlayed    int                  `json:"tricksPlayed"`
	TricksRemaining int                  `json:"tricksRemaining"`
	CurrentPlayer   int                  `json:"currentPlayer"`
	Scores          [table.SeatCount]int `json:"scores"`
	TeamScores      [2]int               `json:"teamScores"`
	GameScore       [2]int               `json:"gameScore"`
	TargetScore     int                  `json:"targetScore"`
	Bid             int                  `json:"bid"`
	Bidder          int                  `json:"bidder"`
	TrumpSuit       *table.Suit          `json:"trumpSuit"`
	Marriages       int                  `json:"marriages"`
	Winner          int                  `json:"winner"`
}

func statsOf(s *table.GameState) Stats {
	st := Stats{
		Phase:         s.Phase,
		HandNumber:    s.HandNumber,
		TricksPlayed:  len(s.TrickHistory),
		CurrentPlayer: s.CurrentPlayer,
		Scores:        s.Scores,
		GameScore:     s.GameScore,
		TargetScore:   s.TargetScore,
		Bid:           s.Bid,
		Bidder:        s.Bidder,
		Marriages:     len(s.Marriages),
		Winner:        s.Winner,
	}
	st.TricksRemaining = max(table.CardsPerPlayer-st.TricksPlayed, 0)
	for seat, pts := range s.Scores {
		st.TeamScores[table.TeamOf(seat)] += pts
	}
	if s.TrumpSuit != nil {
		t := *s.TrumpSuit
		st.TrumpSuit = &t
	}
	return st
}

// GameStats 当前对局统计
func (e *Engine) GameStats() (Stats, error) {
	var out Stats
	err := e.read(func(s *table.GameState) { out = statsOf(s) })
	return out, err
}
