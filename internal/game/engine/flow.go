package engine

import (
	"fmt"
	"time"

	"Cruce/internal/game/dealer"
	"Cruce/internal/game/rules"
	"Cruce/internal/game/table"
)

// deal 新的一手：重置座位与本手数据，只保留局分和目标分
func (e *Engine) deal(target int, gameScore [2]int, handNumber int) {
	players := table.NewPlayers(0)
	if e.opts.AllBots {
		players = table.NewPlayers()
	}
	deck := e.dealer.CreateDeck()
	if v := dealer.ValidateDeck(deck); !v.Valid {
		e.fatal("corrupt deck", "errors", v.Errors)
	}
	if _, err := dealer.Deal(deck, players, table.CardsPerPlayer); err != nil {
		e.fatal("deal failed", "err", err)
	}

	var lastHand *table.HandSummary
	if e.state != nil {
		lastHand = e.state.LastHand
	}
	e.state = &table.GameState{
		Players:       players,
		Phase:         table.PhaseBidding,
		CurrentPlayer: 0,
		Bidder:        -1,
		PassedPlayers: []int{},
		CurrentTrick:  []table.Card{},
		Marriages:     []table.MarriageAnnouncement{},
		TrickHistory:  []table.TrickResult{},
		GameScore:     gameScore,
		TargetScore:   target,
		LastHand:      lastHand,
		HandNumber:    handNumber,
		Winner:        -1,
	}
}

// nextBidder 顺时针下一个尚未 pass 的座位
func (e *Engine) nextBidder(from int) int {
	seat := from
	for i := 0; i < table.SeatCount; i++ {
		seat = table.NextSeat(seat)
		if !e.state.HasPassed(seat) {
			return seat
		}
	}
	return table.NextSeat(from)
}

func (e *Engine) applyBid(seat, bid int) error {
	s := e.state
	if s.Phase != table.PhaseBidding {
		e.log.Warn("bid rejected", "seat", seat, "bid", bid, "phase", s.Phase)
		return fmt.Errorf("bid %d: %w", bid, ErrWrongPhase)
	}
	if bid < 0 || !rules.IsValidBid(bid, s.Bid) {
		e.log.Warn("bid rejected", "seat", seat, "bid", bid, "current", s.Bid)
		return fmt.Errorf("bid %d over %d: %w", bid, s.Bid, ErrInvalidBid)
	}

	if bid > s.Bid {
		s.Bid = bid
		s.Bidder = seat
		e.log.Debug("bid", "seat", seat, "bid", bid)
	} else {
		s.PassedPlayers = append(s.PassedPlayers, seat)
		e.log.Debug("pass", "seat", seat)
	}

	switch {
	case rules.IsBiddingComplete(s.PassedPlayers, table.SeatCount, s.Bid):
		// 叫牌人首出，将牌由首张牌决定
		s.Phase = table.PhasePlaying
		s.CurrentPlayer = s.Bidder
		s.LeadingPlayer = s.Bidder
		e.log.Info("bidding complete", "bidder", s.Bidder, "bid", s.Bid, "hand", s.HandNumber)
	case len(s.PassedPlayers) >= table.SeatCount:
		e.log.Info("all passed, redeal", "hand", s.HandNumber)
		e.deal(s.TargetScore, s.GameScore, s.HandNumber+1)
	default:
		s.CurrentPlayer = e.nextBidder(seat)
	}
	e.commit()
	return nil
}

func (e *Engine) applyPlay(seat int, card table.Card, announce bool) error {
	s := e.state
	if s.Phase != table.PhasePlaying {
		e.log.Warn("play rejected", "seat", seat, "card", card.ID(), "phase", s.Phase)
		return fmt.Errorf("play %s: %w", card.ID(), ErrWrongPhase)
	}
	if len(s.CurrentTrick) >= table.SeatCount {
		e.log.Warn("play rejected, trick full", "seat", seat, "card", card.ID())
		return fmt.Errorf("play %s: %w", card.ID(), ErrTrickFull)
	}
	hand := &s.Players[seat].Hand
	if !table.ContainsCard(*hand, card) {
		e.log.Warn("play rejected, not in hand", "seat", seat, "card", card.ID())
		return fmt.Errorf("play %s: %w", card.ID(), ErrCardNotInHand)
	}
	if !rules.CanPlay(card, *hand, s.CurrentTrick, s.TrumpSuit) {
		e.log.Warn("play rejected, not playable", "seat", seat, "card", card.ID())
		return fmt.Errorf("play %s: %w", card.ID(), ErrCardNotPlayable)
	}

	leading := len(s.CurrentTrick) == 0
	if leading {
		s.LeadingPlayer = seat
		if s.TrumpSuit == nil && seat == s.Bidder {
			trump := card.Suit
			s.TrumpSuit = &trump
			e.log.Info("trump established", "suit", trump, "seat", seat)
		}
	}
	if announce {
		if rules.CanAnnounceMarriage(card, *hand, leading) {
			m := table.MarriageAnnouncement{
				Seat:  seat,
				Suit:  card.Suit,
				Value: rules.MarriagePoints(card.Suit, s.TrumpSuit),
			}
			s.Marriages = append(s.Marriages, m)
			e.log.Info("marriage", "seat", seat, "suit", m.Suit, "value", m.Value)
		} else {
			e.log.Debug("marriage not allowed, ignored", "seat", seat, "card", card.ID())
		}
	}

	table.RemoveCard(hand, card)
	s.CurrentTrick = append(s.CurrentTrick, card)
	s.CurrentPlayer = table.NextSeat(seat)
	e.commit()
	return nil
}

// evaluateTrick 结算满墩：赢家得分并领出下一墩
func (e *Engine) evaluateTrick() {
	s := e.state
	winner, err := rules.DetermineTrickWinnerSeat(s.CurrentTrick, s.TrumpSuit, s.LeadingPlayer)
	if err != nil {
		e.fatal("trick evaluation", "err", err, "cards", len(s.CurrentTrick))
	}
	points := rules.TrickPoints(s.CurrentTrick)
	s.Scores[winner] += points
	s.TrickHistory = append(s.TrickHistory, table.TrickResult{
		Leader: s.LeadingPlayer,
		Winner: winner,
		Cards:  s.CurrentTrick,
		Points: points,
	})
	e.log.Debug("trick", "winner", winner, "points", points, "trick", len(s.TrickHistory))

	s.CurrentTrick = []table.Card{}
	s.CurrentPlayer = winner
	s.LeadingPlayer = winner

	if s.HandsEmpty() {
		e.finishHand()
	}
	e.commit()
}

// finishHand 婚配分入账、换算局分；达到目标则结束
func (e *Engine) finishHand() {
	s := e.state
	marriages := s.MarriageScores()
	res := rules.CalculateHandResult(s.Scores, marriages, s.Bid, s.Bidder)

	for seat := range s.Scores {
		s.Scores[seat] += marriages[seat]
		s.Players[seat].Score = s.Scores[seat]
	}
	s.GameScore[0] += res.GamePoints[0]
	s.GameScore[1] += res.GamePoints[1]
	s.LastHand = &table.HandSummary{
		Hand:         s.HandNumber,
		PlayerScores: s.Scores,
		TeamScores:   res.TeamScores,
		GamePoints:   res.GamePoints,
		BidMade:      res.BidMade,
		Bid:          s.Bid,
		Bidder:       s.Bidder,
		Marriages:    append([]table.MarriageAnnouncement(nil), s.Marriages...),
	}
	e.log.Info("hand finished",
		"hand", s.HandNumber,
		"teams", res.TeamScores,
		"points", res.GamePoints,
		"bidMade", res.BidMade,
		"gameScore", s.GameScore,
	)

	if s.GameScore[0] >= s.TargetScore || s.GameScore[1] >= s.TargetScore {
		s.Phase = table.PhaseFinished
		s.Winner = gameWinner(s.GameScore, table.TeamOf(s.Bidder))
		e.log.Info("game finished", "winner", s.Winner, "gameScore", s.GameScore)
	}
}

// gameWinner 分高者胜；平分归叫牌方
func gameWinner(score [2]int, bidderTeam int) int {
	switch {
	case score[0] > score[1]:
		return 0
	case score[1] > score[0]:
		return 1
	default:
		return bidderTeam
	}
}

// ---------------------
//    提交、发布、调度
// ---------------------

// commit 每次修改后：序号 +1，发布快照，调度下一步
func (e *Engine) commit() {
	e.seq++
	e.publish()
	e.scheduleNext()
}

func (e *Engine) publish() {
	e.lmu.Lock()
	ls := make([]Listener, 0, len(e.listeners))
	for _, l := range e.listeners {
		ls = append(ls, l)
	}
	e.lmu.Unlock()

	for _, l := range ls {
		l(e.state.Clone())
	}
}

// stamp 延迟任务创建时捕获的前提，执行时必须完全一致
type stamp struct {
	hand  int
	phase table.Phase
	seat  int
	seq   uint64
}

func (e *Engine) stampNow() stamp {
	return stamp{
		hand:  e.state.HandNumber,
		phase: e.state.Phase,
		seat:  e.state.CurrentPlayer,
		seq:   e.seq,
	}
}

// later 延迟执行；触发时若状态已变化则丢弃
func (e *Engine) later(d time.Duration, kind string, task func()) {
	st := e.stampNow()
	e.clock.AfterFunc(d, func() {
		e.exec.Post(func() {
			if e.state == nil || e.stampNow() != st {
				e.log.Debug("stale task dropped", "kind", kind, "seat", st.seat, "hand", st.hand)
				return
			}
			task()
		})
	})
}

func (e *Engine) scheduleNext() {
	s := e.state
	switch s.Phase {
	case table.PhaseBidding:
		if !s.Players[s.CurrentPlayer].IsHuman {
			e.later(e.opts.BotDelay, "bot-bid", e.botBid)
		}
	case table.PhasePlaying:
		switch {
		case len(s.CurrentTrick) == table.SeatCount:
			e.later(e.opts.TrickDelay, "trick", e.evaluateTrick)
		case s.HandsEmpty():
			e.later(e.opts.HandDelay, "next-hand", e.nextHand)
		case !s.Players[s.CurrentPlayer].IsHuman:
			e.later(e.opts.BotDelay, "bot-play", e.botPlay)
		}
	}
}

func (e *Engine) nextHand() {
	s := e.state
	e.deal(s.TargetScore, s.GameScore, s.HandNumber+1)
	e.commit()
}

func (e *Engine) botBid() {
	s := e.state
	seat := s.CurrentPlayer
	bid := e.bot.Bid(s.Players[seat].Hand, s.Bid, seat)
	if err := e.applyBid(seat, bid); err != nil {
		e.log.Error("bot bid failed", "seat", seat, "bid", bid, "err", err)
	}
}

func (e *Engine) botPlay() {
	s := e.state
	seat := s.CurrentPlayer
	p := e.bot.Play(s.Players[seat].Hand, s.CurrentTrick, s.TrumpSuit, seat)
	if err := e.applyPlay(seat, p.Card, p.AnnounceMarriage); err != nil {
		e.log.Error("bot play failed", "seat", seat, "card", p.Card.ID(), "err", err)
	}
}

// fatal 结构性错误：记录后 panic
func (e *Engine) fatal(msg string, kv ...any) {
	e.log.Error(msg, kv...)
	panic(fmt.Sprintf("engine %s: %s", e.id, msg))
}
