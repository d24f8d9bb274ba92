package engine

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"Cruce/internal/game/bot"
	"Cruce/internal/game/dealer"
	"Cruce/internal/game/rules"
	"Cruce/internal/game/table"
	"Cruce/internal/utils"
)

// Listener 每次状态变更后收到一份深拷贝快照（在执行器线程上调用，不可阻塞）
type Listener func(state table.GameState)

type Options struct {
	ID          string
	TargetScore int
	// 座位 0 为真人；AllBots 为 true 时四个座位都是机器人（自对弈）
	AllBots bool
	Seed    int64

	BotDelay   time.Duration
	TrickDelay time.Duration
	HandDelay  time.Duration

	// Executor 为空时引擎自带一个 Loop，需用 Close 停止。
	// Inline 只能配合手动时钟；Clock 为空时 Inline 同样换成自带 Loop
	Executor Executor
	Clock    Clock
	Logger   *log.Logger
}

// Engine 对局状态机：唯一持有并修改 GameState 的对象
type Engine struct {
	id     string
	opts   Options
	exec   Executor
	clock  Clock
	dealer *dealer.Dealer
	bot    *bot.Bot
	log    *log.Logger
	stop   context.CancelFunc // 自带 Loop 时非空

	// 以下字段只在执行器上访问
	state *table.GameState
	seq   uint64

	lmu       sync.Mutex
	listeners map[int]Listener
	nextLID   int
}

func New(opts Options) *Engine {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.TargetScore <= 0 {
		opts.TargetScore = table.DefaultTarget
	}
	e := &Engine{
		id:        opts.ID,
		opts:      opts,
		exec:      opts.Executor,
		clock:     opts.Clock,
		dealer:    dealer.NewDealer(opts.Seed),
		bot:       bot.New(opts.Seed + 1),
		log:       opts.Logger,
		listeners: make(map[int]Listener),
	}
	if e.clock == nil {
		e.clock = realClock{}
		// 真实定时器在独立 goroutine 上触发，必须经由循环串行化
		if _, inline := e.exec.(Inline); inline {
			e.exec = nil
		}
	}
	if e.exec == nil {
		loop := NewLoop()
		ctx, cancel := context.WithCancel(context.Background())
		go loop.Run(ctx)
		e.exec = loop
		e.stop = cancel
	}
	if e.log == nil {
		e.log = utils.Log
	}
	e.log = e.log.With("table", opts.ID)
	return e
}

func (e *Engine) ID() string { return e.id }

// Close 停止自带的执行循环；之后的调用返回 ErrStopped。外部传入的执行器由调用方负责
func (e *Engine) Close() {
	if e.stop != nil {
		e.stop()
	}
}

// Subscribe 注册监听，返回取消函数
func (e *Engine) Subscribe(l Listener) (unsubscribe func()) {
	e.lmu.Lock()
	id := e.nextLID
	e.nextLID++
	e.listeners[id] = l
	e.lmu.Unlock()

	return func() {
		e.lmu.Lock()
		delete(e.listeners, id)
		e.lmu.Unlock()
	}
}

// call 把操作投递到执行器并等待结果
func (e *Engine) call(fn func() error) error {
	done := make(chan error, 1)
	if !e.exec.Post(func() { done <- fn() }) {
		return ErrStopped
	}
	return <-done
}

// ---------------------
//     公开操作（写）
// ---------------------

// StartNewGame 新建一手牌：洗牌、发牌、进入叫分；保留累计局分。
// 上一局已结束（FINISHED）时局分清零，开始新的一局。
func (e *Engine) StartNewGame(targetScore int) error {
	return e.call(func() error {
		if targetScore <= 0 {
			targetScore = e.opts.TargetScore
		}
		var score [2]int
		hand := 0
		if e.state != nil {
			hand = e.state.HandNumber
			// 局分跨手保留；只有上一局已分出胜负时才清零重开
			if e.state.Phase != table.PhaseFinished {
				score = e.state.GameScore
			}
		}
		e.deal(targetScore, score, hand+1)
		e.log.Info("new game", "target", targetScore, "hand", hand+1)
		e.commit()
		return nil
	})
}

// MakeBid 当前座位叫分，0 表示不叫
func (e *Engine) MakeBid(bid int) error {
	return e.call(func() error {
		if e.state == nil {
			return ErrNotStarted
		}
		return e.applyBid(e.state.CurrentPlayer, bid)
	})
}

// MakeBidAs 带座位校验的叫分（传输层使用）
func (e *Engine) MakeBidAs(seat, bid int) error {
	return e.call(func() error {
		if e.state == nil {
			return ErrNotStarted
		}
		if seat != e.state.CurrentPlayer {
			e.log.Warn("bid out of turn", "seat", seat, "current", e.state.CurrentPlayer)
			return ErrNotYourTurn
		}
		return e.applyBid(seat, bid)
	})
}

// PlayCard 当前座位出牌
func (e *Engine) PlayCard(card table.Card, announceMarriage bool) error {
	return e.call(func() error {
		if e.state == nil {
			return ErrNotStarted
		}
		return e.applyPlay(e.state.CurrentPlayer, card, announceMarriage)
	})
}

// PlayCardAs 带座位校验的出牌
func (e *Engine) PlayCardAs(seat int, card table.Card, announceMarriage bool) error {
	return e.call(func() error {
		if e.state == nil {
			return ErrNotStarted
		}
		if seat != e.state.CurrentPlayer {
			e.log.Warn("play out of turn", "seat", seat, "current", e.state.CurrentPlayer)
			return ErrNotYourTurn
		}
		return e.applyPlay(seat, card, announceMarriage)
	})
}

// ---------------------
//     公开查询（读）
// ---------------------

// read 在执行器上读取；未开始时返回 ErrNotStarted
func (e *Engine) read(fn func(s *table.GameState)) error {
	return e.call(func() error {
		if e.state == nil {
			return ErrNotStarted
		}
		fn(e.state)
		return nil
	})
}

// Snapshot 当前状态的深拷贝
func (e *Engine) Snapshot() (table.GameState, error) {
	var out table.GameState
	err := e.read(func(s *table.GameState) { out = s.Clone() })
	return out, err
}

// IsCardPlayable 当前座位能否出这张牌（叫分阶段一律 false）
func (e *Engine) IsCardPlayable(card table.Card) bool {
	ok := false
	_ = e.read(func(s *table.GameState) {
		ok = s.Phase == table.PhasePlaying &&
			len(s.CurrentTrick) < table.SeatCount &&
			table.ContainsCard(s.CurrentHand(), card) &&
			rules.IsCardPlayable(card, s)
	})
	return ok
}

// AvailableMarriages 当前座位首出时可宣布的婚配
func (e *Engine) AvailableMarriages() []rules.AvailableMarriage {
	out := []rules.AvailableMarriage{}
	_ = e.read(func(s *table.GameState) { out = rules.AvailableMarriages(s) })
	return out
}

// Suggest 给当前座位的提示
func (e *Engine) Suggest() (bot.Suggestion, bool) {
	var (
		sug bot.Suggestion
		ok  bool
	)
	_ = e.read(func(s *table.GameState) {
		if s.Phase != table.PhasePlaying || len(s.CurrentTrick) >= table.SeatCount {
			return
		}
		sug, ok = bot.Suggest(s.CurrentHand(), s.CurrentTrick, s.TrumpSuit)
	})
	return sug, ok
}

// ExplainPlay 出牌规则说明
func (e *Engine) ExplainPlay(card table.Card) string {
	out := ""
	_ = e.read(func(s *table.GameState) { out = rules.ExplainPlay(card, s) })
	return out
}

// BiddingAdvice 某座位的叫分建议
func (e *Engine) BiddingAdvice(seat int) (rules.BidAdvice, error) {
	var out rules.BidAdvice
	err := e.read(func(s *table.GameState) {
		if seat >= 0 && seat < len(s.Players) {
			out = rules.BiddingAdvice(s.Players[seat].Hand)
		}
	})
	return out, err
}

// Analyze 某座位的手牌分析
func (e *Engine) Analyze(seat int) (bot.Analysis, error) {
	var out bot.Analysis
	err := e.read(func(s *table.GameState) {
		if seat >= 0 && seat < len(s.Players) {
			out = bot.Analyze(s.Players[seat].Hand, s.TrumpSuit)
		}
	})
	return out, err
}

// Validate 结构诊断（含重复牌检查）
func (e *Engine) Validate() (table.Validation, error) {
	var out table.Validation
	err := e.read(func(s *table.GameState) {
		out = rules.ValidateGameState(s)
		for _, msg := range rules.DetectRuleViolations(s, nil) {
			out.Fail(msg)
		}
	})
	return out, err
}
