package manager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"Cruce/internal/game/engine"
	"Cruce/internal/game/table"
	"Cruce/internal/lobby"
	"Cruce/internal/utils"
	"Cruce/internal/websocket"
)

// HumanSeat 单人桌中真人固定坐 0 号位
const HumanSeat = 0

var ErrNoTable = errors.New("no table for player")

// Options 每张桌子的引擎参数
type Options struct {
	Seed       int64 // 0 = 按时间
	BotDelay   time.Duration
	TrickDelay time.Duration
	HandDelay  time.Duration
	// 为空时使用真实定时器
	Clock engine.Clock
}

// runtime 一张桌子运行期的全部资源
type runtime struct {
	id          string
	player      string
	eng         *engine.Engine
	inbox       chan websocket.IncomingMessage
	cancel      context.CancelFunc
	unsubscribe func()
}

// GameManager 管理所有对局
type GameManager struct {
	mu            sync.RWMutex
	tables        map[string]*runtime // tableID → runtime
	playerToTable map[string]string   // player → tableID
	hub           websocket.HubInterface
	opts          Options
}

func NewGameManager(hub websocket.HubInterface, opts Options) *GameManager {
	return &GameManager{
		tables:        make(map[string]*runtime),
		playerToTable: make(map[string]string),
		hub:           hub,
		opts:          opts,
	}
}

// OpenTable 为大厅开出的桌子启动引擎并发第一手牌
func (m *GameManager) OpenTable(t *lobby.Table) error {
	m.mu.Lock()
	if _, ok := m.tables[t.ID]; ok {
		m.mu.Unlock()
		return fmt.Errorf("engine for table %s exists", t.ID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	loop := engine.NewLoop()
	go loop.Run(ctx)

	eng := engine.New(engine.Options{
		ID:          t.ID,
		TargetScore: t.TargetScore,
		Seed:        m.opts.Seed,
		BotDelay:    m.opts.BotDelay,
		TrickDelay:  m.opts.TrickDelay,
		HandDelay:   m.opts.HandDelay,
		Executor:    loop,
		Clock:       m.opts.Clock,
		Logger:      utils.Log,
	})
	rt := &runtime{
		id:     t.ID,
		player: t.Player,
		eng:    eng,
		inbox:  make(chan websocket.IncomingMessage, 32),
		cancel: cancel,
	}
	// 监听在引擎线程上执行：只做转换与投递
	rt.unsubscribe = eng.Subscribe(func(s table.GameState) {
		m.hub.SendToPlayer(rt.player, websocket.OutgoingMessage{
			Event: "state",
			Data:  viewOf(rt.id, HumanSeat, s),
		})
	})

	// 座位记录过期后重新开桌：旧桌子的引擎一并回收
	var stale *runtime
	if oldID, ok := m.playerToTable[t.Player]; ok {
		stale = m.tables[oldID]
		delete(m.tables, oldID)
	}
	m.tables[t.ID] = rt
	m.playerToTable[t.Player] = t.ID
	m.mu.Unlock()

	if stale != nil {
		utils.Log.Warn("replacing stale table", "table", stale.id, "player", stale.player)
		stale.stop()
	}

	go m.drain(ctx, rt)

	if err := eng.StartNewGame(t.TargetScore); err != nil {
		m.CloseTable(t.ID)
		return fmt.Errorf("start table %s: %w", t.ID, err)
	}
	utils.Log.Info("table started", "table", t.ID, "player", t.Player, "target", t.TargetScore)
	return nil
}

// CloseTable 停止引擎并释放映射
func (m *GameManager) CloseTable(tableID string) {
	m.mu.Lock()
	rt, ok := m.tables[tableID]
	if ok {
		delete(m.tables, tableID)
		if m.playerToTable[rt.player] == tableID {
			delete(m.playerToTable, rt.player)
		}
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	rt.stop()
}

func (rt *runtime) stop() {
	rt.unsubscribe()
	rt.cancel()
	utils.Log.Info("table stopped", "table", rt.id, "player", rt.player)
}

// ActiveTables 运行中的桌子数
func (m *GameManager) ActiveTables() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables)
}

// Running 桌子的引擎是否在运行
func (m *GameManager) Running(tableID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.tables[tableID]
	return ok
}

// Engine 玩家所在桌子的引擎
func (m *GameManager) Engine(player string) (*engine.Engine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rt, ok := m.tables[m.playerToTable[player]]
	if !ok {
		return nil, false
	}
	return rt.eng, true
}

// HandlePlayerMessage 统一入口（来自 Hub.OnIncoming）。
// 运行在 Hub 线程上，不能同步调用引擎：消息进入桌子的收件箱按序处理。
func (m *GameManager) HandlePlayerMessage(msg websocket.IncomingMessage) {
	m.mu.RLock()
	rt := m.tables[m.playerToTable[msg.From]]
	m.mu.RUnlock()

	if rt == nil {
		if msg.Event != websocket.EventConnected {
			m.sendError(msg.From, msg.Event, ErrNoTable)
		}
		return
	}

	select {
	case rt.inbox <- msg:
	default:
		utils.Log.Warn("table inbox full, message dropped", "table", rt.id, "event", msg.Event)
	}
}

func (m *GameManager) drain(ctx context.Context, rt *runtime) {
	for {
		select {
		case msg := <-rt.inbox:
			if err := m.dispatch(rt, msg); err != nil {
				m.sendError(rt.player, msg.Event, err)
			}
		case <-ctx.Done():
			return
		}
	}
}

type startPayload struct {
	TargetScore int `json:"targetScore"`
}

type bidPayload struct {
	Bid int `json:"bid"`
}

type cardPayload struct {
	Card             string `json:"card"`
	AnnounceMarriage bool   `json:"announceMarriage"`
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}
	return nil
}

func (m *GameManager) dispatch(rt *runtime, msg websocket.IncomingMessage) error {
	eng := rt.eng
	switch msg.Event {

	case websocket.EventConnected, "sync":
		s, err := eng.Snapshot()
		if err != nil {
			return err
		}
		m.reply(rt, "state", viewOf(rt.id, HumanSeat, s))

	case "start":
		var p startPayload
		if err := decode(msg.Data, &p); err != nil {
			return err
		}
		return eng.StartNewGame(p.TargetScore)

	case "bid":
		var p bidPayload
		if err := decode(msg.Data, &p); err != nil {
			return err
		}
		return eng.MakeBidAs(HumanSeat, p.Bid)

	case "play":
		var p cardPayload
		if err := decode(msg.Data, &p); err != nil {
			return err
		}
		card, err := table.ParseCardID(p.Card)
		if err != nil {
			return err
		}
		return eng.PlayCardAs(HumanSeat, card, p.AnnounceMarriage)

	case "hint":
		sug, ok := eng.Suggest()
		if !ok {
			m.reply(rt, "hint", map[string]any{"available": false})
			return nil
		}
		m.reply(rt, "hint", map[string]any{
			"available":        true,
			"card":             sug.Card.ID(),
			"announceMarriage": sug.AnnounceMarriage,
			"reason":           sug.Reason,
		})

	case "explain":
		var p cardPayload
		if err := decode(msg.Data, &p); err != nil {
			return err
		}
		card, err := table.ParseCardID(p.Card)
		if err != nil {
			return err
		}
		m.reply(rt, "explain", map[string]any{
			"card":     card.ID(),
			"playable": eng.IsCardPlayable(card),
			"text":     eng.ExplainPlay(card),
		})

	case "advice":
		adv, err := eng.BiddingAdvice(HumanSeat)
		if err != nil {
			return err
		}
		m.reply(rt, "advice", adv)

	case "analyze":
		a, err := eng.Analyze(HumanSeat)
		if err != nil {
			return err
		}
		m.reply(rt, "analysis", a)

	case "stats":
		st, err := eng.GameStats()
		if err != nil {
			return err
		}
		m.reply(rt, "stats", st)

	case "validate":
		v, err := eng.Validate()
		if err != nil {
			return err
		}
		m.reply(rt, "validation", v)

	default:
		return fmt.Errorf("unknown event %q", msg.Event)
	}
	return nil
}

func (m *GameManager) reply(rt *runtime, event string, data any) {
	m.hub.SendToPlayer(rt.player, websocket.OutgoingMessage{Event: event, Data: data})
}

func (m *GameManager) sendError(player, event string, err error) {
	m.hub.SendToPlayer(player, websocket.OutgoingMessage{
		Event: "error",
		Data: map[string]any{
			"event": event,
			"error": err.Error(),
		},
	})
}
