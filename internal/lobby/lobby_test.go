package lobby

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ws "Cruce/internal/websocket"
)

// MockHub 记录每个玩家收到的最后一条消息
type MockHub struct {
	mu   sync.Mutex
	msgs map[string]ws.OutgoingMessage
}

func NewMockHub() *MockHub {
	return &MockHub{msgs: make(map[string]ws.OutgoingMessage)}
}

func (m *MockHub) BroadcastToPlayers(addrs []string, msg ws.OutgoingMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range addrs {
		m.msgs[a] = msg
	}
}

func (m *MockHub) GetMsg(player string) (ws.OutgoingMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.msgs[player]
	return msg, ok
}

func runFlow(t *testing.T, repo Repo) {
	ctx := context.Background()
	hub := NewMockHub()
	svc := NewService(repo, 60, 15, hub)

	var opened []string
	svc.OnTableOpen = func(tb *Table) error {
		opened = append(opened, tb.ID)
		return nil
	}
	var closed []string
	svc.OnTableClose = func(id string) { closed = append(closed, id) }

	tb, err := svc.Open(ctx, "alice", OpenRequest{})
	require.NoError(t, err)
	assert.Equal(t, 15, tb.TargetScore)
	assert.Equal(t, []string{tb.ID}, opened)

	msg, ok := hub.GetMsg("alice")
	require.True(t, ok)
	assert.Equal(t, "table_opened", msg.Event)

	// 同一身份不能开第二张桌
	_, err = svc.Open(ctx, "alice", OpenRequest{TargetScore: 5})
	assert.ErrorIs(t, err, ErrAlreadySeated)

	bob, err := svc.Open(ctx, "bob", OpenRequest{TargetScore: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, bob.TargetScore)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	cur, err := svc.Current(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, tb.ID, cur.ID)
	assert.Equal(t, "alice", cur.Player)

	require.NoError(t, svc.Leave(ctx, "alice"))
	assert.Equal(t, []string{tb.ID}, closed)
	msg, _ = hub.GetMsg("alice")
	assert.Equal(t, "table_closed", msg.Event)

	_, err = svc.Current(ctx, "alice")
	assert.ErrorIs(t, err, ErrNoTable)
	assert.ErrorIs(t, svc.Leave(ctx, "alice"), ErrNoTable)

	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// 离桌后可以重新开桌
	_, err = svc.Open(ctx, "alice", OpenRequest{})
	assert.NoError(t, err)
}

// ---------- 内存实现测试 ----------
func TestMemoryRepoFlow(t *testing.T) {
	runFlow(t, NewMemoryRepo())
}

// ---------- Redis（miniredis）实现测试 ----------
func TestRedisRepoFlow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	runFlow(t, NewRedisRepo(rdb))
}

func TestRedisRepoKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewService(NewRedisRepo(rdb), 60, 15, NewMockHub())

	tb, err := svc.Open(context.Background(), "carol", OpenRequest{})
	require.NoError(t, err)

	assert.True(t, mr.Exists("lobby:player:carol"))
	assert.True(t, mr.Exists("lobby:table:"+tb.ID))
	ok, err := mr.IsMember("lobby:tables", tb.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// 座位记录带 TTL，过期后自动释放
	mr.FastForward(61 * time.Second)
	assert.False(t, mr.Exists("lobby:player:carol"))
	assert.False(t, mr.Exists("lobby:table:"+tb.ID))
	assert.ErrorIs(t, svc.Leave(context.Background(), "carol"), ErrNoTable)
}

// ✅ 启动对局失败时回滚座位
func TestOpenRollsBackOnCallbackError(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, 60, 15, NewMockHub())
	svc.OnTableOpen = func(*Table) error { return errors.New("boom") }

	_, err := svc.Open(context.Background(), "dave", OpenRequest{})
	require.Error(t, err)

	id, err := repo.PlayerTable(context.Background(), "dave")
	require.NoError(t, err)
	assert.Empty(t, id)
}

// ✅ 对局已不在运行的座位记录可以被新开桌替换
func TestOpenReplacesStaleSeat(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, 60, 15, NewMockHub())
	first, err := svc.Open(context.Background(), "gina", OpenRequest{})
	require.NoError(t, err)

	running := map[string]bool{first.ID: true}
	svc.IsRunning = func(id string) bool { return running[id] }
	_, err = svc.Open(context.Background(), "gina", OpenRequest{})
	assert.ErrorIs(t, err, ErrAlreadySeated)

	delete(running, first.ID)
	second, err := svc.Open(context.Background(), "gina", OpenRequest{})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func newRouter(svc *Service, player string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("player", player)
		c.Next()
	})
	h := NewHandler(svc)
	r.POST("/table/open", h.Open)
	r.POST("/table/leave", h.Leave)
	r.GET("/table/current", h.Current)
	return r
}

func TestHandler(t *testing.T) {
	svc := NewService(NewMemoryRepo(), 60, 15, NewMockHub())
	r := newRouter(svc, "erin")

	// 空 body 使用默认目标分
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/table/open", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp OpenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "erin", resp.Player)
	assert.Equal(t, 0, resp.Seat)
	assert.Equal(t, 15, resp.TargetScore)

	w = httptest.NewRecorder()
	body := bytes.NewBufferString(`{"targetScore":7}`)
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/table/open", body))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/table/current", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), resp.TableID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/table/leave", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/table/leave", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/table/current", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
