package engine

import (
	"context"
	"sync"
	"time"
)

// Executor 单线程执行队列；所有状态修改都在这里串行执行
type Executor interface {
	// Post 投递任务；执行器已停止时返回 false
	Post(task func()) bool
}

// Clock 延迟任务调度（机器人思考、墩结算展示、下一手发牌）
type Clock interface {
	AfterFunc(d time.Duration, f func())
}

// Loop 基于 channel 的动作循环。
// tasks 不带缓冲：Post 成功即表示任务已被循环接收，停止后不会有任务滞留。
// 不能在循环内部（任务或监听里）同步调用 Post。
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func()),
		done:  make(chan struct{}),
	}
}

func (l *Loop) Post(task func()) bool {
	select {
	case l.tasks <- task:
		return true
	case <-l.done:
		return false
	}
}

// Run 阻塞直到 ctx 结束
func (l *Loop) Run(ctx context.Context) {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case task := <-l.tasks:
			task()
		case <-ctx.Done():
			return
		}
	}
}

// Inline 在调用方 goroutine 上直接执行，仅用于单线程场景（测试、自对弈）
type Inline struct{}

func (Inline) Post(task func()) bool {
	task()
	return true
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// ManualClock 手动推进的时钟：任务只在 Step/Flush 时执行
type ManualClock struct {
	mu      sync.Mutex
	pending []func()
}

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) AfterFunc(_ time.Duration, f func()) {
	c.mu.Lock()
	c.pending = append(c.pending, f)
	c.mu.Unlock()
}

// Pending 尚未触发的任务数
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Step 触发最早的一个任务；没有任务时返回 false
func (c *ManualClock) Step() bool {
	c.mu.Lock()
	if len(c.pending) == 0 {
		c.mu.Unlock()
		return false
	}
	f := c.pending[0]
	c.pending = c.pending[1:]
	c.mu.Unlock()
	f()
	return true
}

// Flush 依次触发任务（包括触发过程中新加入的），最多 limit 个；返回触发数量
func (c *ManualClock) Flush(limit int) int {
	n := 0
	for n < limit && c.Step() {
		n++
	}
	return n
}
