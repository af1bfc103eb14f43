package visualization

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"carelink-client/internal/models"
	"carelink-client/internal/notify"
	"carelink-client/internal/query"
)

// Direction 时间导航方向
type Direction string

const (
	DirectionPrev Direction = "prev"
	DirectionNext Direction = "next"
)

// Options 控制器参数
type Options struct {
	Subject  string            // 老人标识（邮箱）；为空时抑制请求
	Metric   string            // 指标键（models.Metric*）
	Prefetch bool              // 是否预取另外两个时间窗口
	Initial  time.Time         // 初始参考时间，零值取 now
	Window   models.TimeWindow // 初始窗口，空值取 Day
}

// Snapshot 当前可视化状态
type Snapshot[T any] struct {
	Data      []T
	IsLoading bool
	IsSuccess bool
	IsError   bool
	Err       error
	Window    models.TimeWindow
	At        time.Time
}

// Controller 时间窗口可视化控制器：维护 (窗口, 参考时间) 状态机，
// 经查询引擎发起拉取，并投机性预取其余窗口
type Controller[T any] struct {
	engine *query.Engine
	fetch  query.FetchSeries[T]
	toasts *notify.Queue
	logger *zap.Logger

	subject  string
	metric   string
	prefetch bool

	mu     sync.Mutex
	window models.TimeWindow
	at     time.Time
	snap   Snapshot[T]
}

// New 创建控制器；不发起请求，首次数据由 Load 拉取
func New[T any](engine *query.Engine, fetch query.FetchSeries[T], toasts *notify.Queue, logger *zap.Logger, opts Options) *Controller[T] {
	window := opts.Window
	if window == "" {
		window = models.WindowDay
	}
	at := opts.Initial
	if at.IsZero() {
		at = time.Now()
	}
	c := &Controller[T]{
		engine:   engine,
		fetch:    fetch,
		toasts:   toasts,
		logger:   logger,
		subject:  opts.Subject,
		metric:   opts.Metric,
		prefetch: opts.Prefetch,
		window:   window,
		at:       at,
	}
	c.snap = Snapshot[T]{Window: window, At: at}
	return c
}

// Key 当前组合键
func (c *Controller[T]) Key() query.Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keyLocked()
}

func (c *Controller[T]) keyLocked() query.Key {
	return query.Key{
		Metric:  c.metric,
		Subject: c.subject,
		Window:  c.window,
		At:      c.at,
	}
}

// Load 按当前 (subject, window, at) 拉取一次；subject 为空时不发请求。
// 失败推送通知并进入错误态，不会使控制器崩溃。
func (c *Controller[T]) Load(ctx context.Context) Snapshot[T] {
	c.mu.Lock()
	if c.subject == "" {
		snap := c.snap
		c.mu.Unlock()
		return snap
	}
	key := c.keyLocked()
	c.snap.IsLoading = true
	c.mu.Unlock()

	data, err := query.LookupSeries(ctx, c.engine, key, c.fetch)

	c.mu.Lock()
	defer c.mu.Unlock()
	// 拉取期间窗口/时间可能已变；过期结果不落入快照
	if current := c.keyLocked(); current != key {
		return c.snap
	}
	c.snap.IsLoading = false
	if err != nil {
		c.snap.IsError = true
		c.snap.IsSuccess = false
		c.snap.Err = err
		c.snap.Data = nil
		c.toasts.Push("Data fetch failed", err.Error(), notify.KindError)
		c.logger.Warn("Visualization fetch failed",
			zap.String("metric", c.metric),
			zap.String("subject", c.subject),
			zap.String("window", c.window.String()),
			zap.Error(err),
		)
	} else {
		c.snap.IsError = false
		c.snap.IsSuccess = true
		c.snap.Err = nil
		c.snap.Data = data
		c.schedulePrefetchLocked(key)
	}
	return c.snap
}

// schedulePrefetchLocked 主拉取成功后预取其余两个窗口（同一参考时间）。
// 预取失败被吞掉（仅 debug 日志），因为它们是投机性的。
func (c *Controller[T]) schedulePrefetchLocked(primary query.Key) {
	if !c.prefetch || c.subject == "" {
		return
	}
	for _, w := range primary.Window.Others() {
		key := primary
		key.Window = w
		go query.PrefetchSeries(c.engine, key, c.fetch)
	}
}

// SetTimeRange 切换窗口，参考时间不变；键随之变化并触发拉取
func (c *Controller[T]) SetTimeRange(ctx context.Context, w models.TimeWindow) (Snapshot[T], error) {
	switch w {
	case models.WindowHour, models.WindowDay, models.WindowWeek:
	default:
		return c.Snapshot(), fmt.Errorf("invalid time window: %q", w)
	}

	c.mu.Lock()
	c.window = w
	c.snap.Window = w
	c.mu.Unlock()

	return c.Load(ctx), nil
}

// NavigateTime 把参考时间平移恰好一个窗口步长（Hour ±1h / Day ±1d / Week ±7d）
func (c *Controller[T]) NavigateTime(ctx context.Context, dir Direction) (Snapshot[T], error) {
	c.mu.Lock()
	step := c.window.Step()
	switch dir {
	case DirectionPrev:
		c.at = c.at.Add(-step)
	case DirectionNext:
		c.at = c.at.Add(step)
	default:
		c.mu.Unlock()
		return c.Snapshot(), fmt.Errorf("invalid direction: %q", dir)
	}
	c.snap.At = c.at
	c.mu.Unlock()

	return c.Load(ctx), nil
}

// Snapshot 当前状态快照
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}
