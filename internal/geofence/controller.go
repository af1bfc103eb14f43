package geofence

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"carelink-client/internal/models"
	"carelink-client/internal/notify"
	"carelink-client/internal/query"
)

// PerimeterAPI 围栏读写所需的网关子集
type PerimeterAPI interface {
	Coordinates(ctx context.Context, elderEmail string) (*models.Perimeter, error)
	SetPerimeter(ctx context.Context, elderEmail string, radiusKm int) error
}

// Controller 地理围栏控制器：滑块交互乐观更新本地半径，
// 防抖合并后只发一次持久化请求；确认值按序对账缓存
type Controller struct {
	api      PerimeterAPI
	engine   *query.Engine
	toasts   *notify.Queue
	logger   *zap.Logger
	subject  string
	debounce time.Duration

	// OnChange 每次本地围栏变化时同步回调（UI 重定位地图用），可为 nil
	OnChange func(models.Perimeter)

	mu        sync.Mutex
	perimeter *models.Perimeter
	slider    int
	timer     *time.Timer
	seq       uint64 // 最近一次滑动的序号
	closed    bool
}

// New 创建围栏控制器
func New(api PerimeterAPI, engine *query.Engine, toasts *notify.Queue, logger *zap.Logger, subject string, debounce time.Duration) *Controller {
	if debounce <= 0 {
		debounce = 2200 * time.Millisecond
	}
	return &Controller{
		api:      api,
		engine:   engine,
		toasts:   toasts,
		logger:   logger,
		subject:  subject,
		debounce: debounce,
	}
}

func (c *Controller) cacheKey() string {
	return fmt.Sprintf("geofence:%s", c.subject)
}

// Refresh 拉取围栏。围栏是看护人侧可改的，挂载时总是回源，不吃新鲜度缓存
func (c *Controller) Refresh(ctx context.Context) (*models.Perimeter, error) {
	raw, err := c.engine.Fetch(ctx, c.cacheKey(), func(ctx context.Context) ([]byte, error) {
		p, err := c.api.Coordinates(ctx, c.subject)
		if err != nil {
			return nil, err
		}
		return json.Marshal(p)
	})
	if err != nil {
		c.toasts.Push("Geofence unavailable", err.Error(), notify.KindError)
		return nil, err
	}

	var p models.Perimeter
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal perimeter: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.perimeter = &p
	c.slider = models.ClampRadius(p.RadiusKm)
	return c.snapshotLocked(), nil
}

// HandleSlide 滑块交互：同步更新本地状态（不等网络），
// 并重置防抖定时器；每个控制器实例至多一个待触发的写任务
func (c *Controller) HandleSlide(radiusKm int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.perimeter == nil {
		return
	}

	radiusKm = models.ClampRadius(radiusKm)
	c.slider = radiusKm
	c.perimeter.RadiusKm = radiusKm
	c.seq++
	seq := c.seq

	if c.OnChange != nil {
		c.OnChange(*c.perimeter)
	}

	// replace-on-reschedule：旧任务一律作废
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() { c.persist(seq) })
}

// persist 防抖触发后的落库。慢完成的旧写不允许覆盖更新的确认值：
// 只有序号仍是最新时才对账缓存；失败推送通知，本地乐观状态不回滚
func (c *Controller) persist(seq uint64) {
	c.mu.Lock()
	if c.closed || c.perimeter == nil {
		c.mu.Unlock()
		return
	}
	radius := c.slider
	snapshot := *c.perimeter
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.api.SetPerimeter(ctx, c.subject, radius); err != nil {
		c.toasts.Push("Failed to save geofence", err.Error(), notify.KindError)
		c.logger.Warn("Perimeter persistence failed",
			zap.String("subject", c.subject),
			zap.Int("radius_km", radius),
			zap.Error(err),
		)
		return
	}

	c.mu.Lock()
	stale := c.seq != seq
	c.mu.Unlock()
	if stale {
		// 已经有更新的滑动在排队，这次确认不再对账
		return
	}

	if payload, err := json.Marshal(snapshot); err == nil {
		if err := c.engine.Put(ctx, c.cacheKey(), payload); err != nil {
			c.logger.Warn("Failed to reconcile geofence cache", zap.Error(err))
		}
	}

	c.logger.Info("Perimeter persisted",
		zap.String("subject", c.subject),
		zap.Int("radius_km", radius),
	)
}

// Perimeter 当前围栏；未解析完成时为 nil
func (c *Controller) Perimeter() *models.Perimeter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() *models.Perimeter {
	if c.perimeter == nil {
		return nil
	}
	copied := *c.perimeter
	return &copied
}

// SliderValue 滑块当前值
func (c *Controller) SliderValue() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slider
}

// Close 取消待触发的防抖任务；在途的网络写不取消
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
