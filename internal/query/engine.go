package query

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"carelink-client/internal/models"
	"carelink-client/internal/store"
)

// Key 可视化查询组合键 (metricKey, subjectId, timeWindow, referenceInstant)
// 相同键的查询保证合并：任一时刻每个键至多一个在途请求
type Key struct {
	Metric  string
	Subject string
	Window  models.TimeWindow
	At      time.Time
}

func (k Key) String() string {
	return fmt.Sprintf("viz:%s:%s:%s:%s",
		k.Metric, k.Subject, k.Window, k.At.UTC().Format(time.RFC3339))
}

// entry 缓存条目；新鲜度由 FetchedAt 计算，硬驱逐交给 KV 层的 LRU
type entry struct {
	Payload   json.RawMessage `json:"payload"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// FetchBytes 回源函数，返回 JSON 编码的结果
type FetchBytes func(ctx context.Context) ([]byte, error)

// Engine 查询缓存引擎：按组合键缓存、合并在途请求、过期先出旧值再后台刷新
type Engine struct {
	kv       store.KV
	sf       singleflight.Group
	freshFor time.Duration
	logger   *zap.Logger

	// 后台刷新的超时，独立于触发它的调用方 ctx
	refreshTimeout time.Duration
}

// NewEngine 创建查询引擎；freshFor 内的命中不回源
func NewEngine(kv store.KV, freshFor time.Duration, logger *zap.Logger) *Engine {
	if freshFor <= 0 {
		freshFor = 5 * time.Minute
	}
	return &Engine{
		kv:             kv,
		freshFor:       freshFor,
		logger:         logger,
		refreshTimeout: 30 * time.Second,
	}
}

// Lookup 读取一个键：
//   - 新鲜命中：直接返回缓存值，不产生网络调用
//   - 过期命中：立即返回旧值，同时后台刷新（stale-while-revalidate）
//   - 未命中：回源（同键并发合并为一次），写缓存后返回
//
// 回源失败作为查询失败向调用方传播
func (e *Engine) Lookup(ctx context.Context, key string, fetch FetchBytes) ([]byte, error) {
	if cached, ok := e.get(ctx, key); ok {
		if time.Since(cached.FetchedAt) < e.freshFor {
			return cached.Payload, nil
		}
		// 旧值立即可用，刷新放后台；刷新失败只记日志
		go func() {
			if _, err := e.fetchShared(key, fetch); err != nil {
				e.logger.Debug("Background refresh failed",
					zap.String("key", key),
					zap.Error(err),
				)
			}
		}()
		return cached.Payload, nil
	}

	return e.fetchShared(key, fetch)
}

// Fetch 绕过新鲜度强制回源（围栏"总是重新拉取"语义），仍然合并在途请求并写缓存
func (e *Engine) Fetch(ctx context.Context, key string, fetch FetchBytes) ([]byte, error) {
	return e.fetchShared(key, fetch)
}

// Prefetch 投机性填充一个键：新鲜命中时不回源；失败吞掉，仅记 debug 日志
func (e *Engine) Prefetch(key string, fetch FetchBytes) {
	ctx, cancel := context.WithTimeout(context.Background(), e.refreshTimeout)
	defer cancel()

	if cached, ok := e.get(ctx, key); ok && time.Since(cached.FetchedAt) < e.freshFor {
		return
	}
	if _, err := e.fetchShared(key, fetch); err != nil {
		e.logger.Debug("Prefetch failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// Put 用已确认的值直接覆盖缓存条目（乐观更新的对账路径）
func (e *Engine) Put(ctx context.Context, key string, payload []byte) error {
	ent := entry{Payload: payload, FetchedAt: time.Now()}
	raw, err := json.Marshal(ent)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	return e.kv.Set(ctx, key, string(raw), 0)
}

// Invalidate 删除一个键
func (e *Engine) Invalidate(ctx context.Context, key string) error {
	return e.kv.Delete(ctx, key)
}

// fetchShared 同键并发合并为一次回源；成功后写缓存
func (e *Engine) fetchShared(key string, fetch FetchBytes) ([]byte, error) {
	v, err, _ := e.sf.Do(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), e.refreshTimeout)
		defer cancel()

		payload, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		ent := entry{Payload: payload, FetchedAt: time.Now()}
		raw, marshalErr := json.Marshal(ent)
		if marshalErr != nil {
			return nil, fmt.Errorf("failed to marshal cache entry: %w", marshalErr)
		}
		if setErr := e.kv.Set(ctx, key, string(raw), 0); setErr != nil {
			e.logger.Warn("Failed to write query cache",
				zap.String("key", key),
				zap.Error(setErr),
			)
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (e *Engine) get(ctx context.Context, key string) (*entry, bool) {
	raw, err := e.kv.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var ent entry
	if err := json.Unmarshal([]byte(raw), &ent); err != nil {
		// 条目损坏按未命中处理
		return nil, false
	}
	return &ent, true
}

// Has 键存在即真（不考虑新鲜度）
func (e *Engine) Has(ctx context.Context, key string) bool {
	_, ok := e.get(ctx, key)
	return ok
}
