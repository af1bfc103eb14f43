package query

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"carelink-client/internal/models"
)

// FetchSeries 指标序列回源函数（api.Client 的各指标方法都满足该签名）
type FetchSeries[T any] func(ctx context.Context, subject string, date time.Time, window models.TimeWindow) ([]T, error)

// LookupSeries 带类型的 Lookup：JSON 经由 KV 往返，缓存语义与 Engine.Lookup 一致
func LookupSeries[T any](ctx context.Context, e *Engine, key Key, fetch FetchSeries[T]) ([]T, error) {
	raw, err := e.Lookup(ctx, key.String(), seriesFetcher(key, fetch))
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached series: %w", err)
	}
	return out, nil
}

// PrefetchSeries 带类型的 Prefetch
func PrefetchSeries[T any](e *Engine, key Key, fetch FetchSeries[T]) {
	e.Prefetch(key.String(), seriesFetcher(key, fetch))
}

func seriesFetcher[T any](key Key, fetch FetchSeries[T]) FetchBytes {
	return func(ctx context.Context) ([]byte, error) {
		items, err := fetch(ctx, key.Subject, key.At, key.Window)
		if err != nil {
			return nil, err
		}
		return json.Marshal(items)
	}
}
