package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carelink-client/internal/models"
	"carelink-client/internal/store"
)

func newTestEngine(freshFor time.Duration) *Engine {
	return NewEngine(store.NewMemoryKV(64, time.Hour), freshFor, zap.NewNop())
}

func payload(s string) FetchBytes {
	return func(ctx context.Context) ([]byte, error) {
		return json.Marshal(s)
	}
}

func TestKey_String(t *testing.T) {
	at := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	k := Key{Metric: models.MetricHeartRate, Subject: "a@b.com", Window: models.WindowDay, At: at}

	assert.Equal(t, "viz:heartrate:a@b.com:Day:2025-04-01T10:00:00Z", k.String())

	// 只改窗口分量，键只在窗口段不同
	k2 := k
	k2.Window = models.WindowHour
	assert.NotEqual(t, k.String(), k2.String())
	assert.Contains(t, k2.String(), ":Hour:")
	assert.Contains(t, k2.String(), "2025-04-01T10:00:00Z")
}

func TestEngine_LookupCachesResult(t *testing.T) {
	e := newTestEngine(time.Minute)
	var calls atomic.Int32
	fetch := func(ctx context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte(`["x"]`), nil
	}

	got, err := e.Lookup(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.JSONEq(t, `["x"]`, string(got))

	// 新鲜期内的再次读取不回源
	got, err = e.Lookup(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.JSONEq(t, `["x"]`, string(got))
	assert.Equal(t, int32(1), calls.Load())
}

func TestEngine_SingleFlightPerKey(t *testing.T) {
	e := newTestEngine(time.Minute)
	var calls atomic.Int32
	fetch := func(ctx context.Context) ([]byte, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return []byte(`[1]`), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.Lookup(context.Background(), "same-key", fetch)
			assert.NoError(t, err)
			assert.Equal(t, `[1]`, string(got))
		}()
	}
	wg.Wait()

	// 同一键同一时刻至多一个在途请求
	assert.Equal(t, int32(1), calls.Load())
}

func TestEngine_StaleServedWhileRevalidating(t *testing.T) {
	e := newTestEngine(20 * time.Millisecond)
	var calls atomic.Int32
	fetch := func(ctx context.Context) ([]byte, error) {
		n := calls.Add(1)
		return []byte(fmt.Sprintf(`[%d]`, n)), nil
	}

	first, err := e.Lookup(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(first))

	time.Sleep(40 * time.Millisecond)

	// 过期命中：立即返回旧值
	stale, err := e.Lookup(context.Background(), "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(stale))

	// 后台刷新最终落盘
	require.Eventually(t, func() bool {
		return calls.Load() == 2
	}, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		got, err := e.Lookup(context.Background(), "k", fetch)
		return err == nil && string(got) == `[2]`
	}, time.Second, 5*time.Millisecond)
}

func TestEngine_LookupPropagatesFetchError(t *testing.T) {
	e := newTestEngine(time.Minute)
	wantErr := errors.New("x")

	_, err := e.Lookup(context.Background(), "k", func(ctx context.Context) ([]byte, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.False(t, e.Has(context.Background(), "k"))
}

func TestEngine_PrefetchSwallowsErrors(t *testing.T) {
	e := newTestEngine(time.Minute)

	// 不 panic、不向上传播
	e.Prefetch("k", func(ctx context.Context) ([]byte, error) {
		return nil, errors.New("backend unavailable")
	})
	assert.False(t, e.Has(context.Background(), "k"))

	e.Prefetch("k", payload("v"))
	assert.True(t, e.Has(context.Background(), "k"))
}

func TestEngine_FetchBypassesFreshness(t *testing.T) {
	e := newTestEngine(time.Hour)
	var calls atomic.Int32
	fetch := func(ctx context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte(`[1]`), nil
	}

	_, err := e.Lookup(context.Background(), "k", fetch)
	require.NoError(t, err)
	_, err = e.Fetch(context.Background(), "k", fetch)
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
}

func TestEngine_PutReconcilesEntry(t *testing.T) {
	e := newTestEngine(time.Minute)
	ctx := context.Background()

	require.NoError(t, e.Put(ctx, "k", []byte(`{"homeRadius":7}`)))

	got, err := e.Lookup(ctx, "k", func(ctx context.Context) ([]byte, error) {
		t.Fatal("fresh Put entry must not trigger a fetch")
		return nil, nil
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"homeRadius":7}`, string(got))
}

func TestLookupSeries_Typed(t *testing.T) {
	e := newTestEngine(time.Minute)
	at := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	key := Key{Metric: models.MetricSteps, Subject: "a@b.com", Window: models.WindowDay, At: at}

	fetch := func(ctx context.Context, subject string, date time.Time, window models.TimeWindow) ([]models.StepsSample, error) {
		assert.Equal(t, "a@b.com", subject)
		assert.Equal(t, at, date)
		assert.Equal(t, models.WindowDay, window)
		return []models.StepsSample{{Timestamp: at, Steps: 1200}}, nil
	}

	got, err := LookupSeries(context.Background(), e, key, fetch)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1200, got[0].Steps)
}
