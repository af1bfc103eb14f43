package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind 通知类型
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Toast 一条短暂通知
type Toast struct {
	ID      string
	Title   string
	Message string
	Kind    Kind
	At      time.Time
}

// Queue 进程级通知队列；条目在 ttl 后自动移除，各条目独立过期
type Queue struct {
	mu     sync.Mutex
	items  []Toast
	timers map[string]*time.Timer
	ttl    time.Duration
	logger *zap.Logger
	closed bool
}

// NewQueue 创建通知队列
func NewQueue(ttl time.Duration, logger *zap.Logger) *Queue {
	if ttl <= 0 {
		ttl = 4 * time.Second
	}
	return &Queue{
		timers: make(map[string]*time.Timer),
		ttl:    ttl,
		logger: logger,
	}
}

// Push 追加一条通知并安排其过期
func (q *Queue) Push(title, message string, kind Kind) Toast {
	t := Toast{
		ID:      uuid.NewString(),
		Title:   title,
		Message: message,
		Kind:    kind,
		At:      time.Now(),
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return t
	}
	q.items = append(q.items, t)
	q.timers[t.ID] = time.AfterFunc(q.ttl, func() { q.remove(t.ID) })

	q.logger.Debug("Toast pushed",
		zap.String("toast_id", t.ID),
		zap.String("kind", string(kind)),
		zap.String("title", title),
	)
	return t
}

// Items 当前可见通知的快照（FIFO）
func (q *Queue) Items() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Toast, len(q.items))
	copy(out, q.items)
	return out
}

// Close 停止所有过期定时器并清空队列
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
	q.items = nil
}

func (q *Queue) remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.timers, id)
	for i, t := range q.items {
		if t.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}
