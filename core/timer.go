package core

import (
	"sync"
	"time"
)

// Timer 每秒回报一次已流逝的秒数，供展示层驱动倒计时
// 流逝秒数每次由起点时刻重新计算，标签页挂起、tick 被吞都不会丢时间
type Timer struct {
	clock Clock

	mu   sync.Mutex
	quit chan struct{}
	done chan struct{}
}

// NewTimer 创建计时器
func NewTimer(clock Clock) *Timer {
	return &Timer{clock: clock}
}

// Start 从 startedAt 开始计时，每秒调用一次 onTick
// 若已有计时在跑，先停掉旧的
func (t *Timer) Start(startedAt time.Time, onTick func(elapsedSeconds int)) {
	t.Stop()

	t.mu.Lock()
	quit := make(chan struct{})
	done := make(chan struct{})
	t.quit = quit
	t.done = done
	t.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				onTick(int(t.clock.Now().Sub(startedAt).Seconds()))
			}
		}
	}()
}

// Stop 停止计时，返回后保证不再有 onTick 回调
func (t *Timer) Stop() {
	t.mu.Lock()
	quit, done := t.quit, t.done
	t.quit, t.done = nil, nil
	t.mu.Unlock()

	if quit == nil {
		return
	}
	close(quit)
	<-done
}
