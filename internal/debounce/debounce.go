// Package debounce 提供“至多一个待执行任务；再次调度即取消并替换”的尾沿防抖。
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Debouncer 在最后一次 Schedule 之后静默 delay 才执行任务。
//
// 约束：
// - 任意时刻至多一个待执行任务
// - Schedule 取消并替换旧任务；Cancel 取消当前任务
// - 任务在 clock 的回调 goroutine 上执行，Debouncer 不持锁调用任务
type Debouncer struct {
	clock clockwork.Clock
	delay time.Duration

	mu    sync.Mutex
	timer clockwork.Timer
	gen   uint64
}

// New 构造 Debouncer；clock 为 nil 时使用真实时钟。
func New(delay time.Duration, clock clockwork.Clock) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Debouncer{clock: clock, delay: delay}
}

func (d *Debouncer) Delay() time.Duration { return d.delay }

// Schedule 安排 fn 在 delay 之后执行。
// 返回值 replaced 表示是否有一个尚未执行的旧任务被取消（旧任务保证不会再执行）。
func (d *Debouncer) Schedule(fn func()) (replaced bool) {
	d.mu.Lock()
	replaced = d.stopLocked()
	d.gen++
	gen := d.gen

	if d.delay <= 0 {
		d.mu.Unlock()
		go fn()
		return replaced
	}

	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.gen == gen {
			d.timer = nil
		}
		d.mu.Unlock()
		fn()
	})
	d.mu.Unlock()
	return replaced
}

// Cancel 取消待执行任务；返回 true 表示确实拦下了一个尚未开始的任务。
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	return d.stopLocked()
}

// Pending 报告当前是否存在待执行任务。
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() bool {
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}
