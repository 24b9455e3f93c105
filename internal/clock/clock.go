package clock

import (
	"sync"
	"time"
)

// Clock 可注入的时间源
type Clock interface {
	Now() time.Time
}

// System 系统时钟
type System struct{}

// Now 返回当前时间
func (System) Now() time.Time {
	return time.Now()
}

// Fixed 固定时钟，测试与离线补跑使用
type Fixed struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFixed 创建固定时钟
func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

// Now 返回固定时间
func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

// Set 重置时间
func (f *Fixed) Set(now time.Time) {
	f.mu.Lock()
	f.now = now
	f.mu.Unlock()
}

// Advance 向前推进时间
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// StartOfDay 返回 t 所在日期的零点
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
