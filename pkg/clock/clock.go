// Package clock 提供可注入的时间源，业务代码不直接调用time.Now()
package clock

import (
	"sync"
	"time"
)

// Clock 时间源
type Clock interface {
	Now() time.Time
}

// System 系统时钟（UTC）
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// NewSystem wire provider
func NewSystem() Clock {
	return System{}
}

// Manual 手动控制的时钟，测试中使用
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual 创建固定在t的时钟
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance 向前拨动时钟
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Set 设置当前时间
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}
