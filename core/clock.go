package core

import (
	"time"
)

// Clock 时间源接口，便于测试中模拟流逝的时间
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock 返回墙钟时间源
func SystemClock() Clock {
	return systemClock{}
}
