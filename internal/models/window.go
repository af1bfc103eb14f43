package models

import (
	"fmt"
	"time"
)

// TimeWindow 查询时间窗口（Hour/Day/Week）
type TimeWindow string

const (
	WindowHour TimeWindow = "Hour"
	WindowDay  TimeWindow = "Day"
	WindowWeek TimeWindow = "Week"
)

// Windows 所有窗口，按切换控件的显示顺序
var Windows = []TimeWindow{WindowHour, WindowDay, WindowWeek}

// ParseTimeWindow 解析窗口字符串
func ParseTimeWindow(s string) (TimeWindow, error) {
	switch TimeWindow(s) {
	case WindowHour, WindowDay, WindowWeek:
		return TimeWindow(s), nil
	}
	return "", fmt.Errorf("invalid time window: %q", s)
}

func (w TimeWindow) String() string { return string(w) }

// Step 时间导航步长：Hour ±1h，Day ±1d，Week ±7d
func (w TimeWindow) Step() time.Duration {
	switch w {
	case WindowHour:
		return time.Hour
	case WindowDay:
		return 24 * time.Hour
	case WindowWeek:
		return 7 * 24 * time.Hour
	}
	return 24 * time.Hour
}

// ExpectedSamples 后端约定的样本数量（Hour: 12 x 5min, Day: 24 x 1h, Week: 7 x 1d）
// 客户端不强制校验，仅用于展示层预分配
func (w TimeWindow) ExpectedSamples() int {
	switch w {
	case WindowHour:
		return 12
	case WindowDay:
		return 24
	case WindowWeek:
		return 7
	}
	return 0
}

// Others 返回除自身以外的两个窗口（用于预取）
func (w TimeWindow) Others() []TimeWindow {
	out := make([]TimeWindow, 0, 2)
	for _, o := range Windows {
		if o != w {
			out = append(out, o)
		}
	}
	return out
}
