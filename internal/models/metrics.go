package models

import "time"

// 指标键（用于组合缓存键与导出表名）
const (
	MetricHeartRate = "heartrate"
	MetricSPO2      = "spo2"
	MetricDistance  = "distance"
	MetricSteps     = "steps"
	MetricFalls     = "falls"
)

// HeartRateSample 心率样本（一个时间桶的 min/avg/max）
type HeartRateSample struct {
	Timestamp time.Time `json:"timestamp"`
	MinRate   int       `json:"minrate"`
	AvgRate   float64   `json:"avgrate"`
	MaxRate   int       `json:"maxrate"`
}

// SPO2Sample 血氧样本，SpO2 为 0–1 的小数
type SPO2Sample struct {
	Timestamp time.Time `json:"timestamp"`
	MinSPO2   float64   `json:"minSpO2"`
	AvgSPO2   float64   `json:"avgSpO2"`
	MaxSPO2   float64   `json:"maxSpO2"`
}

// DistanceSample 步行距离样本（公里）
type DistanceSample struct {
	Timestamp time.Time `json:"timestamp"`
	Distance  float64   `json:"distance"`
}

// StepsSample 步数样本
type StepsSample struct {
	Timestamp time.Time `json:"timestamp"`
	Steps     int       `json:"steps"`
}

// FallSample 跌倒事件样本（一个时间桶内的跌倒次数）
type FallSample struct {
	Timestamp time.Time `json:"timestamp"`
	Falls     int       `json:"falls"`
}

// DashboardSnapshot 老人健康总览（最新一次聚合）
type DashboardSnapshot struct {
	HeartRate int     `json:"heartRate"`
	SPO2      float64 `json:"spO2"`
	Steps     int     `json:"steps"`
	Distance  float64 `json:"distance"`
	FallCount int     `json:"fallCount"`
}
