package api

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"carelink-client/internal/models"
)

// fetchSeries 按 (elderEmail, date, period) 拉取一条指标序列
func fetchSeries[T any](ctx context.Context, c *Client, path, elderEmail string, date time.Time, period models.TimeWindow) ([]T, error) {
	var samples []T
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"elderEmail": elderEmail,
			"date":       date.UTC().Format(time.RFC3339),
			"period":     period.String(),
		}).
		SetResult(&samples).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched metric series",
		zap.String("path", path),
		zap.String("elder_email", elderEmail),
		zap.String("period", period.String()),
		zap.Int("sample_count", len(samples)),
	)
	return samples, nil
}

// HeartRate 心率序列
func (c *Client) HeartRate(ctx context.Context, elderEmail string, date time.Time, period models.TimeWindow) ([]models.HeartRateSample, error) {
	return fetchSeries[models.HeartRateSample](ctx, c, "/api/Health/Heartrate", elderEmail, date, period)
}

// SPO2 血氧序列
func (c *Client) SPO2(ctx context.Context, elderEmail string, date time.Time, period models.TimeWindow) ([]models.SPO2Sample, error) {
	return fetchSeries[models.SPO2Sample](ctx, c, "/api/Health/SPO2", elderEmail, date, period)
}

// Distance 步行距离序列
func (c *Client) Distance(ctx context.Context, elderEmail string, date time.Time, period models.TimeWindow) ([]models.DistanceSample, error) {
	return fetchSeries[models.DistanceSample](ctx, c, "/api/Health/Distance", elderEmail, date, period)
}

// Steps 步数序列
func (c *Client) Steps(ctx context.Context, elderEmail string, date time.Time, period models.TimeWindow) ([]models.StepsSample, error) {
	return fetchSeries[models.StepsSample](ctx, c, "/api/Health/Steps", elderEmail, date, period)
}

// Falls 跌倒事件序列
func (c *Client) Falls(ctx context.Context, elderEmail string, date time.Time, period models.TimeWindow) ([]models.FallSample, error) {
	return fetchSeries[models.FallSample](ctx, c, "/api/Health/Falls", elderEmail, date, period)
}

// Dashboard 老人健康总览
func (c *Client) Dashboard(ctx context.Context, elderEmail string) (*models.DashboardSnapshot, error) {
	var snapshot models.DashboardSnapshot
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("elderEmail", elderEmail).
		SetResult(&snapshot).
		Get("/api/Health/Dashboard")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Coordinates 读取老人的家庭围栏（圆心 + 半径）
func (c *Client) Coordinates(ctx context.Context, elderEmail string) (*models.Perimeter, error) {
	var perimeter models.Perimeter
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("elderEmail", elderEmail).
		SetResult(&perimeter).
		Get("/api/Health/Coordinates")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch coordinates: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &perimeter, nil
}

// SetPerimeter 写入围栏半径（整数公里）
func (c *Client) SetPerimeter(ctx context.Context, elderEmail string, radiusKm int) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("elderEmail", elderEmail).
		SetBody(map[string]int{"homeRadius": radiusKm}).
		Post("/api/Health/Perimeter")
	if err != nil {
		return fmt.Errorf("failed to update perimeter: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return err
	}

	c.logger.Info("Perimeter updated",
		zap.String("elder_email", elderEmail),
		zap.Int("radius_km", radiusKm),
	)
	return nil
}
