package api

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"carelink-client/internal/models"
)

// Geocoder 反向地理编码客户端（Nominatim 兼容；独立服务，不带会话头）
type Geocoder struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewGeocoder 创建地理编码客户端
func NewGeocoder(baseURL string, timeout time.Duration, logger *zap.Logger) *Geocoder {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "carelink-client")

	return &Geocoder{httpClient: client, logger: logger}
}

type reverseGeocodeResponse struct {
	Address struct {
		Road    string `json:"road"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Country string `json:"country"`
	} `json:"address"`
}

// ReverseGeocode 坐标转地址
func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (*models.Address, error) {
	var result reverseGeocodeResponse
	resp, err := g.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"format": "json",
			"lat":    strconv.FormatFloat(lat, 'f', -1, 64),
			"lon":    strconv.FormatFloat(lon, 'f', -1, 64),
		}).
		SetResult(&result).
		Get("/reverse")
	if err != nil {
		return nil, fmt.Errorf("failed to reverse geocode: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode())
	}

	city := result.Address.City
	if city == "" {
		city = result.Address.Town
	}
	if city == "" {
		city = result.Address.Village
	}
	return &models.Address{
		Road:    result.Address.Road,
		City:    city,
		Country: result.Address.Country,
	}, nil
}
