package api

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"carelink-client/internal/config"
)

// Client carelink 后端 REST 客户端
// 所有请求经过会话网关（Bearer 注入 + 401 续期重发），传输层错误由 resty 重试
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient 创建后端客户端；transport 传入会话网关，可为 nil（测试/未认证场景）
func NewClient(cfg *config.Config, transport http.RoundTripper, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.APIBaseURL).
		SetTimeout(cfg.HTTPTimeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if transport != nil {
		client.SetTransport(transport)
	}

	return &Client{
		httpClient: client,
		logger:     logger,
	}
}

// checkStatus 非 2xx 响应转为错误；数据获取函数让错误向缓存层传播
func checkStatus(resp *resty.Response) error {
	if resp.IsError() {
		return fmt.Errorf("api returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
