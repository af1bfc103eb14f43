package session

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// 重试标记头：带上它的请求不会再次触发续期，防止续期端点自身 401 造成循环
const retriedHeader = "X-Carelink-Token-Retried"

// Renewer 用刷新令牌换取新的令牌对
type Renewer func(refreshToken string) (access string, refresh string, err error)

// Gateway 出站请求的会话网关：注入 Bearer 令牌，并在 401 时续期后重发一次。
// 实现为 http.RoundTripper，挂进 resty 客户端的 Transport。
type Gateway struct {
	base      http.RoundTripper
	tokens    *TokenHolder
	renew     Renewer
	sf        singleflight.Group
	onExpired func()
	logger    *zap.Logger
}

// NewGateway 创建会话网关
// onExpired 在续期失败时回调（UI 层据此跳回未登录入口），可为 nil
func NewGateway(base http.RoundTripper, tokens *TokenHolder, renew Renewer, onExpired func(), logger *zap.Logger) *Gateway {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Gateway{
		base:      base,
		tokens:    tokens,
		renew:     renew,
		onExpired: onExpired,
		logger:    logger,
	}
}

func (g *Gateway) RoundTrip(req *http.Request) (*http.Response, error) {
	sent := g.tokens.AccessToken()
	if sent != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+sent)
	}

	resp, err := g.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	if req.Header.Get(retriedHeader) != "" {
		// 已重试过一次，401 原样向上传播
		return resp, nil
	}

	refresh := g.tokens.RefreshToken()
	if refresh == "" || g.renew == nil {
		g.expire()
		return resp, nil
	}

	// 并发 401 合并为一次续期；迟到者发现令牌已轮换就直接复用
	_, renewErr, _ := g.sf.Do("renew", func() (any, error) {
		if cur := g.tokens.AccessToken(); cur != "" && cur != sent {
			return nil, nil
		}
		access, newRefresh, err := g.renew(refresh)
		if err != nil {
			return nil, err
		}
		g.tokens.UpdateTokens(access, newRefresh)
		g.logger.Info("Access token renewed",
			zap.Time("expires_at", g.tokens.Expiry()),
		)
		return nil, nil
	})
	if renewErr != nil {
		g.logger.Warn("Token renewal failed, session expired",
			zap.Error(renewErr),
		)
		g.expire()
		return resp, nil
	}

	retry, err := cloneForRetry(req)
	if err != nil {
		// 请求体不可重放时放弃重试，返回原始 401
		g.logger.Warn("Cannot replay request after renewal", zap.Error(err))
		return resp, nil
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	retry.Header.Set(retriedHeader, "1")
	retry.Header.Set("Authorization", "Bearer "+g.tokens.AccessToken())

	g.logger.Debug("Retrying request with renewed token",
		zap.String("method", retry.Method),
		zap.String("path", retry.URL.Path),
	)
	return g.base.RoundTrip(retry)
}

func (g *Gateway) expire() {
	g.tokens.Clear()
	if g.onExpired != nil {
		g.onExpired()
	}
}

func cloneForRetry(req *http.Request) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return retry, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("request body is not replayable")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("failed to rewind request body: %w", err)
	}
	retry.Body = body
	return retry, nil
}

// 续期调用有独立的短超时，避免挂住被重放的业务请求
const renewTimeout = 10 * time.Second
