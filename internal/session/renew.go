package session

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// renewResponse GET /api/User/renew/token 响应
type renewResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// NewHTTPRenewer 创建走后端续期端点的 Renewer。
// 续期请求使用独立的 resty 客户端，不经过会话网关（续期自身 401 不允许再触发续期）。
func NewHTTPRenewer(baseURL string, logger *zap.Logger) Renewer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(renewTimeout).
		SetHeader("Accept", "application/json")

	return func(refreshToken string) (string, string, error) {
		var result renewResponse
		resp, err := client.R().
			SetHeader("Authorization", "Bearer "+refreshToken).
			SetResult(&result).
			Get("/api/User/renew/token")
		if err != nil {
			return "", "", fmt.Errorf("failed to call renew endpoint: %w", err)
		}
		if resp.StatusCode() != http.StatusOK {
			return "", "", fmt.Errorf("renew endpoint returned status %d", resp.StatusCode())
		}
		if result.AccessToken == "" {
			return "", "", fmt.Errorf("renew endpoint returned empty access token")
		}

		logger.Debug("Renew endpoint succeeded")
		return result.AccessToken, result.RefreshToken, nil
	}
}
