package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"carelink-client/internal/models"
)

// TokenHolder 当前会话的进程级持有者；每个应用实例最多一个活跃会话
type TokenHolder struct {
	mu      sync.RWMutex
	session *models.Session
}

func NewTokenHolder() *TokenHolder { return &TokenHolder{} }

// Set 登录成功后写入会话
func (h *TokenHolder) Set(s *models.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = s
}

// Session 当前会话快照，未登录时为 nil
func (h *TokenHolder) Session() *models.Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.session == nil {
		return nil
	}
	copied := *h.session
	return &copied
}

// AccessToken 当前访问令牌，未登录时为空串
func (h *TokenHolder) AccessToken() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.session == nil {
		return ""
	}
	return h.session.AccessToken
}

// RefreshToken 当前刷新令牌
func (h *TokenHolder) RefreshToken() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.session == nil {
		return ""
	}
	return h.session.RefreshToken
}

// UpdateTokens 续期成功后替换令牌对（保留身份信息）
func (h *TokenHolder) UpdateTokens(access, refresh string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == nil {
		return
	}
	h.session.AccessToken = access
	if refresh != "" {
		h.session.RefreshToken = refresh
	}
}

// Clear 登出时清除会话
func (h *TokenHolder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = nil
}

// Expiry 解析访问令牌的过期时间（不校验签名，签名由后端校验）
// 仅用于日志和诊断；解析失败返回零值
func (h *TokenHolder) Expiry() time.Time {
	token := h.AccessToken()
	if token == "" {
		return time.Time{}
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
