package auth

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"carelink-client/internal/models"
	"carelink-client/internal/notify"
	"carelink-client/internal/session"
	"carelink-client/internal/store"
)

// API 身份生命周期所需的网关子集
type API interface {
	Login(ctx context.Context, creds models.Credentials) (*models.Session, error)
	Register(ctx context.Context, form models.RegisterForm) (string, error)
	RevokeToken(ctx context.Context, refreshToken string) error
}

// Manager 认证状态机：unauthenticated → authenticated-caregiver / authenticated-elder。
// Login/Register 的失败在本层吞掉并转为通知，调用方拿到 nil 而不是错误
type Manager struct {
	api    API
	tokens *session.TokenHolder
	creds  store.CredentialStore
	toasts *notify.Queue
	logger *zap.Logger
}

// NewManager 创建认证管理器
func NewManager(api API, tokens *session.TokenHolder, creds store.CredentialStore, toasts *notify.Queue, logger *zap.Logger) *Manager {
	return &Manager{
		api:    api,
		tokens: tokens,
		creds:  creds,
		toasts: toasts,
		logger: logger,
	}
}

// Login 登录；成功后会话进入令牌持有者，rememberMe 时凭据落盘。
// 失败返回 nil（吞错并提示策略）
func (m *Manager) Login(ctx context.Context, creds models.Credentials, rememberMe bool) *models.Session {
	if err := validateCredentials(creds); err != nil {
		m.toasts.Push("Login failed", err.Error(), notify.KindError)
		return nil
	}

	sess, err := m.api.Login(ctx, creds)
	if err != nil {
		m.toasts.Push("Login failed", "Check your email and password", notify.KindError)
		m.logger.Warn("Login failed",
			zap.String("email", creds.Email),
			zap.Error(err),
		)
		return nil
	}

	m.tokens.Set(sess)

	if rememberMe {
		if err := m.creds.Save(store.StoredCredentials{
			RememberMe:   true,
			Email:        creds.Email,
			Password:     creds.Password,
			RefreshToken: sess.RefreshToken,
		}); err != nil {
			// rememberMe 落盘失败不影响会话
			m.logger.Warn("Failed to persist credentials", zap.Error(err))
		}
	}

	m.logger.Info("User logged in",
		zap.String("email", sess.Email),
		zap.String("role", sess.Role.String()),
	)
	return sess
}

// Register 创建账号，注册本身不建立会话；返回新账号 id，失败返回 nil
func (m *Manager) Register(ctx context.Context, form models.RegisterForm) *string {
	if err := validateRegisterForm(form); err != nil {
		m.toasts.Push("Registration failed", err.Error(), notify.KindError)
		return nil
	}

	id, err := m.api.Register(ctx, form)
	if err != nil {
		m.toasts.Push("Registration failed", "Could not create the account", notify.KindError)
		m.logger.Warn("Registration failed",
			zap.String("email", form.Email),
			zap.Error(err),
		)
		return nil
	}

	m.toasts.Push("Account created", "You can now log in", notify.KindSuccess)
	return &id
}

// Logout 吊销刷新令牌（尽力而为），清会话、清落盘凭据，回到未认证态
func (m *Manager) Logout(ctx context.Context) {
	if refresh := m.tokens.RefreshToken(); refresh != "" {
		if err := m.api.RevokeToken(ctx, refresh); err != nil {
			m.logger.Warn("Token revocation failed", zap.Error(err))
		}
	}
	m.tokens.Clear()
	if err := m.creds.Clear(); err != nil {
		m.logger.Warn("Failed to clear stored credentials", zap.Error(err))
	}
	m.logger.Info("User logged out")
}

// AutoLogin rememberMe 开启时用落盘凭据重放登录；未开启或失败返回 nil
func (m *Manager) AutoLogin(ctx context.Context) *models.Session {
	stored, err := m.creds.Load()
	if err != nil || !stored.RememberMe {
		return nil
	}
	return m.Login(ctx, models.Credentials{
		Email:    stored.Email,
		Password: stored.Password,
	}, true)
}

// Role 当前会话角色；未认证时第二个返回值为 false
func (m *Manager) Role() (models.Role, bool) {
	sess := m.tokens.Session()
	if sess == nil {
		return 0, false
	}
	return sess.Role, true
}

// 表单校验在进入网络层之前完成
func validateCredentials(creds models.Credentials) error {
	if strings.TrimSpace(creds.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if creds.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

func validateRegisterForm(form models.RegisterForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(form.Email) == "" || !strings.Contains(form.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if len(form.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if form.Password != form.ConfirmPassword {
		return fmt.Errorf("passwords do not match")
	}
	switch form.Role {
	case models.RoleCaregiver, models.RoleElder:
		return nil
	}
	return fmt.Errorf("role must be caregiver or elder")
}
