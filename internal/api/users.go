package api

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"carelink-client/internal/models"
)

// loginResponse POST /api/User/login 响应
type loginResponse struct {
	Email        string      `json:"email"`
	Role         models.Role `json:"role"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// Login 登录；失败向上返回错误，吞错并提示的策略在 auth 层
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	var result loginResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(creds).
		SetResult(&result).
		Post("/api/User/login")
	if err != nil {
		return nil, fmt.Errorf("failed to call login: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	email := result.Email
	if email == "" {
		email = creds.Email
	}
	return &models.Session{
		Email:        email,
		Role:         result.Role,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, nil
}

// registerResponse POST /api/User/register 响应
type registerResponse struct {
	ID string `json:"id"`
}

// Register 创建账号；注册本身不建立会话
func (c *Client) Register(ctx context.Context, form models.RegisterForm) (string, error) {
	var result registerResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(form).
		SetResult(&result).
		Post("/api/User/register")
	if err != nil {
		return "", fmt.Errorf("failed to call register: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	return result.ID, nil
}

// RevokeToken 吊销刷新令牌（登出）
func (c *Client) RevokeToken(ctx context.Context, refreshToken string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"refreshToken": refreshToken}).
		Post("/api/User/revoke/token")
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return checkStatus(resp)
}

// Elders 看护人名下的老人列表
func (c *Client) Elders(ctx context.Context) ([]models.Elder, error) {
	var elders []models.Elder
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&elders).
		Get("/api/User/users/getElders")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch elders: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return elders, nil
}

// Caregivers 老人的看护人列表
func (c *Client) Caregivers(ctx context.Context, elderEmail string) ([]models.Caregiver, error) {
	var caregivers []models.Caregiver
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("elderEmail", elderEmail).
		SetResult(&caregivers).
		Get("/api/User/users/elder/caregiver")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch caregivers: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return caregivers, nil
}

// InviteCaregiver 老人邀请看护人
func (c *Client) InviteCaregiver(ctx context.Context, caregiverEmail string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"caregiverEmail": caregiverEmail}).
		Post("/api/User/users/elder/caregiver")
	if err != nil {
		return fmt.Errorf("failed to invite caregiver: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return err
	}

	c.logger.Info("Caregiver invited", zap.String("caregiver_email", caregiverEmail))
	return nil
}

// RemoveCaregiver 解除看护关系
func (c *Client) RemoveCaregiver(ctx context.Context, caregiverEmail string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("caregiverEmail", caregiverEmail).
		Delete("/api/User/users/elder/caregiver")
	if err != nil {
		return fmt.Errorf("failed to remove caregiver: %w", err)
	}
	return checkStatus(resp)
}

// ArduinoDevices 附近可配对的传感器硬件
func (c *Client) ArduinoDevices(ctx context.Context) ([]models.ArduinoDevice, error) {
	var devices []models.ArduinoDevice
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&devices).
		Get("/api/User/users/arduino")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch arduino devices: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return devices, nil
}

// PairArduino 配对传感器硬件
func (c *Client) PairArduino(ctx context.Context, macAddress string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"macAddress": macAddress}).
		Post("/api/User/users/arduino")
	if err != nil {
		return fmt.Errorf("failed to pair arduino: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return err
	}

	c.logger.Info("Arduino paired", zap.String("mac_address", macAddress))
	return nil
}

// UnpairArduino 解除硬件配对
func (c *Client) UnpairArduino(ctx context.Context, macAddress string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("macAddress", macAddress).
		Delete("/api/User/users/arduino")
	if err != nil {
		return fmt.Errorf("failed to unpair arduino: %w", err)
	}
	return checkStatus(resp)
}
