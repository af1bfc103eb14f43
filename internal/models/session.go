package models

import (
	"encoding/json"
	"fmt"
)

// Role 登录主体角色（后端线上格式为 0/1 整数）
type Role int

const (
	RoleCaregiver Role = 0
	RoleElder     Role = 1
)

// ParseRole 从线上整数解析角色，未知值报错（不允许裸整数比较流入业务层）
func ParseRole(v int) (Role, error) {
	switch Role(v) {
	case RoleCaregiver, RoleElder:
		return Role(v), nil
	}
	return 0, fmt.Errorf("unknown role value: %d", v)
}

func (r Role) String() string {
	switch r {
	case RoleCaregiver:
		return "caregiver"
	case RoleElder:
		return "elder"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// UnmarshalJSON 校验线上角色值
func (r *Role) UnmarshalJSON(b []byte) error {
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	parsed, err := ParseRole(v)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(r))
}

// Session 当前登录会话；每个应用实例最多存在一个
type Session struct {
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Credentials 登录凭据
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterForm 注册表单
type RegisterForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
	Role            Role   `json:"role"`
}
