package store

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
)

var ErrNoCredentials = errors.New("no stored credentials")

// StoredCredentials rememberMe 持久化内容；仅在用户显式勾选时写入，登出时删除
type StoredCredentials struct {
	RememberMe   bool   `json:"rememberMe"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	RefreshToken string `json:"refreshToken"`
}

// CredentialStore 安全凭据存储
type CredentialStore interface {
	Save(creds StoredCredentials) error
	Load() (*StoredCredentials, error)
	Clear() error
}

// FileCredentialStore 文件落盘实现，内容用 ChaCha20-Poly1305 加密
type FileCredentialStore struct {
	path string
	key  []byte
}

// NewFileCredentialStore 创建文件凭据存储；secret 经 SHA-256 派生为加密密钥
func NewFileCredentialStore(path, secret string) *FileCredentialStore {
	sum := sha256.Sum256([]byte(secret))
	return &FileCredentialStore{path: path, key: sum[:]}
}

func (s *FileCredentialStore) Save(creds StoredCredentials) error {
	plain, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	aead, err := chacha20poly1305.New(s.key)
	if err != nil {
		return fmt.Errorf("failed to init cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, plain, nil)

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create credential dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, sealed, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

func (s *FileCredentialStore) Load() (*StoredCredentials, error) {
	sealed, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCredentials
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	aead, err := chacha20poly1305.New(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to init cipher: %w", err)
	}
	if len(sealed) < aead.NonceSize() {
		return nil, ErrNoCredentials
	}
	nonce, box := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, box, nil)
	if err != nil {
		// 密钥变更或文件损坏都视为无凭据
		return nil, ErrNoCredentials
	}

	var creds StoredCredentials
	if err := json.Unmarshal(plain, &creds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}
	return &creds, nil
}

func (s *FileCredentialStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}
