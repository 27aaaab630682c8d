// File: internal/service/password.go
package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	bcryptGenerateFromPassword   = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
)

// ErrEmptyPassword 空白密碼不可雜湊
var ErrEmptyPassword = errors.New("password must not be empty")

// Hasher 以 bcrypt 進行單向雜湊與比對，cost 在建構時固定
type Hasher struct {
	cost int
}

// NewHasher 建立 Hasher；cost 超出 bcrypt 允許範圍時使用 bcrypt.DefaultCost
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash 接收明文密碼，回傳 bcrypt 雜湊字串
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashBytes, err := bcryptGenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// Verify 比對明文密碼與雜湊；格式錯誤的雜湊一律視為不符
func (h *Hasher) Verify(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcryptCompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
