// File: internal/model/user.go
package model

import "time"

// Role 使用者角色
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid 回報角色是否為已知值
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User 對應 users 資料表；PasswordHash 只在 IsOAuth 為 false 時存在
type User struct {
	ID           int        `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash *string    `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	Status       bool       `db:"status" json:"status"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at"`
	Picture      *string    `db:"picture" json:"picture,omitempty"`
	IsOAuth      bool       `db:"is_oauth" json:"is_oauth"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// PublicUser 是去除密碼欄位後可對外輸出的使用者
type PublicUser struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	Status      bool       `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at"`
	Picture     *string    `json:"picture,omitempty"`
	IsOAuth     bool       `json:"is_oauth"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Public 回傳不含 PasswordHash 的副本
func (u User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
		Picture:     u.Picture,
		IsOAuth:     u.IsOAuth,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// InactiveUser 是閒置使用者清單的精簡投影
type InactiveUser struct {
	ID          int        `db:"id" json:"id"`
	Email       string     `db:"email" json:"email"`
	Name        string     `db:"name" json:"name"`
	LastLoginAt *time.Time `db:"last_login_at" json:"last_login_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
