// File: internal/service/token.go
package service

import (
	"errors"
	"fmt"
	"time"

	"identity-service/internal/apperror"
	"identity-service/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTTL 登入 token 的固定有效期限
const SessionTTL = time.Hour

var (
	// ErrMissingSigningKey 未設定簽章金鑰，服務不得啟動
	ErrMissingSigningKey = errors.New("JWT_SECRET not set")
	// ErrInvalidToken token 格式錯誤、簽章不符或已過期
	ErrInvalidToken = apperror.Unauthenticated("invalid token")

	parseWithClaims = jwt.ParseWithClaims
	newTokenID      = uuid.NewString
)

// SessionClaims 定義 JWT 負載內容
type SessionClaims struct {
	UserID int        `json:"userId"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService 簽發與驗證 HS256 session token；建構後不可變，可並行使用
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService 以啟動時載入的金鑰建立 TokenService；now 為 nil 時使用 time.Now
func NewTokenService(secret string, now func() time.Time) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSigningKey
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{secret: []byte(secret), now: now}, nil
}

// Issue 依據身分 claims 與 TTL 產生 JWT，到期時間為簽發時間加上 ttl
func (s *TokenService) Issue(p model.Principal, ttl time.Duration) (string, error) {
	now := s.now()
	claims := SessionClaims{
		UserID: p.UserID,
		Email:  p.Email,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        newTokenID(),
			Subject:   fmt.Sprint(p.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify 驗證並解析 JWT；現在時間到達或超過 exp 即失效，不提供寬限
func (s *TokenService) Verify(tokenString string) (*model.Principal, error) {
	token, err := parseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, &apperror.Error{Kind: apperror.ErrUnauthenticated, Message: ErrInvalidToken.Message, Err: err}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &model.Principal{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}
