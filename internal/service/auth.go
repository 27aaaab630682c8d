package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"identity-service/internal/apperror"
	"identity-service/internal/cache"
	"identity-service/internal/metrics"
	"identity-service/internal/model"
	"identity-service/internal/store"
	"identity-service/internal/worker"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials 不區分查無使用者或密碼錯誤
	ErrInvalidCredentials = apperror.Unauthenticated("invalid credentials")
	// ErrPasswordRequired 一般註冊必須提供密碼
	ErrPasswordRequired = apperror.Validation("password is required")
	ErrEmailRequired    = apperror.Validation("email is required")
)

// RegisterInput 註冊資料；Role、Status、IsOAuth 由呼叫端傳入也會被忽略
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Picture  *string
	IsOAuth  bool
	Role     model.Role
	Status   *bool
}

// LoginResult 登入回應
type LoginResult struct {
	AccessToken string     `json:"access_token"`
	Name        string     `json:"name"`
	Role        model.Role `json:"role"`
	Status      bool       `json:"status"`
	Email       string     `json:"email"`
	UserID      int        `json:"userId"`
}

// AuthDeps 組裝 Auth 所需的協作者；Pool、Profiles、Metrics、Logger、Now 可為空
type AuthDeps struct {
	Users    store.UserStore
	Hasher   *Hasher
	Tokens   *TokenService
	Pool     worker.Pool
	Profiles *cache.ProfileCache
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	Now      func() time.Time
}

// Auth 負責註冊、帳密驗證與簽發 session token
type Auth struct {
	users    store.UserStore
	hasher   *Hasher
	tokens   *TokenService
	pool     worker.Pool
	profiles *cache.ProfileCache
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuth 建立 Auth
func NewAuth(d AuthDeps) *Auth {
	if d.Hasher == nil {
		d.Hasher = NewHasher(bcrypt.DefaultCost)
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Auth{
		users:    d.Users,
		hasher:   d.Hasher,
		tokens:   d.Tokens,
		pool:     d.Pool,
		profiles: d.Profiles,
		metrics:  d.Metrics,
		logger:   d.Logger,
		now:      d.Now,
	}
}

// Register 建立密碼帳號；角色固定為 user、狀態為啟用、非 OAuth
func (a *Auth) Register(ctx context.Context, in RegisterInput) (*model.PublicUser, error) {
	if in.Email == "" {
		a.metrics.Registration(metrics.ResultInvalid)
		return nil, ErrEmailRequired
	}
	if in.Password == "" {
		a.metrics.Registration(metrics.ResultInvalid)
		return nil, ErrPasswordRequired
	}

	hash, err := a.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			a.metrics.Registration(metrics.ResultInvalid)
			return nil, apperror.Validation("password is too long")
		}
		a.metrics.Registration(metrics.ResultError)
		return nil, err
	}

	created, err := a.users.Create(ctx, &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: &hash,
		Role:         model.RoleUser,
		Status:       true,
		Picture:      in.Picture,
		IsOAuth:      false,
	})
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			a.metrics.Registration(metrics.ResultConflict)
		} else {
			a.metrics.Registration(metrics.ResultError)
		}
		return nil, err
	}

	a.metrics.Registration(metrics.ResultSuccess)
	a.logger.InfoContext(ctx, "user registered", slog.Int("user_id", created.ID))
	pub := created.Public()
	return &pub, nil
}

// Authenticate 驗證帳密；成功時回傳的使用者 LastLoginAt 為本次登入時間
func (a *Auth) Authenticate(ctx context.Context, email, password string) (*model.PublicUser, error) {
	u, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			a.metrics.Login(metrics.ResultInvalidCredentials)
			return nil, ErrInvalidCredentials
		}
		a.metrics.Login(metrics.ResultError)
		return nil, err
	}

	if u.IsOAuth || u.PasswordHash == nil || !a.hasher.Verify(password, *u.PasswordHash) {
		a.metrics.Login(metrics.ResultInvalidCredentials)
		a.logger.InfoContext(ctx, "login rejected", slog.Int("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	now := a.now()
	u.LastLoginAt = &now
	a.recordLogin(ctx, u.ID, now)

	a.metrics.Login(metrics.ResultSuccess)
	pub := u.Public()
	return &pub, nil
}

// recordLogin 在背景寫回最後登入時間，失敗只記錄不影響登入
func (a *Auth) recordLogin(ctx context.Context, id int, at time.Time) {
	bg := context.WithoutCancel(ctx)
	task := func() {
		if err := a.users.TouchLastLogin(bg, id, at); err != nil {
			a.logger.WarnContext(bg, "record last login failed", slog.Int("user_id", id), slog.Any("error", err))
			return
		}
		if a.profiles != nil {
			a.profiles.Evict(bg, id)
		}
	}

	if a.pool == nil {
		task()
		return
	}
	if err := a.pool.Submit(task); err != nil {
		a.logger.WarnContext(ctx, "record last login not queued", slog.Int("user_id", id), slog.Any("error", err))
	}
}

// Login 為已通過 Authenticate 的使用者簽發 token，不再檢查密碼
func (a *Auth) Login(u model.PublicUser) (*LoginResult, error) {
	token, err := a.tokens.Issue(model.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}, SessionTTL)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken: token,
		Name:        u.Name,
		Role:        u.Role,
		Status:      u.Status,
		Email:       u.Email,
		UserID:      u.ID,
	}, nil
}
