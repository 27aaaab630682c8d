package service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"identity-service/internal/apperror"
	"identity-service/internal/cache"
	"identity-service/internal/model"
	"identity-service/internal/policy"
	"identity-service/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// ListQuery 篩選與排序條件；空字串代表使用預設值 createdAt / asc
type ListQuery struct {
	Role   *model.Role
	SortBy string
	Order  string
}

// UpdateInput 可更新的欄位；nil 代表不變更。Role 與 IsOAuth 不可經此修改
type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
	Picture  *string
	Status   *bool
}

// Users 對使用者資料的操作一律先經過 policy 判斷，再存取 store
type Users struct {
	users    store.UserStore
	hasher   *Hasher
	profiles *cache.ProfileCache
	logger   *slog.Logger
	now      func() time.Time
}

// NewUsers 建立 Users；profiles 為 nil 時不使用快取
func NewUsers(users store.UserStore, hasher *Hasher, profiles *cache.ProfileCache, logger *slog.Logger, now func() time.Time) *Users {
	if hasher == nil {
		hasher = NewHasher(bcrypt.DefaultCost)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Users{users: users, hasher: hasher, profiles: profiles, logger: logger, now: now}
}

func publicAll(users []model.User) []model.PublicUser {
	out := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out
}

// ListAll 列出所有使用者（僅管理員）
func (s *Users) ListAll(ctx context.Context, p *model.Principal) ([]model.PublicUser, error) {
	if err := policy.Authorize(p, policy.ListAll, policy.Target{}); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, store.ListFilter{}, store.Sort{Field: store.SortByCreatedAt, Order: store.OrderAsc})
	if err != nil {
		return nil, err
	}
	return publicAll(users), nil
}

// ListFiltered 依角色篩選並排序（僅管理員）
func (s *Users) ListFiltered(ctx context.Context, p *model.Principal, q ListQuery) ([]model.PublicUser, error) {
	if err := policy.Authorize(p, policy.ListFiltered, policy.Target{}); err != nil {
		return nil, err
	}

	srt := store.Sort{Field: store.SortByCreatedAt, Order: store.OrderAsc}
	switch store.SortField(q.SortBy) {
	case "":
	case store.SortByName, store.SortByCreatedAt:
		srt.Field = store.SortField(q.SortBy)
	default:
		return nil, apperror.Validation("sortBy must be name or createdAt")
	}
	switch store.SortOrder(q.Order) {
	case "":
	case store.OrderAsc, store.OrderDesc:
		srt.Order = store.SortOrder(q.Order)
	default:
		return nil, apperror.Validation("order must be asc or desc")
	}
	if q.Role != nil && !q.Role.Valid() {
		return nil, apperror.Validation("role must be admin or user")
	}

	users, err := s.users.List(ctx, store.ListFilter{Role: q.Role}, srt)
	if err != nil {
		return nil, err
	}
	return publicAll(users), nil
}

// ListInactive 列出 days 天內未登入的使用者（僅管理員）
func (s *Users) ListInactive(ctx context.Context, p *model.Principal, days int) ([]model.InactiveUser, error) {
	if err := policy.Authorize(p, policy.ListInactive, policy.Target{}); err != nil {
		return nil, err
	}
	if err := policy.ValidateInactiveDays(days); err != nil {
		return nil, err
	}
	return s.users.ListInactiveSince(ctx, inactiveThreshold(s.now(), days))
}

// maxInactiveDays 為 time.Duration 可表示的最大天數
const maxInactiveDays = int64(math.MaxInt64 / int64(24*time.Hour))

// inactiveThreshold 回傳 now 往前 days 天；超出 Duration 範圍時回傳零值時間，只剩從未登入者符合
func inactiveThreshold(now time.Time, days int) time.Time {
	if int64(days) > maxInactiveDays {
		return time.Time{}
	}
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

// Profile 取得呼叫者本人的資料，優先讀取快取
func (s *Users) Profile(ctx context.Context, p *model.Principal) (*model.PublicUser, error) {
	if p == nil {
		return nil, policy.ErrUnauthenticated
	}
	if err := policy.Authorize(p, policy.ReadProfile, policy.Target{UserID: p.UserID}); err != nil {
		return nil, err
	}
	if s.profiles != nil {
		if u, ok := s.profiles.Get(ctx, p.UserID); ok {
			return u, nil
		}
	}
	u, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	pub := u.Public()
	if s.profiles != nil {
		s.profiles.Put(ctx, pub)
	}
	return &pub, nil
}

// Get 依 ID 取得使用者（本人或管理員）
func (s *Users) Get(ctx context.Context, p *model.Principal, id int) (*model.PublicUser, error) {
	if err := policy.Authorize(p, policy.ReadUser, policy.Target{UserID: id}); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

// Update 更新使用者欄位；只有本人可以變更密碼
func (s *Users) Update(ctx context.Context, p *model.Principal, id int, in UpdateInput) (*model.PublicUser, error) {
	target := policy.Target{UserID: id, ChangesPassword: in.Password != nil}
	if err := policy.Authorize(p, policy.UpdateUser, target); err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Password != nil {
		if u.IsOAuth {
			return nil, apperror.Validation("oauth accounts cannot set a password")
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, apperror.Validation("invalid password")
		}
		u.PasswordHash = &hash
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Picture != nil {
		u.Picture = in.Picture
	}
	if in.Status != nil {
		u.Status = *in.Status
	}

	saved, err := s.users.Save(ctx, u)
	if err != nil {
		return nil, err
	}
	if s.profiles != nil {
		s.profiles.Evict(ctx, id)
	}
	s.logger.InfoContext(ctx, "user updated",
		slog.Int("user_id", id),
		slog.Int("by", p.UserID),
		slog.Bool("password_changed", in.Password != nil),
	)
	pub := saved.Public()
	return &pub, nil
}

// Delete 刪除使用者（僅管理員）
func (s *Users) Delete(ctx context.Context, p *model.Principal, id int) error {
	if err := policy.Authorize(p, policy.DeleteUser, policy.Target{UserID: id}); err != nil {
		return err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Remove(ctx, u); err != nil {
		return err
	}
	if s.profiles != nil {
		s.profiles.Evict(ctx, id)
	}
	s.logger.InfoContext(ctx, "user deleted", slog.Int("user_id", id), slog.Int("by", p.UserID))
	return nil
}
