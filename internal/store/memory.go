package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"identity-service/internal/apperror"
	"identity-service/internal/model"
)

// MemoryUserStore 是以 map 實作的 UserStore，供測試與本機開發使用
// 行為與 PostgresUserStore 一致：email 唯一、ID 自增、排序規則相同
type MemoryUserStore struct {
	mu     sync.Mutex
	nextID int
	users  map[int]model.User
	now    func() time.Time

	// Err 不為 nil 時，所有方法直接回傳此錯誤
	Err error
}

// NewMemoryUserStore 建立空的 MemoryUserStore
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{nextID: 1, users: map[int]model.User{}, now: time.Now}
}

func (s *MemoryUserStore) emailTaken(email string, except int) bool {
	for id, u := range s.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func clone(u model.User) *model.User {
	c := u
	if u.PasswordHash != nil {
		h := *u.PasswordHash
		c.PasswordHash = &h
	}
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		c.LastLoginAt = &t
	}
	if u.Picture != nil {
		p := *u.Picture
		c.Picture = &p
	}
	return &c
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) FindByID(_ context.Context, id int) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(u), nil
}

func (s *MemoryUserStore) Create(_ context.Context, u *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.emailTaken(u.Email, 0) {
		return nil, apperror.Conflict("email already registered", nil)
	}
	now := s.now()
	u.ID = s.nextID
	u.CreatedAt, u.UpdatedAt = now, now
	s.nextID++
	s.users[u.ID] = *clone(*u)
	return u, nil
}

func (s *MemoryUserStore) Save(_ context.Context, u *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	cur, ok := s.users[u.ID]
	if !ok {
		return nil, ErrNotFound
	}
	if s.emailTaken(u.Email, u.ID) {
		return nil, apperror.Conflict("email already registered", nil)
	}
	u.LastLoginAt = cur.LastLoginAt
	u.UpdatedAt = s.now()
	s.users[u.ID] = *clone(*u)
	return u, nil
}

func (s *MemoryUserStore) Remove(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	delete(s.users, u.ID)
	return nil
}

func (s *MemoryUserStore) TouchLastLogin(ctx context.Context, id int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	u.LastLoginAt = &at
	s.users[id] = u
	return nil
}

func (s *MemoryUserStore) List(_ context.Context, filter ListFilter, srt Sort) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	users := []model.User{}
	for _, u := range s.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		users = append(users, *clone(u))
	}

	desc := srt.Order == OrderDesc
	less := func(a, b model.User) int {
		if srt.Field == SortByName {
			return strings.Compare(a.Name, b.Name)
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	sort.Slice(users, func(i, j int) bool {
		c := less(users[i], users[j])
		if desc {
			c = -c
		}
		if c == 0 {
			return users[i].ID < users[j].ID
		}
		return c < 0
	})
	return users, nil
}

func (s *MemoryUserStore) ListInactiveSince(_ context.Context, threshold time.Time) ([]model.InactiveUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []model.InactiveUser{}
	for _, u := range s.users {
		if u.LastLoginAt != nil && !u.LastLoginAt.Before(threshold) {
			continue
		}
		out = append(out, model.InactiveUser{
			ID:          u.ID,
			Email:       u.Email,
			Name:        u.Name,
			LastLoginAt: clone(u).LastLoginAt,
			CreatedAt:   u.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].LastLoginAt, out[j].LastLoginAt
		switch {
		case a == nil && b == nil:
			return out[i].ID < out[j].ID
		case a == nil:
			return true
		case b == nil:
			return false
		case a.Equal(*b):
			return out[i].ID < out[j].ID
		}
		return a.Before(*b)
	})
	return out, nil
}

var (
	_ UserStore = (*PostgresUserStore)(nil)
	_ UserStore = (*MemoryUserStore)(nil)
)
