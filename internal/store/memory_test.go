package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"identity-service/internal/apperror"
	"identity-service/internal/model"

	"github.com/stretchr/testify/require"
)

func TestMemoryUserStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()
	hash := "h"

	u, err := s.Create(ctx, &model.User{Name: "A", Email: "a@x.com", PasswordHash: &hash, Role: model.RoleUser})
	require.NoError(t, err)
	require.Equal(t, 1, u.ID)
	require.False(t, u.CreatedAt.IsZero())

	_, err = s.Create(ctx, &model.User{Name: "A2", Email: "a@x.com"})
	require.ErrorIs(t, err, apperror.ErrConflict)

	got, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	*got.PasswordHash = "mutated"
	again, err := s.FindByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "h", *again.PasswordHash)

	b, err := s.Create(ctx, &model.User{Name: "B", Email: "b@x.com"})
	require.NoError(t, err)
	b.Email = "a@x.com"
	_, err = s.Save(ctx, b)
	require.ErrorIs(t, err, apperror.ErrConflict)

	_, err = s.Save(ctx, &model.User{ID: 42})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Remove(ctx, &model.User{ID: 1}))
	require.ErrorIs(t, s.Remove(ctx, &model.User{ID: 1}), ErrNotFound)
	_, err = s.FindByID(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUserStoreSaveKeepsLastLogin(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()
	u, err := s.Create(ctx, &model.User{Name: "A", Email: "a@x.com", Role: model.RoleUser})
	require.NoError(t, err)

	stale, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.TouchLastLogin(ctx, u.ID, at))

	stale.Name = "Renamed"
	saved, err := s.Save(ctx, stale)
	require.NoError(t, err)
	require.NotNil(t, saved.LastLoginAt)
	require.True(t, saved.LastLoginAt.Equal(at))

	got, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.Name)
	require.NotNil(t, got.LastLoginAt)
	require.True(t, got.LastLoginAt.Equal(at))
}

func TestMemoryUserStoreListing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Hour) }

	for _, name := range []string{"Carol", "alice", "Bob"} {
		_, err := s.Create(ctx, &model.User{Name: name, Email: name + "@x.com", Role: model.RoleUser})
		require.NoError(t, err)
	}
	_, err := s.Create(ctx, &model.User{Name: "Root", Email: "root@x.com", Role: model.RoleAdmin})
	require.NoError(t, err)

	all, err := s.List(ctx, ListFilter{}, Sort{})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4}, ids(all))

	desc, err := s.List(ctx, ListFilter{}, Sort{Field: SortByCreatedAt, Order: OrderDesc})
	require.NoError(t, err)
	require.Equal(t, []int{4, 3, 2, 1}, ids(desc))

	admin := model.RoleAdmin
	admins, err := s.List(ctx, ListFilter{Role: &admin}, Sort{Field: SortByName})
	require.NoError(t, err)
	require.Equal(t, []int{4}, ids(admins))

	old := base.Add(-60 * 24 * time.Hour)
	recent := base
	require.NoError(t, s.TouchLastLogin(ctx, 1, recent))
	require.NoError(t, s.TouchLastLogin(ctx, 2, old))

	inactive, err := s.ListInactiveSince(ctx, base.Add(-30*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, inactive, 3)
	require.Nil(t, inactive[0].LastLoginAt)
	require.Nil(t, inactive[1].LastLoginAt)
	require.Equal(t, 2, inactive[2].ID)
}

func TestMemoryUserStoreErr(t *testing.T) {
	s := NewMemoryUserStore()
	boom := errors.New("down")
	s.Err = boom
	_, err := s.FindByEmail(context.Background(), "x")
	require.ErrorIs(t, err, boom)
	_, err = s.List(context.Background(), ListFilter{}, Sort{})
	require.ErrorIs(t, err, boom)
}

func ids(users []model.User) []int {
	out := make([]int, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}
