package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"identity-service/internal/apperror"
	"identity-service/internal/cache"
	"identity-service/internal/database"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newCtx(e *echo.Echo) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPingHandler(t *testing.T) {
	e := echo.New()

	t.Run("db unhealthy", func(t *testing.T) {
		db := &database.FakeDB{PingFn: func(ctx context.Context) error { return errors.New("fail") }}
		ctx, rec := newCtx(e)
		require.NoError(t, PingHandler(db, &cache.FakeCache{})(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "database unhealthy")
	})

	t.Run("cache unhealthy", func(t *testing.T) {
		db := &database.FakeDB{PingFn: func(ctx context.Context) error { return nil }}
		cch := &cache.FakeCache{SetFn: func(ctx context.Context, key string, val any, exp time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("", errors.New("set"))
		}}
		ctx, rec := newCtx(e)
		require.NoError(t, PingHandler(db, cch)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "cache unhealthy")
	})

	t.Run("ok", func(t *testing.T) {
		var gotKey string
		db := &database.FakeDB{PingFn: func(ctx context.Context) error { return nil }}
		cch := &cache.FakeCache{SetFn: func(ctx context.Context, key string, val any, exp time.Duration) *redis.StatusCmd {
			gotKey = key
			return redis.NewStatusResult("OK", nil)
		}}
		ctx, rec := newCtx(e)
		require.NoError(t, PingHandler(db, cch)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, pingKey, gotKey)
		require.Contains(t, rec.Body.String(), "pong")
	})
}

func TestError(t *testing.T) {
	e := echo.New()
	cases := []struct {
		err      error
		status   int
		contains string
	}{
		{apperror.Validation("days must be a non-negative integer"), http.StatusBadRequest, "days must be"},
		{apperror.Conflict("email already registered", errors.New("23505")), http.StatusConflict, "email already registered"},
		{apperror.Forbidden("admin privileges required"), http.StatusForbidden, "admin privileges"},
		{fmt.Errorf("wrapped: %w", apperror.NotFound("user")), http.StatusNotFound, "user not found"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, internalMessage},
	}
	for _, tc := range cases {
		ctx, rec := newCtx(e)
		require.NoError(t, Error(ctx, tc.err))
		require.Equal(t, tc.status, rec.Code)
		require.Contains(t, rec.Body.String(), tc.contains)
		require.NotContains(t, rec.Body.String(), "connection refused")
	}

	ctx, rec := newCtx(e)
	require.NoError(t, BadRequest(ctx, "invalid user ID"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
