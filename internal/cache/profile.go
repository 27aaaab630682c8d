package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"identity-service/internal/model"

	"github.com/redis/go-redis/v9"
)

const profileKeyPrefix = "user:profile:"

// ProfileCache 以 JSON 快取對外的使用者資料（不含密碼雜湊）
// 快取為盡力而為：任何 Redis 錯誤都記錄後視為未命中
type ProfileCache struct {
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewProfileCache 建立 ProfileCache；ttl <= 0 表示不設過期
func NewProfileCache(c Cache, ttl time.Duration, logger *slog.Logger) *ProfileCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileCache{cache: c, ttl: ttl, logger: logger}
}

func profileKey(id int) string {
	return profileKeyPrefix + strconv.Itoa(id)
}

// Get 取得快取的使用者；未命中或失敗時 ok 為 false
func (p *ProfileCache) Get(ctx context.Context, id int) (*model.PublicUser, bool) {
	raw, err := p.cache.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.WarnContext(ctx, "profile cache get failed", slog.Int("user_id", id), slog.Any("error", err))
		}
		return nil, false
	}
	var u model.PublicUser
	if err := json.Unmarshal(raw, &u); err != nil {
		p.logger.WarnContext(ctx, "profile cache entry corrupt", slog.Int("user_id", id), slog.Any("error", err))
		return nil, false
	}
	return &u, true
}

// Put 寫入快取
func (p *ProfileCache) Put(ctx context.Context, u model.PublicUser) {
	raw, err := json.Marshal(u)
	if err != nil {
		p.logger.WarnContext(ctx, "profile cache encode failed", slog.Int("user_id", u.ID), slog.Any("error", err))
		return
	}
	if err := p.cache.Set(ctx, profileKey(u.ID), raw, p.ttl).Err(); err != nil {
		p.logger.WarnContext(ctx, "profile cache set failed", slog.Int("user_id", u.ID), slog.Any("error", err))
	}
}

// Evict 刪除快取
func (p *ProfileCache) Evict(ctx context.Context, id int) {
	if err := p.cache.Del(ctx, profileKey(id)).Err(); err != nil {
		p.logger.WarnContext(ctx, "profile cache evict failed", slog.Int("user_id", id), slog.Any("error", err))
	}
}
