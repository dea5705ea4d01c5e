package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bizlevel/internal/domain"
	"bizlevel/internal/logger"

	"go.uber.org/zap"
)

// GetJSON loads key into dest. It reports false on a miss or an undecodable
// entry; callers then fall back to the source of truth.
func GetJSON(ctx context.Context, c domain.Cache, key string, dest interface{}) (bool, error) {
	raw, err := c.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logger.Get().Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

// SetJSON stores value under key as JSON.
func SetJSON(ctx context.Context, c domain.Cache, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, string(data), ttl)
}
