package service

import (
	"context"
	"time"

	"bizlevel/internal/cache"
	"bizlevel/internal/domain"
	"bizlevel/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// CatalogService reads the published level catalog.
type CatalogService interface {
	ListPublishedLevels(ctx context.Context) ([]domain.Level, error)
	// GetLevel returns a published level or LEVEL_NOT_FOUND.
	GetLevel(ctx context.Context, levelID string) (*domain.Level, error)
	GetLevelContent(ctx context.Context, levelID string) (*domain.LevelContent, error)
	// Invalidate drops the cached list and, when levelID is set, that level's content.
	Invalidate(ctx context.Context, levelID string)
}

type catalogService struct {
	levels domain.LevelRepository
	cache  domain.Cache
	ttl    time.Duration
	group  singleflight.Group
}

// NewCatalogService creates a catalog reader. cache may be nil.
func NewCatalogService(levels domain.LevelRepository, c domain.Cache, ttl time.Duration) CatalogService {
	return &catalogService{levels: levels, cache: c, ttl: ttl}
}

func (s *catalogService) ListPublishedLevels(ctx context.Context) ([]domain.Level, error) {
	key := cache.PublishedLevelsKey()

	if s.cache != nil {
		var cached []domain.Level
		ok, err := cache.GetJSON(ctx, s.cache, key, &cached)
		if err != nil {
			logger.Get().Warn("CatalogService: cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		levels, err := s.levels.ListPublishedLevels(ctx)
		if err != nil {
			return nil, err
		}
		domain.SortLevels(levels)
		s.store(ctx, key, levels)
		return levels, nil
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to list levels", err)
	}
	return v.([]domain.Level), nil
}

func (s *catalogService) GetLevel(ctx context.Context, levelID string) (*domain.Level, error) {
	levels, err := s.ListPublishedLevels(ctx)
	if err != nil {
		return nil, err
	}
	for i := range levels {
		if levels[i].ID == levelID {
			level := levels[i]
			return &level, nil
		}
	}
	return nil, domain.NewLevelNotFoundError(levelID)
}

func (s *catalogService) GetLevelContent(ctx context.Context, levelID string) (*domain.LevelContent, error) {
	key := cache.LevelContentKey(levelID)

	if s.cache != nil {
		var cached domain.LevelContent
		ok, err := cache.GetJSON(ctx, s.cache, key, &cached)
		if err != nil {
			logger.Get().Warn("CatalogService: cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return &cached, nil
		}
	}

	level, err := s.GetLevel(ctx, levelID)
	if err != nil {
		return nil, err
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		content := &domain.LevelContent{Level: *level}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			content.Videos, err = s.levels.ListVideosByLevel(gctx, levelID)
			return err
		})
		g.Go(func() error {
			var err error
			content.Questions, err = s.levels.ListQuestionsByLevel(gctx, levelID)
			return err
		})
		g.Go(func() error {
			var err error
			content.Artifacts, err = s.levels.ListArtifactsByLevel(gctx, levelID)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		s.store(ctx, key, content)
		return content, nil
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to load level content", err)
	}
	return v.(*domain.LevelContent), nil
}

func (s *catalogService) Invalidate(ctx context.Context, levelID string) {
	if s.cache == nil {
		return
	}
	keys := []string{cache.PublishedLevelsKey()}
	if levelID != "" {
		keys = append(keys, cache.LevelContentKey(levelID))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logger.Get().Warn("CatalogService: cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (s *catalogService) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := cache.SetJSON(ctx, s.cache, key, value, s.ttl); err != nil {
		logger.Get().Warn("CatalogService: cache write failed", zap.String("key", key), zap.Error(err))
	}
}
