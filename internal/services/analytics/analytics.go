// Package analytics собирает агрегаты дашборда по каталогу продавца
// и кеширует их, чтобы не пересчитывать на каждое открытие страницы.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resellerhub/resellerhub/internal/lib/sl"
	"github.com/resellerhub/resellerhub/internal/models"
)

// cacheTTL время жизни агрегатов в кеше.
const cacheTTL = time.Minute

// Repository описывает контракт хранилища для агрегатов дашборда.
type Repository interface {
	GetDashboardSummary(ctx context.Context, userID string) (*models.DashboardSummary, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// AnalyticsService считает агрегаты дашборда с кешированием.
type AnalyticsService struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр AnalyticsService.
// cache может быть nil — тогда агрегаты всегда считаются из базы.
func New(repo Repository, cache Cache, log *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Dashboard возвращает агрегаты каталога пользователя. Для пустого
// каталога все значения нулевые, не ошибка и не null. Ошибки кеша
// не фатальны: агрегаты пересчитываются из базы.
func (s *AnalyticsService) Dashboard(ctx context.Context, userID string) (*models.DashboardSummary, error) {
	key := cacheKey(userID)

	if s.cache != nil {
		var cached models.DashboardSummary
		found, err := s.cache.Get(key, &cached)
		if err != nil {
			s.log.Warn("dashboard cache read failed", sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	summary, err := s.repo.GetDashboardSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(key, summary, cacheTTL); err != nil {
			s.log.Warn("dashboard cache write failed", sl.Err(err))
		}
	}
	return summary, nil
}

// InvalidateFor сбрасывает кеш дашборда пользователя после изменения
// каталога.
func (s *AnalyticsService) InvalidateFor(userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(cacheKey(userID)); err != nil {
		s.log.Warn("dashboard cache invalidate failed", sl.Err(err))
	}
}

func cacheKey(userID string) string {
	return fmt.Sprintf("dashboard:%s", userID)
}
