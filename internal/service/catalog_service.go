package service

import (
	"context"
	"encoding/json"
	"time"

	"course_insights/internal/cache"
	"course_insights/internal/model"
	"course_insights/internal/repository"

	"go.uber.org/zap"
)

// Cache keys for each catalog collection
const (
	CacheKeyDepts                 = "catalog:dept"
	CacheKeyCourses               = "catalog:course"
	CacheKeyInstructors           = "catalog:instructor"
	CacheKeyPastInstances         = "catalog:past_instance"
	CacheKeyNewInstances          = "catalog:new_instance"
	CacheKeyInstructorCourseStats = "catalog:instructor_course_stats"
)

// CatalogCacheKeys lists every key written by the catalog service
var CatalogCacheKeys = []string{
	CacheKeyDepts,
	CacheKeyCourses,
	CacheKeyInstructors,
	CacheKeyPastInstances,
	CacheKeyNewInstances,
	CacheKeyInstructorCourseStats,
}

// CatalogService serves the read-only catalog collections
type CatalogService interface {
	ListDepts(ctx context.Context) ([]model.Dept, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
	ListInstructors(ctx context.Context) ([]model.Instructor, error)
	ListPastInstances(ctx context.Context) ([]model.PastInstance, error)
	ListNewInstances(ctx context.Context) ([]model.NewInstance, error)
	ListInstructorCourseStats(ctx context.Context) ([]model.InstructorCourseStat, error)
	Invalidate(ctx context.Context) error
}

type catalogService struct {
	repo  repository.CatalogRepository
	cache cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewCatalogService creates a new CatalogService. Pass cache.Nop{} to disable caching.
func NewCatalogService(repo repository.CatalogRepository, c cache.Cache, ttl time.Duration, log *zap.Logger) CatalogService {
	return &catalogService{repo: repo, cache: c, ttl: ttl, log: log}
}

func (s *catalogService) ListDepts(ctx context.Context) ([]model.Dept, error) {
	return cachedList(ctx, s, CacheKeyDepts, s.repo.ListDepts)
}

func (s *catalogService) ListCourses(ctx context.Context) ([]model.Course, error) {
	return cachedList(ctx, s, CacheKeyCourses, s.repo.ListCourses)
}

func (s *catalogService) ListInstructors(ctx context.Context) ([]model.Instructor, error) {
	return cachedList(ctx, s, CacheKeyInstructors, s.repo.ListInstructors)
}

func (s *catalogService) ListPastInstances(ctx context.Context) ([]model.PastInstance, error) {
	return cachedList(ctx, s, CacheKeyPastInstances, s.repo.ListPastInstances)
}

func (s *catalogService) ListNewInstances(ctx context.Context) ([]model.NewInstance, error) {
	return cachedList(ctx, s, CacheKeyNewInstances, s.repo.ListNewInstances)
}

func (s *catalogService) ListInstructorCourseStats(ctx context.Context) ([]model.InstructorCourseStat, error) {
	return cachedList(ctx, s, CacheKeyInstructorCourseStats, s.repo.ListInstructorCourseStats)
}

// Invalidate drops every cached collection, e.g. after an import
func (s *catalogService) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, CatalogCacheKeys...)
}

// cachedList serves key from the cache when possible and fills it from load
// otherwise. Cache errors are logged and never fail the request.
func cachedList[T any](ctx context.Context, s *catalogService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var items []T
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
		s.log.Warn("discarding undecodable catalog cache entry", zap.String("key", key))
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(items); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
			s.log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return items, nil
}
