package service

import (
	"context"
	"encoding/json"
	"errors"
	"exam_system_backend/internal/model"
	"exam_system_backend/internal/repository"
	"exam_system_backend/internal/util"
	"exam_system_backend/pkg/logger"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const orgCacheKeyPrefix = "exam:org:code:"

// OrgCache keeps recently resolved organizations by code.
type OrgCache interface {
	Get(ctx context.Context, code string) (*model.Organization, bool)
	Set(ctx context.Context, org *model.Organization)
}

// RedisOrgCache stores organizations as JSON with a TTL.
type RedisOrgCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisOrgCache(client *redis.Client, ttl time.Duration) *RedisOrgCache {
	return &RedisOrgCache{Client: client, TTL: ttl}
}

func (c *RedisOrgCache) Get(ctx context.Context, code string) (*model.Organization, bool) {
	val, err := c.Client.Get(ctx, orgCacheKeyPrefix+code).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Log.Warn("org cache read failed", zap.String("code", code), zap.Error(err))
		return nil, false
	}
	var org model.Organization
	if err := json.Unmarshal([]byte(val), &org); err != nil {
		return nil, false
	}
	return &org, true
}

func (c *RedisOrgCache) Set(ctx context.Context, org *model.Organization) {
	data, err := json.Marshal(org)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, orgCacheKeyPrefix+org.Code, data, c.TTL).Err(); err != nil {
		logger.Log.Warn("org cache write failed", zap.String("code", org.Code), zap.Error(err))
	}
}

type OrganizationService struct {
	Repo  *repository.OrganizationRepository
	Cache OrgCache
}

// NewOrganizationService accepts a nil cache.
func NewOrganizationService(repo *repository.OrganizationRepository, cache OrgCache) *OrganizationService {
	return &OrganizationService{Repo: repo, Cache: cache}
}

// ResolveByCode returns the active organization with the given code.
func (s *OrganizationService) ResolveByCode(ctx context.Context, code string) (*model.Organization, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, util.ErrOrgNotFound
	}

	if s.Cache != nil {
		if org, ok := s.Cache.Get(ctx, code); ok && org.IsActive() {
			return org, nil
		}
	}

	org, err := s.Repo.FindActiveByCode(code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrOrgNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find organization %q: %w", code, err)
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, org)
	}
	return org, nil
}
