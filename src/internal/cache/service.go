package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"attendance-svc/src/internal/config"
	"attendance-svc/src/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Service interface {
	GetIdentity(ctx context.Context, userID string) (*models.Identity, error)
	CacheIdentity(ctx context.Context, identity *models.Identity) error
	SaveClassSummary(ctx context.Context, classID string, summary *models.Summary) error
	GetClassSummary(ctx context.Context, classID string) (*models.Summary, error)
}

type cacheService struct {
	client *redis.Client
	cfg    *config.CacheConfig
}

const (
	identityKeyPattern = "identity:%s"
	summaryKeyPattern  = "summary:%s"
)

func NewCacheService(client *redis.Client, cfg *config.Configuration) Service {
	return &cacheService{
		client: client,
		cfg:    &cfg.Cache,
	}
}

func (c *cacheService) GetIdentity(ctx context.Context, userID string) (*models.Identity, error) {
	key := fmt.Sprintf(identityKeyPattern, userID)

	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logrus.WithField("user_id", userID).Debug("Identity not found in cache")
			return nil, nil // Not an error, just not found
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to get identity from cache")
		return nil, models.ErrRedisGet
	}

	var identity models.Identity
	if err := json.Unmarshal([]byte(data), &identity); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to unmarshal identity from cache")
		return nil, models.ErrRedisGet
	}

	logrus.WithField("user_id", userID).Debug("Identity retrieved from cache")
	return &identity, nil
}

func (c *cacheService) CacheIdentity(ctx context.Context, identity *models.Identity) error {
	key := fmt.Sprintf(identityKeyPattern, identity.UserID)

	data, err := json.Marshal(identity)
	if err != nil {
		logrus.WithError(err).WithField("user_id", identity.UserID).Error("Failed to marshal identity for cache")
		return models.ErrRedisSet
	}

	expiration := time.Duration(c.cfg.IdentityExpirationMinutes) * time.Minute
	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		logrus.WithError(err).WithField("user_id", identity.UserID).Error("Failed to cache identity")
		return models.ErrRedisSet
	}

	logrus.WithField("user_id", identity.UserID).Debug("Identity cached")
	return nil
}

func (c *cacheService) SaveClassSummary(ctx context.Context, classID string, summary *models.Summary) error {
	key := fmt.Sprintf(summaryKeyPattern, classID)

	data, err := json.Marshal(summary)
	if err != nil {
		logrus.WithError(err).WithField("class_id", classID).Error("Failed to marshal summary for cache")
		return models.ErrRedisSet
	}

	expiration := time.Duration(c.cfg.SummaryExpirationMinutes) * time.Minute
	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		logrus.WithError(err).WithField("class_id", classID).Error("Failed to cache summary")
		return models.ErrRedisSet
	}

	logrus.WithField("class_id", classID).Debug("Class summary cached")
	return nil
}

func (c *cacheService) GetClassSummary(ctx context.Context, classID string) (*models.Summary, error) {
	key := fmt.Sprintf(summaryKeyPattern, classID)

	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logrus.WithField("class_id", classID).Debug("Summary not found in cache")
			return nil, nil // Not an error, just not found
		}
		logrus.WithError(err).WithField("class_id", classID).Error("Failed to get summary from cache")
		return nil, models.ErrRedisGet
	}

	var summary models.Summary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		logrus.WithError(err).WithField("class_id", classID).Error("Failed to unmarshal summary from cache")
		return nil, models.ErrRedisGet
	}

	return &summary, nil
}
