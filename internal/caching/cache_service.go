package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"sipor/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Snapshot memoization, keyed by source identity
	GetSnapshot(ctx context.Context, sourceKey string) (*models.Snapshot, error)
	SetSnapshot(ctx context.Context, snapshot *models.Snapshot, ttl time.Duration) error
	DeleteSnapshot(ctx context.Context, sourceKey string) error

	// Connectivity probe for health checks
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisCacheService(addr, password string, db int, keyPrefix string) CacheService {
	// Parse Redis URL to extract host:port if protocol is included
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	if keyPrefix == "" {
		keyPrefix = "sipor"
	}

	return &redisCacheService{client: client, keyPrefix: keyPrefix}
}

func (r *redisCacheService) snapshotKey(sourceKey string) string {
	return fmt.Sprintf("%s:snapshot:%s", r.keyPrefix, sourceKey)
}

func (r *redisCacheService) GetSnapshot(ctx context.Context, sourceKey string) (*models.Snapshot, error) {
	data, err := r.client.Get(ctx, r.snapshotKey(sourceKey)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *redisCacheService) SetSnapshot(ctx context.Context, snapshot *models.Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.snapshotKey(snapshot.SourceKey), data, ttl).Err()
}

func (r *redisCacheService) DeleteSnapshot(ctx context.Context, sourceKey string) error {
	return r.client.Del(ctx, r.snapshotKey(sourceKey)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
