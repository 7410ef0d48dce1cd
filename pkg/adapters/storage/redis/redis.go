package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Ihuarraquax/santavibe-sub004/pkg/domain"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/ports"
)

// GroupStorage implements ports.GroupStorage using Redis
type GroupStorage struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewGroupStorage creates a new Redis group storage
func NewGroupStorage(client *redis.Client, ttl time.Duration, logger *zap.Logger) *GroupStorage {
	return &GroupStorage{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// Save stores or replaces a group, keeping the join-code index in sync
func (s *GroupStorage) Save(ctx context.Context, group *domain.Group) error {
	data, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("failed to marshal group: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, getGroupKey(group.ID), data, s.ttl)
	pipe.Set(ctx, getJoinCodeKey(group.JoinCode), group.ID, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}

	s.logger.Debug("group saved",
		zap.String("group_id", group.ID),
		zap.String("status", string(group.Status)))

	return nil
}

// Get retrieves a group by ID
func (s *GroupStorage) Get(ctx context.Context, groupID string) (*domain.Group, error) {
	data, err := s.client.Get(ctx, getGroupKey(groupID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ports.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	var group domain.Group
	if err := json.Unmarshal(data, &group); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group: %w", err)
	}

	return &group, nil
}

// GetByJoinCode retrieves a group through the join-code index
func (s *GroupStorage) GetByJoinCode(ctx context.Context, joinCode string) (*domain.Group, error) {
	groupID, err := s.client.Get(ctx, getJoinCodeKey(joinCode)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ports.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to resolve join code: %w", err)
	}

	return s.Get(ctx, groupID)
}

// Delete removes a group and its join-code index entry
func (s *GroupStorage) Delete(ctx context.Context, groupID string) error {
	group, err := s.Get(ctx, groupID)
	if err != nil {
		if err == ports.ErrGroupNotFound {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, getGroupKey(groupID))
	pipe.Del(ctx, getJoinCodeKey(group.JoinCode))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	s.logger.Debug("group deleted",
		zap.String("group_id", groupID))

	return nil
}

// List returns all stored group IDs
func (s *GroupStorage) List(ctx context.Context) ([]string, error) {
	pattern := "santavibe:group:*"

	var cursor uint64
	var keys []string

	for {
		var batch []string
		var err error

		batch, cursor, err = s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}

		keys = append(keys, batch...)

		if cursor == 0 {
			break
		}
	}

	groupIDs := make([]string, 0, len(keys))
	prefix := "santavibe:group:"
	for _, key := range keys {
		if len(key) > len(prefix) {
			groupIDs = append(groupIDs, key[len(prefix):])
		}
	}

	return groupIDs, nil
}

// getGroupKey returns the Redis key for a group record
func getGroupKey(groupID string) string {
	return fmt.Sprintf("santavibe:group:%s", groupID)
}

// getJoinCodeKey returns the Redis key for a join-code index entry
func getJoinCodeKey(joinCode string) string {
	return fmt.Sprintf("santavibe:joincode:%s", joinCode)
}
