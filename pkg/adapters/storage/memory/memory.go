package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Ihuarraquax/santavibe-sub004/pkg/domain"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/ports"
)

// InMemoryGroupStorage implements ports.GroupStorage using an in-memory map
// This is for testing purposes only
type InMemoryGroupStorage struct {
	groups    map[string]*domain.Group
	joinCodes map[string]string
	mu        sync.RWMutex
}

// NewInMemoryGroupStorage creates a new in-memory group storage
func NewInMemoryGroupStorage() *InMemoryGroupStorage {
	return &InMemoryGroupStorage{
		groups:    make(map[string]*domain.Group),
		joinCodes: make(map[string]string),
	}
}

// Save stores or replaces a group
func (s *InMemoryGroupStorage) Save(ctx context.Context, group *domain.Group) error {
	copied, err := copyGroup(group)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.groups[group.ID] = copied
	s.joinCodes[group.JoinCode] = group.ID

	return nil
}

// Get retrieves a group by ID
func (s *InMemoryGroupStorage) Get(ctx context.Context, groupID string) (*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[groupID]
	if !ok {
		return nil, ports.ErrGroupNotFound
	}

	return copyGroup(group)
}

// GetByJoinCode retrieves a group by join code
func (s *InMemoryGroupStorage) GetByJoinCode(ctx context.Context, joinCode string) (*domain.Group, error) {
	s.mu.RLock()
	groupID, ok := s.joinCodes[joinCode]
	s.mu.RUnlock()

	if !ok {
		return nil, ports.ErrGroupNotFound
	}

	return s.Get(ctx, groupID)
}

// Delete removes a group
func (s *InMemoryGroupStorage) Delete(ctx context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if group, ok := s.groups[groupID]; ok {
		delete(s.joinCodes, group.JoinCode)
		delete(s.groups, groupID)
	}

	return nil
}

// List returns all stored group IDs
func (s *InMemoryGroupStorage) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groupIDs := make([]string, 0, len(s.groups))
	for id := range s.groups {
		groupIDs = append(groupIDs, id)
	}

	return groupIDs, nil
}

// copyGroup deep-copies a group through JSON so callers never share
// mutable state with the store, matching the isolation Redis gives
func copyGroup(group *domain.Group) (*domain.Group, error) {
	data, err := json.Marshal(group)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal group: %w", err)
	}

	var copied domain.Group
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group: %w", err)
	}

	return &copied, nil
}
