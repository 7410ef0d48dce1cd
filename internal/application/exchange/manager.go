package exchange

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ihuarraquax/santavibe-sub004/pkg/domain"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/draw"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/ports"
)

// EventTopic is the bus topic all group events are published on.
const EventTopic = "group.events"

// joinCodeLength is the number of characters in a group join code.
const joinCodeLength = 8

// Manager coordinates the gift-exchange group lifecycle
type Manager struct {
	storage  ports.GroupStorage
	eventBus ports.EventBus
	metrics  ports.MetricsCollector
	logger   *zap.Logger

	// Configuration
	maxDrawAttempts int
}

// NewManager creates a new exchange manager
func NewManager(
	storage ports.GroupStorage,
	eventBus ports.EventBus,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
	maxDrawAttempts int,
) *Manager {
	return &Manager{
		storage:         storage,
		eventBus:        eventBus,
		metrics:         metrics,
		logger:          logger,
		maxDrawAttempts: maxDrawAttempts,
	}
}

// CreateGroup creates a new open group with a fresh join code
func (m *Manager) CreateGroup(ctx context.Context, name, budget string) (*domain.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("group name is required")
	}

	group := &domain.Group{
		ID:        uuid.New().String(),
		Name:      name,
		JoinCode:  newJoinCode(),
		Status:    domain.GroupStatusOpen,
		Budget:    budget,
		CreatedAt: time.Now(),
	}

	if err := m.storage.Save(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to save group: %w", err)
	}

	m.publishEvent(ctx, group.ID, domain.EventTypeGroupCreated, map[string]interface{}{
		"name": group.Name,
	})
	m.metrics.RecordGroupCreated()

	m.logger.Info("group created",
		zap.String("group_id", group.ID),
		zap.String("name", group.Name))

	return group, nil
}

// GetGroup retrieves a group by ID
func (m *Manager) GetGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	return m.storage.Get(ctx, groupID)
}

// JoinGroup adds a participant to an open group via its join code
func (m *Manager) JoinGroup(ctx context.Context, joinCode, name, email string) (*domain.Group, *domain.Participant, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil, fmt.Errorf("participant name is required")
	}

	group, err := m.storage.GetByJoinCode(ctx, joinCode)
	if err != nil {
		return nil, nil, err
	}

	if group.Status == domain.GroupStatusDrawn {
		return nil, nil, ErrGroupDrawn
	}
	if email != "" && group.ParticipantByEmail(email) != nil {
		return nil, nil, ErrDuplicateEmail
	}

	participant := domain.Participant{
		ID:       uuid.New().String(),
		Name:     name,
		Email:    email,
		JoinedAt: time.Now(),
	}
	group.Participants = append(group.Participants, participant)

	if err := m.storage.Save(ctx, group); err != nil {
		return nil, nil, fmt.Errorf("failed to save group: %w", err)
	}

	m.publishEvent(ctx, group.ID, domain.EventTypeParticipantJoined, map[string]interface{}{
		"participant_id": participant.ID,
		"name":           participant.Name,
	})
	m.metrics.RecordParticipantJoined()

	m.logger.Info("participant joined",
		zap.String("group_id", group.ID),
		zap.String("participant_id", participant.ID))

	return group, &participant, nil
}

// AddExclusion forbids two participants from being paired in either
// direction. Adding an existing rule is idempotent.
func (m *Manager) AddExclusion(ctx context.Context, groupID, aID, bID string) (*domain.Group, error) {
	if aID == bID {
		return nil, ErrSelfExclusion
	}

	group, err := m.storage.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if group.Status == domain.GroupStatusDrawn {
		return nil, ErrGroupDrawn
	}
	if group.ParticipantByID(aID) == nil || group.ParticipantByID(bID) == nil {
		return nil, ErrParticipantNotFound
	}

	if !group.HasExclusion(aID, bID) {
		group.Exclusions = append(group.Exclusions, domain.Exclusion{A: aID, B: bID})
		if err := m.storage.Save(ctx, group); err != nil {
			return nil, fmt.Errorf("failed to save group: %w", err)
		}

		m.publishEvent(ctx, group.ID, domain.EventTypeExclusionAdded, map[string]interface{}{
			"a": aID,
			"b": bID,
		})
	}

	return group, nil
}

// RemoveExclusion deletes an exclusion rule in either orientation.
// Removing a missing rule is idempotent.
func (m *Manager) RemoveExclusion(ctx context.Context, groupID, aID, bID string) (*domain.Group, error) {
	group, err := m.storage.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if group.Status == domain.GroupStatusDrawn {
		return nil, ErrGroupDrawn
	}

	kept := group.Exclusions[:0]
	for _, e := range group.Exclusions {
		if (e.A == aID && e.B == bID) || (e.A == bID && e.B == aID) {
			continue
		}
		kept = append(kept, e)
	}
	group.Exclusions = kept

	if err := m.storage.Save(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to save group: %w", err)
	}

	return group, nil
}

// SetBudget updates the group's gift budget
func (m *Manager) SetBudget(ctx context.Context, groupID, budget string) (*domain.Group, error) {
	group, err := m.storage.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	group.Budget = budget
	if err := m.storage.Save(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to save group: %w", err)
	}

	return group, nil
}

// UpdateWishlist replaces a participant's wishlist. Wishlists may change
// after the draw; givers see the latest version.
func (m *Manager) UpdateWishlist(ctx context.Context, groupID, participantID string, items []string) (*domain.Group, error) {
	group, err := m.storage.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	participant := group.ParticipantByID(participantID)
	if participant == nil {
		return nil, ErrParticipantNotFound
	}
	participant.Wishlist = items

	if err := m.storage.Save(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to save group: %w", err)
	}

	return group, nil
}

// CheckDraw runs the feasibility validator without attempting a draw,
// giving organizers early feedback on membership and exclusion rules.
func (m *Manager) CheckDraw(ctx context.Context, groupID string) (*draw.Result, error) {
	group, err := m.storage.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return draw.Validate(group.ParticipantIDs(), exclusionPairs(group)), nil
}

// RunDraw executes the assignment engine for an open group and persists
// the result. The engine's typed errors pass through wrapped, so callers
// can distinguish infeasible input from an exhausted search.
func (m *Manager) RunDraw(ctx context.Context, groupID string) (*domain.Group, error) {
	group, err := m.storage.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if group.Status == domain.GroupStatusDrawn {
		return nil, ErrGroupDrawn
	}

	start := time.Now()
	assignment, err := draw.Generate(
		group.ParticipantIDs(),
		exclusionPairs(group),
		draw.WithMaxAttempts(m.maxDrawAttempts),
	)
	duration := time.Since(start)

	if err != nil {
		outcome := drawOutcome(err)
		m.metrics.RecordDraw(outcome, duration)
		m.publishEvent(ctx, group.ID, domain.EventTypeDrawFailed, map[string]interface{}{
			"reason": outcome,
			"error":  err.Error(),
		})

		m.logger.Warn("draw failed",
			zap.String("group_id", group.ID),
			zap.String("outcome", outcome),
			zap.Duration("duration", duration),
			zap.Error(err))

		return nil, fmt.Errorf("draw failed: %w", err)
	}

	now := time.Now()
	group.Assignments = assignment
	group.Status = domain.GroupStatusDrawn
	group.DrawnAt = &now

	if err := m.storage.Save(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to save group: %w", err)
	}

	m.metrics.RecordDraw("success", duration)
	m.publishEvent(ctx, group.ID, domain.EventTypeDrawCompleted, map[string]interface{}{
		"participants": len(group.Participants),
	})

	m.logger.Info("draw completed",
		zap.String("group_id", group.ID),
		zap.Int("participants", len(group.Participants)),
		zap.Duration("duration", duration))

	return group, nil
}

// Assignment reveals the recipient for a single giver. Only the giver's
// own edge of the drawn mapping is ever returned.
func (m *Manager) Assignment(ctx context.Context, groupID, participantID string) (*domain.Participant, error) {
	group, err := m.storage.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if group.Status != domain.GroupStatusDrawn {
		return nil, ErrGroupNotDrawn
	}
	if group.ParticipantByID(participantID) == nil {
		return nil, ErrParticipantNotFound
	}

	recipientID := group.Assignments[participantID]
	recipient := group.ParticipantByID(recipientID)
	if recipient == nil {
		return nil, fmt.Errorf("assignment references unknown participant %q", recipientID)
	}

	return recipient, nil
}

// publishEvent publishes a group event to the event bus
func (m *Manager) publishEvent(ctx context.Context, groupID string, eventType domain.EventType, data map[string]interface{}) {
	event := domain.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		GroupID:   groupID,
		Timestamp: time.Now(),
		Data:      data,
	}

	if err := m.eventBus.Publish(ctx, EventTopic, event); err != nil {
		m.logger.Error("failed to publish event",
			zap.String("group_id", groupID),
			zap.String("event_type", string(eventType)),
			zap.Error(err))
	}
}

// exclusionPairs converts a group's exclusion rules to engine pairs
func exclusionPairs(group *domain.Group) []draw.Pair {
	pairs := make([]draw.Pair, len(group.Exclusions))
	for i, e := range group.Exclusions {
		pairs[i] = draw.Pair{A: e.A, B: e.B}
	}

	return pairs
}

// drawOutcome maps an engine error to a metrics outcome label
func drawOutcome(err error) string {
	var verr *draw.ValidationError
	if errors.As(err, &verr) {
		return "rejected"
	}

	var xerr *draw.ExhaustedError
	if errors.As(err, &xerr) {
		return "exhausted"
	}

	return "error"
}

// newJoinCode generates a short, human-shareable join code
func newJoinCode() string {
	code := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return code[:joinCodeLength]
}
