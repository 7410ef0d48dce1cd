package exchange_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ihuarraquax/santavibe-sub004/internal/application/exchange"
	eventsmem "github.com/Ihuarraquax/santavibe-sub004/pkg/adapters/events/memory"
	storagemem "github.com/Ihuarraquax/santavibe-sub004/pkg/adapters/storage/memory"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/domain"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/draw"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/ports"
)

// spyMetrics records collector calls for assertions.
type spyMetrics struct {
	mu       sync.Mutex
	groups   int
	joins    int
	draws    map[string]int
	notified map[string]int
}

func newSpyMetrics() *spyMetrics {
	return &spyMetrics{draws: make(map[string]int), notified: make(map[string]int)}
}

func (s *spyMetrics) RecordGroupCreated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups++
}

func (s *spyMetrics) RecordParticipantJoined() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joins++
}

func (s *spyMetrics) RecordDraw(outcome string, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws[outcome]++
}

func (s *spyMetrics) RecordNotification(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified[status]++
}

func (s *spyMetrics) RecordWorkerPoolStatus(idle, busy, stopped int) {}

type fixture struct {
	manager *exchange.Manager
	bus     *eventsmem.InMemoryEventBus
	metrics *spyMetrics
	events  *[]domain.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	bus := eventsmem.NewInMemoryEventBus()
	metrics := newSpyMetrics()

	var events []domain.Event
	require.NoError(t, bus.Subscribe(context.Background(), exchange.EventTopic, "test-observer",
		func(ctx context.Context, e domain.Event) error {
			events = append(events, e)
			return nil
		}))

	return &fixture{
		manager: exchange.NewManager(
			storagemem.NewInMemoryGroupStorage(),
			bus,
			metrics,
			zap.NewNop(),
			draw.DefaultMaxAttempts,
		),
		bus:     bus,
		metrics: metrics,
		events:  &events,
	}
}

// populatedGroup creates a group and joins n participants, returning the
// group and participant IDs in join order.
func populatedGroup(t *testing.T, f *fixture, n int) (*domain.Group, []string) {
	t.Helper()
	ctx := context.Background()

	group, err := f.manager.CreateGroup(ctx, "office exchange", "25 EUR")
	require.NoError(t, err)

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name := string(rune('A' + i))
		_, p, err := f.manager.JoinGroup(ctx, group.JoinCode, name, name+"@example.com")
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	got, err := f.manager.GetGroup(ctx, group.ID)
	require.NoError(t, err)

	return got, ids
}

// TestManager_CreateAndJoin covers the happy path and its events.
func TestManager_CreateAndJoin(t *testing.T) {
	f := newFixture(t)
	group, ids := populatedGroup(t, f, 3)

	assert.Equal(t, domain.GroupStatusOpen, group.Status)
	assert.Len(t, group.JoinCode, 8)
	assert.Len(t, ids, 3)
	assert.Equal(t, 1, f.metrics.groups)
	assert.Equal(t, 3, f.metrics.joins)

	require.Len(t, *f.events, 4) // group.created + 3 joins
	assert.Equal(t, domain.EventTypeGroupCreated, (*f.events)[0].Type)
	assert.Equal(t, domain.EventTypeParticipantJoined, (*f.events)[1].Type)
}

// TestManager_JoinRejections covers duplicate emails, bad codes and drawn
// groups.
func TestManager_JoinRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group, _ := populatedGroup(t, f, 3)

	_, _, err := f.manager.JoinGroup(ctx, group.JoinCode, "Dup", "A@example.com")
	assert.ErrorIs(t, err, exchange.ErrDuplicateEmail)

	_, _, err = f.manager.JoinGroup(ctx, "WRONGCOD", "Eve", "eve@example.com")
	assert.ErrorIs(t, err, ports.ErrGroupNotFound)

	_, err = f.manager.RunDraw(ctx, group.ID)
	require.NoError(t, err)

	_, _, err = f.manager.JoinGroup(ctx, group.JoinCode, "Late", "late@example.com")
	assert.ErrorIs(t, err, exchange.ErrGroupDrawn)
}

// TestManager_Exclusions covers add/remove rules and their guards.
func TestManager_Exclusions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group, ids := populatedGroup(t, f, 4)

	_, err := f.manager.AddExclusion(ctx, group.ID, ids[0], ids[0])
	assert.ErrorIs(t, err, exchange.ErrSelfExclusion)

	_, err = f.manager.AddExclusion(ctx, group.ID, ids[0], "stranger")
	assert.ErrorIs(t, err, exchange.ErrParticipantNotFound)

	got, err := f.manager.AddExclusion(ctx, group.ID, ids[0], ids[1])
	require.NoError(t, err)
	assert.Len(t, got.Exclusions, 1)

	// Re-adding in reverse orientation is idempotent.
	got, err = f.manager.AddExclusion(ctx, group.ID, ids[1], ids[0])
	require.NoError(t, err)
	assert.Len(t, got.Exclusions, 1)

	got, err = f.manager.RemoveExclusion(ctx, group.ID, ids[1], ids[0])
	require.NoError(t, err)
	assert.Empty(t, got.Exclusions)
}

// TestManager_WishlistAndBudget covers the remaining mutators.
func TestManager_WishlistAndBudget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group, ids := populatedGroup(t, f, 3)

	got, err := f.manager.UpdateWishlist(ctx, group.ID, ids[0], []string{"socks", "coffee"})
	require.NoError(t, err)
	assert.Equal(t, []string{"socks", "coffee"}, got.ParticipantByID(ids[0]).Wishlist)

	_, err = f.manager.UpdateWishlist(ctx, group.ID, "stranger", nil)
	assert.ErrorIs(t, err, exchange.ErrParticipantNotFound)

	got, err = f.manager.SetBudget(ctx, group.ID, "50 EUR")
	require.NoError(t, err)
	assert.Equal(t, "50 EUR", got.Budget)
}

// TestManager_CheckDraw surfaces validator verdicts without drawing.
func TestManager_CheckDraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	group, err := f.manager.CreateGroup(ctx, "tiny", "")
	require.NoError(t, err)
	_, _, err = f.manager.JoinGroup(ctx, group.JoinCode, "A", "a@example.com")
	require.NoError(t, err)

	res, err := f.manager.CheckDraw(ctx, group.ID)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Reasons[0], "minimum 3 participants")

	f2 := newFixture(t)
	full, _ := populatedGroup(t, f2, 3)
	res, err = f2.manager.CheckDraw(context.Background(), full.ID)
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

// TestManager_RunDraw covers the full draw flow: persisted assignments,
// status transition, event, metrics, and the second-draw guard.
func TestManager_RunDraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group, ids := populatedGroup(t, f, 5)

	drawn, err := f.manager.RunDraw(ctx, group.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.GroupStatusDrawn, drawn.Status)
	assert.NotNil(t, drawn.DrawnAt)
	assert.Len(t, drawn.Assignments, 5)
	for _, giver := range ids {
		assert.NotEqual(t, giver, drawn.Assignments[giver])
	}
	assert.Equal(t, 1, f.metrics.draws["success"])

	last := (*f.events)[len(*f.events)-1]
	assert.Equal(t, domain.EventTypeDrawCompleted, last.Type)
	assert.NotContains(t, last.Data, "assignments") // reveal stays out of events

	_, err = f.manager.RunDraw(ctx, group.ID)
	assert.ErrorIs(t, err, exchange.ErrGroupDrawn)
}

// TestManager_RunDraw_Infeasible propagates the engine's typed validation
// error and publishes a draw.failed event.
func TestManager_RunDraw_Infeasible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	group, err := f.manager.CreateGroup(ctx, "too small", "")
	require.NoError(t, err)
	_, _, err = f.manager.JoinGroup(ctx, group.JoinCode, "A", "a@example.com")
	require.NoError(t, err)
	_, _, err = f.manager.JoinGroup(ctx, group.JoinCode, "B", "b@example.com")
	require.NoError(t, err)

	_, err = f.manager.RunDraw(ctx, group.ID)

	var verr *draw.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, f.metrics.draws["rejected"])

	last := (*f.events)[len(*f.events)-1]
	assert.Equal(t, domain.EventTypeDrawFailed, last.Type)
	assert.Equal(t, "rejected", last.Data["reason"])
}

// TestManager_Assignment reveals exactly one recipient per giver and
// guards undrawn groups.
func TestManager_Assignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group, ids := populatedGroup(t, f, 4)

	_, err := f.manager.Assignment(ctx, group.ID, ids[0])
	assert.ErrorIs(t, err, exchange.ErrGroupNotDrawn)

	drawn, err := f.manager.RunDraw(ctx, group.ID)
	require.NoError(t, err)

	recipient, err := f.manager.Assignment(ctx, group.ID, ids[0])
	require.NoError(t, err)
	assert.Equal(t, drawn.Assignments[ids[0]], recipient.ID)

	_, err = f.manager.Assignment(ctx, group.ID, "stranger")
	assert.ErrorIs(t, err, exchange.ErrParticipantNotFound)
}
