package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	domainerrors "adpilot/contexts/ad-operations/action-orchestrator/domain/errors"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"

	"github.com/google/uuid"
)

// Store is the in-memory adapter backing tests and local development. It
// implements the action log, entity reader, outbox, clock, and id generator
// ports with the same conditional-transition semantics as the postgres
// adapter.
type Store struct {
	mu sync.RWMutex

	actions  map[string]entities.ActionLogEntry
	order    []string
	entities map[string]entities.EntitySnapshot
	outbox   []outboxRow
}

type outboxRow struct {
	message     ports.OutboxMessage
	published   bool
	publishedAt time.Time
}

func entityKey(platform entities.Platform, entityType entities.EntityType, entityID string) string {
	return string(platform) + "/" + string(entityType) + "/" + entityID
}

func NewStore(seed []entities.EntitySnapshot) *Store {
	snapshots := make(map[string]entities.EntitySnapshot, len(seed))
	for _, item := range seed {
		snapshots[entityKey(item.Platform, item.EntityType, item.EntityID)] = item
	}
	return &Store{
		actions:  make(map[string]entities.ActionLogEntry),
		entities: snapshots,
	}
}

// SeedEntity adds or replaces a snapshot after construction.
func (s *Store) SeedEntity(snapshot entities.EntitySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[entityKey(snapshot.Platform, snapshot.EntityType, snapshot.EntityID)] = snapshot
}

func (s *Store) InsertAction(_ context.Context, entry entities.ActionLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.actions[entry.ActionID]; exists {
		return domainerrors.ErrDuplicateActionID
	}
	s.actions[entry.ActionID] = entry
	s.order = append(s.order, entry.ActionID)
	return nil
}

func (s *Store) TransitionAction(_ context.Context, actionID string, from, to entities.ActionStatus, update ports.TerminalUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.actions[actionID]
	if !exists {
		return domainerrors.ErrActionLogNotFound
	}
	if entry.Status != from {
		return domainerrors.ErrStatusConflict
	}
	entry.Status = to
	entry.UpdatedAt = time.Now().UTC()
	if update.NewState != nil {
		entry.NewState = update.NewState
	}
	if update.ErrorMessage != "" {
		entry.ErrorMessage = update.ErrorMessage
	}
	if update.ExecutedAt != nil {
		entry.ExecutedAt = update.ExecutedAt
	}
	s.actions[actionID] = entry
	return nil
}

func (s *Store) GetAction(_ context.Context, actionID string) (entities.ActionLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.actions[strings.TrimSpace(actionID)]
	if !exists {
		return entities.ActionLogEntry{}, domainerrors.ErrActionLogNotFound
	}
	return entry, nil
}

func (s *Store) ListActions(_ context.Context, filter ports.ActionLogFilter) ([]entities.ActionLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.ActionLogEntry, 0)
	for _, entry := range s.actions {
		if filter.UserID != "" && entry.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && entry.Status != filter.Status {
			continue
		}
		items = append(items, entry)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return indexOf(s.order, items[i].ActionID) > indexOf(s.order, items[j].ActionID)
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func indexOf(order []string, id string) int {
	for i, item := range order {
		if item == id {
			return i
		}
	}
	return -1
}

func (s *Store) MarkActionRolledBack(_ context.Context, actionID string, rollbackActionID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.actions[actionID]
	if !exists {
		return domainerrors.ErrActionLogNotFound
	}
	rolledBackAt := at.UTC()
	entry.RolledBackAt = &rolledBackAt
	entry.RollbackActionID = rollbackActionID
	entry.UpdatedAt = rolledBackAt
	s.actions[actionID] = entry
	return nil
}

func (s *Store) GetEntity(_ context.Context, platform entities.Platform, entityType entities.EntityType, entityID string) (entities.EntitySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, exists := s.entities[entityKey(platform, entityType, strings.TrimSpace(entityID))]
	if !exists {
		return entities.EntitySnapshot{}, domainerrors.ErrEntityNotFound
	}
	return snapshot, nil
}

func (s *Store) ListCampaigns(_ context.Context, platform entities.Platform) ([]entities.EntitySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.EntitySnapshot, 0)
	for _, snapshot := range s.entities {
		if snapshot.Platform == platform && snapshot.EntityType == entities.EntityTypeCampaign {
			items = append(items, snapshot)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].EntityID < items[j].EntityID
	})
	return items, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, outboxRow{
		message: ports.OutboxMessage{
			OutboxID:     uuid.NewString(),
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    time.Now().UTC(),
		},
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			s.outbox[i].published = true
			s.outbox[i].publishedAt = publishedAt.UTC()
			return nil
		}
	}
	return domainerrors.ErrOutboxMessageNotFound
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
