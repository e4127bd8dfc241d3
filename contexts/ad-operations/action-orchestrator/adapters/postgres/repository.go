package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	domainerrors "adpilot/contexts/ad-operations/action-orchestrator/domain/errors"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Repository is the durable action log and outbox store. State-machine
// transitions are conditional updates guarded on the expected prior status so
// two workers can never both move the same entry.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

type actionLogModel struct {
	ActionID         string     `gorm:"column:action_id;primaryKey"`
	UserID           string     `gorm:"column:user_id;index"`
	Platform         string     `gorm:"column:platform"`
	ActionType       string     `gorm:"column:action_type"`
	EntityType       string     `gorm:"column:entity_type"`
	EntityID         string     `gorm:"column:entity_id;index"`
	EntityName       string     `gorm:"column:entity_name"`
	Parameters       []byte     `gorm:"column:parameters;type:jsonb"`
	Status           string     `gorm:"column:status;index"`
	TriggeredBy      string     `gorm:"column:triggered_by"`
	SuggestionID     string     `gorm:"column:suggestion_id"`
	PreviousState    []byte     `gorm:"column:previous_state;type:jsonb"`
	NewState         []byte     `gorm:"column:new_state;type:jsonb"`
	ErrorMessage     string     `gorm:"column:error_message"`
	CreatedAt        time.Time  `gorm:"column:created_at;index"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
	ExecutedAt       *time.Time `gorm:"column:executed_at"`
	RolledBackAt     *time.Time `gorm:"column:rolled_back_at"`
	RollbackActionID string     `gorm:"column:rollback_action_id"`
}

func (actionLogModel) TableName() string { return "ad_action_log" }

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload;type:jsonb"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at;index"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string { return "ad_action_outbox" }

func (r *Repository) InsertAction(ctx context.Context, entry entities.ActionLogEntry) error {
	row, err := actionModelFromEntity(entry)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateActionID
		}
		return err
	}
	return nil
}

func (r *Repository) TransitionAction(ctx context.Context, actionID string, from, to entities.ActionStatus, update ports.TerminalUpdate) error {
	fields := map[string]any{
		"status":     string(to),
		"updated_at": time.Now().UTC(),
	}
	if update.NewState != nil {
		payload, err := json.Marshal(update.NewState)
		if err != nil {
			return err
		}
		fields["new_state"] = payload
	}
	if update.ErrorMessage != "" {
		fields["error_message"] = update.ErrorMessage
	}
	if update.ExecutedAt != nil {
		fields["executed_at"] = update.ExecutedAt
	}

	result := r.db.WithContext(ctx).
		Model(&actionLogModel{}).
		Where("action_id = ? AND status = ?", strings.TrimSpace(actionID), string(from)).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&actionLogModel{}).
			Where("action_id = ?", strings.TrimSpace(actionID)).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrActionLogNotFound
		}
		return domainerrors.ErrStatusConflict
	}
	return nil
}

func (r *Repository) GetAction(ctx context.Context, actionID string) (entities.ActionLogEntry, error) {
	var row actionLogModel
	err := r.db.WithContext(ctx).
		Where("action_id = ?", strings.TrimSpace(actionID)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ActionLogEntry{}, domainerrors.ErrActionLogNotFound
		}
		return entities.ActionLogEntry{}, err
	}
	return actionEntityFromModel(row)
}

func (r *Repository) ListActions(ctx context.Context, filter ports.ActionLogFilter) ([]entities.ActionLogEntry, error) {
	query := r.db.WithContext(ctx).Model(&actionLogModel{})
	if strings.TrimSpace(filter.UserID) != "" {
		query = query.Where("user_id = ?", strings.TrimSpace(filter.UserID))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []actionLogModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.ActionLogEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := actionEntityFromModel(row)
		if err != nil {
			return nil, err
		}
		items = append(items, entry)
	}
	return items, nil
}

func (r *Repository) MarkActionRolledBack(ctx context.Context, actionID string, rollbackActionID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&actionLogModel{}).
		Where("action_id = ?", strings.TrimSpace(actionID)).
		Updates(map[string]any{
			"rolled_back_at":     at.UTC(),
			"rollback_action_id": rollbackActionID,
			"updated_at":         at.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrActionLogNotFound
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	query := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []outboxModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	at := publishedAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ? AND status = ?", strings.TrimSpace(outboxID), outboxStatusPending).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOutboxMessageNotFound
	}
	return nil
}

func actionModelFromEntity(entry entities.ActionLogEntry) (actionLogModel, error) {
	parameters, err := marshalState(entry.Parameters)
	if err != nil {
		return actionLogModel{}, err
	}
	previousState, err := marshalState(entry.PreviousState)
	if err != nil {
		return actionLogModel{}, err
	}
	newState, err := marshalState(entry.NewState)
	if err != nil {
		return actionLogModel{}, err
	}
	return actionLogModel{
		ActionID:         entry.ActionID,
		UserID:           entry.UserID,
		Platform:         string(entry.Platform),
		ActionType:       string(entry.ActionType),
		EntityType:       string(entry.EntityType),
		EntityID:         entry.EntityID,
		EntityName:       entry.EntityName,
		Parameters:       parameters,
		Status:           string(entry.Status),
		TriggeredBy:      string(entry.TriggeredBy),
		SuggestionID:     entry.SuggestionID,
		PreviousState:    previousState,
		NewState:         newState,
		ErrorMessage:     entry.ErrorMessage,
		CreatedAt:        entry.CreatedAt,
		UpdatedAt:        entry.UpdatedAt,
		ExecutedAt:       entry.ExecutedAt,
		RolledBackAt:     entry.RolledBackAt,
		RollbackActionID: entry.RollbackActionID,
	}, nil
}

func actionEntityFromModel(row actionLogModel) (entities.ActionLogEntry, error) {
	parameters, err := unmarshalState(row.Parameters)
	if err != nil {
		return entities.ActionLogEntry{}, err
	}
	previousState, err := unmarshalState(row.PreviousState)
	if err != nil {
		return entities.ActionLogEntry{}, err
	}
	newState, err := unmarshalState(row.NewState)
	if err != nil {
		return entities.ActionLogEntry{}, err
	}
	return entities.ActionLogEntry{
		ActionID:         row.ActionID,
		UserID:           row.UserID,
		Platform:         entities.Platform(row.Platform),
		ActionType:       entities.ActionType(row.ActionType),
		EntityType:       entities.EntityType(row.EntityType),
		EntityID:         row.EntityID,
		EntityName:       row.EntityName,
		Parameters:       parameters,
		Status:           entities.ActionStatus(row.Status),
		TriggeredBy:      entities.TriggerSource(row.TriggeredBy),
		SuggestionID:     row.SuggestionID,
		PreviousState:    previousState,
		NewState:         newState,
		ErrorMessage:     row.ErrorMessage,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
		ExecutedAt:       row.ExecutedAt,
		RolledBackAt:     row.RolledBackAt,
		RollbackActionID: row.RollbackActionID,
	}, nil
}

func marshalState(state map[string]any) ([]byte, error) {
	if state == nil {
		return nil, nil
	}
	return json.Marshal(state)
}

func unmarshalState(payload []byte) (map[string]any, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	var state map[string]any
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, err
	}
	return state, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
