package queries

import (
	"context"
	"log/slog"
	"strings"

	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	domainerrors "adpilot/contexts/ad-operations/action-orchestrator/domain/errors"
	"adpilot/contexts/ad-operations/action-orchestrator/ports"
)

const defaultHistoryLimit = 50

type ActionHistoryQuery struct {
	UserID string
	Status entities.ActionStatus
	Limit  int
}

type ActionHistoryUseCase struct {
	Log    ports.ActionLogRepository
	Logger *slog.Logger
}

// Execute returns the caller's log entries, most recent first.
func (uc ActionHistoryUseCase) Execute(ctx context.Context, query ActionHistoryQuery) ([]entities.ActionLogEntry, error) {
	if strings.TrimSpace(query.UserID) == "" {
		return nil, domainerrors.ErrMissingUserIdentity
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return uc.Log.ListActions(ctx, ports.ActionLogFilter{
		UserID: strings.TrimSpace(query.UserID),
		Status: query.Status,
		Limit:  limit,
	})
}
