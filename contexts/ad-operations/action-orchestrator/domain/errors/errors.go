package errors

import "errors"

var (
	ErrInvalidActionInput    = errors.New("invalid action input")
	ErrUnsupportedPlatform   = errors.New("platform is not supported")
	ErrMissingUserIdentity   = errors.New("caller identity is required")
	ErrFieldNotEditable      = errors.New("field cannot be edited on this entity")
	ErrLearningResetBlocked  = errors.New("change would reset the learning phase and was not acknowledged")
	ErrEntityNotFound        = errors.New("platform entity not found")
	ErrActionLogNotFound     = errors.New("action log entry not found")
	ErrRollbackUnavailable   = errors.New("rollback is not available for this action")
	ErrStatusConflict        = errors.New("action log status transition conflict")
	ErrGatewayUnavailable    = errors.New("no gateway registered for platform")
	ErrDuplicateActionID     = errors.New("action log id already exists")
	ErrOutboxMessageNotFound = errors.New("outbox message not found")
)
