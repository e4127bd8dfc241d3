package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	actionorchestrator "adpilot/contexts/ad-operations/action-orchestrator"
	"adpilot/contexts/ad-operations/action-orchestrator/domain/entities"
	domainerrors "adpilot/contexts/ad-operations/action-orchestrator/domain/errors"
	actionshttp "adpilot/contexts/ad-operations/action-orchestrator/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "adpilot/internal/platform/httpserver/docs"
)

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	actions actionorchestrator.Module
}

func New(actions actionorchestrator.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		actions: actions,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/ad-actions/v1/budget", s.handleUpdateBudget)
	s.mux.HandleFunc("POST /api/ad-actions/v1/status", s.handleToggleStatus)
	s.mux.HandleFunc("POST /api/ad-actions/v1/duplicate", s.handleDuplicateWithSchedule)
	s.mux.HandleFunc("POST /api/ad-actions/v1/schedule", s.handleUpdateSchedule)
	s.mux.HandleFunc("POST /api/ad-actions/v1/rebalance", s.handleRebalanceBudgets)
	s.mux.HandleFunc("POST /api/ad-actions/v1/dry-run", s.handleDryRun)
	s.mux.HandleFunc("POST /api/ad-actions/v1/actions/{action_id}/rollback", s.handleRollbackAction)
	s.mux.HandleFunc("GET /api/ad-actions/v1/actions", s.handleActionHistory)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req actionshttp.UpdateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeActionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp := s.actions.Handler.UpdateBudgetHandler(r.Context(), userID, req)
	writeJSON(w, actionStatus(resp), resp)
}

func (s *Server) handleToggleStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req actionshttp.ToggleStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeActionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp := s.actions.Handler.ToggleStatusHandler(r.Context(), userID, req)
	writeJSON(w, actionStatus(resp), resp)
}

func (s *Server) handleDuplicateWithSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req actionshttp.DuplicateWithScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeActionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp := s.actions.Handler.DuplicateWithScheduleHandler(r.Context(), userID, req)
	writeJSON(w, actionStatus(resp), resp)
}

func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req actionshttp.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeActionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp := s.actions.Handler.UpdateScheduleHandler(r.Context(), userID, req)
	writeJSON(w, actionStatus(resp), resp)
}

func (s *Server) handleRebalanceBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req actionshttp.RebalanceBudgetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeActionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp := s.actions.Handler.RebalanceBudgetsHandler(r.Context(), userID, req)
	// A mixed batch still returns 200; each result carries its own outcome.
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDryRun(w http.ResponseWriter, r *http.Request) {
	var req actionshttp.DryRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeActionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp := s.actions.Handler.DryRunHandler(r.Context(), req)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRollbackAction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	actionID := r.PathValue("action_id")
	resp := s.actions.Handler.RollbackActionHandler(r.Context(), userID, actionID)
	writeJSON(w, actionStatus(resp), resp)
}

func (s *Server) handleActionHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	limit := 0
	if limitRaw := query.Get("limit"); limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeActionError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}
	resp, err := s.actions.Handler.ActionHistoryHandler(r.Context(), userID, query.Get("status"), limit)
	if err != nil {
		writeActionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeActionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

// actionStatus maps a result's failure category onto the HTTP layer. The
// category stays in the body either way.
func actionStatus(resp actionshttp.ActionResponse) int {
	if resp.Success {
		return http.StatusOK
	}
	switch resp.Error {
	case entities.ErrorCategoryConstraint:
		return http.StatusUnprocessableEntity
	case entities.ErrorCategoryUnauthorized:
		return http.StatusUnauthorized
	case entities.ErrorCategoryNotFound:
		return http.StatusNotFound
	case entities.ErrorCategoryRollbackUnavailable:
		return http.StatusConflict
	case entities.ErrorCategoryInvalidInput:
		return http.StatusBadRequest
	case entities.ErrorCategoryGateway:
		return http.StatusBadGateway
	case entities.ErrorCategoryInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeActionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrMissingUserIdentity):
		writeActionError(w, http.StatusUnauthorized, "missing_user", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidActionInput):
		writeActionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domainerrors.ErrActionLogNotFound):
		writeActionError(w, http.StatusNotFound, "action_not_found", err.Error())
	default:
		writeActionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeActionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, actionshttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
