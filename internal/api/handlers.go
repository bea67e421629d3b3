package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ChrisJamesShevlin/snooker/internal/engine"
	"github.com/ChrisJamesShevlin/snooker/internal/models"
	"github.com/ChrisJamesShevlin/snooker/internal/repository"
	"github.com/ChrisJamesShevlin/snooker/internal/service"
)

// ErrorResponse is the JSON body returned on any non-2xx status
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	pricing  *service.PricingService
	players  repository.PlayerRepository
	matches  repository.MatchRepository
	validate *validator.Validate
	logger   *logrus.Logger
}

// NewHandler creates a new handler with dependencies
func NewHandler(pricing *service.PricingService, players repository.PlayerRepository, matches repository.MatchRepository, baseLogger *logrus.Logger) *Handler {
	return &Handler{
		pricing:  pricing,
		players:  players,
		matches:  matches,
		validate: validator.New(),
		logger:   baseLogger,
	}
}

// CreatePlayer registers a new player with season form
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	player := req.ToPlayer()
	if err := h.players.Create(ctx, player); err != nil {
		h.respondServiceError(w, err, "failed to create player")
		return
	}

	h.respondJSON(w, http.StatusCreated, player)
}

// GetPlayer retrieves a single player by ID
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	playerID, err := parseIDParam(r, "playerID")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid player id", err)
		return
	}

	player, err := h.players.GetByID(ctx, playerID)
	if err != nil {
		h.respondServiceError(w, err, "failed to retrieve player")
		return
	}

	h.respondJSON(w, http.StatusOK, player)
}

// ListPlayers retrieves players ordered by season points
// Query params: limit
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit := parseIntParam(r, "limit", 50)
	if limit > 500 {
		limit = 500
	}

	players, err := h.players.List(ctx, limit)
	if err != nil {
		h.respondServiceError(w, err, "failed to list players")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"players": players,
		"count":   len(players),
	})
}

// UpdateSeasonStats replaces a player's season form
func (h *Handler) UpdateSeasonStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	playerID, err := parseIDParam(r, "playerID")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid player id", err)
		return
	}

	var req SeasonStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	player, err := h.players.GetByID(ctx, playerID)
	if err != nil {
		h.respondServiceError(w, err, "failed to retrieve player")
		return
	}

	req.ApplyTo(player)
	if err := h.players.UpdateSeasonStats(ctx, player); err != nil {
		h.respondServiceError(w, err, "failed to update season stats")
		return
	}

	h.respondJSON(w, http.StatusOK, player)
}

// CreateMatch schedules a new match
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	match, err := req.ToMatch()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid player id", err)
		return
	}

	if err := h.pricing.CreateMatch(ctx, match); err != nil {
		h.respondServiceError(w, err, "failed to create match")
		return
	}

	h.respondJSON(w, http.StatusCreated, match)
}

// GetMatch retrieves a single match by ID
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	matchID, err := parseIDParam(r, "matchID")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid match id", err)
		return
	}

	match, err := h.pricing.GetMatch(ctx, matchID)
	if err != nil {
		h.respondServiceError(w, err, "failed to retrieve match")
		return
	}

	h.respondJSON(w, http.StatusOK, match)
}

// ListMatches retrieves matches, either the in-play set or recent ones
// Query params: live, limit
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var (
		matches []*models.Match
		err     error
	)
	if r.URL.Query().Get("live") == "true" {
		matches, err = h.matches.GetLive(ctx)
	} else {
		limit := parseIntParam(r, "limit", 50)
		if limit > 500 {
			limit = 500
		}
		matches, err = h.matches.GetRecent(ctx, limit)
	}
	if err != nil {
		h.respondServiceError(w, err, "failed to list matches")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}

// UpdateScore applies a frame score to a match
func (h *Handler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	matchID, err := parseIDParam(r, "matchID")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid match id", err)
		return
	}

	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	match, err := h.pricing.UpdateScore(ctx, matchID, req.FramesA, req.FramesB)
	if err != nil {
		h.respondServiceError(w, err, "failed to update score")
		return
	}

	h.respondJSON(w, http.StatusOK, match)
}

// EvaluateMatch prices a live snapshot against a stored match
func (h *Handler) EvaluateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	matchID, err := parseIDParam(r, "matchID")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid match id", err)
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	outcome, err := h.pricing.EvaluateMatch(ctx, matchID, req.ToSnapshot())
	if err != nil {
		h.respondServiceError(w, err, "evaluation failed")
		return
	}

	h.respondJSON(w, http.StatusOK, outcome)
}

// Quote prices a standalone snapshot without persistence
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	sheet, err := h.pricing.Quote(req.ToInput())
	if err != nil {
		h.respondServiceError(w, err, "quote failed")
		return
	}

	h.respondJSON(w, http.StatusOK, sheet)
}

// GetEvaluations retrieves recent price sheets for a match
// Query params: limit
func (h *Handler) GetEvaluations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	matchID, err := parseIDParam(r, "matchID")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid match id", err)
		return
	}

	limit := parseIntParam(r, "limit", 50)
	evaluations, err := h.pricing.GetEvaluations(ctx, matchID, limit)
	if err != nil {
		h.respondServiceError(w, err, "failed to retrieve evaluations")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"evaluations": evaluations,
		"count":       len(evaluations),
	})
}

// GetTips retrieves recent tips by classification, VALUE by default
// Query params: classification, limit
func (h *Handler) GetTips(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	classification := r.URL.Query().Get("classification")
	if classification == "" {
		classification = string(engine.ClassificationValue)
	}
	if classification != string(engine.ClassificationValue) && classification != string(engine.ClassificationMarginal) {
		h.respondError(w, http.StatusBadRequest, "classification must be VALUE or MARGINAL", nil)
		return
	}

	limit := parseIntParam(r, "limit", 50)
	tips, err := h.pricing.GetTips(ctx, classification, limit)
	if err != nil {
		h.respondServiceError(w, err, "failed to retrieve tips")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"tips":  tips,
		"count": len(tips),
	})
}

// UpdateTipStatus settles or voids an open tip
func (h *Handler) UpdateTipStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tipID, err := parseIDParam(r, "tipID")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid tip id", err)
		return
	}

	var req TipStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	tip, err := h.pricing.SettleTip(ctx, tipID, models.TipStatus(req.Status))
	if err != nil {
		h.respondServiceError(w, err, "failed to settle tip")
		return
	}

	h.respondJSON(w, http.StatusOK, tip)
}

// respondServiceError maps service errors onto HTTP statuses
func (h *Handler) respondServiceError(w http.ResponseWriter, err error, message string) {
	var domainErr *engine.DomainError

	switch {
	case errors.Is(err, models.ErrNotFound):
		h.respondError(w, http.StatusNotFound, message, err)
	case errors.Is(err, models.ErrMatchFinished), errors.Is(err, models.ErrTipNotOpen):
		h.respondError(w, http.StatusConflict, message, err)
	case errors.Is(err, models.ErrInvalidID),
		errors.Is(err, models.ErrPlayersRequired),
		errors.Is(err, models.ErrPlayersDistinct):
		h.respondError(w, http.StatusBadRequest, message, err)
	case errors.As(err, &domainErr):
		h.respondError(w, http.StatusUnprocessableEntity, message, err)
	default:
		h.respondError(w, http.StatusInternalServerError, message, err)
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		h.logger.WithError(err).WithField("status", status).Warn(message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	if err != nil {
		resp.Message = message + ": " + err.Error()
	}

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		h.logger.WithError(encErr).Error("Failed to encode error response")
	}
}

func parseIDParam(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return uuid.Nil, models.ErrInvalidID
	}
	return uuid.Parse(raw)
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
