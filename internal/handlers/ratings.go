package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/VIVEK-27UX/Readers/internal/logging"
	"github.com/VIVEK-27UX/Readers/internal/models"
	"github.com/VIVEK-27UX/Readers/internal/social"
)

// RatingHandler provides lender rating submission and the community
// leaderboard.
type RatingHandler struct {
	Ratings RatingService
}

// Rate handles POST /api/v1/ratings.
func (h RatingHandler) Rate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Ratings == nil {
		logger.Error("rating service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "rating service unavailable"})
		return
	}

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid rating payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.Ratings.RecordRating(ctx, req.Target, req.Stars); err != nil {
		logger.Warn("rating rejected", "target", req.Target, "stars", req.Stars, "error", err)
		respondCommandError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, map[string]string{"status": "rating recorded"})
}

// Leaderboard handles GET /api/v1/leaderboard with an optional limit.
func (h RatingHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	if h.Ratings == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "rating service unavailable"})
		return
	}

	limit := social.DefaultLeaderboardSize
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	entries, err := h.Ratings.Leaderboard(ctx, limit)
	if err != nil {
		respondCommandError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, leaderboardResponse{Leaderboard: entries})
}

// BadgeHandler serves the pending-count badges shown next to menu entries.
type BadgeHandler struct {
	Service BadgeService
}

// Badges handles GET /api/v1/badges.
func (h BadgeHandler) Badges(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	user := strings.TrimSpace(r.URL.Query().Get("user"))
	if user == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "user query parameter is required"})
		return
	}

	if h.Service == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "badge service unavailable"})
		return
	}

	counts, err := h.Service.Badges(ctx, user)
	if err != nil {
		respondCommandError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, badgesResponse{Badges: counts})
}

type rateRequest struct {
	Target string `json:"target"`
	Stars  int    `json:"stars"`
}

type leaderboardResponse struct {
	Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
}

type badgesResponse struct {
	Badges models.BadgeCounts `json:"badges"`
}
