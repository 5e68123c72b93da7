package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/VIVEK-27UX/Readers/internal/logging"
	"github.com/VIVEK-27UX/Readers/internal/models"
)

// FriendHandler provides friendship, invitation and suggestion endpoints.
type FriendHandler struct {
	Friends FriendService
}

// List handles GET /api/v1/friends, returning the user's friends with their
// lending reputation.
func (h FriendHandler) List(w http.ResponseWriter, r *http.Request) {
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

	if h.Friends == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend service unavailable"})
		return
	}

	profiles, err := h.Friends.FriendsOf(ctx, user)
	if err != nil {
		respondCommandError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, friendsResponse{Friends: profiles})
}

// Suggestions handles GET /api/v1/friends/suggestions.
func (h FriendHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
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

	if h.Friends == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend service unavailable"})
		return
	}

	suggestions, err := h.Friends.SuggestFriends(ctx, user)
	if err != nil {
		respondCommandError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, suggestionsResponse{Suggestions: suggestions})
}

// Invite handles POST /api/v1/friends/invite.
func (h FriendHandler) Invite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Friends == nil {
		logger.Error("friend service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend service unavailable"})
		return
	}

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid invite payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	request, err := h.Friends.SendFriendRequest(ctx, req.From, req.To)
	if err != nil {
		logger.Warn("friend invite rejected", "from", req.From, "to", req.To, "error", err)
		respondCommandError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, friendRequestResponse{Request: toFriendRequestView(request)})
}

// Requests handles GET /api/v1/friends/requests, the pending inbox.
func (h FriendHandler) Requests(w http.ResponseWriter, r *http.Request) {
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

	if h.Friends == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend service unavailable"})
		return
	}

	requests, err := h.Friends.IncomingFriendRequests(ctx, user)
	if err != nil {
		respondCommandError(ctx, w, err)
		return
	}

	views := make([]friendRequestView, 0, len(requests))
	for _, request := range requests {
		views = append(views, toFriendRequestView(request))
	}

	respondJSON(ctx, w, http.StatusOK, friendRequestsResponse{Requests: views})
}

// Respond handles POST /api/v1/friends/respond with an accept or reject
// action.
func (h FriendHandler) Respond(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Friends == nil {
		logger.Error("friend service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "friend service unavailable"})
		return
	}

	var req respondFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid respond payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.RequestID <= 0 {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "requestId is required"})
		return
	}

	var err error
	switch req.Action {
	case "accept":
		err = h.Friends.AcceptFriendRequest(ctx, req.RequestID)
	case "reject":
		err = h.Friends.RejectFriendRequest(ctx, req.RequestID)
	default:
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "action must be accept or reject"})
		return
	}

	if err != nil {
		logger.Warn("friend request response rejected", "requestId", req.RequestID, "action", req.Action, "error", err)
		respondCommandError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "request " + req.Action + "ed"})
}

type inviteRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type respondFriendRequest struct {
	RequestID int64  `json:"requestId"`
	Action    string `json:"action"`
}

type friendRequestView struct {
	ID     int64  `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Status string `json:"status"`
}

type friendRequestResponse struct {
	Request friendRequestView `json:"request"`
}

type friendRequestsResponse struct {
	Requests []friendRequestView `json:"requests"`
}

type friendsResponse struct {
	Friends []models.FriendProfile `json:"friends"`
}

type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

func toFriendRequestView(request models.FriendRequest) friendRequestView {
	return friendRequestView{ID: request.ID, From: request.From, To: request.To, Status: request.Status}
}
