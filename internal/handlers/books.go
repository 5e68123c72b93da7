package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/VIVEK-27UX/Readers/internal/logging"
	"github.com/VIVEK-27UX/Readers/internal/models"
)

// BookHandler provides catalog and borrow-request endpoints.
type BookHandler struct {
	Books BookService
}

// Create handles POST /api/v1/books.
func (h BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Books == nil {
		logger.Error("book service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "book service unavailable"})
		return
	}

	var req addBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid add book payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	book, err := h.Books.AddBook(ctx, req.Owner, req.Title, req.Author)
	if err != nil {
		logger.Warn("add book rejected", "owner", req.Owner, "error", err)
		respondCommandError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, bookResponse{Book: toBookView(book)})
}

// Undo handles POST /api/v1/books/undo, reverting the most recent addition.
func (h BookHandler) Undo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Books == nil {
		logger.Error("book service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "book service unavailable"})
		return
	}

	book, err := h.Books.UndoLastAdd(ctx)
	if err != nil {
		logger.Warn("undo rejected", "error", err)
		respondCommandError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, bookResponse{Book: toBookView(book)})
}

// Mine handles GET /api/v1/books/mine.
func (h BookHandler) Mine(w http.ResponseWriter, r *http.Request) {
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

	if h.Books == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "book service unavailable"})
		return
	}

	books, err := h.Books.MyBooks(ctx, user)
	if err != nil {
		respondCommandError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, listBooksResponse{Books: toBookViews(books)})
}

// Community handles GET /api/v1/books/community with an optional q filter.
func (h BookHandler) Community(w http.ResponseWriter, r *http.Request) {
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

	if h.Books == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "book service unavailable"})
		return
	}

	books, err := h.Books.CommunityBooks(ctx, user, r.URL.Query().Get("q"))
	if err != nil {
		respondCommandError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, listBooksResponse{Books: toBookViews(books)})
}

// Request handles POST /api/v1/books/request.
func (h BookHandler) Request(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Books == nil {
		logger.Error("book service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "book service unavailable"})
		return
	}

	var req requestBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid book request payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.BookID <= 0 || strings.TrimSpace(req.Requester) == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "bookId and requester are required"})
		return
	}

	if err := h.Books.RequestBook(ctx, req.BookID, req.Requester); err != nil {
		logger.Warn("book request rejected", "bookId", req.BookID, "requester", req.Requester, "error", err)
		respondCommandError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, map[string]string{"status": "request sent"})
}

// Requests handles GET /api/v1/books/requests, the owner's inbox.
func (h BookHandler) Requests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	owner := strings.TrimSpace(r.URL.Query().Get("owner"))
	if owner == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "owner query parameter is required"})
		return
	}

	if h.Books == nil {
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "book service unavailable"})
		return
	}

	queues, err := h.Books.OwnerRequests(ctx, owner)
	if err != nil {
		respondCommandError(ctx, w, err)
		return
	}

	views := make([]bookQueueView, 0, len(queues))
	for _, queue := range queues {
		views = append(views, bookQueueView{
			Book:       toBookView(queue.Book),
			Requesters: queue.Requesters,
		})
	}

	respondJSON(ctx, w, http.StatusOK, ownerRequestsResponse{Requests: views})
}

// Respond handles POST /api/v1/books/requests/respond with an accept or
// reject action.
func (h BookHandler) Respond(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Books == nil {
		logger.Error("book service unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "book service unavailable"})
		return
	}

	var req respondBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid respond payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.BookID <= 0 || strings.TrimSpace(req.Requester) == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "bookId and requester are required"})
		return
	}

	var err error
	switch req.Action {
	case "accept":
		err = h.Books.AcceptBookRequest(ctx, req.BookID, req.Requester)
	case "reject":
		err = h.Books.RejectBookRequest(ctx, req.BookID, req.Requester)
	default:
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "action must be accept or reject"})
		return
	}

	if err != nil {
		logger.Warn("book request response rejected", "bookId", req.BookID, "action", req.Action, "error", err)
		respondCommandError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": fmt.Sprintf("request %sed", req.Action)})
}

type addBookRequest struct {
	Owner  string `json:"owner"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type requestBookRequest struct {
	BookID    int64  `json:"bookId"`
	Requester string `json:"requester"`
}

type respondBookRequest struct {
	BookID    int64  `json:"bookId"`
	Requester string `json:"requester"`
	Action    string `json:"action"`
}

type bookView struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Owner  string `json:"owner"`
}

type bookResponse struct {
	Book bookView `json:"book"`
}

type listBooksResponse struct {
	Books []bookView `json:"books"`
}

type bookQueueView struct {
	Book       bookView `json:"book"`
	Requesters []string `json:"requesters"`
}

type ownerRequestsResponse struct {
	Requests []bookQueueView `json:"requests"`
}

func toBookView(book models.Book) bookView {
	return bookView{ID: book.ID, Title: book.Title, Author: book.Author, Owner: book.Owner}
}

func toBookViews(books []models.Book) []bookView {
	views := make([]bookView, 0, len(books))
	for _, book := range books {
		views = append(views, toBookView(book))
	}
	return views
}
