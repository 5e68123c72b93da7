package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/VIVEK-27UX/Readers/internal/auth"
)

func newAuthHandler(t *testing.T, usernames ...string) AuthHandler {
	t.Helper()
	return AuthHandler{
		Users:    newSocialService(t, usernames...),
		Sessions: auth.NewManager(time.Minute, time.Hour, auth.NewInMemorySessionStore()),
	}
}

func TestAuthHandlerSignUp(t *testing.T) {
	handler := newAuthHandler(t)

	body, err := json.Marshal(signUpRequest{Username: "alice", Password: "supersafe", ConfirmPassword: "supersafe"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.SignUp(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp authResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Username != "alice" {
		t.Fatalf("expected username alice, got %q", resp.Username)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatalf("expected tokens to be issued, got %+v", resp.Tokens)
	}

	stored, err := handler.Users.User(context.Background(), "alice")
	if err != nil {
		t.Fatalf("expected user to be stored: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("supersafe")) != nil {
		t.Fatal("stored password is not hashed")
	}
}

func TestAuthHandlerSignUpFailures(t *testing.T) {
	valid := []byte(`{"username":"alice","password":"supersafe","confirmPassword":"supersafe"}`)

	cases := []struct {
		name       string
		handler    AuthHandler
		method     string
		body       []byte
		wantStatus int
	}{
		{"wrongMethod", newAuthHandler(t), http.MethodGet, valid, http.StatusMethodNotAllowed},
		{"missingDeps", AuthHandler{}, http.MethodPost, valid, http.StatusInternalServerError},
		{"badJSON", newAuthHandler(t), http.MethodPost, []byte("{"), http.StatusBadRequest},
		{"missingFields", newAuthHandler(t), http.MethodPost, []byte(`{"username":"","password":""}`), http.StatusBadRequest},
		{"passwordMismatch", newAuthHandler(t), http.MethodPost, []byte(`{"username":"alice","password":"one","confirmPassword":"two"}`), http.StatusBadRequest},
		{"duplicateUsername", newAuthHandler(t, "alice"), http.MethodPost, valid, http.StatusConflict},
		{"rateLimited", AuthHandler{Users: newSocialService(t), Sessions: auth.NewManager(time.Minute, time.Hour, auth.NewInMemorySessionStore()), Limiter: denyLimiter{}}, http.MethodPost, valid, http.StatusTooManyRequests},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/v1/auth/signup", bytes.NewReader(tc.body))
			rec := httptest.NewRecorder()

			tc.handler.SignUp(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	svc := newSocialService(t)
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := svc.Register(context.Background(), "alice", string(hashed)); err != nil {
		t.Fatalf("register: %v", err)
	}

	handler := AuthHandler{Users: svc, Sessions: auth.NewManager(time.Minute, time.Hour, auth.NewInMemorySessionStore())}

	body, err := json.Marshal(loginRequest{Username: "alice", Password: "password123"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp authResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Tokens.AccessToken == "" {
		t.Fatal("expected an access token")
	}

	// Wrong password and unknown users both read as invalid credentials.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"username":"alice","password":"wrong"}`)))
	rec = httptest.NewRecorder()
	handler.Login(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized for wrong password, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"username":"ghost","password":"password123"}`)))
	rec = httptest.NewRecorder()
	handler.Login(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized for unknown user, got %d", rec.Code)
	}
}

func TestAuthHandlerRefresh(t *testing.T) {
	manager := auth.NewManager(time.Minute, time.Hour, auth.NewInMemorySessionStore())
	handler := AuthHandler{Users: newSocialService(t, "alice"), Sessions: manager}

	tokens, err := manager.Issue(context.Background(), "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	body, err := json.Marshal(refreshRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp authResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Tokens.RefreshToken == tokens.RefreshToken {
		t.Fatal("expected a rotated refresh token")
	}

	// The consumed token is invalid on the second exchange.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	handler.Refresh(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized replaying refresh token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader([]byte(`{"refreshToken":""}`)))
	rec = httptest.NewRecorder()
	handler.Refresh(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected bad request for empty token, got %d", rec.Code)
	}
}
