package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/VIVEK-27UX/Readers/internal/models"
)

func TestFriendHandlerInvite(t *testing.T) {
	svc := newSocialService(t, "alice", "bob")
	handler := FriendHandler{Friends: svc}

	body, err := json.Marshal(inviteRequest{From: "alice", To: "bob"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/friends/invite", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Invite(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp friendRequestResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Request.Status != models.FriendStatusPending {
		t.Fatalf("expected pending status, got %q", resp.Request.Status)
	}
	if resp.Request.ID == 0 {
		t.Fatal("expected an assigned request id")
	}
}

func TestFriendHandlerInviteFailures(t *testing.T) {
	valid := []byte(`{"from":"alice","to":"bob"}`)

	cases := []struct {
		name       string
		handler    FriendHandler
		method     string
		body       []byte
		wantStatus int
	}{
		{"wrongMethod", FriendHandler{Friends: newSocialService(t, "alice", "bob")}, http.MethodGet, valid, http.StatusMethodNotAllowed},
		{"missingService", FriendHandler{}, http.MethodPost, valid, http.StatusInternalServerError},
		{"badJSON", FriendHandler{Friends: newSocialService(t, "alice", "bob")}, http.MethodPost, []byte("{"), http.StatusBadRequest},
		{"selfInvite", FriendHandler{Friends: newSocialService(t, "alice")}, http.MethodPost, []byte(`{"from":"alice","to":"alice"}`), http.StatusBadRequest},
		{"unknownTarget", FriendHandler{Friends: newSocialService(t, "alice")}, http.MethodPost, valid, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/v1/friends/invite", bytes.NewReader(tc.body))
			rec := httptest.NewRecorder()

			tc.handler.Invite(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestFriendHandlerInviteDuplicate(t *testing.T) {
	svc := newSocialService(t, "alice", "bob")
	handler := FriendHandler{Friends: svc}
	body := []byte(`{"from":"alice","to":"bob"}`)

	rec := httptest.NewRecorder()
	handler.Invite(rec, httptest.NewRequest(http.MethodPost, "/api/v1/friends/invite", bytes.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected created, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Invite(rec, httptest.NewRequest(http.MethodPost, "/api/v1/friends/invite", bytes.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected conflict on duplicate invite, got %d", rec.Code)
	}

	// The mirrored invite is a distinct pair.
	rec = httptest.NewRecorder()
	handler.Invite(rec, httptest.NewRequest(http.MethodPost, "/api/v1/friends/invite", bytes.NewReader([]byte(`{"from":"bob","to":"alice"}`))))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected mirrored invite to be created, got %d", rec.Code)
	}
}

func TestFriendHandlerRequestsInbox(t *testing.T) {
	svc := newSocialService(t, "alice", "bob")
	if _, err := svc.SendFriendRequest(context.Background(), "alice", "bob"); err != nil {
		t.Fatalf("send friend request: %v", err)
	}

	handler := FriendHandler{Friends: svc}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/friends/requests?user=bob", nil)
	rec := httptest.NewRecorder()
	handler.Requests(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp friendRequestsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Requests) != 1 || resp.Requests[0].From != "alice" {
		t.Fatalf("unexpected inbox: %+v", resp.Requests)
	}

	rec = httptest.NewRecorder()
	handler.Requests(rec, httptest.NewRequest(http.MethodGet, "/api/v1/friends/requests", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected bad request without user, got %d", rec.Code)
	}
}

func TestFriendHandlerRespond(t *testing.T) {
	svc := newSocialService(t, "alice", "bob")
	request, err := svc.SendFriendRequest(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("send friend request: %v", err)
	}

	handler := FriendHandler{Friends: svc}

	body := []byte(fmt.Sprintf(`{"requestId":%d,"action":"accept"}`, request.ID))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/friends/respond", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Respond(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	friends, err := svc.FriendsOf(context.Background(), "alice")
	if err != nil {
		t.Fatalf("friends of alice: %v", err)
	}
	if len(friends) != 1 || friends[0].Username != "bob" {
		t.Fatalf("expected friendship formed, got %+v", friends)
	}

	// The request is terminal now.
	rec = httptest.NewRecorder()
	handler.Respond(rec, httptest.NewRequest(http.MethodPost, "/api/v1/friends/respond", bytes.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected bad request responding twice, got %d", rec.Code)
	}
}

func TestFriendHandlerRespondFailures(t *testing.T) {
	handler := FriendHandler{Friends: newSocialService(t, "alice", "bob")}

	cases := []struct {
		name       string
		body       []byte
		wantStatus int
	}{
		{"badJSON", []byte("{"), http.StatusBadRequest},
		{"missingId", []byte(`{"requestId":0,"action":"accept"}`), http.StatusBadRequest},
		{"badAction", []byte(`{"requestId":1,"action":"maybe"}`), http.StatusBadRequest},
		{"unknownRequest", []byte(`{"requestId":9999,"action":"accept"}`), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/friends/respond", bytes.NewReader(tc.body))
			rec := httptest.NewRecorder()

			handler.Respond(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestFriendHandlerList(t *testing.T) {
	svc := newSocialService(t, "alice", "bob")
	befriend(t, svc, "alice", "bob")
	if err := svc.RecordRating(context.Background(), "bob", 4); err != nil {
		t.Fatalf("record rating: %v", err)
	}

	handler := FriendHandler{Friends: svc}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/friends?user=alice", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp friendsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Friends) != 1 || resp.Friends[0].Username != "bob" {
		t.Fatalf("unexpected friends payload: %+v", resp.Friends)
	}
	if resp.Friends[0].AverageRating == nil || *resp.Friends[0].AverageRating != 4 {
		t.Fatalf("expected average rating 4, got %+v", resp.Friends[0])
	}
}

func TestFriendHandlerSuggestions(t *testing.T) {
	svc := newSocialService(t, "alice", "bob", "charlie")
	befriend(t, svc, "alice", "bob")
	befriend(t, svc, "bob", "charlie")

	handler := FriendHandler{Friends: svc}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/friends/suggestions?user=alice", nil)
	rec := httptest.NewRecorder()
	handler.Suggestions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var resp suggestionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Suggestions) != 1 || resp.Suggestions[0] != "charlie" {
		t.Fatalf("expected [charlie], got %v", resp.Suggestions)
	}

	rec = httptest.NewRecorder()
	handler.Suggestions(rec, httptest.NewRequest(http.MethodGet, "/api/v1/friends/suggestions?user=ghost", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected not found for unknown user, got %d", rec.Code)
	}
}
