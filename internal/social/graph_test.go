package social

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/VIVEK-27UX/Readers/internal/repositories"
)

type mapGraph map[string][]string

func (g mapGraph) Friends(_ context.Context, username string) ([]string, error) {
	friends, ok := g[username]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return friends, nil
}

type failingGraph struct {
	mapGraph
	failOn string
}

func (g failingGraph) Friends(ctx context.Context, username string) ([]string, error) {
	if username == g.failOn {
		return nil, errors.New("storage down")
	}
	return g.mapGraph.Friends(ctx, username)
}

func TestSuggestFriendsFriendOfFriend(t *testing.T) {
	graph := mapGraph{
		"alice":   {"bob"},
		"bob":     {"alice", "charlie"},
		"charlie": {"bob"},
	}

	suggestions, err := SuggestFriends(context.Background(), graph, "alice", 0)
	if err != nil {
		t.Fatalf("suggest friends: %v", err)
	}

	if !reflect.DeepEqual(suggestions, []string{"charlie"}) {
		t.Fatalf("expected [charlie], got %v", suggestions)
	}
}

func TestSuggestFriendsExcludesSelfAndDirectFriends(t *testing.T) {
	graph := mapGraph{
		"alice":   {"bob", "charlie"},
		"bob":     {"alice", "charlie", "dave"},
		"charlie": {"alice", "bob"},
		"dave":    {"bob", "alice"},
	}

	suggestions, err := SuggestFriends(context.Background(), graph, "alice", 0)
	if err != nil {
		t.Fatalf("suggest friends: %v", err)
	}

	if !reflect.DeepEqual(suggestions, []string{"dave"}) {
		t.Fatalf("expected [dave], got %v", suggestions)
	}
}

func TestSuggestFriendsBreadthFirstOrder(t *testing.T) {
	// Second-degree contacts surface before third-degree ones.
	graph := mapGraph{
		"alice":   {"bob"},
		"bob":     {"alice", "charlie", "dave"},
		"charlie": {"bob", "erin"},
		"dave":    {"bob"},
		"erin":    {"charlie"},
	}

	suggestions, err := SuggestFriends(context.Background(), graph, "alice", 0)
	if err != nil {
		t.Fatalf("suggest friends: %v", err)
	}

	if !reflect.DeepEqual(suggestions, []string{"charlie", "dave", "erin"}) {
		t.Fatalf("expected [charlie dave erin], got %v", suggestions)
	}
}

func TestSuggestFriendsHaltsAtLimit(t *testing.T) {
	graph := mapGraph{
		"alice": {"hub"},
		"hub":   {"alice", "u1", "u2", "u3", "u4", "u5", "u6", "u7"},
		"u1":    {"hub"}, "u2": {"hub"}, "u3": {"hub"}, "u4": {"hub"},
		"u5": {"hub"}, "u6": {"hub"}, "u7": {"hub"},
	}

	suggestions, err := SuggestFriends(context.Background(), graph, "alice", 0)
	if err != nil {
		t.Fatalf("suggest friends: %v", err)
	}

	if len(suggestions) != DefaultSuggestionLimit {
		t.Fatalf("expected %d suggestions, got %d: %v", DefaultSuggestionLimit, len(suggestions), suggestions)
	}

	suggestions, err = SuggestFriends(context.Background(), graph, "alice", 2)
	if err != nil {
		t.Fatalf("suggest friends with limit: %v", err)
	}

	if !reflect.DeepEqual(suggestions, []string{"u1", "u2"}) {
		t.Fatalf("expected [u1 u2], got %v", suggestions)
	}
}

func TestSuggestFriendsNoFriends(t *testing.T) {
	graph := mapGraph{"loner": {}}

	suggestions, err := SuggestFriends(context.Background(), graph, "loner", 0)
	if err != nil {
		t.Fatalf("suggest friends: %v", err)
	}

	if len(suggestions) != 0 {
		t.Fatalf("expected no suggestions, got %v", suggestions)
	}
}

func TestSuggestFriendsSkipsDanglingEdges(t *testing.T) {
	// bob lists a deleted account; the traversal skips it and keeps going.
	graph := mapGraph{
		"alice":   {"bob"},
		"bob":     {"alice", "ghost", "charlie"},
		"charlie": {"bob"},
	}

	suggestions, err := SuggestFriends(context.Background(), graph, "alice", 0)
	if err != nil {
		t.Fatalf("suggest friends: %v", err)
	}

	if !reflect.DeepEqual(suggestions, []string{"charlie"}) {
		t.Fatalf("expected [charlie], got %v", suggestions)
	}
}

func TestSuggestFriendsCyclesTerminate(t *testing.T) {
	graph := mapGraph{
		"a": {"b"},
		"b": {"c", "a"},
		"c": {"a", "b"},
	}

	suggestions, err := SuggestFriends(context.Background(), graph, "a", 0)
	if err != nil {
		t.Fatalf("suggest friends: %v", err)
	}

	if !reflect.DeepEqual(suggestions, []string{"c"}) {
		t.Fatalf("expected [c], got %v", suggestions)
	}
}

func TestSuggestFriendsPropagatesStorageErrors(t *testing.T) {
	graph := failingGraph{
		mapGraph: mapGraph{
			"alice": {"bob"},
			"bob":   {"alice"},
		},
		failOn: "bob",
	}

	if _, err := SuggestFriends(context.Background(), graph, "alice", 0); err == nil {
		t.Fatal("expected error from failing graph")
	}
}
