package social

import (
	"context"
	"errors"
	"fmt"

	"github.com/VIVEK-27UX/Readers/internal/repositories"
)

// FriendLister provides the adjacency lists the suggestion engine traverses.
// Friend lists must come back in stored (insertion) order so traversal is
// deterministic.
type FriendLister interface {
	Friends(ctx context.Context, username string) ([]string, error)
}

// DefaultSuggestionLimit caps how many friend suggestions are produced when
// the caller does not specify a limit.
const DefaultSuggestionLimit = 5

// SuggestFriends walks the friendship graph breadth-first from the user's
// direct friends and collects reachable users who are not the user and not
// already a direct friend. The FIFO frontier is seeded with the direct
// friends, so suggestions surface friends-of-friends first. Traversal halts
// once max suggestions are collected or the frontier is exhausted.
func SuggestFriends(ctx context.Context, graph FriendLister, username string, max int) ([]string, error) {
	if max <= 0 {
		max = DefaultSuggestionLimit
	}

	direct, err := graph.Friends(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list friends of %s: %w", username, err)
	}

	isDirect := make(map[string]bool, len(direct))
	for _, friend := range direct {
		isDirect[friend] = true
	}

	visited := map[string]bool{username: true}
	queue := append([]string(nil), direct...)

	var suggestions []string
	for len(queue) > 0 && len(suggestions) < max {
		name := queue[0]
		queue = queue[1:]

		if visited[name] {
			continue
		}
		visited[name] = true

		friends, err := graph.Friends(ctx, name)
		if err != nil {
			// Dangling edges are skipped, matching the leniency of
			// everything else in the traversal.
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("list friends of %s: %w", name, err)
		}

		if !isDirect[name] && name != username {
			suggestions = append(suggestions, name)
		}

		for _, friend := range friends {
			if !visited[friend] {
				queue = append(queue, friend)
			}
		}
	}

	return suggestions, nil
}
