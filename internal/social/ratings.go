package social

import (
	"sort"

	"github.com/VIVEK-27UX/Readers/internal/models"
)

const (
	// MinStars and MaxStars bound a single lender rating.
	MinStars = 1
	MaxStars = 5

	// DefaultLeaderboardSize caps the leaderboard when no limit is given.
	DefaultLeaderboardSize = 10
)

// ValidStars reports whether the submitted rating is within range. A zero
// value means no star was selected.
func ValidStars(stars int) bool {
	return stars >= MinStars && stars <= MaxStars
}

// Leaderboard ranks users descending by average lender rating. Users with no
// reviews rank with an average of 0, which places them at the bottom. The
// sort is stable, so exact ties keep the input (registration) order.
func Leaderboard(users []models.User, limit int) []models.LeaderboardEntry {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}

	entries := make([]models.LeaderboardEntry, 0, len(users))
	for _, user := range users {
		avg, _ := user.AverageRating()
		entries = append(entries, models.LeaderboardEntry{
			Username:      user.Username,
			AverageRating: avg,
			ReviewCount:   user.RatingCount,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AverageRating > entries[j].AverageRating
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
