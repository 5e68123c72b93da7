package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	auth := AuthHandler{Users: deps.Users, Sessions: deps.Sessions, Limiter: deps.AuthLimiter}
	books := BookHandler{Books: deps.Books}
	friends := FriendHandler{Friends: deps.Friends}
	ratings := RatingHandler{Ratings: deps.Ratings}
	badges := BadgeHandler{Service: deps.Badges}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/api/v1/auth/signup", auth.SignUp)
	mux.HandleFunc("/api/v1/auth/login", auth.Login)
	mux.HandleFunc("/api/v1/auth/refresh", auth.Refresh)
	mux.HandleFunc("/api/v1/books", books.Create)
	mux.HandleFunc("/api/v1/books/undo", books.Undo)
	mux.HandleFunc("/api/v1/books/mine", books.Mine)
	mux.HandleFunc("/api/v1/books/community", books.Community)
	mux.HandleFunc("/api/v1/books/request", books.Request)
	mux.HandleFunc("/api/v1/books/requests", books.Requests)
	mux.HandleFunc("/api/v1/books/requests/respond", books.Respond)
	mux.HandleFunc("/api/v1/friends", friends.List)
	mux.HandleFunc("/api/v1/friends/suggestions", friends.Suggestions)
	mux.HandleFunc("/api/v1/friends/invite", friends.Invite)
	mux.HandleFunc("/api/v1/friends/requests", friends.Requests)
	mux.HandleFunc("/api/v1/friends/respond", friends.Respond)
	mux.HandleFunc("/api/v1/ratings", ratings.Rate)
	mux.HandleFunc("/api/v1/leaderboard", ratings.Leaderboard)
	mux.HandleFunc("/api/v1/badges", badges.Badges)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users       UserService
	Sessions    SessionManager
	Books       BookService
	Friends     FriendService
	Ratings     RatingService
	Badges      BadgeService
	AuthLimiter RateLimiter
}
