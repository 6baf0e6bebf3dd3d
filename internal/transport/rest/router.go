package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/impact-hub-backend/internal/config"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
	"github.com/heartmarshall/impact-hub-backend/internal/metrics"
	"github.com/heartmarshall/impact-hub-backend/internal/transport/dataloader"
	"github.com/heartmarshall/impact-hub-backend/internal/transport/middleware"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (domain.Principal, error)
}

type userLookup interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

// Deps holds everything the router serves.
type Deps struct {
	Logger  *slog.Logger
	Version string
	CORS    config.CORSConfig
	// AuthRPM limits /auth requests per client IP. Zero disables the limit.
	AuthRPM     int
	RateLimiter *middleware.RateLimiter
	Metrics     *metrics.Collector

	Store     dbPinger
	Tokens    tokenValidator
	UserNames userLookup
	Indexes   []IndexController

	Auth      authService
	Solutions solutionService
	Partners  partnerService
	Tickets   ticketService
	Users     userService
}

// NewRouter builds the HTTP handler with the full middleware chain.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	health := NewHealthHandler(d.Store, d.Version, d.Indexes...)
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics.Handler())
	}

	authH := NewAuthHandler(d.Auth, d.Logger)
	limited := func(h http.HandlerFunc) http.Handler {
		if d.RateLimiter == nil {
			return h
		}
		return d.RateLimiter.Limit(d.AuthRPM)(h)
	}
	mux.Handle("POST /auth/register", limited(authH.Register))
	mux.Handle("POST /auth/login", limited(authH.Login))

	sol := NewSolutionHandler(d.Solutions, d.Logger)
	mux.HandleFunc("GET /solutions", sol.List)
	mux.HandleFunc("POST /solutions", sol.Create)
	mux.HandleFunc("GET /solutions/{id}", sol.Get)
	mux.HandleFunc("PUT /solutions/{id}", sol.Update)
	mux.HandleFunc("PATCH /solutions/{id}/status", sol.ChangeStatus)
	mux.HandleFunc("DELETE /solutions/{id}", sol.Delete)

	par := NewPartnerHandler(d.Partners, d.Logger)
	mux.HandleFunc("GET /partners", par.List)
	mux.HandleFunc("POST /partners", par.Create)
	mux.HandleFunc("GET /partners/{id}", par.Get)
	mux.HandleFunc("PUT /partners/{id}", par.Update)
	mux.HandleFunc("PATCH /partners/{id}/status", par.ChangeStatus)
	mux.HandleFunc("DELETE /partners/{id}", par.Delete)

	tic := NewTicketHandler(d.Tickets, d.Logger)
	mux.HandleFunc("GET /tickets", tic.List)
	mux.HandleFunc("GET /tickets/{id}", tic.Get)
	mux.HandleFunc("POST /tickets/{id}/comments", tic.Comment)
	mux.HandleFunc("POST /tickets/{id}/review", tic.StartReview)
	mux.HandleFunc("POST /tickets/{id}/resolve", tic.Resolve)

	usr := NewUserHandler(d.Users, d.Logger)
	mux.HandleFunc("GET /users/me", usr.Me)
	mux.HandleFunc("GET /users", usr.List)
	mux.HandleFunc("PATCH /users/{id}/role", usr.SetRole)
	mux.HandleFunc("POST /users/me/associations", usr.RequestAssociation)
	mux.HandleFunc("PUT /users/{id}/associations/{partnerId}", usr.DecideAssociation)
	mux.HandleFunc("POST /users/me/bookmarks", usr.AddBookmark)
	mux.HandleFunc("DELETE /users/me/bookmarks/{solutionId}", usr.RemoveBookmark)

	adm := NewAdminHandler(d.Logger, d.Indexes...)
	mux.Handle("GET /admin/index", middleware.RequireModerator(http.HandlerFunc(adm.IndexStats)))
	mux.Handle("POST /admin/index/{collection}/rebuild", middleware.RequireModerator(http.HandlerFunc(adm.RebuildIndex)))

	return middleware.Chain(
		middleware.Recovery(d.Logger),
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.Metrics(d.Metrics),
		middleware.CORS(d.CORS),
		middleware.Auth(d.Tokens),
		middleware.Middleware(dataloader.Middleware(d.UserNames)),
	)(mux)
}
