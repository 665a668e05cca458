package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oche-club/dartscore-go/internal/api/handler"
	"github.com/oche-club/dartscore-go/internal/api/middleware"
	"github.com/oche-club/dartscore-go/internal/services/auth"
	"github.com/oche-club/dartscore-go/internal/services/checkout"
	"github.com/oche-club/dartscore-go/internal/services/match"
	"github.com/oche-club/dartscore-go/internal/services/stats"
	"github.com/oche-club/dartscore-go/internal/sse"
	"github.com/oche-club/dartscore-go/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.Service
	MatchController *match.Controller
	CheckoutService *checkout.Service
	StatsService    *stats.Service
	Storage         storage.Storage
	HubManager      *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	matchHandler := handler.NewMatchHandler(cfg.MatchController, cfg.StatsService, cfg.Storage, cfg.HubManager, cfg.Logger)
	checkoutHandler := handler.NewCheckoutHandler(cfg.CheckoutService)
	statsHandler := handler.NewStatsHandler(cfg.StatsService, cfg.Storage)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/convert", playerHandler.ConvertGuest).Methods(http.MethodPost)
	playerProtected.HandleFunc("/{player_id}/stats", statsHandler.PlayerStats).Methods(http.MethodGet)

	// Checkout advice is read-only and open
	api.HandleFunc("/checkouts/impossible", checkoutHandler.Impossible).Methods(http.MethodGet)
	api.HandleFunc("/checkouts/{score}", checkoutHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/checkouts/{score}/routes", checkoutHandler.Routes).Methods(http.MethodGet)

	// SSE event stream; viewers do not need an account
	api.Handle("/matches/{id}/events",
		optionalAuthMiddleware(http.HandlerFunc(matchHandler.Events))).Methods(http.MethodGet)

	// Match routes (all require auth)
	matches := api.PathPrefix("/matches").Subrouter()
	matches.Use(authMiddleware)
	matches.HandleFunc("", matchHandler.Create).Methods(http.MethodPost)
	matches.HandleFunc("", matchHandler.ListMatches).Methods(http.MethodGet)
	matches.HandleFunc("/{id}", matchHandler.Get).Methods(http.MethodGet)
	matches.HandleFunc("/{id}/start", matchHandler.Start).Methods(http.MethodPost)
	matches.HandleFunc("/{id}/darts", matchHandler.AddDart).Methods(http.MethodPost)
	matches.HandleFunc("/{id}/darts", matchHandler.DartHistory).Methods(http.MethodGet)
	matches.HandleFunc("/{id}/turn", matchHandler.CurrentTurn).Methods(http.MethodGet)
	matches.HandleFunc("/{id}/complete-turn", matchHandler.CompleteTurn).Methods(http.MethodPost)
	matches.HandleFunc("/{id}/undo", matchHandler.Undo).Methods(http.MethodPost)
	matches.HandleFunc("/{id}/redo", matchHandler.Redo).Methods(http.MethodPost)
	matches.HandleFunc("/{id}/pause", matchHandler.Pause).Methods(http.MethodPost)
	matches.HandleFunc("/{id}/resume", matchHandler.Resume).Methods(http.MethodPost)
	matches.HandleFunc("/{id}/legs", matchHandler.Legs).Methods(http.MethodGet)
	matches.HandleFunc("/{id}/legs/{leg}", matchHandler.GetLeg).Methods(http.MethodGet)
	matches.HandleFunc("/{id}/stats", matchHandler.MatchStats).Methods(http.MethodGet)
	matches.HandleFunc("/{id}/players/{player_id}/stats", matchHandler.PlayerGameStats).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
