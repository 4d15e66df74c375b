package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gamehub/internal/api/apierr"
	"github.com/mcoot/gamehub/internal/api/handler"
	"github.com/mcoot/gamehub/internal/api/middleware"
	"github.com/mcoot/gamehub/internal/api/response"
	"github.com/mcoot/gamehub/internal/services/auth"
	"github.com/mcoot/gamehub/internal/services/catalog"
	"github.com/mcoot/gamehub/internal/services/lobby"
	"github.com/mcoot/gamehub/internal/services/player"
	"github.com/mcoot/gamehub/internal/services/session"

	logmw "github.com/mcoot/gamehub/internal/middleware"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	AuthService       *auth.Service
	PlayerService     *player.Service
	CatalogService    *catalog.Service
	LobbyController   *lobby.Controller
	SessionController *session.Controller
	// ExposeInternal includes underlying faults in 500 responses (development only)
	ExposeInternal bool
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	errs := apierr.Writer{Logger: cfg.Logger, ExposeInternal: cfg.ExposeInternal}

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService, errs)
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService, errs)
	gameHandler := handler.NewGameHandler(cfg.CatalogService, errs)
	lobbyHandler := handler.NewLobbyHandler(cfg.LobbyController, errs)
	sessionHandler := handler.NewSessionHandler(cfg.SessionController, errs)

	// Logging wraps recovery so recovered panics are logged with their 500 status
	r.Use(logmw.Logging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger, cfg.ExposeInternal))

	required := withMiddleware(middleware.Auth(cfg.AuthService))
	optional := withMiddleware(middleware.OptionalAuth(cfg.AuthService))

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Auth routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/wallet", authHandler.Wallet).Methods(http.MethodPost)
	api.Handle("/auth/me", required(authHandler.Me)).Methods(http.MethodGet)

	// Game catalog routes
	api.Handle("/games", optional(gameHandler.List)).Methods(http.MethodGet)
	api.Handle("/games", required(gameHandler.Create)).Methods(http.MethodPost)
	api.Handle("/games/{id}", optional(gameHandler.Get)).Methods(http.MethodGet)
	api.Handle("/games/{id}", required(gameHandler.Update)).Methods(http.MethodPut)

	// Lobby routes. Callers without a token name themselves in the body.
	api.Handle("/lobbies", optional(lobbyHandler.List)).Methods(http.MethodGet)
	api.Handle("/lobbies", optional(lobbyHandler.Create)).Methods(http.MethodPost)
	api.Handle("/lobbies/{id}", optional(lobbyHandler.Get)).Methods(http.MethodGet)
	api.Handle("/lobbies/{id}/join", optional(lobbyHandler.Join)).Methods(http.MethodPost)
	api.Handle("/lobbies/{id}/leave", optional(lobbyHandler.Leave)).Methods(http.MethodPost)
	api.Handle("/lobbies/{id}/ready", optional(lobbyHandler.Ready)).Methods(http.MethodPost)
	api.Handle("/lobbies/{id}/start", optional(lobbyHandler.Start)).Methods(http.MethodPost)

	// Session routes
	api.Handle("/sessions", required(sessionHandler.Create)).Methods(http.MethodPost)
	api.Handle("/sessions/player/{playerId}", optional(sessionHandler.ListForPlayer)).Methods(http.MethodGet)
	api.Handle("/sessions/{id}", optional(sessionHandler.Get)).Methods(http.MethodGet)
	api.Handle("/sessions/{id}/state", required(sessionHandler.UpdateState)).Methods(http.MethodPut)
	api.Handle("/sessions/{id}/end", required(sessionHandler.End)).Methods(http.MethodPost)

	// Player routes; the fixed paths must be registered before /players/{id}
	api.Handle("/players/top", optional(playerHandler.Top)).Methods(http.MethodGet)
	api.Handle("/players/me", required(playerHandler.UpdateMe)).Methods(http.MethodPut)
	api.Handle("/players/{id}", optional(playerHandler.Get)).Methods(http.MethodGet)
	api.Handle("/players/{id}/stats", optional(playerHandler.Stats)).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError("Route not found"))
	})

	return r
}

func withMiddleware(mw func(http.Handler) http.Handler) func(http.HandlerFunc) http.Handler {
	return func(h http.HandlerFunc) http.Handler {
		return mw(h)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}
