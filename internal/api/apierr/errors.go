package apierr

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/services/auth"
	"github.com/mcoot/gamehub/internal/services/session"
)

// ErrorResponse is the body of every error response.
// Detail carries the underlying fault of a 500 and is only filled in development.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Detail  string `json:"error,omitempty"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodePlayerExists       = "PLAYER_EXISTS"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodeGameModeNotFound   = "GAME_MODE_NOT_FOUND"
	CodeLobbyNotFound      = "LOBBY_NOT_FOUND"
	CodeLobbyNotWaiting    = "LOBBY_NOT_WAITING"
	CodeAlreadyInLobby     = "ALREADY_IN_LOBBY"
	CodeNotInLobby         = "NOT_IN_LOBBY"
	CodeNotHost            = "NOT_HOST"
	CodePlayersNotReady    = "PLAYERS_NOT_READY"
	CodeLobbyStarted       = "LOBBY_STARTED"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeSessionExists      = "SESSION_EXISTS"
	CodeSessionEnded       = "SESSION_ENDED"
	CodeConflict           = "CONFLICT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with a client-facing code and message
type httpError struct {
	status  int
	code    string
	message string
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.message
}

// Writer renders errors as JSON and logs the ones the client cannot act on
type Writer struct {
	Logger *slog.Logger
	// ExposeInternal adds the underlying fault to 500 responses
	ExposeInternal bool
}

// Write writes an error response for err
func (ew Writer) Write(w http.ResponseWriter, r *http.Request, err error) {
	he := toHTTPError(err)
	body := ErrorResponse{Code: he.code, Message: he.message}

	if he.status == http.StatusInternalServerError {
		if ew.Logger != nil {
			ew.Logger.Error("request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
		}
		if ew.ExposeInternal {
			body.Detail = err.Error()
		}
	}

	writeJSON(w, he.status, body)
}

// WriteError writes an error response without logging or internal detail
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	writeJSON(w, he.status, ErrorResponse{Code: he.code, Message: he.message})
}

func writeJSON(w http.ResponseWriter, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		code := CodeInvalidRequest
		if errors.Is(err, model.ErrLobbyNotWaiting) {
			code = CodeLobbyNotWaiting
		}
		return &httpError{http.StatusBadRequest, code, ve.Message}
	}

	switch {
	// Map model errors
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, CodePlayerNotFound, "Player not found"}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, CodeGameNotFound, "Game not found"}
	case errors.Is(err, model.ErrGameModeNotFound):
		return &httpError{http.StatusNotFound, CodeGameModeNotFound, "Game mode not found"}
	case errors.Is(err, model.ErrLobbyNotFound):
		return &httpError{http.StatusNotFound, CodeLobbyNotFound, "Lobby not found"}
	case errors.Is(err, model.ErrLobbyNotWaiting):
		return &httpError{http.StatusBadRequest, CodeLobbyNotWaiting, "Cannot join lobby"}
	case errors.Is(err, model.ErrAlreadyInLobby):
		return &httpError{http.StatusBadRequest, CodeAlreadyInLobby, "Player already in lobby"}
	case errors.Is(err, model.ErrNotInLobby):
		return &httpError{http.StatusNotFound, CodeNotInLobby, "Player not in lobby"}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, CodeNotHost, "Only the host can start the game"}
	case errors.Is(err, model.ErrPlayersNotReady):
		return &httpError{http.StatusBadRequest, CodePlayersNotReady, "Not all players are ready"}
	case errors.Is(err, model.ErrLobbyStarted):
		return &httpError{http.StatusBadRequest, CodeLobbyStarted, "Game already started"}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, CodeSessionNotFound, "Session not found"}
	case errors.Is(err, model.ErrSessionExists):
		return &httpError{http.StatusBadRequest, CodeSessionExists, "Session already exists"}
	case errors.Is(err, model.ErrSessionEnded):
		return &httpError{http.StatusBadRequest, CodeSessionEnded, "Session has already ended"}
	case errors.Is(err, model.ErrConflict):
		return &httpError{http.StatusConflict, CodeConflict, "Resource is busy, try again"}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusBadRequest, CodeInvalidCredentials, "Invalid credentials"}
	case errors.Is(err, auth.ErrPlayerExists):
		return &httpError{http.StatusBadRequest, CodePlayerExists, "Player already exists"}
	case errors.Is(err, auth.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, CodeInvalidToken, "Token is not valid"}

	// Session settlement stored the results but not every stat
	case errors.Is(err, session.ErrSettlementIncomplete):
		return &httpError{http.StatusInternalServerError, CodeInternalError, "Session ended but stats were not fully applied"}

	default:
		return &httpError{http.StatusInternalServerError, CodeInternalError, "Internal server error"}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, CodeInvalidRequest, message}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) error {
	return &httpError{http.StatusNotFound, CodeNotFound, message}
}

// NewUnauthorizedError creates the error for a request without a token
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, CodeUnauthorized, "No authentication token, access denied"}
}
