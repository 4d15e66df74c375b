package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gamehub/internal/api/apierr"
	"github.com/mcoot/gamehub/internal/api/request"
	"github.com/mcoot/gamehub/internal/api/response"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/services/session"
)

// SessionHandler handles game session endpoints
type SessionHandler struct {
	sessionController *session.Controller
	errs              apierr.Writer
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionController *session.Controller, errs apierr.Writer) *SessionHandler {
	return &SessionHandler{
		sessionController: sessionController,
		errs:              errs,
	}
}

// Create handles POST /api/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := request.Decode(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	players := make([]model.SessionPlayer, len(req.Players))
	for i, p := range req.Players {
		players[i] = model.SessionPlayer{ID: model.PlayerID(p.ID), Name: p.Name}
	}

	s, err := h.sessionController.Create(r.Context(), session.CreateInput{
		GameID:  model.GameID(req.GameID),
		LobbyID: model.LobbyID(req.LobbyID),
		Players: players,
		Wager:   req.Wager,
	})
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionCreatedResponse{
		Message:   "Session created successfully",
		SessionID: string(s.ID),
		Session:   response.SessionFromModel(s),
	})
}

// Get handles GET /api/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionController.Get(r.Context(), sessionID(r))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionResponse{Session: response.SessionFromModel(s)})
}

// UpdateState handles PUT /api/sessions/{id}/state
func (h *SessionHandler) UpdateState(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateStateRequest
	if err := request.Decode(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	s, err := h.sessionController.UpdateState(r.Context(), sessionID(r), req.State)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionStateResponse{
		Message:   "Session state updated",
		SessionID: string(s.ID),
	})
}

// End handles POST /api/sessions/{id}/end
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	var req request.EndSessionRequest
	if err := request.Decode(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	s, err := h.sessionController.End(r.Context(), sessionID(r), req.Results.ToModel())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionEndedResponse{
		Message:   "Session ended",
		SessionID: string(s.ID),
		Results:   response.ResultsFromModel(s.Results),
	})
}

// ListForPlayer handles GET /api/sessions/player/{playerId}
func (h *SessionHandler) ListForPlayer(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["playerId"])

	sessions, err := h.sessionController.ListForPlayer(r.Context(), playerID, queryLimit(r))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	out := make([]response.Session, len(sessions))
	for i, s := range sessions {
		out[i] = response.SessionFromModel(s)
	}
	response.JSON(w, http.StatusOK, response.SessionsResponse{Sessions: out})
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["id"])
}
