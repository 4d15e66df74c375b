package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gamehub/internal/api/apierr"
	"github.com/mcoot/gamehub/internal/api/middleware"
	"github.com/mcoot/gamehub/internal/api/request"
	"github.com/mcoot/gamehub/internal/api/response"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/services/lobby"
	"github.com/mcoot/gamehub/internal/storage"
)

// LobbyHandler handles lobby lifecycle endpoints
type LobbyHandler struct {
	lobbyController *lobby.Controller
	errs            apierr.Writer
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(lobbyController *lobby.Controller, errs apierr.Writer) *LobbyHandler {
	return &LobbyHandler{
		lobbyController: lobbyController,
		errs:            errs,
	}
}

// List handles GET /api/lobbies
func (h *LobbyHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.LobbyFilter{
		GameID: model.GameID(q.Get("gameId")),
		Status: model.LobbyStatus(q.Get("status")),
	}

	lobbies, err := h.lobbyController.List(r.Context(), filter)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	out := make([]response.Lobby, len(lobbies))
	for i, l := range lobbies {
		out[i] = response.LobbyFromModel(l)
	}
	response.JSON(w, http.StatusOK, response.LobbiesResponse{Lobbies: out})
}

// Get handles GET /api/lobbies/{id}
func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.lobbyController.Get(r.Context(), lobbyID(r))
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyResponse{Lobby: response.LobbyFromModel(l)})
}

// Create handles POST /api/lobbies
func (h *LobbyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateLobbyRequest
	if err := request.Decode(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	hostID, hostName := withIdentity(r, req.HostID, req.HostName)
	l, err := h.lobbyController.Create(r.Context(), lobby.CreateInput{
		GameID:     model.GameID(req.GameID),
		HostID:     hostID,
		HostName:   hostName,
		GameMode:   model.ModeID(req.GameMode),
		MaxPlayers: req.MaxPlayers,
		Wager:      req.Wager,
	})
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.LobbyResponse{
		Message: "Lobby created successfully",
		Lobby:   response.LobbyFromModel(l),
	})
}

// Join handles POST /api/lobbies/{id}/join
func (h *LobbyHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinLobbyRequest
	if err := request.Decode(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	playerID, playerName := withIdentity(r, req.PlayerID, req.PlayerName)
	l, err := h.lobbyController.Join(r.Context(), lobbyID(r), playerID, playerName)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyResponse{
		Message: "Joined lobby successfully",
		Lobby:   response.LobbyFromModel(l),
	})
}

// Leave handles POST /api/lobbies/{id}/leave
func (h *LobbyHandler) Leave(w http.ResponseWriter, r *http.Request) {
	var req request.LeaveLobbyRequest
	if err := request.Decode(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	id := lobbyID(r)
	playerID, _ := withIdentity(r, req.PlayerID, "")
	result, err := h.lobbyController.Leave(r.Context(), id, playerID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	if result.Deleted {
		response.JSON(w, http.StatusOK, response.LobbyDeletedResponse{
			Message: "Lobby deleted (no players left)",
			LobbyID: string(id),
		})
		return
	}
	response.JSON(w, http.StatusOK, response.LobbyResponse{
		Message: "Left lobby successfully",
		Lobby:   response.LobbyFromModel(result.Lobby),
	})
}

// Ready handles POST /api/lobbies/{id}/ready
func (h *LobbyHandler) Ready(w http.ResponseWriter, r *http.Request) {
	var req request.ReadyRequest
	if err := request.Decode(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	playerID, _ := withIdentity(r, req.PlayerID, "")
	l, err := h.lobbyController.SetReady(r.Context(), lobbyID(r), playerID, req.IsReady)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyResponse{
		Message: "Player ready status updated",
		Lobby:   response.LobbyFromModel(l),
	})
}

// Start handles POST /api/lobbies/{id}/start
func (h *LobbyHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req request.StartLobbyRequest
	if err := request.Decode(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	hostID, _ := withIdentity(r, req.HostID, "")
	l, err := h.lobbyController.Start(r.Context(), lobbyID(r), hostID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStartedResponse{
		Message:   "Game started",
		SessionID: string(l.SessionID),
		Lobby:     response.LobbyFromModel(l),
	})
}

func lobbyID(r *http.Request) model.LobbyID {
	return model.LobbyID(mux.Vars(r)["id"])
}

// withIdentity fills an omitted body player ID and name from the authenticated caller, if any
func withIdentity(r *http.Request, id, name string) (model.PlayerID, string) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		return model.PlayerID(id), name
	}
	if id == "" {
		id = string(identity.PlayerID)
	}
	if name == "" && model.PlayerID(id) == identity.PlayerID {
		name = identity.Name
	}
	return model.PlayerID(id), name
}
