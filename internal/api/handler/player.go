package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/gamehub/internal/api/apierr"
	"github.com/mcoot/gamehub/internal/api/middleware"
	"github.com/mcoot/gamehub/internal/api/request"
	"github.com/mcoot/gamehub/internal/api/response"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/services/player"
)

// PlayerHandler handles player profile and leaderboard endpoints
type PlayerHandler struct {
	playerService *player.Service
	errs          apierr.Writer
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerService *player.Service, errs apierr.Writer) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
		errs:          errs,
	}
}

// Get handles GET /api/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	profile, err := h.playerService.GetProfile(r.Context(), id)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerResponse{Player: response.PublicPlayerFromProfile(profile)})
}

// UpdateMe handles PUT /api/players/me
func (h *PlayerHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	var req request.UpdatePlayerRequest
	if err := request.Decode(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	updated, err := h.playerService.UpdateProfile(r.Context(), identity.PlayerID, player.Update{Name: req.Name})
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerUpdatedResponse{
		Message: "Player updated successfully",
		Player:  response.PlayerFromModel(updated),
	})
}

// Stats handles GET /api/players/{id}/stats
func (h *PlayerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	profile, err := h.playerService.GetStats(r.Context(), id)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsResponse{
		PlayerID:   string(profile.ID),
		PlayerName: profile.Name,
		Stats:      response.StatsFromModel(profile.Stats),
	})
}

// Top handles GET /api/players/top
func (h *PlayerHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r)

	profiles, err := h.playerService.TopPlayers(r.Context(), limit)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	top := make([]response.PublicPlayer, len(profiles))
	for i, p := range profiles {
		top[i] = response.PublicPlayerFromProfile(p)
	}
	response.JSON(w, http.StatusOK, response.TopPlayersResponse{TopPlayers: top})
}

// queryLimit parses ?limit=, returning 0 (use the default) when absent or invalid
func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
