package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gamehub/internal/api/apierr"
	"github.com/mcoot/gamehub/internal/api/request"
	"github.com/mcoot/gamehub/internal/api/response"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/services/catalog"
)

// GameHandler handles game catalog endpoints
type GameHandler struct {
	catalog *catalog.Service
	errs    apierr.Writer
}

// NewGameHandler creates a new game handler
func NewGameHandler(catalog *catalog.Service, errs apierr.Writer) *GameHandler {
	return &GameHandler{
		catalog: catalog,
		errs:    errs,
	}
}

// List handles GET /api/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	status := model.GameStatus(r.URL.Query().Get("status"))

	games, err := h.catalog.List(r.Context(), status)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	out := make([]response.Game, len(games))
	for i, g := range games {
		out[i] = response.GameFromModel(g)
	}
	response.JSON(w, http.StatusOK, response.GamesResponse{Games: out})
}

// Get handles GET /api/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	game, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameResponse{Game: response.GameFromModel(game)})
}

// Create handles POST /api/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := request.Decode(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	game, err := h.catalog.Create(r.Context(), catalog.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		Modes:       request.ModesToModel(req.Modes),
	})
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameResponse{
		Message: "Game created successfully",
		Game:    response.GameFromModel(game),
	})
}

// Update handles PUT /api/games/{id}
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	var req request.UpdateGameRequest
	if err := request.Decode(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	game, err := h.catalog.Update(r.Context(), id, catalog.Update{
		Name:        req.Name,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		Modes:       request.ModesToModel(req.Modes),
		Status:      model.GameStatus(req.Status),
	})
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameResponse{
		Message: "Game updated successfully",
		Game:    response.GameFromModel(game),
	})
}
