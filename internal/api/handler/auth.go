package handler

import (
	"net/http"

	"github.com/mcoot/gamehub/internal/api/apierr"
	"github.com/mcoot/gamehub/internal/api/middleware"
	"github.com/mcoot/gamehub/internal/api/request"
	"github.com/mcoot/gamehub/internal/api/response"
	"github.com/mcoot/gamehub/internal/services/auth"
)

// AuthHandler handles account and sign-in endpoints
type AuthHandler struct {
	authService *auth.Service
	errs        apierr.Writer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, errs apierr.Writer) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		errs:        errs,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := request.Decode(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	result, err := h.authService.Register(r.Context(), auth.RegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponse{
		Message: "Player registered successfully",
		Token:   result.Token,
		Player:  response.PlayerFromModel(result.Player),
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := request.Decode(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponse{
		Message: "Login successful",
		Token:   result.Token,
		Player:  response.PlayerFromModel(result.Player),
	})
}

// Wallet handles POST /api/auth/wallet
func (h *AuthHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	var req request.WalletAuthRequest
	if err := request.Decode(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	result, err := h.authService.WalletAuthenticate(r.Context(), req.WalletAddress, req.Signature)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponse{
		Message: "Wallet authentication successful",
		Token:   result.Token,
		Player:  response.PlayerFromModel(result.Player),
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	player, err := h.authService.GetMe(r.Context(), *identity)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerResponse{Player: response.PlayerFromModel(player)})
}
