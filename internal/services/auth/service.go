package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/dependencies/random"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrPlayerExists       = errors.New("player already exists")
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Identity is the authenticated caller carried by a valid token
type Identity struct {
	PlayerID model.PlayerID
	Name     string
}

// Claims is the JWT payload
type Claims struct {
	PlayerID string `json:"id"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// Result is a player together with a freshly issued token
type Result struct {
	Token  string
	Player *model.Player
}

// RegisterInput holds the fields accepted at registration. Everything but Name is optional.
type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	WalletAddress string
}

// Config holds configuration for the auth service
type Config struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		Secret:     "dev-secret-change-me",
		TokenTTL:   7 * 24 * time.Hour,
		BcryptCost: bcrypt.DefaultCost,
	}
}

// Service handles credentials, wallet sign-in and bearer tokens
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	cfg     Config
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, random random.Random, cfg Config, logger *slog.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.Secret == "" {
		cfg.Secret = defaults.Secret
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = defaults.TokenTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = defaults.BcryptCost
	}
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
		cfg:     cfg,
	}
}

// Register creates a player account and signs it in
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	if in.Name == "" {
		return nil, model.NewValidationError("Name is required")
	}
	if in.Email != "" && !emailPattern.MatchString(in.Email) {
		return nil, model.NewValidationError("Invalid email format")
	}
	if in.Password != "" && utf8.RuneCountInString(in.Password) < minPasswordLength {
		return nil, model.NewValidationError("Password must be at least %d characters", minPasswordLength)
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:            model.PlayerID(s.random.ID()),
		Name:          in.Name,
		Email:         in.Email,
		WalletAddress: in.WalletAddress,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
		player.PasswordHash = string(hash)
	}

	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		if errors.Is(err, model.ErrEmailTaken) || errors.Is(err, model.ErrWalletTaken) {
			return nil, fmt.Errorf("%w: %w", ErrPlayerExists, err)
		}
		return nil, err
	}

	s.logger.Info("player registered", "player_id", player.ID)
	return s.signIn(player)
}

// Login verifies an email and password pair. Unknown emails and wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	if email == "" || password == "" {
		return nil, model.NewValidationError("Email and password are required")
	}

	player, err := s.storage.GetPlayerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !player.HasPassword() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.signIn(player)
}

// WalletAuthenticate signs in by wallet address, creating a player on first use.
// The signature is accepted but not verified.
func (s *Service) WalletAuthenticate(ctx context.Context, wallet, signature string) (*Result, error) {
	if wallet == "" {
		return nil, model.NewValidationError("Wallet address is required")
	}

	player, err := s.storage.GetPlayerByWallet(ctx, wallet)
	if err == nil {
		return s.signIn(player)
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	player = &model.Player{
		ID:            model.PlayerID(s.random.ID()),
		Name:          walletPlayerName(wallet),
		WalletAddress: wallet,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		if !errors.Is(err, model.ErrWalletTaken) {
			return nil, err
		}
		// Another request provisioned this wallet first
		player, err = s.storage.GetPlayerByWallet(ctx, wallet)
		if err != nil {
			return nil, err
		}
		return s.signIn(player)
	}

	s.logger.Info("wallet player provisioned", "player_id", player.ID)
	return s.signIn(player)
}

// GetMe returns the record behind an identity
func (s *Service) GetMe(ctx context.Context, identity Identity) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, identity.PlayerID)
}

// IssueToken signs a token for the player
func (s *Service) IssueToken(player *model.Player) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		PlayerID: string(player.ID),
		Name:     player.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(player.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// VerifyToken checks the signature and expiry of a token and returns its identity
func (s *Service) VerifyToken(tokenString string) (*Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.PlayerID == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{PlayerID: model.PlayerID(claims.PlayerID), Name: claims.Name}, nil
}

func (s *Service) signIn(player *model.Player) (*Result, error) {
	token, err := s.IssueToken(player)
	if err != nil {
		return nil, err
	}
	return &Result{Token: token, Player: player}, nil
}

func walletPlayerName(wallet string) string {
	prefix := wallet
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "Player_" + prefix
}
