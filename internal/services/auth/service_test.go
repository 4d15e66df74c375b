package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/gamehub/internal/dependencies/mocks"
	"github.com/mcoot/gamehub/internal/model"
	"github.com/mcoot/gamehub/internal/storage/memory"
	"github.com/mcoot/gamehub/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	cfg := Config{Secret: "test-secret", TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost}
	s.service = New(s.storage, s.clock, s.random, cfg, testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	s.random.QueueID("player-1")

	result, err := s.service.Register(s.ctx, RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	s.Require().NoError(err)

	s.NotEmpty(result.Token)
	s.Equal(model.PlayerID("player-1"), result.Player.ID)
	s.Equal(model.PlayerStats{}, result.Player.Stats)
}

func (s *ServiceSuite) TestRegisterStoresHashNotPassword() {
	result, err := s.service.Register(s.ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "correct horse"})
	s.Require().NoError(err)

	stored, err := s.storage.GetPlayer(s.ctx, result.Player.ID)
	s.Require().NoError(err)
	s.NotEqual("correct horse", stored.PasswordHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))
}

func (s *ServiceSuite) TestRegisterNameOnly() {
	result, err := s.service.Register(s.ctx, RegisterInput{Name: "Alice"})
	s.Require().NoError(err)
	s.False(result.Player.HasPassword())
}

func (s *ServiceSuite) TestRegisterValidation() {
	cases := []struct {
		name    string
		input   RegisterInput
		message string
	}{
		{"missing name", RegisterInput{Email: "a@b.co"}, "Name is required"},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email"}, "Invalid email format"},
		{"email with space", RegisterInput{Name: "A", Email: "a b@c.de"}, "Invalid email format"},
		{"short password", RegisterInput{Name: "A", Email: "a@b.co", Password: "1234567"}, "Password must be at least 8 characters"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.service.Register(s.ctx, tc.input)
			var ve *model.ValidationError
			s.Require().ErrorAs(err, &ve)
			s.Equal(tc.message, ve.Message)
		})
	}
}

func (s *ServiceSuite) TestRegisterDuplicateEmail() {
	_, err := s.service.Register(s.ctx, RegisterInput{Name: "Alice", Email: "alice@example.com"})
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, RegisterInput{Name: "Alice2", Email: "alice@example.com"})
	s.ErrorIs(err, ErrPlayerExists)
	s.ErrorIs(err, model.ErrEmailTaken)
}

func (s *ServiceSuite) TestRegisterDuplicateWallet() {
	_, err := s.service.Register(s.ctx, RegisterInput{Name: "Alice", WalletAddress: "0xabc"})
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, RegisterInput{Name: "Bob", WalletAddress: "0xabc"})
	s.ErrorIs(err, ErrPlayerExists)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	registered, _ := s.service.Register(s.ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "password123"})

	result, err := s.service.Login(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)
	s.Equal(registered.Player.ID, result.Player.ID)
	s.NotEmpty(result.Token)
}

func (s *ServiceSuite) TestLoginWrongPasswordAndUnknownEmailMatch() {
	_, _ = s.service.Register(s.ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "password123"})

	_, wrongPassword := s.service.Login(s.ctx, "alice@example.com", "wrong-password")
	_, unknownEmail := s.service.Login(s.ctx, "nobody@example.com", "password123")

	s.ErrorIs(wrongPassword, ErrInvalidCredentials)
	s.ErrorIs(unknownEmail, ErrInvalidCredentials)
	s.Equal(wrongPassword.Error(), unknownEmail.Error())
}

func (s *ServiceSuite) TestLoginWithoutPasswordHash() {
	_, _ = s.service.Register(s.ctx, RegisterInput{Name: "Alice", Email: "alice@example.com"})

	_, err := s.service.Login(s.ctx, "alice@example.com", "anything-at-all")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginRequiresBothFields() {
	_, err := s.service.Login(s.ctx, "alice@example.com", "")
	var ve *model.ValidationError
	s.Require().ErrorAs(err, &ve)
	s.Equal("Email and password are required", ve.Message)
}

// Wallet tests

func (s *ServiceSuite) TestWalletAuthenticateProvisions() {
	result, err := s.service.WalletAuthenticate(s.ctx, "0x1234567890abcdef", "sig")
	s.Require().NoError(err)
	s.Equal("Player_0x123456", result.Player.Name)
	s.Equal("0x1234567890abcdef", result.Player.WalletAddress)
}

func (s *ServiceSuite) TestWalletAuthenticateShortAddress() {
	result, err := s.service.WalletAuthenticate(s.ctx, "0xab", "")
	s.Require().NoError(err)
	s.Equal("Player_0xab", result.Player.Name)
}

func (s *ServiceSuite) TestWalletAuthenticateReturnsExisting() {
	first, _ := s.service.WalletAuthenticate(s.ctx, "0xabcdef0123", "")
	second, err := s.service.WalletAuthenticate(s.ctx, "0xabcdef0123", "")
	s.Require().NoError(err)
	s.Equal(first.Player.ID, second.Player.ID)
}

func (s *ServiceSuite) TestWalletAuthenticateConcurrentFirstUse() {
	var wg sync.WaitGroup
	ids := make([]model.PlayerID, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := s.service.WalletAuthenticate(s.ctx, "0xrace", "")
			if s.NoError(err) {
				ids[i] = result.Player.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		s.Equal(ids[0], id)
	}
}

func (s *ServiceSuite) TestWalletAuthenticateRequiresAddress() {
	_, err := s.service.WalletAuthenticate(s.ctx, "", "")
	var ve *model.ValidationError
	s.ErrorAs(err, &ve)
}

// Token tests

func (s *ServiceSuite) TestVerifyTokenRoundTrip() {
	result, _ := s.service.Register(s.ctx, RegisterInput{Name: "Alice"})

	identity, err := s.service.VerifyToken(result.Token)
	s.Require().NoError(err)
	s.Equal(result.Player.ID, identity.PlayerID)
	s.Equal("Alice", identity.Name)
}

func (s *ServiceSuite) TestVerifyTokenExpired() {
	result, _ := s.service.Register(s.ctx, RegisterInput{Name: "Alice"})

	s.clock.Advance(2 * time.Hour)

	_, err := s.service.VerifyToken(result.Token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestVerifyTokenWrongSecret() {
	other := New(s.storage, s.clock, s.random, Config{Secret: "other-secret", BcryptCost: bcrypt.MinCost}, testutil.NopLogger())
	result, _ := other.Register(s.ctx, RegisterInput{Name: "Mallory"})

	_, err := s.service.VerifyToken(result.Token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestVerifyTokenRejectsOtherAlgorithms() {
	claims := Claims{
		PlayerID: "p1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.clock.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	s.Require().NoError(err)

	_, err = s.service.VerifyToken(token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestVerifyTokenGarbage() {
	_, err := s.service.VerifyToken("not.a.token")
	s.ErrorIs(err, ErrInvalidToken)

	_, err = s.service.VerifyToken(strings.Repeat("x", 10))
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestGetMe() {
	result, _ := s.service.Register(s.ctx, RegisterInput{Name: "Alice"})

	player, err := s.service.GetMe(s.ctx, Identity{PlayerID: result.Player.ID})
	s.Require().NoError(err)
	s.Equal("Alice", player.Name)

	_, err = s.service.GetMe(s.ctx, Identity{PlayerID: "gone"})
	s.ErrorIs(err, model.ErrPlayerNotFound)
}
