package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/gamehub/internal/dependencies/mocks"
	"github.com/mcoot/gamehub/internal/services/auth"
	"github.com/mcoot/gamehub/internal/storage"
	"github.com/mcoot/gamehub/internal/storage/memory"
	"github.com/mcoot/gamehub/internal/testutil"
)

// TestSecret signs tokens issued by test apps
const TestSecret = "test-secret"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App on in-memory storage with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithStorage(memory.New())
}

// NewTestAppWithStorage creates a test App on the given storage backend
func NewTestAppWithStorage(store storage.Storage) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.Config{
		Secret:     TestSecret,
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	app := newWithDependencies(store, mockClock, mockRandom, authCfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
