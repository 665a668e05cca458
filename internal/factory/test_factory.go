package factory

import (
	"time"

	"github.com/oche-club/dartscore-go/internal/dependencies/mocks"
	"github.com/oche-club/dartscore-go/internal/services/auth"
	"github.com/oche-club/dartscore-go/internal/services/stats"
	"github.com/oche-club/dartscore-go/internal/storage/memory"
	"github.com/oche-club/dartscore-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, auth.DefaultConfig(), stats.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
