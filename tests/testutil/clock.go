package testutil

import (
	"time"

	"github.com/light-bringer/feliz-storefront/internal/pkg/clock"
)

// ChristmasEve is the instant most storefront tests run at.
var ChristmasEve = time.Date(2026, time.December, 24, 18, 0, 0, 0, time.UTC)

// NewMockClock creates a mock clock that can be controlled in tests.
func NewMockClock() *clock.MockClock {
	return clock.NewMockClock(ChristmasEve)
}
