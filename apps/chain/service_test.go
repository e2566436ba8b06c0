package chain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSessionTimeNextDayTenUTC(t *testing.T) {
	now := time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 5, 5, 10, 0, 0, 0, time.UTC), DefaultSessionTime(now))
}

func TestDefaultSessionTimeAlwaysNextDay(t *testing.T) {
	// even just after midnight the slot is tomorrow, never today
	now := time.Date(2026, 5, 4, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 5, 5, 10, 0, 0, 0, time.UTC), DefaultSessionTime(now))
}

func TestDefaultSessionTimeMonthRollover(t *testing.T) {
	now := time.Date(2026, 5, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC), DefaultSessionTime(now))
}

func TestDefaultSessionTimeYearRollover(t *testing.T) {
	now := time.Date(2026, 12, 31, 11, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, 1, 1, 10, 0, 0, 0, time.UTC), DefaultSessionTime(now))
}

func TestDefaultSessionTimeNormalizesZone(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2026, 5, 4, 2, 0, 0, 0, zone) // 2026-05-03 21:00 UTC
	assert.Equal(t, time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC), DefaultSessionTime(now))
}
