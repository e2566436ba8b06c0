package meet

import (
	"testing"
	"time"

	"github.com/solacehr/solace-backend/apps/models"
	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 5, 4, hour, min, 0, 0, time.UTC)
}

func meeting(start time.Time, durationMinutes int) models.Meet {
	return models.Meet{
		MeetID:          models.NewMeetID(),
		ScheduledAt:     start,
		DurationMinutes: durationMinutes,
		Status:          models.MeetStatusScheduled,
	}
}

func TestNextFreeSlotEmptySchedule(t *testing.T) {
	now := at(9, 0)
	slot := NextFreeSlot(nil, now, 30*time.Minute)
	assert.Equal(t, now, slot)
}

func TestNextFreeSlotGapBeforeFirstMeeting(t *testing.T) {
	// one meeting 10:00-11:00, 30 minutes requested at 09:00 fits before it
	meetings := []models.Meet{meeting(at(10, 0), 60)}
	slot := NextFreeSlot(meetings, at(9, 0), 30*time.Minute)
	assert.Equal(t, at(9, 0), slot)
}

func TestNextFreeSlotGapBetweenMeetings(t *testing.T) {
	// 10:00-11:00 and 11:15-12:00 with 15 minutes requested: the 11:00 gap
	meetings := []models.Meet{
		meeting(at(10, 0), 60),
		meeting(at(11, 15), 45),
	}
	slot := NextFreeSlot(meetings, at(10, 0), 15*time.Minute)
	assert.Equal(t, at(11, 0), slot)
}

func TestNextFreeSlotBackToBack(t *testing.T) {
	// no usable gap: lands after the last meeting
	meetings := []models.Meet{
		meeting(at(10, 0), 60),
		meeting(at(11, 0), 60),
		meeting(at(12, 0), 60),
	}
	slot := NextFreeSlot(meetings, at(10, 0), 30*time.Minute)
	assert.Equal(t, at(13, 0), slot)
}

func TestNextFreeSlotUnsortedInput(t *testing.T) {
	meetings := []models.Meet{
		meeting(at(11, 15), 45),
		meeting(at(10, 0), 60),
	}
	slot := NextFreeSlot(meetings, at(10, 0), 15*time.Minute)
	assert.Equal(t, at(11, 0), slot)
}

func TestNextFreeSlotNeverBeforeEarliest(t *testing.T) {
	// schedule entirely in the past still yields >= earliest
	meetings := []models.Meet{meeting(at(6, 0), 60)}
	earliest := at(9, 0)
	slot := NextFreeSlot(meetings, earliest, 30*time.Minute)
	assert.False(t, slot.Before(earliest))
	assert.Equal(t, earliest, slot)
}

func TestNextFreeSlotGapClampedToEarliest(t *testing.T) {
	// gap opens before earliest; its usable start is earliest itself
	meetings := []models.Meet{
		meeting(at(6, 0), 60),
		meeting(at(12, 0), 60),
	}
	slot := NextFreeSlot(meetings, at(9, 0), 30*time.Minute)
	assert.Equal(t, at(9, 0), slot)
}

func TestProbeSlotBufferWithoutConflicts(t *testing.T) {
	now := at(9, 0)
	slot := ProbeSlot(nil, now, 30*time.Minute)
	assert.True(t, slot.Sub(now) >= 2*time.Hour, "probe slot must keep at least a 2h buffer")
	assert.True(t, slot.Sub(now) <= 3*time.Hour, "probe slot jitter is capped at 3h")
}

func TestProbeSlotAdvancesPastConflicts(t *testing.T) {
	now := at(9, 0)
	// wall of meetings covering 10:00-16:00 swallows any jittered proposal
	meetings := []models.Meet{
		meeting(at(10, 0), 120),
		meeting(at(12, 0), 120),
		meeting(at(14, 0), 120),
	}
	slot := ProbeSlot(meetings, now, 30*time.Minute)
	assert.Equal(t, at(16, 0), slot)
}
