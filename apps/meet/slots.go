package meet

import (
	"math/rand"
	"sort"
	"time"

	"github.com/solacehr/solace-backend/apps/models"
)

// NextFreeSlot finds the earliest start time at or after earliest where a
// meeting of the given duration fits between the organizer's existing
// meetings. Greedy scan over the sorted schedule: the gap before the first
// meeting, then each gap between adjacent meetings, finally after the last.
// Never returns a time before earliest.
func NextFreeSlot(meetings []models.Meet, earliest time.Time, duration time.Duration) time.Time {
	if len(meetings) == 0 {
		return earliest
	}

	sorted := make([]models.Meet, len(meetings))
	copy(sorted, meetings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ScheduledAt.Before(sorted[j].ScheduledAt)
	})

	if sorted[0].ScheduledAt.Sub(earliest) >= duration {
		return earliest
	}

	for i := 0; i < len(sorted)-1; i++ {
		gapStart := sorted[i].End()
		if gapStart.Before(earliest) {
			gapStart = earliest
		}
		if sorted[i+1].ScheduledAt.Sub(gapStart) >= duration {
			return gapStart
		}
	}

	last := sorted[len(sorted)-1].End()
	if last.Before(earliest) {
		return earliest
	}
	return last
}

// ProbeSlot proposes now plus a random 2-3 hour buffer and walks forward
// through conflicting meetings, jumping to the end of each conflict until
// the slot is free. First-fit, not earliest-possible: the chat-escalation
// path wants breathing room before HR is contacted, unlike NextFreeSlot
// which the HR-initiated path uses for the earliest opening.
func ProbeSlot(meetings []models.Meet, now time.Time, duration time.Duration) time.Time {
	jitter := time.Duration((2 + rand.Float64()) * float64(time.Hour))
	proposed := now.Add(jitter)

	for _, meeting := range meetings {
		start := meeting.ScheduledAt
		end := meeting.End()
		proposedEnd := proposed.Add(duration)

		overlaps := (!proposed.Before(start) && proposed.Before(end)) ||
			(proposedEnd.After(start) && !proposedEnd.After(end)) ||
			(!start.Before(proposed) && !end.After(proposedEnd))
		if overlaps {
			proposed = end
		}
	}
	return proposed
}
