package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeetValidatesDuration(t *testing.T) {
	scheduled := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	_, err := NewMeet("EMP0002", "EMP0001", scheduled, 0, nil, nil, nil)
	require.Error(t, err)

	_, err = NewMeet("EMP0002", "EMP0001", scheduled, 481, nil, nil, nil)
	require.Error(t, err)

	m, err := NewMeet("EMP0002", "EMP0001", scheduled, 30, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, MeetStatusScheduled, m.Status)
	assert.Equal(t, scheduled.Add(30*time.Minute), m.End())
}

func TestMeetTransitionDAG(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		from    string
		op      func(m *Meet) error
		wantErr bool
	}{
		{"start scheduled", MeetStatusScheduled, func(m *Meet) error { return m.Start(now) }, false},
		{"start in_progress", MeetStatusInProgress, func(m *Meet) error { return m.Start(now) }, true},
		{"start completed", MeetStatusCompleted, func(m *Meet) error { return m.Start(now) }, true},
		{"complete scheduled", MeetStatusScheduled, func(m *Meet) error { return m.Complete(now) }, true},
		{"complete in_progress", MeetStatusInProgress, func(m *Meet) error { return m.Complete(now) }, false},
		{"no-show scheduled", MeetStatusScheduled, func(m *Meet) error { return m.MarkNoShow(now) }, false},
		{"no-show in_progress", MeetStatusInProgress, func(m *Meet) error { return m.MarkNoShow(now) }, true},
		{"cancel scheduled", MeetStatusScheduled, func(m *Meet) error { return m.Cancel("EMP0002", now) }, false},
		{"cancel in_progress", MeetStatusInProgress, func(m *Meet) error { return m.Cancel("EMP0002", now) }, false},
		{"cancel completed", MeetStatusCompleted, func(m *Meet) error { return m.Cancel("EMP0002", now) }, true},
		{"cancel no_show", MeetStatusNoShow, func(m *Meet) error { return m.Cancel("EMP0002", now) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMeet("EMP0002", "EMP0001", now, 30, nil, nil, nil)
			require.NoError(t, err)
			m.Status = tt.from

			err = tt.op(m)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidState)
				assert.Equal(t, tt.from, m.Status)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestChatMoodScoreBounds(t *testing.T) {
	now := time.Now().UTC()
	c := NewChat("EMP0001")

	require.Error(t, c.SetMoodScore(0, now))
	require.Error(t, c.SetMoodScore(7, now))
	require.NoError(t, c.SetMoodScore(MoodScoreUnassigned, now))
	require.NoError(t, c.SetMoodScore(6, now))
	assert.Equal(t, 6, c.MoodScore)
}

func TestChatEscalateFlipsMode(t *testing.T) {
	now := time.Now().UTC()
	c := NewChat("EMP0001")

	c.Escalate("detected distress", now)
	assert.True(t, c.IsEscalated)
	assert.Equal(t, ChatModeHR, c.ChatMode)
	require.NotNil(t, c.EscalationReason)
}
