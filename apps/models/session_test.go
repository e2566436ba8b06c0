package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession("EMP0001", "CHAT1A2B3C", time.Date(2026, 3, 25, 10, 0, 0, 0, time.UTC), nil)

	assert.True(t, strings.HasPrefix(s.SessionID, "SESS"))
	assert.Len(t, s.SessionID, 10)
	assert.Equal(t, SessionStatusPending, s.Status)
	assert.Equal(t, "EMP0001", s.EmployeeID)
	assert.Nil(t, s.CompletedAt)
}

func TestSessionLifecycle(t *testing.T) {
	now := time.Now().UTC()
	s := NewSession("EMP0001", "CHAT1A2B3C", now, nil)

	require.NoError(t, s.Start(now))
	assert.Equal(t, SessionStatusActive, s.Status)

	require.NoError(t, s.Complete(now))
	assert.Equal(t, SessionStatusCompleted, s.Status)
	require.NotNil(t, s.CompletedAt)
}

func TestSessionTransitionMatrix(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		from    string
		op      func(s *Session) error
		wantErr bool
	}{
		{"start pending", SessionStatusPending, func(s *Session) error { return s.Start(now) }, false},
		{"start active", SessionStatusActive, func(s *Session) error { return s.Start(now) }, true},
		{"start completed", SessionStatusCompleted, func(s *Session) error { return s.Start(now) }, true},
		{"start cancelled", SessionStatusCancelled, func(s *Session) error { return s.Start(now) }, true},
		{"complete pending", SessionStatusPending, func(s *Session) error { return s.Complete(now) }, true},
		{"complete active", SessionStatusActive, func(s *Session) error { return s.Complete(now) }, false},
		{"complete completed", SessionStatusCompleted, func(s *Session) error { return s.Complete(now) }, true},
		{"cancel pending", SessionStatusPending, func(s *Session) error { return s.Cancel("EMP0002", now) }, false},
		{"cancel active", SessionStatusActive, func(s *Session) error { return s.Cancel("EMP0002", now) }, false},
		{"cancel completed", SessionStatusCompleted, func(s *Session) error { return s.Cancel("EMP0002", now) }, true},
		{"cancel cancelled", SessionStatusCancelled, func(s *Session) error { return s.Cancel("EMP0002", now) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("EMP0001", "CHAT1A2B3C", now, nil)
			s.Status = tt.from

			err := tt.op(s)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidState)
				assert.Equal(t, tt.from, s.Status, "failed transition must not mutate status")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSessionCancelRecordsActor(t *testing.T) {
	now := time.Now().UTC()
	s := NewSession("EMP0001", "CHAT1A2B3C", now, nil)

	require.NoError(t, s.Cancel("EMP0042", now))
	require.NotNil(t, s.CancelledBy)
	assert.Equal(t, "EMP0042", *s.CancelledBy)
	require.NotNil(t, s.CancelledAt)
}
