package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChainDefaults(t *testing.T) {
	c := NewChain("EMP0001", []string{"SESS1A2B3C"}, nil)

	assert.True(t, strings.HasPrefix(c.ChainID, "CHAIN"))
	assert.Len(t, c.ChainID, 11)
	assert.Equal(t, ChainStatusActive, c.Status)
	assert.Equal(t, "", c.Context)
	assert.Equal(t, []string{"SESS1A2B3C"}, []string(c.SessionIDs))
}

func TestChainAddSessionAppendOnly(t *testing.T) {
	now := time.Now().UTC()
	c := NewChain("EMP0001", []string{"SESS000001"}, nil)

	require.NoError(t, c.AddSession("SESS000002", now))
	assert.Equal(t, []string{"SESS000001", "SESS000002"}, []string(c.SessionIDs))

	require.NoError(t, c.MarkCompleted(now))
	err := c.AddSession("SESS000003", now)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Len(t, c.SessionIDs, 2)
}

func TestChainTransitionMatrix(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		from    string
		op      func(c *Chain) error
		wantErr bool
	}{
		{"complete active", ChainStatusActive, func(c *Chain) error { return c.MarkCompleted(now) }, false},
		{"complete escalated", ChainStatusEscalated, func(c *Chain) error { return c.MarkCompleted(now) }, true},
		{"complete completed", ChainStatusCompleted, func(c *Chain) error { return c.MarkCompleted(now) }, true},
		{"complete cancelled", ChainStatusCancelled, func(c *Chain) error { return c.MarkCompleted(now) }, true},
		{"escalate active", ChainStatusActive, func(c *Chain) error { return c.MarkEscalated("distress", "MEET1A2B3C", now) }, false},
		{"escalate completed", ChainStatusCompleted, func(c *Chain) error { return c.MarkEscalated("distress", "MEET1A2B3C", now) }, true},
		{"escalate escalated", ChainStatusEscalated, func(c *Chain) error { return c.MarkEscalated("distress", "MEET1A2B3C", now) }, true},
		{"cancel active", ChainStatusActive, func(c *Chain) error { return c.MarkCancelled(now) }, false},
		{"cancel escalated", ChainStatusEscalated, func(c *Chain) error { return c.MarkCancelled(now) }, false},
		{"cancel completed", ChainStatusCompleted, func(c *Chain) error { return c.MarkCancelled(now) }, true},
		{"cancel cancelled", ChainStatusCancelled, func(c *Chain) error { return c.MarkCancelled(now) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChain("EMP0001", []string{"SESS000001"}, nil)
			c.Status = tt.from

			err := tt.op(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidState)
				assert.Equal(t, tt.from, c.Status, "failed transition must not mutate status")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestChainEscalationRecordsMeetAndReason(t *testing.T) {
	now := time.Now().UTC()
	c := NewChain("EMP0001", []string{"SESS000001"}, nil)

	require.NoError(t, c.MarkEscalated("deadline exceeded", "MEETAB12CD", now))
	assert.Equal(t, ChainStatusEscalated, c.Status)
	require.NotNil(t, c.MeetID)
	assert.Equal(t, "MEETAB12CD", *c.MeetID)
	require.NotNil(t, c.EscalationReason)
	assert.Equal(t, "deadline exceeded", *c.EscalationReason)
	require.NotNil(t, c.EscalatedAt)
}

func TestChainUpdateContextReplaces(t *testing.T) {
	now := time.Now().UTC()
	c := NewChain("EMP0001", []string{"SESS000001"}, nil)

	c.UpdateContext("discussed workload", now)
	c.UpdateContext("workload plus sleep issues", now)
	assert.Equal(t, "workload plus sleep issues", c.Context)
}
