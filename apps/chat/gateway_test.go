package chat

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/getevo/evo/v2/lib/outcome"
	"github.com/solacehr/solace-backend/apps/llm"
	"github.com/solacehr/solace-backend/apps/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusOf(t *testing.T, result any) int {
	t.Helper()
	resp, ok := result.(outcome.Response)
	require.True(t, ok, "expected an outcome response, got %T", result)
	return resp.StatusCode
}

func TestGatewayErrorMapsNotFound(t *testing.T) {
	result := gatewayError("CHAT000001", models.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, statusOf(t, result))
}

func TestGatewayErrorMapsInvalidState(t *testing.T) {
	err := fmt.Errorf("%w: session is pending", models.ErrInvalidState)
	result := gatewayError("CHAT000001", err)
	assert.Equal(t, http.StatusConflict, statusOf(t, result))
}

func TestGatewayErrorMapsAlternationGuard(t *testing.T) {
	result := gatewayError("CHAT000001", ErrAwaitBotReply)
	assert.Equal(t, http.StatusConflict, statusOf(t, result))
}

func TestGatewayErrorMapsMessageFloor(t *testing.T) {
	err := fmt.Errorf("%w: 4 of %d", ErrTooFewMessages, MinEmployeeMessages)
	result := gatewayError("CHAT000001", err)
	assert.Equal(t, http.StatusConflict, statusOf(t, result))
}

func TestGatewayErrorDefaultsToUpstream(t *testing.T) {
	result := gatewayError("CHAT000001", fmt.Errorf("connection refused"))
	assert.Equal(t, http.StatusBadGateway, statusOf(t, result))
}

func TestFloorGuardRejectsBelowTen(t *testing.T) {
	err := floorGuard(MinEmployeeMessages - 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooFewMessages)
}

func TestFloorGuardAcceptsExactlyTen(t *testing.T) {
	assert.NoError(t, floorGuard(MinEmployeeMessages))
	assert.NoError(t, floorGuard(MinEmployeeMessages+5))
}

func TestInitiateGuardRejectsBeforeScheduledTime(t *testing.T) {
	now := time.Date(2026, 8, 23, 9, 59, 0, 0, time.UTC)
	session := &models.Session{
		SessionID:   "SES000001",
		Status:      models.SessionStatusPending,
		ScheduledAt: now.Add(time.Minute),
	}
	err := initiateGuard(session, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestInitiateGuardAcceptsAtScheduledTime(t *testing.T) {
	now := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	session := &models.Session{
		SessionID:   "SES000001",
		Status:      models.SessionStatusPending,
		ScheduledAt: now,
	}
	assert.NoError(t, initiateGuard(session, now))
	assert.NoError(t, initiateGuard(session, now.Add(time.Hour)))
}

func TestInitiateGuardRejectsNonPendingSession(t *testing.T) {
	now := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	for _, status := range []string{
		models.SessionStatusActive,
		models.SessionStatusCompleted,
		models.SessionStatusCancelled,
	} {
		session := &models.Session{
			SessionID:   "SES000001",
			Status:      status,
			ScheduledAt: now.Add(-time.Hour),
		}
		err := initiateGuard(session, now)
		assert.ErrorIs(t, err, models.ErrInvalidState, "status %s", status)
	}
}

func TestRelayDiscardsStoredMessageOnUpstreamFailure(t *testing.T) {
	upstream := errors.New("connection refused")
	var discarded []uint

	_, err := relay(
		func() (*models.ChatMessage, error) {
			return &models.ChatMessage{ID: 42, ChatID: "CHAT000001"}, nil
		},
		func() (*llm.BotReply, error) { return nil, upstream },
		func(id uint) error {
			discarded = append(discarded, id)
			return nil
		},
	)
	require.ErrorIs(t, err, upstream)
	assert.Equal(t, []uint{42}, discarded)
}

func TestRelayKeepsStoredMessageOnSuccess(t *testing.T) {
	var discarded []uint

	reply, err := relay(
		func() (*models.ChatMessage, error) {
			return &models.ChatMessage{ID: 42, ChatID: "CHAT000001"}, nil
		},
		func() (*llm.BotReply, error) { return &llm.BotReply{Message: "sure"}, nil },
		func(id uint) error {
			discarded = append(discarded, id)
			return nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, "sure", reply.Message)
	assert.Empty(t, discarded)
}
