package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureServer records the JSON body of the last request per path.
func captureServer(t *testing.T, reply string) (*httptest.Server, map[string]map[string]any) {
	t.Helper()
	bodies := map[string]map[string]any{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		bodies[r.URL.Path] = body
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	return server, bodies
}

func TestStartSessionPayload(t *testing.T) {
	server, bodies := captureServer(t, `{"message":"hello"}`)
	client := NewClient(server.URL)

	opener, err := client.StartSession(context.Background(), "SES000001", "CHN000001", "EMP0001", "previous context")
	require.NoError(t, err)
	assert.Equal(t, "hello", opener)

	body := bodies["/chatbot/start_session"]
	require.NotNil(t, body)
	assert.Equal(t, "SES000001", body["session_id"])
	assert.Equal(t, "CHN000001", body["chain_id"])
	assert.Equal(t, "EMP0001", body["employee_id"])
	assert.Equal(t, "previous context", body["context"])
}

func TestSendMessagePayload(t *testing.T) {
	server, bodies := captureServer(t, `{"message":"sure","complete_the_chain":false}`)
	client := NewClient(server.URL)

	reply, err := client.SendMessage(context.Background(), "SES000001", "CHN000001", "hello")
	require.NoError(t, err)
	assert.Equal(t, "sure", reply.Message)

	body := bodies["/chatbot/message"]
	require.NotNil(t, body)
	assert.Equal(t, "SES000001", body["session_id"])
	assert.Equal(t, "CHN000001", body["chain_id"])
	assert.Equal(t, "hello", body["message"])
}

func TestEndSessionPayload(t *testing.T) {
	server, bodies := captureServer(t, `{"updated_context":"distilled"}`)
	client := NewClient(server.URL)

	sentAt := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	summary, err := client.EndSession(context.Background(), EndSessionRequest{
		ChainID:        "CHN000001",
		SessionID:      "SES000001",
		CurrentContext: "running context",
		CurrentSessionMessages: []TranscriptEntry{
			{Sender: "bot", Message: "hi", Timestamp: sentAt},
			{Sender: "emp", Message: "hello", Timestamp: sentAt.Add(time.Minute)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "distilled", summary.UpdatedContext)

	body := bodies["/chatbot/end_session"]
	require.NotNil(t, body)
	assert.Equal(t, "CHN000001", body["chain_id"])
	assert.Equal(t, "SES000001", body["session_id"])
	assert.Equal(t, "running context", body["current_context"])

	messages, ok := body["current_session_messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	first, ok := messages[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "bot", first["sender"])
	assert.Equal(t, "hi", first["message"])
}

func TestEndSessionPayloadEmptyTranscript(t *testing.T) {
	server, bodies := captureServer(t, `{"updated_context":""}`)
	client := NewClient(server.URL)

	_, err := client.EndSession(context.Background(), EndSessionRequest{
		ChainID:   "CHN000001",
		SessionID: "SES000001",
	})
	require.NoError(t, err)

	body := bodies["/chatbot/end_session"]
	require.NotNil(t, body)
	messages, ok := body["current_session_messages"].([]any)
	require.True(t, ok, "transcript must serialize as an array, not null")
	assert.Empty(t, messages)
}
