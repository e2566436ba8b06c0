// Package llm is the client for the external analysis and chatbot service.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Call timeouts. Starting a chatbot session loads the employee's report on
// the remote side and can take minutes; everything else is interactive.
const (
	defaultTimeout      = 60 * time.Second
	startSessionTimeout = 300 * time.Second
)

// Client talks to the LLM service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var (
	client     *Client
	clientLock sync.RWMutex
)

// NewClient creates an LLM service client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Per-call deadlines come from request contexts.
		httpClient: &http.Client{},
	}
}

// SetClient installs the client used by the package-level API.
func SetClient(c *Client) {
	clientLock.Lock()
	defer clientLock.Unlock()
	client = c
}

// GetClient returns the installed client, or nil when LLM.ADDR is unset.
func GetClient() *Client {
	clientLock.RLock()
	defer clientLock.RUnlock()
	return client
}

// ReportRequest asks the service to analyze an employee's company data and
// produce a wellness report bound to a chain.
type ReportRequest struct {
	EmployeeData struct {
		EmployeeID  string          `json:"employee_id"`
		CompanyData json.RawMessage `json:"company_data"`
	} `json:"employee_data"`
	ChainID string `json:"chain_id"`
}

// BotReply is the chatbot's answer to one employee message.
type BotReply struct {
	Message          string `json:"message"`
	CompleteTheChain bool   `json:"complete_the_chain"`
	EscalateTheChain bool   `json:"escalate_the_chain"`
	EscalationReason string `json:"escalation_reason,omitempty"`
	MoodScore        *int   `json:"mood_score,omitempty"`
}

// SessionSummary is returned when a chatbot session ends.
type SessionSummary struct {
	UpdatedContext string `json:"updated_context"`
	MoodScore      *int   `json:"mood_score,omitempty"`
}

// TranscriptEntry is one chat message as sent to the chatbot when a session
// ends.
type TranscriptEntry struct {
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalyzeReport requests wellness report generation for a chain.
func (c *Client) AnalyzeReport(ctx context.Context, employeeID string, companyData json.RawMessage, chainID string) error {
	var req ReportRequest
	req.EmployeeData.EmployeeID = employeeID
	req.EmployeeData.CompanyData = companyData
	req.ChainID = chainID

	return c.post(ctx, "/report/analyze", defaultTimeout, req, nil)
}

// ReportExists checks whether a wellness report was already generated for
// the chain. Used to make session initiation idempotent.
func (c *Client) ReportExists(ctx context.Context, chainID string) (bool, error) {
	var out struct {
		Exists bool `json:"exists"`
	}
	if err := c.get(ctx, "/report/report-exists/"+chainID, defaultTimeout, &out); err != nil {
		return false, err
	}
	return out.Exists, nil
}

// StartSession opens a chatbot session and returns the opening bot message.
func (c *Client) StartSession(ctx context.Context, sessionID, chainID, employeeID, chainContext string) (string, error) {
	req := map[string]string{
		"session_id":  sessionID,
		"chain_id":    chainID,
		"employee_id": employeeID,
		"context":     chainContext,
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/chatbot/start_session", startSessionTimeout, req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// SendMessage forwards an employee message and returns the bot reply with
// any lifecycle flags.
func (c *Client) SendMessage(ctx context.Context, sessionID, chainID, text string) (*BotReply, error) {
	req := map[string]string{
		"session_id": sessionID,
		"chain_id":   chainID,
		"message":    text,
	}
	var out BotReply
	if err := c.post(ctx, "/chatbot/message", defaultTimeout, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EndSessionRequest carries everything the chatbot needs to distill a
// session: the chain's running context and the full session transcript.
type EndSessionRequest struct {
	ChainID                string            `json:"chain_id"`
	SessionID              string            `json:"session_id"`
	CurrentContext         string            `json:"current_context"`
	CurrentSessionMessages []TranscriptEntry `json:"current_session_messages"`
}

// EndSession closes a chatbot session and returns the distilled context for
// the next one.
func (c *Client) EndSession(ctx context.Context, req EndSessionRequest) (*SessionSummary, error) {
	if req.CurrentSessionMessages == nil {
		req.CurrentSessionMessages = []TranscriptEntry{}
	}
	var out SessionSummary
	if err := c.post(ctx, "/chatbot/end_session", defaultTimeout, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, timeout time.Duration, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, path, out)
}

func (c *Client) get(ctx context.Context, path string, timeout time.Duration, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("llm service request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read llm service response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("llm service %s returned status %d: %s", path, resp.StatusCode, truncate(string(respBody), 200))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal llm service response: %w", err)
		}
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
