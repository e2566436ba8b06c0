package nats

import (
	"encoding/json"
	"time"

	"github.com/getevo/evo/v2/lib/log"
)

// Event subjects for domain lifecycle notifications. Consumers (dashboards,
// audit pipelines) subscribe to these; the backend only publishes.
const (
	SubjectChainCreated   = "solace.chain.created"
	SubjectChainCompleted = "solace.chain.completed"
	SubjectChainEscalated = "solace.chain.escalated"
	SubjectChainCancelled = "solace.chain.cancelled"
	SubjectMeetScheduled  = "solace.meet.scheduled"
	SubjectChatEscalated  = "solace.chat.escalated"
)

// Event is the envelope published on domain subjects.
type Event struct {
	Subject    string         `json:"subject"`
	EmployeeID string         `json:"employee_id"`
	EntityID   string         `json:"entity_id"`
	Detail     map[string]any `json:"detail,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// PublishEvent emits a domain event. Failures are logged, never propagated:
// event delivery is advisory and must not fail the triggering operation.
func PublishEvent(subject, employeeID, entityID string, detail map[string]any) {
	event := Event{
		Subject:    subject,
		EmployeeID: employeeID,
		EntityID:   entityID,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Error("failed to marshal event %s: %v", subject, err)
		return
	}

	if err := Publish(subject, data); err != nil {
		log.Warning("failed to publish event %s for %s: %v", subject, entityID, err)
	}
}
