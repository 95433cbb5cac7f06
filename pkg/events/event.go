package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SOLUTION_ACCEPTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent carries the common fields shared by concrete events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewSolutionAccepted records that a user explicitly accepted a solution,
// which feeds the episodic memory loop and downstream analytics.
func NewSolutionAccepted(resultID, topic, problem string) Event {
	return BaseEvent{
		Type: "SOLUTION_ACCEPTED",
		Data: map[string]interface{}{
			"result_id": resultID,
			"topic":     topic,
			"problem":   problem,
		},
		OccurredAt: time.Now(),
	}
}

// NewKnowledgeIngested records a batch of curriculum chunks entering the store.
func NewKnowledgeIngested(source string, chunkCount int) Event {
	return BaseEvent{
		Type: "KNOWLEDGE_INGESTED",
		Data: map[string]interface{}{
			"source":      source,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}
