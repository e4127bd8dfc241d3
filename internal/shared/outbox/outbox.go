package outbox

import "time"

// Message is an outbox row persisted in the same store as the action log.
// The worker relay reads pending rows and publishes them to the message bus.
type Message struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}
