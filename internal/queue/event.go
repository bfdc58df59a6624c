// Package queue defines message payloads exchanged over the message broker.
package queue

import "os"

// BrokerURL returns the configured RabbitMQ URL, preferring RABBITMQ_URL
// over AMQP_URL.  Empty means no broker is deployed and both the
// publisher and the consumer stay inactive.
func BrokerURL() string {
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		return url
	}
	return os.Getenv("AMQP_URL")
}

// Booking actions carried in BookingActivityEvent.Action.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// BookingActivityEvent is published after every successful event write
// or delete.  It contains enough information for downstream consumers to
// log or notify without querying the primary database.
type BookingActivityEvent struct {
	Action     string `json:"action"`
	EventID    uint64 `json:"event_id"`
	HallID     string `json:"hall_id"`
	HallName   string `json:"hall_name"`
	Date       string `json:"date"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	OccurredAt string `json:"occurred_at"`
}
