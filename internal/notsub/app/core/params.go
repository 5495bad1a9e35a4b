package core

const (
	ConsumerTag = "notification-subscriber"
	// Prefetch bounds unacknowledged deliveries and concurrent handlers.
	Prefetch = 10
)
