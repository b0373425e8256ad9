package publisher

// Publisher represents a service for publishing run reports
type Publisher interface {
	// Publish publishes a message under key
	Publish(key string, message []byte) error

	// Close closes the publisher connection
	Close() error
}

// NopPublisher discards every message; used when no broker is configured
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(key string, message []byte) error { return nil }

// Close does nothing
func (NopPublisher) Close() error { return nil }
