// Package messagequeue provides the event bus the controllers publish
// post lifecycle events to. Delivery is best effort: a queue failure
// never fails the operation that triggered it.
package messagequeue

// MessageQueue defines the interface for message queue services.
type MessageQueue interface {
	Publish(queueName string, body []byte) error
	Consume(queueName string, handler func(body []byte)) error
	Close() error
}
