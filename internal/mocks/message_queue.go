package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MessageQueue is a mock implementation of messagequeue.MessageQueue.
type MessageQueue struct {
	mock.Mock
}

func (m *MessageQueue) Publish(queueName string, body []byte) error {
	args := m.Called(queueName, body)
	return args.Error(0)
}

func (m *MessageQueue) Consume(queueName string, handler func(body []byte)) error {
	args := m.Called(queueName, handler)
	return args.Error(0)
}

func (m *MessageQueue) Close() error {
	args := m.Called()
	return args.Error(0)
}
