// Package notifier delivers messages to tenant channels.
package notifier

import (
	"context"
	"errors"
	"sync"
)

// Notifier is the delivery edge of the pipeline.
type Notifier interface {
	// Send posts content to a channel. A nil error means delivered.
	Send(ctx context.Context, channelID, content string) error
}

// Delivery failures the dispatcher wants to tell apart in logs. Both are
// permanent for the channel in question; generic failures may be transient.
var (
	ErrPermissionDenied = errors.New("no permission to post in channel")
	ErrChannelNotFound  = errors.New("channel not found")
)

// SentMessage records one delivery made through the Mock.
type SentMessage struct {
	ChannelID string
	Content   string
}

// Mock records sends for tests and can be told to fail.
type Mock struct {
	mu       sync.Mutex
	Sent     []SentMessage
	FailWith error
	// FailChannels lists channel ids whose sends fail with FailWith
	// (or a generic error) while others succeed.
	FailChannels map[string]bool
}

func NewMock() *Mock {
	return &Mock{FailChannels: make(map[string]bool)}
}

func (m *Mock) Send(_ context.Context, channelID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil && (len(m.FailChannels) == 0 || m.FailChannels[channelID]) {
		return m.FailWith
	}
	m.Sent = append(m.Sent, SentMessage{ChannelID: channelID, Content: content})
	return nil
}

// SentTo returns the messages delivered to one channel.
func (m *Mock) SentTo(channelID string) []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SentMessage
	for _, s := range m.Sent {
		if s.ChannelID == channelID {
			out = append(out, s)
		}
	}
	return out
}

// Count returns the total number of delivered messages.
func (m *Mock) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
