// Package local provides an in-process Gateway for dry runs and tests.
//
// Channels and messages live in memory with synthetic identifiers. Every
// action is recorded so tests can assert on side effects, and the bot can be
// exercised end to end without platform credentials.
package local

import (
	"context"
	"fmt"
	"sync"

	"github.com/louisbranch/partyfinder/internal/gateway"
)

// Message is a message stored in a local channel.
type Message struct {
	ID      gateway.MessageID
	Content string
	Pinned  bool
}

// Channel is an in-memory channel with its member overwrites.
type Channel struct {
	ID       gateway.ChannelID
	Name     string
	Access   map[gateway.UserID][2]bool // {canRead, canWrite}
	Messages []Message
}

// Gateway is an in-memory gateway.Gateway implementation.
type Gateway struct {
	mu         sync.Mutex
	channels   map[gateway.ChannelID]*Channel
	order      int
	notices    map[gateway.UserID][]string
	failNotify map[gateway.UserID]bool
	failSend   bool
}

// New creates an empty local gateway.
func New() *Gateway {
	return &Gateway{
		channels:   map[gateway.ChannelID]*Channel{},
		notices:    map[gateway.UserID][]string{},
		failNotify: map[gateway.UserID]bool{},
	}
}

// CreateChannel provisions an in-memory channel readable by the members.
func (g *Gateway) CreateChannel(ctx context.Context, name string, members []gateway.UserID) (gateway.ChannelID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.order++
	id := gateway.ChannelID(fmt.Sprintf("channel-%d", g.order))
	ch := &Channel{ID: id, Name: name, Access: map[gateway.UserID][2]bool{}}
	for _, m := range members {
		ch.Access[m] = [2]bool{true, true}
	}
	g.channels[id] = ch
	return id, nil
}

// DeleteChannel removes a channel and its messages.
func (g *Gateway) DeleteChannel(ctx context.Context, channel gateway.ChannelID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.channels[channel]; !ok {
		return fmt.Errorf("delete channel %s: not found", channel)
	}
	delete(g.channels, channel)
	return nil
}

// SetUserAccess records a user's overwrites on a channel.
func (g *Gateway) SetUserAccess(ctx context.Context, channel gateway.ChannelID, user gateway.UserID, canRead, canWrite bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.channels[channel]
	if !ok {
		return fmt.Errorf("set access on %s: not found", channel)
	}
	ch.Access[user] = [2]bool{canRead, canWrite}
	return nil
}

// SendMessage appends a message to a channel.
func (g *Gateway) SendMessage(ctx context.Context, channel gateway.ChannelID, content string) (gateway.MessageID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failSend {
		return "", fmt.Errorf("send to %s: unavailable", channel)
	}
	ch, ok := g.channels[channel]
	if !ok {
		return "", fmt.Errorf("send to %s: not found", channel)
	}
	g.order++
	id := gateway.MessageID(fmt.Sprintf("message-%d", g.order))
	ch.Messages = append(ch.Messages, Message{ID: id, Content: content})
	return id, nil
}

// EditMessage replaces the content of a stored message.
func (g *Gateway) EditMessage(ctx context.Context, channel gateway.ChannelID, message gateway.MessageID, content string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.channels[channel]
	if !ok {
		return fmt.Errorf("edit %s in %s: channel not found", message, channel)
	}
	for i := range ch.Messages {
		if ch.Messages[i].ID == message {
			ch.Messages[i].Content = content
			return nil
		}
	}
	return fmt.Errorf("edit %s in %s: message not found", message, channel)
}

// PinMessage marks a stored message as pinned.
func (g *Gateway) PinMessage(ctx context.Context, channel gateway.ChannelID, message gateway.MessageID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.channels[channel]
	if !ok {
		return fmt.Errorf("pin %s in %s: channel not found", message, channel)
	}
	for i := range ch.Messages {
		if ch.Messages[i].ID == message {
			ch.Messages[i].Pinned = true
			return nil
		}
	}
	return fmt.Errorf("pin %s in %s: message not found", message, channel)
}

// NotifyUser records a direct notice for a user.
func (g *Gateway) NotifyUser(ctx context.Context, user gateway.UserID, content string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failNotify[user] {
		return fmt.Errorf("notify %s: direct messages disabled", user)
	}
	g.notices[user] = append(g.notices[user], content)
	return nil
}

// MessageCount reports the number of messages in a channel.
func (g *Gateway) MessageCount(ctx context.Context, channel gateway.ChannelID) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.channels[channel]
	if !ok {
		return 0, fmt.Errorf("count messages in %s: not found", channel)
	}
	return len(ch.Messages), nil
}

// Channel returns a copy of a stored channel for assertions.
func (g *Gateway) Channel(id gateway.ChannelID) (Channel, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.channels[id]
	if !ok {
		return Channel{}, false
	}
	out := Channel{ID: ch.ID, Name: ch.Name, Access: map[gateway.UserID][2]bool{}}
	for u, a := range ch.Access {
		out.Access[u] = a
	}
	out.Messages = append(out.Messages, ch.Messages...)
	return out, true
}

// Notices returns the direct notices recorded for a user.
func (g *Gateway) Notices(user gateway.UserID) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.notices[user]...)
}

// ChannelCount reports the number of live channels.
func (g *Gateway) ChannelCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.channels)
}

// SeedChannel installs a channel with a fixed id, for tests that need a
// channel to exist up front (the prompt channel, the checks feed).
func (g *Gateway) SeedChannel(id gateway.ChannelID, name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.channels[id] = &Channel{ID: id, Name: name, Access: map[gateway.UserID][2]bool{}}
}

// FailNotify makes NotifyUser fail for the given user.
func (g *Gateway) FailNotify(user gateway.UserID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failNotify[user] = true
}

// FailSends makes SendMessage fail until reset.
func (g *Gateway) FailSends(fail bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failSend = fail
}
