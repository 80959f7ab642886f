// Package gateway defines the contract with the chat-platform SDK.
//
// The core never talks to the platform directly: channel provisioning,
// permission overwrites, message delivery and presence updates all flow
// through the Gateway interface so the registry and lifecycle engine stay
// independent of any SDK event model.
package gateway

import "context"

// ChannelID identifies a platform channel.
type ChannelID string

// UserID identifies a platform user.
type UserID string

// MessageID identifies a message within a channel.
type MessageID string

// Status is a coarse presence state. Anything that is not offline counts as
// online for idle tracking.
type Status int

const (
	// StatusOffline marks a user as disconnected from the platform.
	StatusOffline Status = iota
	// StatusOnline marks a user as reachable (online, idle or busy).
	StatusOnline
)

// PresenceHandler receives presence transitions for platform users.
type PresenceHandler func(user UserID, from, to Status)

// Gateway is the platform collaborator the core depends on.
//
// Implementations perform real network I/O; callers must treat every method
// as fallible and never let a gateway failure roll back committed registry
// state.
type Gateway interface {
	// CreateChannel provisions a text channel under the configured parent
	// category, visible only to the given members.
	CreateChannel(ctx context.Context, name string, members []UserID) (ChannelID, error)

	// DeleteChannel tears down a channel and all of its messages.
	DeleteChannel(ctx context.Context, channel ChannelID) error

	// SetUserAccess grants or revokes a user's read/write overwrites on a
	// channel.
	SetUserAccess(ctx context.Context, channel ChannelID, user UserID, canRead, canWrite bool) error

	// SendMessage posts a message to a channel.
	SendMessage(ctx context.Context, channel ChannelID, content string) (MessageID, error)

	// EditMessage replaces the content of a previously sent message.
	EditMessage(ctx context.Context, channel ChannelID, message MessageID, content string) error

	// PinMessage pins a message in its channel.
	PinMessage(ctx context.Context, channel ChannelID, message MessageID) error

	// NotifyUser delivers a direct message to a user. Callers swallow
	// failures: users may have direct messages disabled.
	NotifyUser(ctx context.Context, user UserID, content string) error

	// MessageCount reports the number of messages in a channel.
	MessageCount(ctx context.Context, channel ChannelID) (int, error)
}
