// Package domain holds the party data model and its validation rules.
package domain

import (
	"strconv"
	"strings"

	"github.com/louisbranch/partyfinder/internal/gateway"
	"github.com/louisbranch/partyfinder/internal/platform/errors"
)

// Display-name bounds from the join dialog.
const (
	MinDisplayNameLen = 3
	MaxDisplayNameLen = 16
)

// MinCapacity is the smallest party size a leader can select.
const MinCapacity = 2

// State describes where a party sits in its lifecycle.
type State int

const (
	// StateOpen accepts joins: unlocked and under capacity.
	StateOpen State = iota
	// StateFull is unlocked but at capacity.
	StateFull
	// StateLocked accepts no further joins. Locking is irreversible.
	StateLocked
)

// Member is one participant with the display label they joined under.
type Member struct {
	UserID      gateway.UserID
	DisplayName string
}

// Party is one active party backed by a platform channel.
//
// Members is ordered by insertion; the order determines leadership
// succession. LeaderID is always present in Members.
type Party struct {
	ID              gateway.ChannelID
	Members         []Member
	LeaderID        gateway.UserID
	MaxCapacity     int
	Locked          bool
	JoinDirective   string
	StatusMessageID gateway.MessageID
}

// State derives the lifecycle state from the party's fields.
func (p *Party) State() State {
	switch {
	case p.Locked:
		return StateLocked
	case len(p.Members) >= p.MaxCapacity:
		return StateFull
	default:
		return StateOpen
	}
}

// Open reports whether the party accepts another join.
func (p *Party) Open() bool {
	return p.State() == StateOpen
}

// MemberIndex returns the position of a user in the member order, or -1.
func (p *Party) MemberIndex(user gateway.UserID) int {
	for i, m := range p.Members {
		if m.UserID == user {
			return i
		}
	}
	return -1
}

// HasMember reports whether the user belongs to the party.
func (p *Party) HasMember(user gateway.UserID) bool {
	return p.MemberIndex(user) >= 0
}

// NormalizeDisplayName trims and validates a member display label.
func NormalizeDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) < MinDisplayNameLen || len(name) > MaxDisplayNameLen {
		return "", errors.WithMetadata(errors.CodeDisplayNameInvalid,
			"display name length out of bounds",
			map[string]string{"Min": itoa(MinDisplayNameLen), "Max": itoa(MaxDisplayNameLen)})
	}
	return name, nil
}

// ValidateCapacity checks a requested capacity against the configured maximum.
func ValidateCapacity(capacity, configuredMax int) error {
	if capacity < MinCapacity || capacity > configuredMax {
		return errors.WithMetadata(errors.CodeCapacityOutOfRange,
			"capacity out of range",
			map[string]string{"Min": itoa(MinCapacity), "Max": itoa(configuredMax)})
	}
	return nil
}

// ValidateDirective checks a join directive against the configured length bound.
func ValidateDirective(text string, maxLen int) error {
	if len(text) > maxLen {
		return errors.WithMetadata(errors.CodeDirectiveTooLong,
			"join directive too long",
			map[string]string{"Max": itoa(maxLen)})
	}
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
