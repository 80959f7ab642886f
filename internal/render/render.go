// Package render builds the message text the bot posts and edits.
//
// Everything here is pure string construction; delivery goes through the
// gateway. Mentions use the platform's <@id> form so clients linkify them.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/partyfinder/internal/gateway"
	"github.com/louisbranch/partyfinder/internal/party/domain"
)

// advisories maps a member count to the recommended trigger range shown to
// the party whenever its size changes.
var advisories = map[int]string{
	1: "1 Member = 15-20",
	2: "2 Member = 25-30",
	3: "3 Member = 35-40",
	4: "4 Member = 45-50",
	5: "5 Member = 50-55",
	6: "6 Member = 55-60",
}

// Advisory returns the trigger-count advisory for a member count, if one is
// configured.
func Advisory(count int) (string, bool) {
	text, ok := advisories[count]
	return text, ok
}

// ChannelName names the backing channel for a party by its display position.
func ChannelName(position int) string {
	return fmt.Sprintf("party-%d", position)
}

func mention(user gateway.UserID) string {
	return fmt.Sprintf("<@%s>", user)
}

// Status renders the pinned status message for a party.
func Status(p *domain.Party, position int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Party #%d", position)
	if p.Locked {
		b.WriteString(" (LOCKED)")
	}
	b.WriteString("\n\nPlayers\n")
	if len(p.Members) == 0 {
		b.WriteString("No players in party\n")
	}
	for i, m := range p.Members {
		fmt.Fprintf(&b, "%d. %s (%s)", i+1, mention(m.UserID), m.DisplayName)
		if m.UserID == p.LeaderID {
			b.WriteString(" (leader)")
		}
		b.WriteString("\n")
	}
	if p.JoinDirective != "" {
		fmt.Fprintf(&b, "\nJoin command\n%s\n", p.JoinDirective)
	}
	b.WriteString("\n")
	if len(p.Members) == p.MaxCapacity {
		b.WriteString("Party complete!")
	} else {
		fmt.Fprintf(&b, "%d/%d players joined", len(p.Members), p.MaxCapacity)
	}
	if p.Locked {
		b.WriteString(" | PARTY LOCKED")
	}
	return b.String()
}

// Prompt renders the global create/join prompt with the open-party count.
func Prompt(activeParties int) string {
	return fmt.Sprintf("Party Finder\nUse the join button to create or join a party.\n\nCurrent active parties: %d", activeParties)
}

// JoinNotice announces a new member inside the party channel.
func JoinNotice(user gateway.UserID, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s has joined the party!", mention(user))
	if text, ok := Advisory(count); ok {
		fmt.Fprintf(&b, "\nTrigger count: %s", text)
	}
	return b.String()
}

// LeaveNotice announces a departure with the updated advisory.
func LeaveNotice(user gateway.UserID, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s has left the party!", mention(user))
	if text, ok := Advisory(count); ok {
		fmt.Fprintf(&b, "\nUpdated trigger count: %s", text)
	}
	return b.String()
}

// FullNotice is posted when a join fills the party.
func FullNotice() string {
	return "Your party is full!"
}

// SuccessionNotice announces automatic leadership transfer after the leader
// leaves.
func SuccessionNotice(newLeader gateway.UserID) string {
	return fmt.Sprintf("Party leader has left. %s is now the new party leader and can set the join command.", mention(newLeader))
}

// TransferNotice announces an explicit leadership transfer.
func TransferNotice(newLeader gateway.UserID) string {
	return fmt.Sprintf("%s is now the party leader! They can now set the join command and manage the party.", mention(newLeader))
}

// KickNotice announces a kick inside the party channel.
func KickNotice(target gateway.UserID, displayName string, actor gateway.UserID) string {
	return fmt.Sprintf("%s (%s) was kicked by %s", mention(target), displayName, mention(actor))
}

// KickDirect is the out-of-band notice sent to the kicked user.
func KickDirect(channel gateway.ChannelID) string {
	return fmt.Sprintf("You were removed from the party in <#%s>.", channel)
}

// EvictNotice announces an idle eviction inside the party channel.
func EvictNotice(user gateway.UserID, displayName string, threshold time.Duration) string {
	return fmt.Sprintf("%s (%s) was automatically removed for being offline for more than %d minutes.",
		mention(user), displayName, int(threshold.Minutes()))
}

// CloseDirect is the out-of-band notice sent to members of a force-closed
// party.
func CloseDirect(channel gateway.ChannelID) string {
	return fmt.Sprintf("The party in <#%s> was closed by the bot owner.", channel)
}

// ResizeNotice announces a capacity change.
func ResizeNotice(capacity int, actor gateway.UserID) string {
	return fmt.Sprintf("Party size changed to %d players by %s", capacity, mention(actor))
}

// OfflineCountdown renders the going-offline warning with the remaining time
// before eviction, clamped at zero.
func OfflineCountdown(user gateway.UserID, remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	total := int(remaining.Seconds())
	return fmt.Sprintf("%s has gone offline.\nThey will be automatically removed in %02d:%02d if they don't come back.",
		mention(user), total/60, total%60)
}
