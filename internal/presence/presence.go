// Package presence tracks member offline transitions and evicts idle users.
//
// The tracker records when a party member goes offline and posts a countdown
// notice into their party channel. The reaper sweeps those records on a fixed
// period, keeps the countdown edited in place, and evicts users whose offline
// time reaches the configured threshold.
package presence

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/louisbranch/partyfinder/internal/gateway"
	"github.com/louisbranch/partyfinder/internal/render"
)

// Memberships answers which party a user currently belongs to. The lifecycle
// engine implements it.
type Memberships interface {
	MemberParty(user gateway.UserID) (gateway.ChannelID, bool)
}

// EvictFunc performs a system-initiated idle eviction. The lifecycle
// engine's EvictIdle operation backs it.
type EvictFunc func(ctx context.Context, user gateway.UserID, threshold time.Duration) error

// record holds one user's offline state and countdown notice reference.
type record struct {
	offlineSince time.Time
	channel      gateway.ChannelID
	notice       gateway.MessageID
}

// Tracker watches presence transitions for party members.
type Tracker struct {
	mu        sync.Mutex
	records   map[gateway.UserID]*record
	members   Memberships
	gw        gateway.Gateway
	clock     func() time.Time
	threshold time.Duration
}

// NewTracker creates a tracker with the given offline threshold.
func NewTracker(members Memberships, gw gateway.Gateway, threshold time.Duration) *Tracker {
	return &Tracker{
		records:   map[gateway.UserID]*record{},
		members:   members,
		gw:        gw,
		clock:     time.Now,
		threshold: threshold,
	}
}

// SetClock overrides the tracker clock. Tests only.
func (t *Tracker) SetClock(clock func() time.Time) {
	t.clock = clock
}

// HandlePresenceUpdate reacts to a platform presence transition. Only party
// members are tracked; everyone else is ignored.
func (t *Tracker) HandlePresenceUpdate(ctx context.Context, user gateway.UserID, from, to gateway.Status) {
	if to == gateway.StatusOffline && from != gateway.StatusOffline {
		t.trackOffline(ctx, user)
		return
	}
	if to != gateway.StatusOffline {
		t.Forget(user)
	}
}

func (t *Tracker) trackOffline(ctx context.Context, user gateway.UserID) {
	channel, ok := t.members.MemberParty(user)
	if !ok {
		return
	}
	now := t.clock()

	t.mu.Lock()
	t.records[user] = &record{offlineSince: now, channel: channel}
	t.mu.Unlock()

	notice, err := t.gw.SendMessage(ctx, channel, render.OfflineCountdown(user, t.threshold))
	if err != nil {
		log.Printf("offline countdown send failed user=%s channel=%s err=%v", user, channel, err)
		return
	}
	t.mu.Lock()
	if r, ok := t.records[user]; ok && r.channel == channel {
		r.notice = notice
	}
	t.mu.Unlock()
}

// Forget clears a user's offline record. Called when they return online and
// by the lifecycle engine when they leave a party.
func (t *Tracker) Forget(user gateway.UserID) {
	t.mu.Lock()
	delete(t.records, user)
	t.mu.Unlock()
}

// Tracked reports whether a user currently has an offline record.
func (t *Tracker) Tracked(user gateway.UserID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.records[user]
	return ok
}

// snapshot copies the current records for a sweep.
func (t *Tracker) snapshot() map[gateway.UserID]record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[gateway.UserID]record, len(t.records))
	for user, r := range t.records {
		out[user] = *r
	}
	return out
}

// Sweep runs one reaper pass: edits countdown notices in place, prunes
// records for users no longer in any party, and evicts users offline past
// the threshold. Per-user failures are logged and never stop the sweep.
func (t *Tracker) Sweep(ctx context.Context, evict EvictFunc) {
	now := t.clock()
	for user, r := range t.snapshot() {
		if _, ok := t.members.MemberParty(user); !ok {
			t.Forget(user)
			continue
		}

		elapsed := now.Sub(r.offlineSince)
		if r.notice != "" {
			content := render.OfflineCountdown(user, t.threshold-elapsed)
			if err := t.gw.EditMessage(ctx, r.channel, r.notice, content); err != nil {
				log.Printf("countdown edit failed user=%s channel=%s err=%v", user, r.channel, err)
			}
		}

		if elapsed < t.threshold {
			continue
		}
		if err := evict(ctx, user, t.threshold); err != nil {
			log.Printf("idle eviction failed user=%s err=%v", user, err)
			continue
		}
		t.Forget(user)
	}
}

// Run drives periodic sweeps until the context is cancelled.
func (t *Tracker) Run(ctx context.Context, evict EvictFunc, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("reaper interval must be positive, got %v", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.Sweep(ctx, evict)
		}
	}
}
