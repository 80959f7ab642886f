package service

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/partyfinder/internal/gateway"
	"github.com/louisbranch/partyfinder/internal/party/domain"
	"github.com/louisbranch/partyfinder/internal/platform/errors"
	"github.com/louisbranch/partyfinder/internal/render"
)

// JoinResult reports the outcome of a successful join.
type JoinResult struct {
	Party    gateway.ChannelID
	Created  bool
	Position int
	Members  int
}

// LeaveResult reports the outcome of a successful leave or eviction.
type LeaveResult struct {
	Party     gateway.ChannelID
	Destroyed bool
	NewLeader gateway.UserID
	Members   int
}

// Join adds a user to the first open party, creating a new one when every
// party is full or locked.
func (e *Engine) Join(ctx context.Context, user gateway.UserID, displayName string) (JoinResult, error) {
	ctx, span := e.span(ctx, "party.join", attribute.String("user.id", string(user)))
	defer span.End()

	name, err := domain.NormalizeDisplayName(displayName)
	if err != nil {
		span.RecordError(err)
		return JoinResult{}, err
	}

	e.mu.Lock()
	now := e.clock()
	if wait, throttled := e.checkCooldownLocked(user, now); throttled {
		e.mu.Unlock()
		err := errors.WithMetadata(errors.CodeJoinCooldown, "join throttled",
			map[string]string{"Seconds": strconv.Itoa(wait)})
		span.RecordError(err)
		return JoinResult{}, err
	}
	if p := e.reg.PartyOf(user); p != nil {
		e.mu.Unlock()
		err := errors.WithMetadata(errors.CodeAlreadyInParty, "user already in a party",
			map[string]string{"Channel": string(p.ID)})
		span.RecordError(err)
		return JoinResult{}, err
	}
	// Safety net: refuse joins from members of locked parties. Unreachable
	// while the membership index holds each user in at most one party.
	for _, p := range e.reg.Parties() {
		if p.Locked && p.HasMember(user) {
			e.mu.Unlock()
			err := errors.New(errors.CodePartyLocked, "user belongs to a locked party")
			span.RecordError(err)
			return JoinResult{}, err
		}
	}

	if target := e.reg.FindOpen(); target != nil {
		e.reg.AddMember(target, domain.Member{UserID: user, DisplayName: name})
		party := target.ID
		count := len(target.Members)
		position := e.reg.Position(party)
		full := count == target.MaxCapacity
		e.mu.Unlock()

		e.runEffects(ctx, []effect{
			func(ctx context.Context) {
				if err := e.gw.SetUserAccess(ctx, party, user, true, true); err != nil {
					logEffectFailure("grant access", party, err)
				}
			},
			func(ctx context.Context) {
				if _, err := e.gw.SendMessage(ctx, party, render.JoinNotice(user, count)); err != nil {
					logEffectFailure("join notice", party, err)
				}
			},
			func(ctx context.Context) {
				if !full {
					return
				}
				if _, err := e.gw.SendMessage(ctx, party, render.FullNotice()); err != nil {
					logEffectFailure("full notice", party, err)
				}
			},
			func(ctx context.Context) { e.refreshStatus(ctx, party) },
			func(ctx context.Context) { e.refreshPrompt(ctx) },
		})
		return JoinResult{Party: party, Position: position, Members: count}, nil
	}

	position := e.reg.Len() + 1
	e.mu.Unlock()

	// Channel provisioning is external I/O, so it happens outside the lock
	// and the membership check is repeated before the party is committed.
	channel, err := e.gw.CreateChannel(ctx, render.ChannelName(position), []gateway.UserID{user})
	if err != nil {
		wrapped := errors.Wrap(errors.CodeExternalIO, "create party channel", err)
		span.RecordError(wrapped)
		return JoinResult{}, wrapped
	}

	e.mu.Lock()
	if p := e.reg.PartyOf(user); p != nil {
		e.mu.Unlock()
		e.teardown(ctx, channel)
		err := errors.WithMetadata(errors.CodeAlreadyInParty, "user already in a party",
			map[string]string{"Channel": string(p.ID)})
		span.RecordError(err)
		return JoinResult{}, err
	}
	p := &domain.Party{
		ID:          channel,
		Members:     []domain.Member{{UserID: user, DisplayName: name}},
		LeaderID:    user,
		MaxCapacity: e.cfg.DefaultCapacity,
	}
	e.reg.Add(p)
	position = e.reg.Position(channel)
	e.mu.Unlock()

	e.runEffects(ctx, []effect{
		func(ctx context.Context) { e.refreshStatus(ctx, channel) },
		func(ctx context.Context) { e.refreshPrompt(ctx) },
	})
	return JoinResult{Party: channel, Created: true, Position: position, Members: 1}, nil
}

// checkCooldownLocked enforces the per-user join throttle and prunes expired
// entries so the map does not grow without bound. Caller holds the mutex.
func (e *Engine) checkCooldownLocked(user gateway.UserID, now time.Time) (waitSeconds int, throttled bool) {
	if e.cfg.JoinCooldown <= 0 {
		return 0, false
	}
	for u, at := range e.lastJoin {
		if now.Sub(at) >= e.cfg.JoinCooldown {
			delete(e.lastJoin, u)
		}
	}
	if at, ok := e.lastJoin[user]; ok {
		elapsed := now.Sub(at)
		if elapsed < e.cfg.JoinCooldown {
			remaining := e.cfg.JoinCooldown - elapsed
			return int((remaining + time.Second - 1) / time.Second), true
		}
	}
	e.lastJoin[user] = now
	return 0, false
}

// Leave removes a user from a party, transferring leadership to the oldest
// remaining member and destroying the party when it empties.
func (e *Engine) Leave(ctx context.Context, user gateway.UserID, party gateway.ChannelID) (LeaveResult, error) {
	ctx, span := e.span(ctx, "party.leave",
		attribute.String("user.id", string(user)),
		attribute.String("party.id", string(party)))
	defer span.End()

	e.mu.Lock()
	p := e.reg.Get(party)
	if p == nil {
		e.mu.Unlock()
		err := errors.New(errors.CodeNotFound, "party not found")
		span.RecordError(err)
		return LeaveResult{}, err
	}
	if !p.HasMember(user) {
		e.mu.Unlock()
		err := errors.New(errors.CodeNotAMember, "user is not a party member")
		span.RecordError(err)
		return LeaveResult{}, err
	}
	e.reg.RemoveMember(p, user)
	result := LeaveResult{Party: party, Members: len(p.Members)}
	if p.LeaderID == user && len(p.Members) > 0 {
		p.LeaderID = p.Members[0].UserID
		result.NewLeader = p.LeaderID
	}
	if len(p.Members) == 0 {
		e.reg.Remove(party)
		result.Destroyed = true
	}
	e.mu.Unlock()
	e.forget(user)

	e.runEffects(ctx, e.departureEffects(party, user, result, ""))
	return result, nil
}

// departureEffects builds the shared post-commit effects for leave and idle
// eviction. evictNotice, when non-empty, replaces the regular leave notice.
func (e *Engine) departureEffects(party gateway.ChannelID, user gateway.UserID, result LeaveResult, evictNotice string) []effect {
	if result.Destroyed {
		return []effect{
			func(ctx context.Context) { e.teardown(ctx, party) },
			func(ctx context.Context) { e.refreshPrompt(ctx) },
		}
	}
	return []effect{
		func(ctx context.Context) { e.revokeAccess(ctx, party, user) },
		func(ctx context.Context) {
			if result.NewLeader == "" {
				return
			}
			if _, err := e.gw.SendMessage(ctx, party, render.SuccessionNotice(result.NewLeader)); err != nil {
				logEffectFailure("succession notice", party, err)
			}
		},
		func(ctx context.Context) {
			notice := evictNotice
			if notice == "" {
				notice = render.LeaveNotice(user, result.Members)
			}
			if _, err := e.gw.SendMessage(ctx, party, notice); err != nil {
				logEffectFailure("departure notice", party, err)
			}
		},
		func(ctx context.Context) { e.refreshStatus(ctx, party) },
		func(ctx context.Context) { e.refreshPrompt(ctx) },
	}
}

// Kick removes a member on the leader's behalf and notifies them directly.
func (e *Engine) Kick(ctx context.Context, actor, target gateway.UserID, party gateway.ChannelID) (LeaveResult, error) {
	ctx, span := e.span(ctx, "party.kick",
		attribute.String("actor.id", string(actor)),
		attribute.String("target.id", string(target)),
		attribute.String("party.id", string(party)))
	defer span.End()

	e.mu.Lock()
	p := e.reg.Get(party)
	if p == nil {
		e.mu.Unlock()
		err := errors.New(errors.CodeNotFound, "party not found")
		span.RecordError(err)
		return LeaveResult{}, err
	}
	if p.LeaderID != actor {
		e.mu.Unlock()
		err := errors.New(errors.CodeNotLeader, "only the leader can kick members")
		span.RecordError(err)
		return LeaveResult{}, err
	}
	if target == actor {
		e.mu.Unlock()
		err := errors.New(errors.CodeCannotKickSelf, "leader cannot kick themselves")
		span.RecordError(err)
		return LeaveResult{}, err
	}
	if len(p.Members) == 1 {
		e.mu.Unlock()
		err := errors.New(errors.CodeSoleMemberCannotKick, "cannot kick from a single-member party")
		span.RecordError(err)
		return LeaveResult{}, err
	}
	removed, ok := e.reg.RemoveMember(p, target)
	if !ok {
		e.mu.Unlock()
		err := errors.New(errors.CodeNotAMember, "target is not a party member")
		span.RecordError(err)
		return LeaveResult{}, err
	}
	result := LeaveResult{Party: party, Members: len(p.Members)}
	e.mu.Unlock()
	e.forget(target)

	e.runEffects(ctx, []effect{
		func(ctx context.Context) { e.revokeAccess(ctx, party, target) },
		func(ctx context.Context) { e.notify(ctx, target, render.KickDirect(party)) },
		func(ctx context.Context) {
			if _, err := e.gw.SendMessage(ctx, party, render.KickNotice(target, removed.DisplayName, actor)); err != nil {
				logEffectFailure("kick notice", party, err)
			}
		},
		func(ctx context.Context) { e.refreshStatus(ctx, party) },
		func(ctx context.Context) { e.refreshPrompt(ctx) },
	})
	return result, nil
}

// EvictIdle removes a user who stayed offline past the threshold. The
// eviction is system-initiated, so no actor check applies.
func (e *Engine) EvictIdle(ctx context.Context, user gateway.UserID, threshold time.Duration) (LeaveResult, error) {
	ctx, span := e.span(ctx, "party.evict_idle", attribute.String("user.id", string(user)))
	defer span.End()

	e.mu.Lock()
	p := e.reg.PartyOf(user)
	if p == nil {
		e.mu.Unlock()
		err := errors.New(errors.CodeNotFound, "user is not in any party")
		span.RecordError(err)
		return LeaveResult{}, err
	}
	party := p.ID
	removed, _ := e.reg.RemoveMember(p, user)
	result := LeaveResult{Party: party, Members: len(p.Members)}
	if p.LeaderID == user && len(p.Members) > 0 {
		p.LeaderID = p.Members[0].UserID
		result.NewLeader = p.LeaderID
	}
	if len(p.Members) == 0 {
		e.reg.Remove(party)
		result.Destroyed = true
	}
	e.mu.Unlock()
	e.forget(user)

	notice := render.EvictNotice(user, removed.DisplayName, threshold)
	e.runEffects(ctx, e.departureEffects(party, user, result, notice))
	return result, nil
}
