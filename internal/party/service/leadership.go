package service

import (
	"context"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/partyfinder/internal/gateway"
	"github.com/louisbranch/partyfinder/internal/party/domain"
	"github.com/louisbranch/partyfinder/internal/platform/errors"
	"github.com/louisbranch/partyfinder/internal/render"
)

// lockConfirmToken is the literal a leader must type to lock their party.
// Matching is case-insensitive; locking is irreversible.
const lockConfirmToken = "AFK"

// leaderPartyLocked fetches a party and verifies the actor leads it. Caller
// holds the mutex.
func (e *Engine) leaderPartyLocked(actor gateway.UserID, party gateway.ChannelID) (*domain.Party, error) {
	p := e.reg.Get(party)
	if p == nil {
		return nil, errors.New(errors.CodeNotFound, "party not found")
	}
	if p.LeaderID != actor {
		return nil, errors.New(errors.CodeNotLeader, "actor is not the party leader")
	}
	return p, nil
}

// TransferLeadership hands the leader role to another current member.
func (e *Engine) TransferLeadership(ctx context.Context, actor, newLeader gateway.UserID, party gateway.ChannelID) error {
	ctx, span := e.span(ctx, "party.transfer_leadership",
		attribute.String("actor.id", string(actor)),
		attribute.String("target.id", string(newLeader)),
		attribute.String("party.id", string(party)))
	defer span.End()

	e.mu.Lock()
	p, err := e.leaderPartyLocked(actor, party)
	if err != nil {
		e.mu.Unlock()
		span.RecordError(err)
		return err
	}
	if newLeader == actor || !p.HasMember(newLeader) {
		e.mu.Unlock()
		err := errors.New(errors.CodeNoEligibleTarget, "new leader must be another current member")
		span.RecordError(err)
		return err
	}
	p.LeaderID = newLeader
	e.mu.Unlock()

	e.runEffects(ctx, []effect{
		func(ctx context.Context) {
			if _, err := e.gw.SendMessage(ctx, party, render.TransferNotice(newLeader)); err != nil {
				logEffectFailure("transfer notice", party, err)
			}
		},
		func(ctx context.Context) { e.refreshStatus(ctx, party) },
	})
	return nil
}

// SetJoinDirective updates the free-text join command shown to members.
func (e *Engine) SetJoinDirective(ctx context.Context, actor gateway.UserID, party gateway.ChannelID, text string) error {
	ctx, span := e.span(ctx, "party.set_join_directive",
		attribute.String("actor.id", string(actor)),
		attribute.String("party.id", string(party)))
	defer span.End()

	if err := domain.ValidateDirective(text, e.cfg.DirectiveMaxLen); err != nil {
		span.RecordError(err)
		return err
	}

	e.mu.Lock()
	p, err := e.leaderPartyLocked(actor, party)
	if err != nil {
		e.mu.Unlock()
		span.RecordError(err)
		return err
	}
	p.JoinDirective = text
	e.mu.Unlock()

	e.runEffects(ctx, []effect{
		func(ctx context.Context) { e.refreshStatus(ctx, party) },
	})
	return nil
}

// Resize changes the party's maximum capacity within the configured bounds.
func (e *Engine) Resize(ctx context.Context, actor gateway.UserID, party gateway.ChannelID, capacity int) error {
	ctx, span := e.span(ctx, "party.resize",
		attribute.String("actor.id", string(actor)),
		attribute.String("party.id", string(party)),
		attribute.Int("capacity", capacity))
	defer span.End()

	if err := domain.ValidateCapacity(capacity, e.cfg.MaxCapacity); err != nil {
		span.RecordError(err)
		return err
	}

	e.mu.Lock()
	p, err := e.leaderPartyLocked(actor, party)
	if err != nil {
		e.mu.Unlock()
		span.RecordError(err)
		return err
	}
	if capacity < len(p.Members) {
		members := len(p.Members)
		e.mu.Unlock()
		err := errors.WithMetadata(errors.CodeBelowCurrentMembership, "capacity below current membership",
			map[string]string{"Members": strconv.Itoa(members)})
		span.RecordError(err)
		return err
	}
	p.MaxCapacity = capacity
	e.mu.Unlock()

	e.runEffects(ctx, []effect{
		func(ctx context.Context) {
			if _, err := e.gw.SendMessage(ctx, party, render.ResizeNotice(capacity, actor)); err != nil {
				logEffectFailure("resize notice", party, err)
			}
		},
		func(ctx context.Context) { e.refreshStatus(ctx, party) },
		func(ctx context.Context) { e.refreshPrompt(ctx) },
	})
	return nil
}

// Lock permanently closes a party to new joins. The confirmation text must
// match the lock token; a mismatch leaves the party unlocked and returns
// false without error.
func (e *Engine) Lock(ctx context.Context, actor gateway.UserID, party gateway.ChannelID, confirmation string) (bool, error) {
	ctx, span := e.span(ctx, "party.lock",
		attribute.String("actor.id", string(actor)),
		attribute.String("party.id", string(party)))
	defer span.End()

	e.mu.Lock()
	p, err := e.leaderPartyLocked(actor, party)
	if err != nil {
		e.mu.Unlock()
		span.RecordError(err)
		return false, err
	}
	if !strings.EqualFold(strings.TrimSpace(confirmation), lockConfirmToken) {
		e.mu.Unlock()
		return false, nil
	}
	p.Locked = true
	e.mu.Unlock()

	e.runEffects(ctx, []effect{
		func(ctx context.Context) { e.refreshStatus(ctx, party) },
		func(ctx context.Context) { e.refreshPrompt(ctx) },
	})
	return true, nil
}

// Close force-destroys a party regardless of membership. Only the configured
// owner may close parties; every member is notified out of band.
func (e *Engine) Close(ctx context.Context, actor gateway.UserID, party gateway.ChannelID) error {
	ctx, span := e.span(ctx, "party.close",
		attribute.String("actor.id", string(actor)),
		attribute.String("party.id", string(party)))
	defer span.End()

	if actor != e.cfg.OwnerID {
		err := errors.New(errors.CodeUnauthorized, "only the owner can close parties")
		span.RecordError(err)
		return err
	}

	e.mu.Lock()
	p := e.reg.Get(party)
	if p == nil {
		e.mu.Unlock()
		err := errors.New(errors.CodeNotFound, "party not found")
		span.RecordError(err)
		return err
	}
	members := make([]gateway.UserID, 0, len(p.Members))
	for _, m := range p.Members {
		members = append(members, m.UserID)
	}
	e.reg.Remove(party)
	e.mu.Unlock()
	for _, user := range members {
		e.forget(user)
	}

	e.runEffects(ctx, []effect{
		func(ctx context.Context) {
			for _, user := range members {
				e.notify(ctx, user, render.CloseDirect(party))
			}
		},
		func(ctx context.Context) { e.teardown(ctx, party) },
		func(ctx context.Context) { e.refreshPrompt(ctx) },
	})
	return nil
}
