// Package service applies party lifecycle operations to the registry.
//
// Every public operation follows the same discipline: validate, mutate the
// registry under the engine mutex, then run side effects (channel I/O,
// message rendering, direct notices) after the state transition is
// committed. Effect failures are logged and never roll back registry state.
package service

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/partyfinder/internal/gateway"
	"github.com/louisbranch/partyfinder/internal/party/registry"
	"github.com/louisbranch/partyfinder/internal/render"
)

// Config carries the static settings the engine needs.
type Config struct {
	// PromptChannel hosts the global create/join prompt message.
	PromptChannel gateway.ChannelID
	// OwnerID is the only identity allowed to force-close parties.
	OwnerID gateway.UserID
	// DefaultCapacity is the size of newly created parties.
	DefaultCapacity int
	// MaxCapacity bounds leader-selected party sizes.
	MaxCapacity int
	// DirectiveMaxLen bounds the join directive text.
	DirectiveMaxLen int
	// JoinCooldown throttles repeated join attempts per user.
	JoinCooldown time.Duration
}

// Purger clears presence tracking for users removed from parties.
type Purger interface {
	Forget(user gateway.UserID)
}

// Engine owns the registry and serializes all mutations behind one mutex.
type Engine struct {
	mu       sync.Mutex
	cfg      Config
	reg      *registry.Registry
	gw       gateway.Gateway
	clock    func() time.Time
	tracer   trace.Tracer
	purger   Purger
	promptID gateway.MessageID
	lastJoin map[gateway.UserID]time.Time
}

// New creates an engine over an empty registry.
func New(cfg Config, gw gateway.Gateway) *Engine {
	return &Engine{
		cfg:      cfg,
		reg:      registry.New(),
		gw:       gw,
		clock:    time.Now,
		tracer:   otel.Tracer("partyfinder/party"),
		lastJoin: map[gateway.UserID]time.Time{},
	}
}

// SetClock overrides the engine clock. Tests only.
func (e *Engine) SetClock(clock func() time.Time) {
	e.clock = clock
}

// SetPurger wires the presence tracker so removed members are also purged
// from presence state.
func (e *Engine) SetPurger(p Purger) {
	e.purger = p
}

// MemberParty reports the party channel a user currently belongs to.
func (e *Engine) MemberParty(user gateway.UserID) (gateway.ChannelID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.reg.PartyOf(user)
	if p == nil {
		return "", false
	}
	return p.ID, true
}

// ActiveParties reports the number of live parties.
func (e *Engine) ActiveParties() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reg.Len()
}

// ValidCapacities lists the party sizes a leader may select.
func (e *Engine) ValidCapacities() []int {
	sizes := make([]int, 0, e.cfg.MaxCapacity-1)
	for size := 2; size <= e.cfg.MaxCapacity; size++ {
		sizes = append(sizes, size)
	}
	return sizes
}

// effect is a deferred side effect executed after the registry commit.
type effect func(ctx context.Context)

// runEffects executes post-commit side effects in order, logging failures.
func (e *Engine) runEffects(ctx context.Context, effects []effect) {
	for _, fx := range effects {
		fx(ctx)
	}
}

func logEffectFailure(what string, channel gateway.ChannelID, err error) {
	log.Printf("%s failed channel=%s err=%v", what, channel, err)
}

func (e *Engine) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (e *Engine) forget(user gateway.UserID) {
	if e.purger != nil {
		e.purger.Forget(user)
	}
}

// PublishPrompt creates or refreshes the global create/join prompt.
func (e *Engine) PublishPrompt(ctx context.Context) {
	e.refreshPrompt(ctx)
}

// refreshPrompt re-renders the global prompt message with the current party
// count, creating it on first use and editing it afterwards.
func (e *Engine) refreshPrompt(ctx context.Context) {
	if e.cfg.PromptChannel == "" {
		return
	}
	e.mu.Lock()
	count := e.reg.Len()
	messageID := e.promptID
	e.mu.Unlock()

	content := render.Prompt(count)
	if messageID == "" {
		id, err := e.gw.SendMessage(ctx, e.cfg.PromptChannel, content)
		if err != nil {
			log.Printf("prompt send failed channel=%s err=%v", e.cfg.PromptChannel, err)
			return
		}
		e.mu.Lock()
		e.promptID = id
		e.mu.Unlock()
		return
	}
	if err := e.gw.EditMessage(ctx, e.cfg.PromptChannel, messageID, content); err != nil {
		log.Printf("prompt edit failed channel=%s message=%s err=%v", e.cfg.PromptChannel, messageID, err)
	}
}

// refreshStatus re-renders a party's pinned status message, creating and
// pinning it on first use and editing it afterwards.
func (e *Engine) refreshStatus(ctx context.Context, party gateway.ChannelID) {
	e.mu.Lock()
	p := e.reg.Get(party)
	if p == nil {
		e.mu.Unlock()
		return
	}
	content := render.Status(p, e.reg.Position(party))
	messageID := p.StatusMessageID
	e.mu.Unlock()

	if messageID == "" {
		id, err := e.gw.SendMessage(ctx, party, content)
		if err != nil {
			log.Printf("status send failed party=%s err=%v", party, err)
			return
		}
		if err := e.gw.PinMessage(ctx, party, id); err != nil {
			log.Printf("status pin failed party=%s message=%s err=%v", party, id, err)
		}
		e.mu.Lock()
		if p := e.reg.Get(party); p != nil {
			p.StatusMessageID = id
		}
		e.mu.Unlock()
		return
	}
	if err := e.gw.EditMessage(ctx, party, messageID, content); err != nil {
		log.Printf("status edit failed party=%s message=%s err=%v", party, messageID, err)
	}
}

// notify delivers a best-effort direct notice; delivery failure is logged
// and swallowed.
func (e *Engine) notify(ctx context.Context, user gateway.UserID, content string) {
	if err := e.gw.NotifyUser(ctx, user, content); err != nil {
		log.Printf("direct notice dropped user=%s err=%v", user, err)
	}
}

// revokeAccess removes a user's overwrites from a party channel.
func (e *Engine) revokeAccess(ctx context.Context, channel gateway.ChannelID, user gateway.UserID) {
	if err := e.gw.SetUserAccess(ctx, channel, user, false, false); err != nil {
		log.Printf("revoke access failed channel=%s user=%s err=%v", channel, user, err)
	}
}

// teardown deletes a destroyed party's backing channel.
func (e *Engine) teardown(ctx context.Context, channel gateway.ChannelID) {
	if err := e.gw.DeleteChannel(ctx, channel); err != nil {
		log.Printf("channel teardown failed channel=%s err=%v", channel, err)
	}
}
