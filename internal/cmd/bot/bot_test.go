package bot

import (
	"context"
	"flag"
	"testing"
	"time"

	"github.com/louisbranch/partyfinder/internal/gateway"
	"github.com/louisbranch/partyfinder/internal/gateway/local"
)

func parse(t *testing.T, args ...string) Config {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return cfg
}

func TestParseConfigDefaults(t *testing.T) {
	cfg := parse(t)
	if cfg.DefaultCapacity != 6 || cfg.MaxCapacity != 6 {
		t.Fatalf("expected capacity defaults 6/6, got %d/%d", cfg.DefaultCapacity, cfg.MaxCapacity)
	}
	if cfg.OfflineThreshold != 10*time.Minute {
		t.Fatalf("expected 10m offline threshold, got %v", cfg.OfflineThreshold)
	}
	if cfg.ReapInterval != time.Minute {
		t.Fatalf("expected 1m reap interval, got %v", cfg.ReapInterval)
	}
	if cfg.JoinCooldown != 5*time.Second {
		t.Fatalf("expected 5s join cooldown, got %v", cfg.JoinCooldown)
	}
	if cfg.DirectiveMaxLen != 100 {
		t.Fatalf("expected directive limit 100, got %d", cfg.DirectiveMaxLen)
	}
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("PARTYFINDER_PROMPT_CHANNEL_ID", "prompt-chan")
	t.Setenv("PARTYFINDER_OWNER_ID", "owner-1")
	t.Setenv("PARTYFINDER_DEFAULT_CAPACITY", "4")
	t.Setenv("PARTYFINDER_OFFLINE_THRESHOLD", "5m")

	cfg := parse(t)
	if cfg.PromptChannelID != "prompt-chan" {
		t.Fatalf("expected prompt channel from env, got %q", cfg.PromptChannelID)
	}
	if cfg.OwnerID != "owner-1" {
		t.Fatalf("expected owner from env, got %q", cfg.OwnerID)
	}
	if cfg.DefaultCapacity != 4 {
		t.Fatalf("expected default capacity 4, got %d", cfg.DefaultCapacity)
	}
	if cfg.OfflineThreshold != 5*time.Minute {
		t.Fatalf("expected 5m offline threshold, got %v", cfg.OfflineThreshold)
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("PARTYFINDER_OWNER_ID", "env-owner")

	cfg := parse(t, "-owner-id", "flag-owner", "-default-capacity", "3", "-reap-interval", "30s")
	if cfg.OwnerID != "flag-owner" {
		t.Fatalf("expected the flag to win, got %q", cfg.OwnerID)
	}
	if cfg.DefaultCapacity != 3 {
		t.Fatalf("expected default capacity 3, got %d", cfg.DefaultCapacity)
	}
	if cfg.ReapInterval != 30*time.Second {
		t.Fatalf("expected 30s reap interval, got %v", cfg.ReapInterval)
	}
}

func TestValidate(t *testing.T) {
	base := parse(t)
	if err := base.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}

	bad := base
	bad.DefaultCapacity = 7
	if err := bad.Validate(); err == nil {
		t.Fatal("expected rejection of a default capacity above the maximum")
	}

	bad = base
	bad.OfflineThreshold = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected rejection of a zero offline threshold")
	}

	bad = base
	bad.ReapInterval = -time.Second
	if err := bad.Validate(); err == nil {
		t.Fatal("expected rejection of a negative reap interval")
	}
}

func TestBuildWiresPresencePurge(t *testing.T) {
	cfg := parse(t)
	cfg.PromptChannelID = "prompt"

	gw := local.New()
	gw.SeedChannel("prompt", "party-prompt")
	engine, tracker := Build(cfg, gw)
	ctx := context.Background()

	res, err := engine.Join(ctx, "alice", "Alice")
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	tracker.HandlePresenceUpdate(ctx, "alice", gateway.StatusOnline, gateway.StatusOffline)
	if !tracker.Tracked("alice") {
		t.Fatal("expected alice tracked after going offline")
	}

	// Leaving a party clears the offline record through the purger wiring.
	if _, err := engine.Leave(ctx, "alice", res.Party); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if tracker.Tracked("alice") {
		t.Fatal("expected the offline record purged on leave")
	}
}
