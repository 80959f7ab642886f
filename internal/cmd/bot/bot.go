// Package bot parses bot command flags and composes the party finder core.
package bot

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/louisbranch/partyfinder/internal/checks"
	"github.com/louisbranch/partyfinder/internal/gateway"
	"github.com/louisbranch/partyfinder/internal/gateway/local"
	"github.com/louisbranch/partyfinder/internal/party/service"
	entrypoint "github.com/louisbranch/partyfinder/internal/platform/cmd"
	"github.com/louisbranch/partyfinder/internal/presence"
)

// Config holds bot command configuration.
type Config struct {
	CategoryID       string        `env:"PARTYFINDER_CATEGORY_ID"`
	PromptChannelID  string        `env:"PARTYFINDER_PROMPT_CHANNEL_ID"`
	ChecksChannelID  string        `env:"PARTYFINDER_CHECKS_CHANNEL_ID"`
	OwnerID          string        `env:"PARTYFINDER_OWNER_ID"`
	DefaultCapacity  int           `env:"PARTYFINDER_DEFAULT_CAPACITY"  envDefault:"6"`
	MaxCapacity      int           `env:"PARTYFINDER_MAX_CAPACITY"      envDefault:"6"`
	DirectiveMaxLen  int           `env:"PARTYFINDER_DIRECTIVE_MAX_LEN" envDefault:"100"`
	OfflineThreshold time.Duration `env:"PARTYFINDER_OFFLINE_THRESHOLD" envDefault:"10m"`
	ReapInterval     time.Duration `env:"PARTYFINDER_REAP_INTERVAL"     envDefault:"60s"`
	JoinCooldown     time.Duration `env:"PARTYFINDER_JOIN_COOLDOWN"     envDefault:"5s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.CategoryID, "category-id", cfg.CategoryID, "parent category for party channels")
	fs.StringVar(&cfg.PromptChannelID, "prompt-channel-id", cfg.PromptChannelID, "channel hosting the global join prompt")
	fs.StringVar(&cfg.OwnerID, "owner-id", cfg.OwnerID, "user id allowed to force-close parties")
	fs.IntVar(&cfg.DefaultCapacity, "default-capacity", cfg.DefaultCapacity, "size of newly created parties")
	fs.IntVar(&cfg.MaxCapacity, "max-capacity", cfg.MaxCapacity, "largest selectable party size")
	fs.DurationVar(&cfg.OfflineThreshold, "offline-threshold", cfg.OfflineThreshold, "offline duration before idle eviction")
	fs.DurationVar(&cfg.ReapInterval, "reap-interval", cfg.ReapInterval, "idle reaper sweep period")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot operate under.
func (c Config) Validate() error {
	if c.DefaultCapacity < 2 || c.DefaultCapacity > c.MaxCapacity {
		return fmt.Errorf("default capacity %d must be within [2, %d]", c.DefaultCapacity, c.MaxCapacity)
	}
	if c.OfflineThreshold <= 0 {
		return fmt.Errorf("offline threshold must be positive, got %v", c.OfflineThreshold)
	}
	if c.ReapInterval <= 0 {
		return fmt.Errorf("reap interval must be positive, got %v", c.ReapInterval)
	}
	return nil
}

// Build wires the engine and presence tracker over a gateway.
func Build(cfg Config, gw gateway.Gateway) (*service.Engine, *presence.Tracker) {
	engine := service.New(service.Config{
		PromptChannel:   gateway.ChannelID(cfg.PromptChannelID),
		OwnerID:         gateway.UserID(cfg.OwnerID),
		DefaultCapacity: cfg.DefaultCapacity,
		MaxCapacity:     cfg.MaxCapacity,
		DirectiveMaxLen: cfg.DirectiveMaxLen,
		JoinCooldown:    cfg.JoinCooldown,
	}, gw)
	tracker := presence.NewTracker(engine, gw, cfg.OfflineThreshold)
	engine.SetPurger(tracker)
	return engine, tracker
}

// Run builds the bot core over the in-process gateway and drives the idle
// reaper until shutdown. The platform adapter slots in where the local
// gateway is constructed.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBot, func(ctx context.Context) error {
		gw := local.New()
		if cfg.PromptChannelID != "" {
			gw.SeedChannel(gateway.ChannelID(cfg.PromptChannelID), "party-prompt")
		}
		engine, tracker := Build(cfg, gw)
		engine.PublishPrompt(ctx)
		log.Printf("bot started category=%s prompt_channel=%s reap_interval=%v", cfg.CategoryID, cfg.PromptChannelID, cfg.ReapInterval)

		if cfg.ChecksChannelID != "" {
			feed := gateway.ChannelID(cfg.ChecksChannelID)
			gw.SeedChannel(feed, "confirmed-checks")
			stats, err := checks.Read(ctx, gw, feed)
			if err != nil {
				log.Printf("checks feed unavailable channel=%s err=%v", feed, err)
			} else {
				log.Printf("checks feed confirmed=%d", stats.Confirmed)
			}
		}

		evict := func(ctx context.Context, user gateway.UserID, threshold time.Duration) error {
			_, err := engine.EvictIdle(ctx, user, threshold)
			return err
		}
		if err := tracker.Run(ctx, evict, cfg.ReapInterval); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("idle reaper: %w", err)
		}
		return nil
	})
}
