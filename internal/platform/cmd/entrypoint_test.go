package cmd

import (
	"context"
	"flag"
	"testing"
)

type testConfig struct {
	Channel string `env:"ENTRYPOINT_TEST_CHANNEL" envDefault:"prompt"`
	Owner   string `env:"ENTRYPOINT_TEST_OWNER" envDefault:"owner-1"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("ENTRYPOINT_TEST_CHANNEL", "env-channel")
	t.Setenv("ENTRYPOINT_TEST_OWNER", "env-owner")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg := testConfig{}
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfg.Channel, "channel", cfg.Channel, "channel")
	fs.StringVar(&cfg.Owner, "owner", cfg.Owner, "owner")

	if err := ParseArgs(fs, []string{"-channel", "flag-channel"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfg.Channel != "flag-channel" {
		t.Fatalf("expected flag value for channel, got %q", cfg.Channel)
	}
	if cfg.Owner != "env-owner" {
		t.Fatalf("expected env default owner, got %q", cfg.Owner)
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	var cfg *testConfig
	if err := ParseConfig(cfg); err == nil {
		t.Fatal("expected error for nil config target")
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected error for nil flag parser")
	}
}

func TestRunWithTelemetryRequiresService(t *testing.T) {
	err := RunWithTelemetry(context.Background(), "  ", func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error for blank service name")
	}
}

func TestRunWithTelemetryRequiresRun(t *testing.T) {
	err := RunWithTelemetry(context.Background(), ServiceBot, nil)
	if err == nil {
		t.Fatal("expected error for nil run function")
	}
}

func TestRunWithTelemetryExecutesRun(t *testing.T) {
	ran := false
	err := RunWithTelemetry(context.Background(), ServiceBot, func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("run with telemetry: %v", err)
	}
	if !ran {
		t.Fatal("expected run function to execute")
	}
}
