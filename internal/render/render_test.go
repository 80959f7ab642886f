package render

import (
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/partyfinder/internal/party/domain"
)

func TestAdvisoryBounds(t *testing.T) {
	if text, ok := Advisory(1); !ok || text != "1 Member = 15-20" {
		t.Fatalf("expected the single-member advisory, got %q ok=%v", text, ok)
	}
	if text, ok := Advisory(6); !ok || text != "6 Member = 55-60" {
		t.Fatalf("expected the six-member advisory, got %q ok=%v", text, ok)
	}
	if _, ok := Advisory(0); ok {
		t.Fatal("expected no advisory for zero members")
	}
	if _, ok := Advisory(7); ok {
		t.Fatal("expected no advisory above six members")
	}
}

func TestStatus(t *testing.T) {
	p := &domain.Party{
		ID: "channel-1",
		Members: []domain.Member{
			{UserID: "alice", DisplayName: "Alice"},
			{UserID: "bob", DisplayName: "Bob"},
		},
		LeaderID:      "alice",
		MaxCapacity:   6,
		JoinDirective: "!join worms",
	}
	got := Status(p, 2)

	for _, want := range []string{
		"Party #2",
		"1. <@alice> (Alice) (leader)",
		"2. <@bob> (Bob)",
		"Join command\n!join worms",
		"2/6 players joined",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected status to contain %q, got:\n%s", want, got)
		}
	}
	if strings.Contains(got, "LOCKED") {
		t.Fatalf("expected no lock marker, got:\n%s", got)
	}
}

func TestStatusFullAndLocked(t *testing.T) {
	p := &domain.Party{
		ID:          "channel-1",
		Members:     []domain.Member{{UserID: "alice", DisplayName: "Alice"}},
		LeaderID:    "alice",
		MaxCapacity: 1,
		Locked:      true,
	}
	got := Status(p, 1)
	if !strings.Contains(got, "Party #1 (LOCKED)") {
		t.Fatalf("expected the lock marker in the header, got:\n%s", got)
	}
	if !strings.Contains(got, "Party complete! | PARTY LOCKED") {
		t.Fatalf("expected the full and locked footer, got:\n%s", got)
	}
}

func TestPrompt(t *testing.T) {
	got := Prompt(3)
	if !strings.Contains(got, "Current active parties: 3") {
		t.Fatalf("expected the party count, got %q", got)
	}
}

func TestJoinNoticeIncludesAdvisory(t *testing.T) {
	got := JoinNotice("alice", 2)
	if !strings.Contains(got, "<@alice> has joined the party!") {
		t.Fatalf("unexpected join notice: %q", got)
	}
	if !strings.Contains(got, "Trigger count: 2 Member = 25-30") {
		t.Fatalf("expected the advisory line, got %q", got)
	}

	// Counts outside the advisory table render without the extra line.
	if got := JoinNotice("alice", 7); strings.Contains(got, "Trigger count") {
		t.Fatalf("expected no advisory for 7 members, got %q", got)
	}
}

func TestOfflineCountdown(t *testing.T) {
	got := OfflineCountdown("alice", 7*time.Minute+5*time.Second)
	if !strings.Contains(got, "removed in 07:05") {
		t.Fatalf("expected a 07:05 countdown, got %q", got)
	}

	// Overdue countdowns clamp at zero rather than going negative.
	got = OfflineCountdown("alice", -30*time.Second)
	if !strings.Contains(got, "removed in 00:00") {
		t.Fatalf("expected a clamped countdown, got %q", got)
	}
}

func TestChannelName(t *testing.T) {
	if got := ChannelName(4); got != "party-4" {
		t.Fatalf("expected party-4, got %q", got)
	}
}
