package registry

import (
	"testing"

	"github.com/louisbranch/partyfinder/internal/gateway"
	"github.com/louisbranch/partyfinder/internal/party/domain"
)

func newParty(id string, capacity int, users ...string) *domain.Party {
	p := &domain.Party{ID: gateway.ChannelID(id), MaxCapacity: capacity}
	for _, u := range users {
		p.Members = append(p.Members, domain.Member{UserID: gateway.UserID(u), DisplayName: u})
	}
	if len(p.Members) > 0 {
		p.LeaderID = p.Members[0].UserID
	}
	return p
}

func checkInvariant(t *testing.T, r *Registry) {
	t.Helper()
	if err := r.Check(); err != nil {
		t.Fatalf("membership index invariant violated: %v", err)
	}
}

func TestAddAndLookup(t *testing.T) {
	r := New()
	p := newParty("ch-1", 6, "alice", "bob")
	r.Add(p)
	checkInvariant(t, r)

	if r.Len() != 1 {
		t.Fatalf("expected 1 party, got %d", r.Len())
	}
	if r.Get("ch-1") != p {
		t.Fatal("expected to get party back by id")
	}
	if r.PartyOf("alice") != p || r.PartyOf("bob") != p {
		t.Fatal("expected members indexed to party")
	}
	if r.PartyOf("carol") != nil {
		t.Fatal("expected nil for unindexed user")
	}
}

func TestFindOpenSkipsFullAndLocked(t *testing.T) {
	r := New()
	full := newParty("ch-1", 2, "a", "b")
	locked := newParty("ch-2", 6, "c")
	locked.Locked = true
	open := newParty("ch-3", 6, "d")
	r.Add(full)
	r.Add(locked)
	r.Add(open)
	checkInvariant(t, r)

	got := r.FindOpen()
	if got == nil || got.ID != "ch-3" {
		t.Fatalf("expected ch-3 open, got %+v", got)
	}
}

func TestFindOpenPrefersCreationOrder(t *testing.T) {
	r := New()
	first := newParty("ch-1", 6, "a")
	second := newParty("ch-2", 6, "b")
	r.Add(first)
	r.Add(second)

	got := r.FindOpen()
	if got == nil || got.ID != "ch-1" {
		t.Fatalf("expected first-created party, got %+v", got)
	}
}

func TestRemoveMemberKeepsOrder(t *testing.T) {
	r := New()
	p := newParty("ch-1", 6, "a", "b", "c")
	r.Add(p)

	removed, ok := r.RemoveMember(p, "b")
	if !ok {
		t.Fatal("expected member removed")
	}
	if removed.UserID != "b" {
		t.Fatalf("expected removed b, got %s", removed.UserID)
	}
	if len(p.Members) != 2 || p.Members[0].UserID != "a" || p.Members[1].UserID != "c" {
		t.Fatalf("expected order a,c preserved, got %+v", p.Members)
	}
	if r.PartyOf("b") != nil {
		t.Fatal("expected removed member unindexed")
	}
	checkInvariant(t, r)

	if _, ok := r.RemoveMember(p, "zz"); ok {
		t.Fatal("expected removal of non-member to report false")
	}
}

func TestRemovePurgesEverything(t *testing.T) {
	r := New()
	p := newParty("ch-1", 6, "a", "b")
	r.Add(p)
	r.Add(newParty("ch-2", 6, "c"))

	r.Remove("ch-1")
	checkInvariant(t, r)

	if r.Get("ch-1") != nil {
		t.Fatal("expected party removed")
	}
	if r.PartyOf("a") != nil || r.PartyOf("b") != nil {
		t.Fatal("expected index entries purged")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 remaining party, got %d", r.Len())
	}
	if r.Position("ch-2") != 1 {
		t.Fatalf("expected ch-2 to renumber to 1, got %d", r.Position("ch-2"))
	}
}

func TestPositionUnknownParty(t *testing.T) {
	r := New()
	if r.Position("missing") != 0 {
		t.Fatal("expected position 0 for unknown party")
	}
}

func TestCheckDetectsDuplicateMembership(t *testing.T) {
	r := New()
	p1 := newParty("ch-1", 6, "a")
	p2 := newParty("ch-2", 6)
	r.Add(p1)
	r.Add(p2)

	// Corrupt the model directly: same user in two parties.
	p2.Members = append(p2.Members, domain.Member{UserID: "a"})
	if err := r.Check(); err == nil {
		t.Fatal("expected invariant check to fail")
	}
}
