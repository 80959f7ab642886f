package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeNotLeader, "actor is not the leader")
	if !stderrors.Is(err, New(CodeNotLeader, "different message")) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(err, New(CodeNotAMember, "")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := Wrap(CodeExternalIO, "edit status message", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be found in chain")
	}
	if err.Error() != "edit status message" {
		t.Fatalf("expected internal message, got %q", err.Error())
	}
}

func TestCodeOf(t *testing.T) {
	err := New(CodePartyLocked, "party is locked")
	if CodeOf(err) != CodePartyLocked {
		t.Fatalf("expected PARTY_LOCKED, got %s", CodeOf(err))
	}
	wrapped := fmt.Errorf("join: %w", err)
	if CodeOf(wrapped) != CodePartyLocked {
		t.Fatalf("expected code through wrap, got %s", CodeOf(wrapped))
	}
	if CodeOf(stderrors.New("plain")) != CodeUnknown {
		t.Fatal("expected UNKNOWN for plain errors")
	}
	if CodeOf(nil) != CodeUnknown {
		t.Fatal("expected UNKNOWN for nil")
	}
}

func TestUserMessageRendersMetadata(t *testing.T) {
	err := WithMetadata(CodeJoinCooldown, "join throttled", map[string]string{
		"Seconds": "3",
	})
	got := err.UserMessage("en-US")
	want := "Please wait 3 seconds before using this again."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestKindMapping(t *testing.T) {
	cases := []struct {
		code Code
		kind Kind
	}{
		{CodeDisplayNameInvalid, KindValidation},
		{CodeDirectiveTooLong, KindValidation},
		{CodeCapacityOutOfRange, KindValidation},
		{CodeNotLeader, KindPermission},
		{CodeUnauthorized, KindPermission},
		{CodeAlreadyInParty, KindConflict},
		{CodePartyLocked, KindConflict},
		{CodeNotAMember, KindConflict},
		{CodeCannotKickSelf, KindConflict},
		{CodeSoleMemberCannotKick, KindConflict},
		{CodeNoEligibleTarget, KindConflict},
		{CodeBelowCurrentMembership, KindConflict},
		{CodeJoinCooldown, KindConflict},
		{CodeNotFound, KindNotFound},
		{CodeExternalIO, KindExternal},
		{CodeUnknown, KindUnknown},
	}
	for _, tc := range cases {
		if got := tc.code.Kind(); got != tc.kind {
			t.Fatalf("code %s: expected kind %v, got %v", tc.code, tc.kind, got)
		}
	}
}
