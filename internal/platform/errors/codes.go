// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Validation errors
	CodeDisplayNameInvalid Code = "DISPLAY_NAME_INVALID"
	CodeDirectiveTooLong   Code = "DIRECTIVE_TOO_LONG"
	CodeCapacityOutOfRange Code = "CAPACITY_OUT_OF_RANGE"

	// Permission errors
	CodeNotLeader    Code = "NOT_LEADER"
	CodeUnauthorized Code = "UNAUTHORIZED"

	// State conflict errors
	CodeAlreadyInParty         Code = "ALREADY_IN_PARTY"
	CodePartyLocked            Code = "PARTY_LOCKED"
	CodeNotAMember             Code = "NOT_A_MEMBER"
	CodeCannotKickSelf         Code = "CANNOT_KICK_SELF"
	CodeSoleMemberCannotKick   Code = "SOLE_MEMBER_CANNOT_KICK"
	CodeNoEligibleTarget       Code = "NO_ELIGIBLE_TARGET"
	CodeBelowCurrentMembership Code = "BELOW_CURRENT_MEMBERSHIP"
	CodeJoinCooldown           Code = "JOIN_COOLDOWN"

	// Lookup errors
	CodeNotFound Code = "NOT_FOUND"

	// External I/O errors
	CodeExternalIO Code = "EXTERNAL_IO"
)

// Kind groups error codes by how callers should handle them.
type Kind int

const (
	// KindUnknown covers unclassified failures.
	KindUnknown Kind = iota
	// KindValidation covers bad input shape or length, rejected before any mutation.
	KindValidation
	// KindPermission covers actor authorization failures.
	KindPermission
	// KindConflict covers operations the current registry state disallows.
	KindConflict
	// KindNotFound covers references to parties or channels that no longer exist.
	KindNotFound
	// KindExternal covers rendering and notification failures after commit.
	KindExternal
)

// Kind maps domain codes to handling categories.
func (c Code) Kind() Kind {
	switch c {
	case CodeDisplayNameInvalid,
		CodeDirectiveTooLong,
		CodeCapacityOutOfRange:
		return KindValidation

	case CodeNotLeader,
		CodeUnauthorized:
		return KindPermission

	case CodeAlreadyInParty,
		CodePartyLocked,
		CodeNotAMember,
		CodeCannotKickSelf,
		CodeSoleMemberCannotKick,
		CodeNoEligibleTarget,
		CodeBelowCurrentMembership,
		CodeJoinCooldown:
		return KindConflict

	case CodeNotFound:
		return KindNotFound

	case CodeExternalIO:
		return KindExternal

	default:
		return KindUnknown
	}
}
