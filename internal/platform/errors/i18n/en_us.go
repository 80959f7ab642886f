package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown                = "UNKNOWN"
	CodeDisplayNameInvalid     = "DISPLAY_NAME_INVALID"
	CodeDirectiveTooLong       = "DIRECTIVE_TOO_LONG"
	CodeCapacityOutOfRange     = "CAPACITY_OUT_OF_RANGE"
	CodeNotLeader              = "NOT_LEADER"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeAlreadyInParty         = "ALREADY_IN_PARTY"
	CodePartyLocked            = "PARTY_LOCKED"
	CodeNotAMember             = "NOT_A_MEMBER"
	CodeCannotKickSelf         = "CANNOT_KICK_SELF"
	CodeSoleMemberCannotKick   = "SOLE_MEMBER_CANNOT_KICK"
	CodeNoEligibleTarget       = "NO_ELIGIBLE_TARGET"
	CodeBelowCurrentMembership = "BELOW_CURRENT_MEMBERSHIP"
	CodeJoinCooldown           = "JOIN_COOLDOWN"
	CodeNotFound               = "NOT_FOUND"
	CodeExternalIO             = "EXTERNAL_IO"
)

var enUS = map[Code]string{
	CodeUnknown:                "Something went wrong while processing your request.",
	CodeDisplayNameInvalid:     "Names must be between {{.Min}} and {{.Max}} characters.",
	CodeDirectiveTooLong:       "Join commands are limited to {{.Max}} characters.",
	CodeCapacityOutOfRange:     "Party size must be between {{.Min}} and {{.Max}} players.",
	CodeNotLeader:              "Only the party leader can do that.",
	CodeUnauthorized:           "Only the bot owner can use this command.",
	CodeAlreadyInParty:         "You're already in a party! Please leave it before joining another.",
	CodePartyLocked:            "This party is locked and not accepting new members.",
	CodeNotAMember:             "You're not in this party!",
	CodeCannotKickSelf:         "You can't kick yourself! Use the leave button instead.",
	CodeSoleMemberCannotKick:   "You can't kick yourself! Use the leave button instead.",
	CodeNoEligibleTarget:       "There are no other members to transfer leadership to!",
	CodeBelowCurrentMembership: "You currently have {{.Members}} members. You can't reduce the size below your current member count.",
	CodeJoinCooldown:           "Please wait {{.Seconds}} seconds before using this again.",
	CodeNotFound:               "That party no longer exists.",
	CodeExternalIO:             "Something went wrong while updating the channel.",
}

func init() {
	RegisterCatalog(BaseLocale, NewCatalog(BaseLocale, enUS))
}
