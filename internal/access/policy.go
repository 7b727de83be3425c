package access

import "modbot/internal/storage"

// DenyReason says why a sender was turned away.
type DenyReason int

const (
	DenyNone DenyReason = iota
	DenyBlacklisted
	DenySuspended
	DenyNotAdmin
	DenyNotOwner
)

func (r DenyReason) String() string {
	switch r {
	case DenyNone:
		return "none"
	case DenyBlacklisted:
		return "blacklisted"
	case DenySuspended:
		return "suspended"
	case DenyNotAdmin:
		return "not_admin"
	case DenyNotOwner:
		return "not_owner"
	default:
		return "unknown"
	}
}

// Notice is the reply sent to a denied sender.
func (r DenyReason) Notice() string {
	switch r {
	case DenyBlacklisted:
		return "You are blacklisted and cannot use the bot."
	case DenySuspended:
		return "You are blocked as an admin and cannot use commands."
	case DenyNotAdmin:
		return "You don't have permission to run this command."
	case DenyNotOwner:
		return "Only the bot owner can do that."
	default:
		return ""
	}
}

type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision            { return Decision{Allowed: true} }
func deny(r DenyReason) Decision { return Decision{Reason: r} }

// Gate decides whether a sender may run a command.
type Gate func(p *Policy, senderID int64) Decision

// Everyone admits any sender that passed the Filter.
func Everyone(*Policy, int64) Decision { return allow() }

// AdminOnly admits the owner and active admins.
func AdminOnly(p *Policy, id int64) Decision {
	if p.IsOwner(id) || p.IsActiveAdmin(id) {
		return allow()
	}
	return deny(DenyNotAdmin)
}

// OwnerOnly admits the owner.
func OwnerOnly(p *Policy, id int64) Decision {
	if p.IsOwner(id) {
		return allow()
	}
	return deny(DenyNotOwner)
}

// Policy answers permission questions over Lists and the configured owner.
// The owner id is fixed for the lifetime of the Policy.
type Policy struct {
	owner int64
	lists *Lists
}

func NewPolicy(ownerID int64, lists *Lists) *Policy {
	return &Policy{owner: ownerID, lists: lists}
}

func (p *Policy) OwnerID() int64 { return p.owner }

func (p *Policy) IsOwner(id int64) bool { return id == p.owner }

// IsAdmin reports raw AdminSet membership, suspended or not.
func (p *Policy) IsAdmin(id int64) bool {
	return p.lists.Contains(storage.ListAdmins, id)
}

func (p *Policy) IsActiveAdmin(id int64) bool {
	return p.IsAdmin(id) && !p.lists.Contains(storage.ListBlacklistedAdmins, id)
}

func (p *Policy) IsBlacklisted(id int64) bool {
	return p.lists.Contains(storage.ListBlacklist, id)
}

// Filter runs on every incoming message before any command is routed.
// Blacklisted senders are rejected first, then suspended admins.
func (p *Policy) Filter(senderID int64) Decision {
	if p.IsBlacklisted(senderID) {
		return deny(DenyBlacklisted)
	}
	if p.IsAdmin(senderID) && !p.IsActiveAdmin(senderID) {
		return deny(DenySuspended)
	}
	return allow()
}

// Check evaluates a gate; a nil gate admits everyone.
func (p *Policy) Check(g Gate, senderID int64) Decision {
	if g == nil {
		return allow()
	}
	return g(p, senderID)
}
