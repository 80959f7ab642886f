// Package registry is the authoritative in-memory table of active parties.
//
// It owns the party map, the creation-order list used for open-party lookup,
// and the membership index mapping each user to at most one party. The
// registry does no locking of its own: the lifecycle engine serializes all
// mutations behind a single writer.
package registry

import (
	"fmt"

	"github.com/louisbranch/partyfinder/internal/gateway"
	"github.com/louisbranch/partyfinder/internal/party/domain"
)

// Registry holds all active parties and the user membership index.
type Registry struct {
	parties map[gateway.ChannelID]*domain.Party
	order   []gateway.ChannelID
	members map[gateway.UserID]gateway.ChannelID
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		parties: map[gateway.ChannelID]*domain.Party{},
		members: map[gateway.UserID]gateway.ChannelID{},
	}
}

// Add inserts a newly provisioned party and indexes its members.
func (r *Registry) Add(p *domain.Party) {
	r.parties[p.ID] = p
	r.order = append(r.order, p.ID)
	for _, m := range p.Members {
		r.members[m.UserID] = p.ID
	}
}

// Get returns the party for an id, or nil.
func (r *Registry) Get(id gateway.ChannelID) *domain.Party {
	return r.parties[id]
}

// Len reports the number of active parties.
func (r *Registry) Len() int {
	return len(r.parties)
}

// Parties returns the active parties in creation order.
func (r *Registry) Parties() []*domain.Party {
	out := make([]*domain.Party, 0, len(r.parties))
	for _, id := range r.order {
		if p, ok := r.parties[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Position returns the 1-based creation-order position of a party, used for
// display numbering. Returns 0 for unknown parties.
func (r *Registry) Position(id gateway.ChannelID) int {
	pos := 0
	for _, oid := range r.order {
		if _, ok := r.parties[oid]; !ok {
			continue
		}
		pos++
		if oid == id {
			return pos
		}
	}
	return 0
}

// FindOpen returns the first party in creation order that is unlocked and
// under capacity, or nil when every party is full or locked.
func (r *Registry) FindOpen() *domain.Party {
	for _, id := range r.order {
		p, ok := r.parties[id]
		if !ok {
			continue
		}
		if p.Open() {
			return p
		}
	}
	return nil
}

// PartyOf returns the party a user belongs to, or nil.
func (r *Registry) PartyOf(user gateway.UserID) *domain.Party {
	id, ok := r.members[user]
	if !ok {
		return nil
	}
	return r.parties[id]
}

// AddMember appends a user to a party and indexes them.
func (r *Registry) AddMember(p *domain.Party, m domain.Member) {
	p.Members = append(p.Members, m)
	r.members[m.UserID] = p.ID
}

// RemoveMember drops a user from a party and the index, preserving the
// insertion order of the remaining members. It returns the removed member
// and whether the user was present.
func (r *Registry) RemoveMember(p *domain.Party, user gateway.UserID) (domain.Member, bool) {
	i := p.MemberIndex(user)
	if i < 0 {
		return domain.Member{}, false
	}
	removed := p.Members[i]
	p.Members = append(p.Members[:i], p.Members[i+1:]...)
	delete(r.members, user)
	return removed, true
}

// Remove purges a party and all index entries referencing it.
func (r *Registry) Remove(id gateway.ChannelID) {
	p, ok := r.parties[id]
	if !ok {
		return
	}
	for _, m := range p.Members {
		if r.members[m.UserID] == id {
			delete(r.members, m.UserID)
		}
	}
	delete(r.parties, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Check verifies the membership-index invariant: a user appears in the index
// iff they appear in exactly one party's member list. Tests call it after
// every operation.
func (r *Registry) Check() error {
	seen := map[gateway.UserID]gateway.ChannelID{}
	for id, p := range r.parties {
		for _, m := range p.Members {
			if prior, dup := seen[m.UserID]; dup {
				return fmt.Errorf("user %s in parties %s and %s", m.UserID, prior, id)
			}
			seen[m.UserID] = id
			indexed, ok := r.members[m.UserID]
			if !ok {
				return fmt.Errorf("user %s in party %s but missing from index", m.UserID, id)
			}
			if indexed != id {
				return fmt.Errorf("user %s indexed to %s but member of %s", m.UserID, indexed, id)
			}
		}
	}
	for user, id := range r.members {
		p, ok := r.parties[id]
		if !ok {
			return fmt.Errorf("user %s indexed to missing party %s", user, id)
		}
		if !p.HasMember(user) {
			return fmt.Errorf("user %s indexed to %s but not a member", user, id)
		}
	}
	return nil
}
