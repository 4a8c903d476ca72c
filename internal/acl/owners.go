package acl

import (
	"sync"

	"github.com/diamondburned/arikawa/v3/discord"
)

// Owners is the set of bot owners. It is refreshed on every gateway Ready.
type Owners struct {
	mu  sync.RWMutex
	ids map[discord.UserID]struct{}
}

// NewOwners creates an owner set seeded with ids.
func NewOwners(ids ...discord.UserID) *Owners {
	o := &Owners{}
	o.Set(ids...)

	return o
}

// Set replaces the owner set.
func (o *Owners) Set(ids ...discord.UserID) {
	set := make(map[discord.UserID]struct{}, len(ids))
	for _, id := range ids {
		if id.IsValid() {
			set[id] = struct{}{}
		}
	}

	o.mu.Lock()
	o.ids = set
	o.mu.Unlock()
}

// IsOwner reports whether id belongs to a bot owner.
func (o *Owners) IsOwner(id discord.UserID) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()

	_, ok := o.ids[id]

	return ok
}

// IDs returns the owner IDs in no particular order.
func (o *Owners) IDs() []discord.UserID {
	o.mu.RLock()
	defer o.mu.RUnlock()

	ids := make([]discord.UserID, 0, len(o.ids))
	for id := range o.ids {
		ids = append(ids, id)
	}

	return ids
}
