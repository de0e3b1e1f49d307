package service

import (
	"context"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/pagepurge/internal/model"
	"github.com/emrgen/pagepurge/internal/store"
)

// Implicit groups every actor, or every registered actor, belongs to.
const (
	GroupAll  = "*"
	GroupUser = "user"
)

const expiryFormat = "20060102150405"

// Rights resolves rights from group memberships.
type Rights struct {
	store  store.UserStore
	groups map[string][]string
	now    func() time.Time
}

func NewRights(store store.UserStore, groups map[string][]string) *Rights {
	return &Rights{store: store, groups: groups, now: time.Now}
}

// Groups returns the groups of actor, implicit ones included. Expired
// memberships are ignored.
func (r *Rights) Groups(ctx context.Context, actor *model.Actor) (mapset.Set[string], error) {
	groups := mapset.NewSet(GroupAll)
	if actor == nil || actor.User == 0 {
		return groups, nil
	}
	groups.Add(GroupUser)

	rows, err := r.store.ListUserGroups(ctx, actor.User)
	if err != nil {
		return nil, err
	}

	now := r.now().UTC().Format(expiryFormat)
	for _, row := range rows {
		if row.Expiry != "" && row.Expiry <= now {
			continue
		}
		groups.Add(row.Group)
	}

	return groups, nil
}

// HasRight reports whether any group of actor grants right.
func (r *Rights) HasRight(ctx context.Context, actor *model.Actor, right string) (bool, error) {
	groups, err := r.Groups(ctx, actor)
	if err != nil {
		return false, err
	}

	for _, group := range groups.ToSlice() {
		for _, granted := range r.groups[group] {
			if granted == right {
				return true, nil
			}
		}
	}

	return false, nil
}
