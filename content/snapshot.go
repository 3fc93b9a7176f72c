package content

import (
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Snapshot is a saved copy of the store's state. Restore puts every object
// and record back as it was, in place, so pointers held by callers stay
// valid.
type Snapshot struct {
	store    *Store
	entries  []*entry
	restores []func()

	handles       map[string]uuid.UUID
	policies      map[int]*ResourcePolicy
	subscriptions map[int]*Subscription
	profiles      map[uuid.UUID]*ResearcherProfile
	boxes         map[int]*LayoutBox
	tabs          map[int]*LayoutTab
	nextHandle    int
	nextID        int
}

// Snapshot saves the state of every object, policy, subscription, profile,
// box and tab in the store.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		store:         s,
		handles:       maps.Clone(s.handles),
		policies:      maps.Clone(s.policies),
		subscriptions: maps.Clone(s.subscriptions),
		profiles:      maps.Clone(s.profiles),
		boxes:         maps.Clone(s.boxes),
		tabs:          maps.Clone(s.tabs),
		nextHandle:    s.nextHandle,
		nextID:        s.nextID,
	}
	s.objects.Ascend(nil, func(i interface{}) bool {
		e := i.(*entry)
		snap.entries = append(snap.entries, e)
		snap.save(e.obj)
		return true
	})
	for _, p := range s.policies {
		saved := *p
		snap.restores = append(snap.restores, func() { *p = saved })
	}
	for _, sub := range s.subscriptions {
		saved := *sub
		saved.Parameters = slices.Clone(sub.Parameters)
		snap.restores = append(snap.restores, func() {
			*sub = saved
			sub.Parameters = slices.Clone(saved.Parameters)
		})
	}
	for _, p := range s.profiles {
		saved := *p
		snap.restores = append(snap.restores, func() { *p = saved })
	}
	for _, b := range s.boxes {
		saved := *b
		snap.restores = append(snap.restores, func() { *b = saved })
	}
	for _, t := range s.tabs {
		saved := *t
		saved.Boxes = slices.Clone(t.Boxes)
		snap.restores = append(snap.restores, func() {
			*t = saved
			t.Boxes = slices.Clone(saved.Boxes)
		})
	}
	return snap
}

// save records how to put obj back. Slices are copied so later in-place
// edits do not reach the saved state.
func (snap *Snapshot) save(obj Object) {
	var restore func()
	switch o := obj.(type) {
	case *Item:
		saved := *o
		saved.Collections = slices.Clone(o.Collections)
		saved.Bundles = slices.Clone(o.Bundles)
		restore = func() { *o = saved }
	case *Bundle:
		saved := *o
		saved.Bitstreams = slices.Clone(o.Bitstreams)
		saved.Items = slices.Clone(o.Items)
		restore = func() { *o = saved }
	case *Bitstream:
		saved := *o
		saved.Bundles = slices.Clone(o.Bundles)
		restore = func() { *o = saved }
	case *Collection:
		saved := *o
		saved.Communities = slices.Clone(o.Communities)
		restore = func() { *o = saved }
	case *Community:
		saved := *o
		saved.Parents = slices.Clone(o.Parents)
		saved.SubCommunities = slices.Clone(o.SubCommunities)
		saved.Collections = slices.Clone(o.Collections)
		restore = func() { *o = saved }
	case *Site:
		saved := *o
		restore = func() { *o = saved }
	case *EPerson:
		saved := *o
		saved.passwordHash = slices.Clone(o.passwordHash)
		restore = func() { *o = saved }
	case *Group:
		saved := *o
		saved.Members = slices.Clone(o.Members)
		saved.Subgroups = slices.Clone(o.Subgroups)
		restore = func() { *o = saved }
	}
	if restore == nil {
		return
	}
	// metadata lives in the embedded DSpaceObject and is cloned for every type
	base := obj.Base()
	md := slices.Clone(base.metadata)
	snap.restores = append(snap.restores, func() {
		restore()
		base.metadata = slices.Clone(md)
	})
}

// Restore returns the store to the state saved in snap.
func (snap *Snapshot) Restore() {
	for _, r := range snap.restores {
		r()
	}

	s := snap.store
	s.mu.Lock()
	defer s.mu.Unlock()
	objects := newObjectIndex()
	for _, e := range snap.entries {
		objects.Set(e)
	}
	s.objects = objects
	s.handles = maps.Clone(snap.handles)
	s.policies = maps.Clone(snap.policies)
	s.subscriptions = maps.Clone(snap.subscriptions)
	s.profiles = maps.Clone(snap.profiles)
	s.boxes = maps.Clone(snap.boxes)
	s.tabs = maps.Clone(snap.tabs)
	s.nextHandle = snap.nextHandle
	s.nextID = snap.nextID
}
