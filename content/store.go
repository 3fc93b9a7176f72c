package content

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/btree"
)

// ErrNotFound is returned when a lookup finds nothing.
var ErrNotFound = errors.New("object not found")

type entry struct {
	key string
	obj Object
}

func byKey(a, b interface{}) bool {
	return a.(*entry).key < b.(*entry).key
}

func newObjectIndex() *btree.BTree {
	return btree.NewNonConcurrent(byKey)
}

// Store is an in-memory object repository. The store guards its own
// indexes; objects returned from it are not safe for concurrent mutation.
type Store struct {
	mu            sync.RWMutex
	objects       *btree.BTree
	handles       map[string]uuid.UUID
	policies      map[int]*ResourcePolicy
	subscriptions map[int]*Subscription
	profiles      map[uuid.UUID]*ResearcherProfile
	boxes         map[int]*LayoutBox
	tabs          map[int]*LayoutTab

	site         *Site
	handlePrefix string
	nextHandle   int
	nextID       int

	Formats *FormatRegistry
	// Now returns the current time. Tests replace it.
	Now func() time.Time
}

// NewStore returns an empty store with a site object and the Anonymous and
// Administrator groups.
func NewStore(handlePrefix, siteName string) *Store {
	s := &Store{
		objects:       newObjectIndex(),
		handles:       make(map[string]uuid.UUID),
		policies:      make(map[int]*ResourcePolicy),
		subscriptions: make(map[int]*Subscription),
		profiles:      make(map[uuid.UUID]*ResearcherProfile),
		boxes:         make(map[int]*LayoutBox),
		tabs:          make(map[int]*LayoutTab),
		handlePrefix:  handlePrefix,
		nextHandle:    1,
		nextID:        1,
		Formats:       NewFormatRegistry(),
		Now:           time.Now,
	}
	s.site = &Site{DSpaceObject: newDSpaceObject(), SiteName: siteName}
	s.site.Handle = handlePrefix + "/0"
	s.Put(s.site)
	s.NewGroup(GroupAnonymous)
	s.NewGroup(GroupAdministrator)
	return s
}

// HandlePrefix returns the prefix used when minting handles.
func (s *Store) HandlePrefix() string {
	return s.handlePrefix
}

// Site returns the repository site object.
func (s *Store) Site() *Site {
	return s.site
}

// Put indexes obj by id and by handle.
func (s *Store) Put(obj Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects.Set(&entry{key: obj.ID().String(), obj: obj})
	if h := obj.Base().Handle; h != "" {
		s.handles[h] = obj.ID()
		s.bumpHandle(h)
	}
}

func (s *Store) bumpHandle(h string) {
	prefix, suffix, ok := strings.Cut(h, "/")
	if !ok || prefix != s.handlePrefix {
		return
	}
	if n, err := strconv.Atoi(suffix); err == nil && n >= s.nextHandle {
		s.nextHandle = n + 1
	}
}

// Delete removes the object with the given id and its handle from the
// indexes.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := s.objects.Delete(&entry{key: id.String()})
	if found == nil {
		return
	}
	if h := found.(*entry).obj.Base().Handle; h != "" {
		delete(s.handles, h)
	}
}

// Get returns the object with the given id.
func (s *Store) Get(id uuid.UUID) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := s.objects.Get(&entry{key: id.String()})
	if found == nil {
		return nil, false
	}
	return found.(*entry).obj, true
}

// ByHandle returns the object registered under handle. The "hdl:" prefix and
// handle resolver URLs are accepted.
func (s *Store) ByHandle(handle string) (Object, bool) {
	handle = strings.TrimPrefix(handle, "hdl:")
	if i := strings.Index(handle, "/handle/"); i >= 0 {
		handle = handle[i+len("/handle/"):]
	}
	handle = strings.TrimPrefix(handle, "https://hdl.handle.net/")
	handle = strings.TrimPrefix(handle, "http://hdl.handle.net/")
	s.mu.RLock()
	id, ok := s.handles[handle]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return s.Get(id)
}

// Find resolves a uuid or a handle.
func (s *Store) Find(ref string) (Object, bool) {
	if id, err := uuid.Parse(ref); err == nil {
		return s.Get(id)
	}
	return s.ByHandle(ref)
}

// Lookup returns the object with the given id if it has type T.
func Lookup[T Object](s *Store, id uuid.UUID) (T, bool) {
	var zero T
	obj, ok := s.Get(id)
	if !ok {
		return zero, false
	}
	t, ok := obj.(T)
	return t, ok
}

// Objects returns the objects of type t ordered by id.
func (s *Store) Objects(t Type) []Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Object
	s.objects.Ascend(nil, func(i interface{}) bool {
		if obj := i.(*entry).obj; obj.Type() == t {
			out = append(out, obj)
		}
		return true
	})
	return out
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects.Len()
}

// MintHandle assigns the next free handle to obj and indexes it.
func (s *Store) MintHandle(obj Object) string {
	s.mu.Lock()
	h := s.handlePrefix + "/" + strconv.Itoa(s.nextHandle)
	s.nextHandle++
	s.mu.Unlock()
	obj.Base().Handle = h
	s.Put(obj)
	return h
}

func (s *Store) newID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	return id
}

// claimID keeps generated ids clear of an explicitly assigned one.
func (s *Store) claimID(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id >= s.nextID {
		s.nextID = id + 1
	}
}

// NewCommunity creates a community under parent, or a top-level community
// when parent is nil.
func (s *Store) NewCommunity(parent *Community, name string) *Community {
	c := &Community{DSpaceObject: newDSpaceObject()}
	c.SetMetadataSingleValue(MustField("dc.title"), "", name)
	if parent != nil {
		parent.AddSubCommunity(c)
	}
	s.MintHandle(c)
	return c
}

// TopCommunities returns the communities without a parent.
func (s *Store) TopCommunities() []*Community {
	var out []*Community
	for _, obj := range s.Objects(COMMUNITY) {
		if c := obj.(*Community); c.IsTopLevel() {
			out = append(out, c)
		}
	}
	return out
}

// NewCollection creates a collection inside parent.
func (s *Store) NewCollection(parent *Community, name string) *Collection {
	c := &Collection{DSpaceObject: newDSpaceObject()}
	c.SetMetadataSingleValue(MustField("dc.title"), "", name)
	if parent != nil {
		parent.AddCollection(c)
	}
	s.MintHandle(c)
	return c
}

// NewItem creates an archived, discoverable item owned by col.
func (s *Store) NewItem(col *Collection, submitter *EPerson) *Item {
	i := &Item{
		DSpaceObject:     newDSpaceObject(),
		Submitter:        submitter,
		OwningCollection: col,
		InArchive:        true,
		Discoverable:     true,
		LastModified:     s.Now(),
	}
	if col != nil {
		i.Collections = append(i.Collections, col)
	}
	s.MintHandle(i)
	return i
}

// NewTemplateItem creates the template item of col.
func (s *Store) NewTemplateItem(col *Collection) *Item {
	i := &Item{DSpaceObject: newDSpaceObject(), TemplateFor: col, LastModified: s.Now()}
	col.Template = i
	s.Put(i)
	return i
}

// CollectionItems returns the items mapped into col.
func (s *Store) CollectionItems(col *Collection) []*Item {
	var out []*Item
	for _, obj := range s.Objects(ITEM) {
		if i := obj.(*Item); i.InCollection(col) {
			out = append(out, i)
		}
	}
	return out
}

// NewBundle creates a bundle called name in item.
func (s *Store) NewBundle(item *Item, name string) *Bundle {
	b := &Bundle{DSpaceObject: newDSpaceObject()}
	b.SetMetadataSingleValue(MustField("dc.title"), "", name)
	if item != nil {
		b.Items = append(b.Items, item)
		item.Bundles = append(item.Bundles, b)
	}
	s.Put(b)
	return b
}

// EnsureBundle returns the first bundle of item with the given name,
// creating it when absent.
func (s *Store) EnsureBundle(item *Item, name string) *Bundle {
	if bundles := item.BundlesNamed(name); len(bundles) > 0 {
		return bundles[0]
	}
	return s.NewBundle(item, name)
}

// NewBitstream stores data as a bitstream called name in bundle. The format
// is guessed from the name and content.
func (s *Store) NewBitstream(bundle *Bundle, name string, data []byte) (*Bitstream, error) {
	bs := &Bitstream{DSpaceObject: newDSpaceObject()}
	bs.SetName(name)
	if err := bs.SetContent(data, "MD5"); err != nil {
		return nil, err
	}
	bs.Format = s.Formats.Guess(name, data)
	if bundle != nil {
		bs.SequenceID = nextSequenceID(bundle)
		bundle.AddBitstream(bs)
	}
	s.Put(bs)
	return bs, nil
}

func nextSequenceID(bundle *Bundle) int {
	next := 1
	check := func(bs *Bitstream) {
		if bs.SequenceID >= next {
			next = bs.SequenceID + 1
		}
	}
	for _, bs := range bundle.Bitstreams {
		check(bs)
	}
	for _, item := range bundle.Items {
		for _, bs := range item.Bitstreams() {
			check(bs)
		}
	}
	return next
}

// DeleteBitstream detaches bs from its bundles and marks it deleted.
func (s *Store) DeleteBitstream(bs *Bitstream) {
	for _, b := range append([]*Bundle(nil), bs.Bundles...) {
		b.RemoveBitstream(bs)
	}
	bs.Deleted = true
}

// NewEPerson creates an account for email.
func (s *Store) NewEPerson(email string) *EPerson {
	e := &EPerson{DSpaceObject: newDSpaceObject(), Email: email}
	s.Put(e)
	return e
}

// EPersonByEmail finds an account by email address, ignoring case.
func (s *Store) EPersonByEmail(email string) (*EPerson, bool) {
	if email == "" {
		return nil, false
	}
	for _, obj := range s.Objects(EPERSON) {
		if e := obj.(*EPerson); strings.EqualFold(e.Email, email) {
			return e, true
		}
	}
	return nil, false
}

// EPersonByNetid finds an account by netid.
func (s *Store) EPersonByNetid(netid string) (*EPerson, bool) {
	if netid == "" {
		return nil, false
	}
	for _, obj := range s.Objects(EPERSON) {
		if e := obj.(*EPerson); e.Netid == netid {
			return e, true
		}
	}
	return nil, false
}

// NewGroup creates a group.
func (s *Store) NewGroup(name string) *Group {
	g := &Group{DSpaceObject: newDSpaceObject(), GroupName: name}
	s.Put(g)
	return g
}

// GroupByName finds a group by name.
func (s *Store) GroupByName(name string) (*Group, bool) {
	for _, obj := range s.Objects(GROUP) {
		if g := obj.(*Group); g.GroupName == name {
			return g, true
		}
	}
	return nil, false
}

// Anonymous returns the Anonymous group.
func (s *Store) Anonymous() *Group {
	g, _ := s.GroupByName(GroupAnonymous)
	return g
}

// Administrators returns the Administrator group.
func (s *Store) Administrators() *Group {
	g, _ := s.GroupByName(GroupAdministrator)
	return g
}

// AddPolicy stores p and assigns it an id when it has none.
func (s *Store) AddPolicy(p *ResourcePolicy) *ResourcePolicy {
	if p.ID == 0 {
		p.ID = s.newID()
	} else {
		s.claimID(p.ID)
	}
	if p.PolicyType == "" {
		p.PolicyType = PolicyTypeCustom
	}
	s.mu.Lock()
	s.policies[p.ID] = p
	s.mu.Unlock()
	return p
}

// Policy returns the policy with the given id.
func (s *Store) Policy(id int) (*ResourcePolicy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.policies[id]
	return p, ok
}

// Policies returns the policies of obj ordered by id.
func (s *Store) Policies(obj Object) []*ResourcePolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*ResourcePolicy
	for _, p := range s.policies {
		if p.Object != nil && p.Object.ID() == obj.ID() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RemovePolicies deletes the policies of obj for which match returns true.
// A nil match removes every policy of obj.
func (s *Store) RemovePolicies(obj Object, match func(*ResourcePolicy) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, p := range s.policies {
		if p.Object != nil && p.Object.ID() == obj.ID() && (match == nil || match(p)) {
			delete(s.policies, id)
			removed++
		}
	}
	return removed
}

// AnonymousCanRead reports whether obj has a READ policy for Anonymous.
func (s *Store) AnonymousCanRead(obj Object) bool {
	for _, p := range s.Policies(obj) {
		if p.Action == ActionRead && p.Group != nil && p.Group.IsAnonymous() {
			return true
		}
	}
	return false
}

// AddSubscription stores sub and assigns it an id when it has none.
func (s *Store) AddSubscription(sub *Subscription) *Subscription {
	if sub.ID == 0 {
		sub.ID = s.newID()
	} else {
		s.claimID(sub.ID)
	}
	s.mu.Lock()
	s.subscriptions[sub.ID] = sub
	s.mu.Unlock()
	return sub
}

// Subscription returns the subscription with the given id.
func (s *Store) Subscription(id int) (*Subscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subscriptions[id]
	return sub, ok
}

// AddProfile stores p under its eperson's id.
func (s *Store) AddProfile(p *ResearcherProfile) *ResearcherProfile {
	if p.ID == uuid.Nil && p.EPerson != nil {
		p.ID = p.EPerson.ID()
	}
	s.mu.Lock()
	s.profiles[p.ID] = p
	s.mu.Unlock()
	return p
}

// Profile returns the researcher profile with the given id.
func (s *Store) Profile(id uuid.UUID) (*ResearcherProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	return p, ok
}

// AddBox stores b and assigns it an id when it has none.
func (s *Store) AddBox(b *LayoutBox) *LayoutBox {
	if b.ID == 0 {
		b.ID = s.newID()
	} else {
		s.claimID(b.ID)
	}
	s.mu.Lock()
	s.boxes[b.ID] = b
	s.mu.Unlock()
	return b
}

// Box returns the layout box with the given id.
func (s *Store) Box(id int) (*LayoutBox, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.boxes[id]
	return b, ok
}

// AddTab stores t and assigns it an id when it has none.
func (s *Store) AddTab(t *LayoutTab) *LayoutTab {
	if t.ID == 0 {
		t.ID = s.newID()
	} else {
		s.claimID(t.ID)
	}
	s.mu.Lock()
	s.tabs[t.ID] = t
	s.mu.Unlock()
	return t
}

// Tab returns the layout tab with the given id.
func (s *Store) Tab(id int) (*LayoutTab, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tabs[id]
	return t, ok
}

// Resolve parses ref as a uuid or handle and returns the object, or an error
// wrapping ErrNotFound.
func (s *Store) Resolve(ref string) (Object, error) {
	obj, ok := s.Find(ref)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return obj, nil
}
