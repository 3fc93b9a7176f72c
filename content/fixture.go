package content

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Fixture is the JSON document LoadFixture reads. Metadata maps take either
// plain strings or objects with value, language, authority and confidence:
//
//	{"dc.title": ["A title"], "dc.subject": [{"value": "x", "language": "en"}]}
type Fixture struct {
	HandlePrefix  string                `json:"handle_prefix"`
	SiteName      string                `json:"site_name"`
	EPersons      []fixtureEPerson      `json:"epersons"`
	Groups        []fixtureGroup        `json:"groups"`
	Communities   []fixtureCommunity    `json:"communities"`
	Policies      []fixturePolicy       `json:"policies"`
	Subscriptions []fixtureSubscription `json:"subscriptions"`
	Profiles      []fixtureProfile      `json:"profiles"`
	Boxes         []fixtureBox          `json:"boxes"`
	Tabs          []fixtureTab          `json:"tabs"`
}

type fixtureObject struct {
	ID       string          `json:"id"`
	Handle   string          `json:"handle"`
	Metadata json.RawMessage `json:"metadata"`
}

type fixtureEPerson struct {
	fixtureObject
	Email              string `json:"email"`
	Netid              string `json:"netid"`
	CanLogIn           bool   `json:"can_login"`
	RequireCertificate bool   `json:"require_certificate"`
	Password           string `json:"password"`
}

type fixtureGroup struct {
	fixtureObject
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type fixtureCommunity struct {
	fixtureObject
	Communities []fixtureCommunity  `json:"communities"`
	Collections []fixtureCollection `json:"collections"`
}

type fixtureCollection struct {
	fixtureObject
	License string        `json:"license"`
	Items   []fixtureItem `json:"items"`
}

type fixtureItem struct {
	fixtureObject
	Submitter    string          `json:"submitter"`
	Mapped       []string        `json:"mapped_collections"`
	Withdrawn    bool            `json:"withdrawn"`
	InArchive    *bool           `json:"in_archive"`
	Discoverable *bool           `json:"discoverable"`
	Template     bool            `json:"template"`
	Bundles      []fixtureBundle `json:"bundles"`
}

type fixtureBundle struct {
	fixtureObject
	Name       string             `json:"name"`
	Bitstreams []fixtureBitstream `json:"bitstreams"`
}

type fixtureBitstream struct {
	fixtureObject
	Name          string `json:"name"`
	Format        string `json:"format"`
	Content       string `json:"content"`
	ContentBase64 string `json:"content_base64"`
}

type fixturePolicy struct {
	ID          int    `json:"id"`
	Object      string `json:"object"`
	Action      string `json:"action"`
	Group       string `json:"group"`
	EPerson     string `json:"eperson"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type fixtureSubscription struct {
	ID         int               `json:"id"`
	Type       string            `json:"type"`
	Object     string            `json:"object"`
	EPerson    string            `json:"eperson"`
	Parameters map[string]string `json:"parameters"`
}

type fixtureProfile struct {
	EPerson    string `json:"eperson"`
	Item       string `json:"item"`
	OrcidToken string `json:"orcid_token"`
}

type fixtureBox struct {
	ID         int    `json:"id"`
	EntityType string `json:"entity_type"`
	Shortname  string `json:"shortname"`
	Header     string `json:"header"`
	Style      string `json:"style"`
	BoxType    string `json:"box_type"`
	Collapsed  bool   `json:"collapsed"`
	Minor      bool   `json:"minor"`
	Container  bool   `json:"container"`
	Security   string `json:"security"`
	MaxColumns int    `json:"max_columns"`
}

type fixtureTab struct {
	ID         int    `json:"id"`
	EntityType string `json:"entity_type"`
	Shortname  string `json:"shortname"`
	Header     string `json:"header"`
	Priority   int    `json:"priority"`
	Leading    bool   `json:"leading"`
	Security   string `json:"security"`
	Boxes      []int  `json:"boxes"`
}

type fixtureLoader struct {
	store   *Store
	pending []func() error
}

// LoadFixture reads a fixture document into a new store.
func LoadFixture(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parsing fixture: invalid JSON")
	}
	var fx Fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	if fx.HandlePrefix == "" {
		fx.HandlePrefix = "123456789"
	}
	if fx.SiteName == "" {
		fx.SiteName = "DSpace"
	}

	l := &fixtureLoader{store: NewStore(fx.HandlePrefix, fx.SiteName)}
	if err := l.load(&fx); err != nil {
		return nil, err
	}
	return l.store, nil
}

func (l *fixtureLoader) load(fx *Fixture) error {
	for _, fe := range fx.EPersons {
		e := &EPerson{DSpaceObject: newDSpaceObject(), Email: fe.Email}
		if err := l.object(&e.DSpaceObject, fe.fixtureObject); err != nil {
			return fmt.Errorf("eperson %s: %w", fe.Email, err)
		}
		e.Netid = fe.Netid
		e.CanLogIn = fe.CanLogIn
		e.RequireCertificate = fe.RequireCertificate
		if fe.Password != "" {
			if err := e.SetPassword(fe.Password); err != nil {
				return fmt.Errorf("eperson %s: %w", fe.Email, err)
			}
		}
		l.store.Put(e)
	}

	for _, fg := range fx.Groups {
		g, ok := l.store.GroupByName(fg.Name)
		if ok {
			l.store.Delete(g.ID())
		} else {
			g = &Group{DSpaceObject: newDSpaceObject(), GroupName: fg.Name}
		}
		if err := l.object(&g.DSpaceObject, fg.fixtureObject); err != nil {
			return fmt.Errorf("group %s: %w", fg.Name, err)
		}
		for _, email := range fg.Members {
			e, ok := l.store.EPersonByEmail(email)
			if !ok {
				return fmt.Errorf("group %s: unknown member %s", fg.Name, email)
			}
			g.AddMember(e)
		}
		l.store.Put(g)
	}

	for _, fc := range fx.Communities {
		if err := l.community(nil, fc); err != nil {
			return err
		}
	}
	for _, fn := range l.pending {
		if err := fn(); err != nil {
			return err
		}
	}

	for _, fp := range fx.Policies {
		if err := l.policy(fp); err != nil {
			return fmt.Errorf("policy %d: %w", fp.ID, err)
		}
	}
	for _, fs := range fx.Subscriptions {
		if err := l.subscription(fs); err != nil {
			return fmt.Errorf("subscription %d: %w", fs.ID, err)
		}
	}
	for _, fp := range fx.Profiles {
		e, ok := l.store.EPersonByEmail(fp.EPerson)
		if !ok {
			return fmt.Errorf("profile: unknown eperson %s", fp.EPerson)
		}
		item, ok := l.item(fp.Item)
		if !ok {
			return fmt.Errorf("profile %s: unknown item %s", fp.EPerson, fp.Item)
		}
		l.store.AddProfile(&ResearcherProfile{EPerson: e, Item: item, OrcidAccessToken: fp.OrcidToken})
	}
	for _, fb := range fx.Boxes {
		sec, err := parseSecurityOrPublic(fb.Security)
		if err != nil {
			return fmt.Errorf("box %d: %w", fb.ID, err)
		}
		l.store.AddBox(&LayoutBox{
			ID: fb.ID, EntityType: fb.EntityType, Shortname: fb.Shortname, Header: fb.Header,
			Style: fb.Style, BoxType: fb.BoxType, Collapsed: fb.Collapsed, Minor: fb.Minor,
			Container: fb.Container, Security: sec, MaxColumns: fb.MaxColumns,
		})
	}
	for _, ft := range fx.Tabs {
		sec, err := parseSecurityOrPublic(ft.Security)
		if err != nil {
			return fmt.Errorf("tab %d: %w", ft.ID, err)
		}
		tab := &LayoutTab{
			ID: ft.ID, EntityType: ft.EntityType, Shortname: ft.Shortname, Header: ft.Header,
			Priority: ft.Priority, Leading: ft.Leading, Security: sec,
		}
		for _, id := range ft.Boxes {
			b, ok := l.store.Box(id)
			if !ok {
				return fmt.Errorf("tab %d: unknown box %d", ft.ID, id)
			}
			tab.Boxes = append(tab.Boxes, b)
		}
		l.store.AddTab(tab)
	}
	return nil
}

func parseSecurityOrPublic(s string) (Security, error) {
	if s == "" {
		return SecurityPublic, nil
	}
	return ParseSecurity(s)
}

func (l *fixtureLoader) object(o *DSpaceObject, fo fixtureObject) error {
	if fo.ID != "" {
		id, err := uuid.Parse(fo.ID)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", fo.ID, err)
		}
		o.UUID = id
	}
	if fo.Handle != "" {
		o.Handle = fo.Handle
	}
	return loadMetadata(o, fo.Metadata)
}

// loadMetadata reads a metadata map. Values may be strings or objects.
func loadMetadata(o *DSpaceObject, raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var err error
	gjson.ParseBytes(raw).ForEach(func(key, values gjson.Result) bool {
		f, perr := ParseField(key.String())
		if perr != nil {
			err = perr
			return false
		}
		add := func(v gjson.Result) {
			if v.IsObject() {
				conf := ConfidenceUnset
				if c := v.Get("confidence"); c.Exists() {
					conf = int(c.Int())
				}
				o.AddMetadata(f, v.Get("language").String(), v.Get("value").String(), v.Get("authority").String(), conf)
				return
			}
			o.AddMetadata(f, "", v.String(), "", ConfidenceUnset)
		}
		if values.IsArray() {
			values.ForEach(func(_, v gjson.Result) bool {
				add(v)
				return true
			})
		} else {
			add(values)
		}
		return true
	})
	return err
}

func (l *fixtureLoader) community(parent *Community, fc fixtureCommunity) error {
	c := &Community{DSpaceObject: newDSpaceObject()}
	if err := l.object(&c.DSpaceObject, fc.fixtureObject); err != nil {
		return fmt.Errorf("community %s: %w", fc.ID, err)
	}
	if parent != nil {
		parent.AddSubCommunity(c)
	}
	l.register(c)
	for _, sub := range fc.Communities {
		if err := l.community(c, sub); err != nil {
			return err
		}
	}
	for _, fcol := range fc.Collections {
		if err := l.collection(c, fcol); err != nil {
			return err
		}
	}
	return nil
}

func (l *fixtureLoader) register(obj Object) {
	if obj.Base().Handle == "" {
		l.store.MintHandle(obj)
		return
	}
	l.store.Put(obj)
}

func (l *fixtureLoader) collection(parent *Community, fc fixtureCollection) error {
	col := &Collection{DSpaceObject: newDSpaceObject(), License: fc.License}
	if err := l.object(&col.DSpaceObject, fc.fixtureObject); err != nil {
		return fmt.Errorf("collection %s: %w", fc.ID, err)
	}
	parent.AddCollection(col)
	l.register(col)
	for _, fi := range fc.Items {
		if err := l.itemFixture(col, fi); err != nil {
			return err
		}
	}
	return nil
}

func (l *fixtureLoader) itemFixture(col *Collection, fi fixtureItem) error {
	item := &Item{
		DSpaceObject:     newDSpaceObject(),
		OwningCollection: col,
		Collections:      []*Collection{col},
		InArchive:        !fi.Withdrawn,
		Withdrawn:        fi.Withdrawn,
		Discoverable:     true,
		LastModified:     l.store.Now(),
	}
	if fi.InArchive != nil {
		item.InArchive = *fi.InArchive
	}
	if fi.Discoverable != nil {
		item.Discoverable = *fi.Discoverable
	}
	if err := l.object(&item.DSpaceObject, fi.fixtureObject); err != nil {
		return fmt.Errorf("item %s: %w", fi.ID, err)
	}
	if fi.Submitter != "" {
		e, ok := l.store.EPersonByEmail(fi.Submitter)
		if !ok {
			return fmt.Errorf("item %s: unknown submitter %s", fi.ID, fi.Submitter)
		}
		item.Submitter = e
	}
	if fi.Template {
		item.TemplateFor = col
		item.OwningCollection = nil
		item.Collections = nil
		item.InArchive = false
		col.Template = item
		l.store.Put(item)
	} else {
		l.register(item)
	}

	for _, ref := range fi.Mapped {
		ref := ref
		l.pending = append(l.pending, func() error {
			obj, ok := l.store.Find(ref)
			mapped, isCol := obj.(*Collection)
			if !ok || !isCol {
				return fmt.Errorf("item %s: unknown mapped collection %s", fi.ID, ref)
			}
			item.AddToCollection(mapped)
			return nil
		})
	}

	for _, fb := range fi.Bundles {
		b := &Bundle{DSpaceObject: newDSpaceObject()}
		if err := l.object(&b.DSpaceObject, fb.fixtureObject); err != nil {
			return fmt.Errorf("bundle %s: %w", fb.Name, err)
		}
		b.SetMetadataSingleValue(MustField("dc.title"), "", fb.Name)
		b.Items = append(b.Items, item)
		item.Bundles = append(item.Bundles, b)
		l.store.Put(b)
		for _, fbs := range fb.Bitstreams {
			if err := l.bitstream(b, fbs); err != nil {
				return fmt.Errorf("bitstream %s: %w", fbs.Name, err)
			}
		}
	}
	return nil
}

func (l *fixtureLoader) bitstream(b *Bundle, fbs fixtureBitstream) error {
	data := []byte(fbs.Content)
	if fbs.ContentBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(fbs.ContentBase64)
		if err != nil {
			return err
		}
		data = decoded
	}
	bs := &Bitstream{DSpaceObject: newDSpaceObject()}
	if err := l.object(&bs.DSpaceObject, fbs.fixtureObject); err != nil {
		return err
	}
	bs.SetName(fbs.Name)
	if err := bs.SetContent(data, "MD5"); err != nil {
		return err
	}
	bs.Format = l.store.Formats.Guess(fbs.Name, data)
	if fbs.Format != "" {
		if f := l.store.Formats.ByShortDescription(fbs.Format); f != nil {
			bs.Format = f
		} else if f := l.store.Formats.ByMIMEType(fbs.Format); f != nil {
			bs.Format = f
		}
	}
	bs.SequenceID = nextSequenceID(b)
	b.AddBitstream(bs)
	l.store.Put(bs)
	return nil
}

func (l *fixtureLoader) item(ref string) (*Item, bool) {
	obj, ok := l.store.Find(ref)
	if !ok {
		return nil, false
	}
	item, ok := obj.(*Item)
	return item, ok
}

func (l *fixtureLoader) policy(fp fixturePolicy) error {
	obj, ok := l.store.Find(fp.Object)
	if !ok {
		return fmt.Errorf("unknown object %s", fp.Object)
	}
	action, err := ParseAction(fp.Action)
	if err != nil {
		return err
	}
	p := &ResourcePolicy{
		ID:          fp.ID,
		Object:      obj,
		Action:      action,
		Name:        fp.Name,
		Description: fp.Description,
		PolicyType:  fp.Type,
	}
	if fp.Group != "" {
		g, ok := l.store.GroupByName(fp.Group)
		if !ok {
			return fmt.Errorf("unknown group %s", fp.Group)
		}
		p.Group = g
	}
	if fp.EPerson != "" {
		e, ok := l.store.EPersonByEmail(fp.EPerson)
		if !ok {
			return fmt.Errorf("unknown eperson %s", fp.EPerson)
		}
		p.EPerson = e
	}
	if fp.StartDate != "" {
		if p.StartDate, err = time.Parse(DateLayout, fp.StartDate); err != nil {
			return fmt.Errorf("start date: %w", err)
		}
	}
	if fp.EndDate != "" {
		if p.EndDate, err = time.Parse(DateLayout, fp.EndDate); err != nil {
			return fmt.Errorf("end date: %w", err)
		}
	}
	l.store.AddPolicy(p)
	return nil
}

func (l *fixtureLoader) subscription(fs fixtureSubscription) error {
	obj, ok := l.store.Find(fs.Object)
	if !ok {
		return fmt.Errorf("unknown object %s", fs.Object)
	}
	e, ok := l.store.EPersonByEmail(fs.EPerson)
	if !ok {
		return fmt.Errorf("unknown eperson %s", fs.EPerson)
	}
	sub := &Subscription{ID: fs.ID, Type: fs.Type, Object: obj, EPerson: e}
	if sub.Type == "" {
		sub.Type = "content"
	}
	names := make([]string, 0, len(fs.Parameters))
	for name := range fs.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		sub.Parameters = append(sub.Parameters, SubscriptionParameter{ID: i + 1, Name: name, Value: fs.Parameters[name]})
	}
	l.store.AddSubscription(sub)
	return nil
}
