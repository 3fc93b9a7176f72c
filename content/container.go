package content

// Collection holds items.
type Collection struct {
	DSpaceObject

	Communities []*Community
	Template    *Item
	License     string
}

// Type returns COLLECTION.
func (c *Collection) Type() Type { return COLLECTION }

// Name returns the collection's title.
func (c *Collection) Name() string { return c.FirstValue("dc.title") }

// Community holds sub-communities and collections.
type Community struct {
	DSpaceObject

	Parents        []*Community
	SubCommunities []*Community
	Collections    []*Collection
}

// Type returns COMMUNITY.
func (c *Community) Type() Type { return COMMUNITY }

// Name returns the community's title.
func (c *Community) Name() string { return c.FirstValue("dc.title") }

// IsTopLevel reports whether the community has no parent.
func (c *Community) IsTopLevel() bool { return len(c.Parents) == 0 }

// AddSubCommunity links child under c.
func (c *Community) AddSubCommunity(child *Community) {
	for _, have := range c.SubCommunities {
		if have == child {
			return
		}
	}
	c.SubCommunities = append(c.SubCommunities, child)
	child.Parents = append(child.Parents, c)
}

// AddCollection links col under c.
func (c *Community) AddCollection(col *Collection) {
	for _, have := range c.Collections {
		if have == col {
			return
		}
	}
	c.Collections = append(c.Collections, col)
	col.Communities = append(col.Communities, c)
}

// Site is the repository itself.
type Site struct {
	DSpaceObject

	SiteName string
	URL      string
}

// Type returns SITE.
func (s *Site) Type() Type { return SITE }

// Name returns the configured repository name.
func (s *Site) Name() string { return s.SiteName }
