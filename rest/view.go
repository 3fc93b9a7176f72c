package rest

import (
	"time"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/patch/orcid"
)

type metadataValue struct {
	Value      string `json:"value"`
	Language   string `json:"language,omitempty"`
	Authority  string `json:"authority,omitempty"`
	Confidence int    `json:"confidence"`
	Place      int    `json:"place"`
}

type objectView struct {
	ID       string                     `json:"id"`
	UUID     string                     `json:"uuid"`
	Name     string                     `json:"name"`
	Handle   string                     `json:"handle,omitempty"`
	Type     string                     `json:"type"`
	Metadata map[string][]metadataValue `json:"metadata"`
}

func newObjectView(obj content.Object, typ string) objectView {
	md := map[string][]metadataValue{}
	for _, v := range obj.Base().AllMetadata() {
		key := v.Field.String()
		md[key] = append(md[key], metadataValue{
			Value:      v.Value,
			Language:   v.Language,
			Authority:  v.Authority,
			Confidence: v.Confidence,
			Place:      v.Place,
		})
	}
	return objectView{
		ID:       obj.ID().String(),
		UUID:     obj.ID().String(),
		Name:     obj.Name(),
		Handle:   obj.Base().Handle,
		Type:     typ,
		Metadata: md,
	}
}

type itemView struct {
	objectView
	InArchive    bool   `json:"inArchive"`
	Discoverable bool   `json:"discoverable"`
	Withdrawn    bool   `json:"withdrawn"`
	LastModified string `json:"lastModified"`
}

type bitstreamView struct {
	objectView
	SequenceID int    `json:"sequenceId"`
	SizeBytes  int64  `json:"sizeBytes"`
	Checksum   string `json:"checkSum,omitempty"`
	Format     string `json:"format,omitempty"`
	Deleted    bool   `json:"deleted,omitempty"`
}

type bundleView struct {
	objectView
	Bitstreams []string `json:"bitstreams"`
}

type epersonView struct {
	objectView
	Email              string `json:"email"`
	Netid              string `json:"netid,omitempty"`
	CanLogIn           bool   `json:"canLogIn"`
	RequireCertificate bool   `json:"requireCertificate"`
	SelfRegistered     bool   `json:"selfRegistered"`
	HasPassword        bool   `json:"hasPassword"`
}

type policyView struct {
	ID          int    `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	PolicyType  string `json:"policyType"`
	Action      string `json:"action"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Type        string `json:"type"`
}

type parameterView struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type subscriptionView struct {
	ID         int             `json:"id"`
	Type       string          `json:"subscriptionType"`
	Parameters []parameterView `json:"subscriptionParameterList"`
	ResType    string          `json:"type"`
}

type profileView struct {
	ID          string   `json:"id"`
	Visible     bool     `json:"visible"`
	Item        string   `json:"item,omitempty"`
	OrcidID     string   `json:"orcid,omitempty"`
	SyncMode    string   `json:"orcidSyncMode,omitempty"`
	SyncPubs    string   `json:"orcidSyncPublications,omitempty"`
	SyncFunds   string   `json:"orcidSyncFundings,omitempty"`
	SyncProfile []string `json:"orcidSyncProfile"`
	Type        string   `json:"type"`
}

type boxView struct {
	ID         int    `json:"id"`
	EntityType string `json:"entityType,omitempty"`
	Shortname  string `json:"shortname"`
	Header     string `json:"header,omitempty"`
	Style      string `json:"style,omitempty"`
	BoxType    string `json:"boxType,omitempty"`
	Collapsed  bool   `json:"collapsed"`
	Minor      bool   `json:"minor"`
	Container  bool   `json:"container"`
	Security   string `json:"security"`
	MaxColumns int    `json:"maxColumns"`
	Type       string `json:"type"`
}

type tabView struct {
	ID         int    `json:"id"`
	EntityType string `json:"entityType,omitempty"`
	Shortname  string `json:"shortname"`
	Header     string `json:"header,omitempty"`
	Priority   int    `json:"priority"`
	Leading    bool   `json:"leading"`
	Security   string `json:"security"`
	Boxes      []int  `json:"boxes"`
	Type       string `json:"type"`
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(content.DateLayout)
}

// View renders obj the way the REST API returns it.
func View(s *content.Store, obj any) any {
	switch o := obj.(type) {
	case *content.Item:
		return itemView{
			objectView:   newObjectView(o, "item"),
			InArchive:    o.InArchive,
			Discoverable: o.Discoverable,
			Withdrawn:    o.Withdrawn,
			LastModified: o.LastModified.UTC().Format(time.RFC3339),
		}
	case *content.Bitstream:
		v := bitstreamView{
			objectView: newObjectView(o, "bitstream"),
			SequenceID: o.SequenceID,
			SizeBytes:  o.Size,
			Checksum:   o.Checksum,
			Deleted:    o.Deleted,
		}
		if o.Format != nil {
			v.Format = o.Format.ShortDescription
		}
		return v
	case *content.Bundle:
		v := bundleView{objectView: newObjectView(o, "bundle"), Bitstreams: []string{}}
		for _, bs := range o.Bitstreams {
			v.Bitstreams = append(v.Bitstreams, bs.ID().String())
		}
		return v
	case *content.EPerson:
		return epersonView{
			objectView:         newObjectView(o, "eperson"),
			Email:              o.Email,
			Netid:              o.Netid,
			CanLogIn:           o.CanLogIn,
			RequireCertificate: o.RequireCertificate,
			SelfRegistered:     o.SelfRegistered,
			HasPassword:        o.HasPassword(),
		}
	case *content.ResourcePolicy:
		return policyView{
			ID:          o.ID,
			Name:        o.Name,
			Description: o.Description,
			PolicyType:  o.PolicyType,
			Action:      o.Action.String(),
			StartDate:   date(o.StartDate),
			EndDate:     date(o.EndDate),
			Type:        "resourcepolicy",
		}
	case *content.Subscription:
		v := subscriptionView{ID: o.ID, Type: o.Type, Parameters: []parameterView{}, ResType: "subscription"}
		for _, p := range o.Parameters {
			v.Parameters = append(v.Parameters, parameterView(p))
		}
		return v
	case *content.ResearcherProfile:
		v := profileView{ID: o.ID.String(), SyncProfile: []string{}, Type: "profile"}
		if o.Item != nil {
			v.Visible = s.AnonymousCanRead(o.Item)
			v.Item = o.Item.ID().String()
			v.OrcidID = o.OrcidID()
			v.SyncMode = o.Item.FirstValue(orcid.FieldMode)
			v.SyncPubs = o.Item.FirstValue(orcid.FieldPublications)
			v.SyncFunds = o.Item.FirstValue(orcid.FieldFundings)
			for _, section := range o.Item.Values(content.MustField(orcid.FieldProfile)) {
				v.SyncProfile = append(v.SyncProfile, section.Value)
			}
		}
		return v
	case *content.LayoutBox:
		return boxView{
			ID:         o.ID,
			EntityType: o.EntityType,
			Shortname:  o.Shortname,
			Header:     o.Header,
			Style:      o.Style,
			BoxType:    o.BoxType,
			Collapsed:  o.Collapsed,
			Minor:      o.Minor,
			Container:  o.Container,
			Security:   o.Security.String(),
			MaxColumns: o.MaxColumns,
			Type:       "box",
		}
	case *content.LayoutTab:
		v := tabView{
			ID:         o.ID,
			EntityType: o.EntityType,
			Shortname:  o.Shortname,
			Header:     o.Header,
			Priority:   o.Priority,
			Leading:    o.Leading,
			Security:   o.Security.String(),
			Boxes:      []int{},
			Type:       "tab",
		}
		for _, b := range o.Boxes {
			v.Boxes = append(v.Boxes, b.ID)
		}
		return v
	case content.Object:
		return newObjectView(o, typeName(o.Type()))
	}
	return nil
}

func typeName(t content.Type) string {
	switch t {
	case content.COLLECTION:
		return "collection"
	case content.COMMUNITY:
		return "community"
	case content.SITE:
		return "site"
	case content.GROUP:
		return "group"
	}
	return "object"
}
