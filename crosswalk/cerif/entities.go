package cerif

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
)

// simple maps a child path of an entity to the field its text is stored in.
type simple struct {
	path, field string
}

var publicationFields = []simple{
	{"Language", "dc.language.iso"},
	{"Title", "dc.title"},
	{"Subtitle", "dc.title.alternative"},
	{"PublicationDate", "dc.date.issued"},
	{"Volume", "oaire.citation.volume"},
	{"Issue", "oaire.citation.issue"},
	{"StartPage", "oaire.citation.startPage"},
	{"EndPage", "oaire.citation.endPage"},
	{"DOI", "dc.identifier.doi"},
	{"ISBN", "dc.identifier.isbn"},
	{"ISSN", "dc.identifier.issn"},
	{"ISI-Number", "dc.identifier.isi"},
	{"SCP-Number", "dc.identifier.scopus"},
	{"Keyword", "dc.subject"},
	{"Abstract", "dc.description.abstract"},
}

func (in *ingest) publication(e *etree.Element) {
	for _, t := range e.FindElements("Type") {
		in.add("dc.type", in.c.types.Convert(crosswalk.Text(t)), "")
	}
	in.simple(e, publicationFields)
	in.refs(e, "PublishedIn/Publication", "Title", "dc.relation.ispartof")

	for _, p := range e.FindElements("Publishers/Publisher") {
		name := crosswalk.Text(p.FindElement("OrgUnit/Name"))
		if name == "" {
			name = crosswalk.Text(p.FindElement("DisplayName"))
		}
		if name == "" {
			name = crosswalk.Text(p)
		}
		in.add("dc.publisher", name, in.authority(p.FindElement("OrgUnit")))
	}
	in.texts(e, "Publisher", "dc.publisher")

	in.contributors(e, "Authors/Author", "dc.contributor.author", "oairecerif.author.affiliation")
	in.contributors(e, "Editors/Editor", "dc.contributor.editor", "oairecerif.editor.affiliation")

	in.refs(e, "OriginatesFrom/Project", "Title", "dc.relation.project")
	in.refs(e, "OriginatesFrom/Funding", "Name", "dc.relation.funding")
	in.refs(e, "PresentedAt/Event", "Name", "dc.relation.conference")
	in.refs(e, "References/Product", "Name", "dc.relation.dataset")
}

// contributors adds one name and one affiliation per contributor so the
// two fields stay parallel. A contributor is skipped when either field is
// unknown and the missing field policy ignores it.
func (in *ingest) contributors(e *etree.Element, path, nameField, affField string) {
	for _, a := range e.FindElements(path) {
		person := a.FindElement("Person")
		name := personName(person)
		if name == "" {
			name = crosswalk.Text(a.FindElement("DisplayName"))
		}
		if name == "" || !in.known(nameField, affField) {
			continue
		}
		in.add(nameField, name, in.authority(person))

		org := a.FindElement("Affiliation/OrgUnit")
		if aff := childText(org, "Name"); aff != "" {
			in.add(affField, aff, in.authority(org))
		} else {
			in.add(affField, Placeholder, "")
		}
	}
}

var personFields = []simple{
	{"Gender", "oairecerif.person.gender"},
	{"ORCID", "person.identifier.orcid"},
	{"ResearcherID", "person.identifier.rid"},
	{"ScopusAuthorID", "person.identifier.scopus-author-id"},
}

// affiliationGroup holds the parallel fields of a person's affiliations.
var affiliationGroup = []string{
	"oairecerif.person.affiliation",
	"oairecerif.affiliation.startDate",
	"oairecerif.affiliation.endDate",
	"oairecerif.affiliation.role",
}

func (in *ingest) person(e *etree.Element) {
	in.add("dc.title", personName(e), "")
	in.texts(e, "PersonName/FamilyNames", "person.familyName")
	in.texts(e, "PersonName/FirstNames", "person.givenName")
	for _, o := range e.FindElements("OtherNames") {
		in.add("crisrp.name.variant", otherName(o), "")
	}
	in.simple(e, personFields)
	for _, a := range e.FindElements("ElectronicAddress") {
		in.add("person.email", strings.TrimPrefix(crosswalk.Text(a), "mailto:"), "")
	}

	for _, a := range e.FindElements("Affiliation") {
		org := a.FindElement("OrgUnit")
		name := childText(org, "Name")
		if name == "" || !in.known(affiliationGroup...) {
			continue
		}
		in.add("oairecerif.person.affiliation", name, in.authority(org))
		in.add("oairecerif.affiliation.startDate", orPlaceholder(attr(a, "startDate")), "")
		in.add("oairecerif.affiliation.endDate", orPlaceholder(attr(a, "endDate")), "")
		in.add("oairecerif.affiliation.role", orPlaceholder(attr(a, "role")), "")
	}
}

// otherName joins the name parts of an OtherNames element with spaces, or
// returns its text when it has none.
func otherName(e *etree.Element) string {
	kids := e.ChildElements()
	if len(kids) == 0 {
		return crosswalk.Text(e)
	}
	parts := make([]string, 0, len(kids))
	for _, k := range kids {
		if t := crosswalk.Text(k); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

var projectFields = []simple{
	{"Title", "dc.title"},
	{"Acronym", "oairecerif.acronym"},
	{"StartDate", "oairecerif.project.startDate"},
	{"EndDate", "oairecerif.project.endDate"},
	{"Status", "oairecerif.project.status"},
	{"Keyword", "dc.subject"},
	{"Abstract", "dc.description.abstract"},
	{"OAMandate/Mandated", "oairecerif.oamandate"},
	{"OAMandate/URI", "oairecerif.oamandate.url"},
}

func (in *ingest) project(e *etree.Element) {
	in.simple(e, projectFields)
	for _, id := range e.FindElements("Identifier") {
		field := "oairecerif.identifier.url"
		if t := strings.ToLower(attr(id, "type")); strings.Contains(t, "openaire") || strings.Contains(t, "oaf") {
			field = "crispj.openaireid"
		}
		in.add(field, crosswalk.Text(id), "")
	}
	in.refs(e, "Consortium/Coordinator/OrgUnit", "Name", "crispj.coordinator")
	in.refs(e, "Consortium/Partner/OrgUnit", "Name", "crispj.partnerou")
	in.refs(e, "Consortium/Member/OrgUnit", "Name", "crispj.organization")
	for _, p := range e.FindElements("Team/PrincipalInvestigator/Person") {
		in.add("crispj.investigator", personName(p), in.authority(p))
	}
	for _, p := range e.FindElements("Team/Member/Person") {
		in.add("crispj.coinvestigators", personName(p), in.authority(p))
	}
}

var orgUnitFields = []simple{
	{"Name", "dc.title"},
	{"Acronym", "oairecerif.acronym"},
	{"Type", "dc.type"},
	{"Identifier", "organization.identifier"},
	{"Website", "oairecerif.identifier.url"},
}

func (in *ingest) orgUnit(e *etree.Element) {
	in.simple(e, orgUnitFields)
	in.refs(e, "PartOf/OrgUnit", "Name", "organization.parentOrganization")
}

func (in *ingest) simple(e *etree.Element, fields []simple) {
	for _, s := range fields {
		in.texts(e, s.path, s.field)
	}
}

// attr reads an attribute by name, ignoring the case of its first letter.
func attr(e *etree.Element, name string) string {
	if v := crosswalk.Attr(e, name); v != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(crosswalk.Attr(e, strings.ToUpper(name[:1])+name[1:]))
}

func childText(e *etree.Element, path string) string {
	if e == nil {
		return ""
	}
	return crosswalk.Text(e.FindElement(path))
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
