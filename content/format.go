package content

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

// SupportLevel states how well the repository preserves a format.
type SupportLevel int

const (
	SupportUnknown SupportLevel = iota
	SupportKnown
	SupportSupported
)

var supportLevelNames = []string{"UNKNOWN", "KNOWN", "SUPPORTED"}

// String returns the support level name.
func (l SupportLevel) String() string {
	if int(l) >= 0 && int(l) < len(supportLevelNames) {
		return supportLevelNames[l]
	}
	return supportLevelNames[0]
}

// ParseSupportLevel accepts a name or the numeric level.
func ParseSupportLevel(s string) SupportLevel {
	l, _ := LookupSupportLevel(s)
	return l
}

// LookupSupportLevel is ParseSupportLevel that reports unrecognized input.
func LookupSupportLevel(s string) (SupportLevel, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range supportLevelNames {
		if name == s || s == string(rune('0'+i)) {
			return SupportLevel(i), true
		}
	}
	return SupportUnknown, false
}

// BitstreamFormat describes a file format known to the repository.
type BitstreamFormat struct {
	ID               int
	ShortDescription string
	Description      string
	MIMEType         string
	SupportLevel     SupportLevel
	Internal         bool
	Extensions       []string
}

// Short descriptions of formats the crosswalks refer to by name.
const (
	FormatUnknown   = "Unknown"
	FormatLicense   = "License"
	FormatCCLicense = "CC License"
)

// FormatRegistry holds the bitstream formats.
type FormatRegistry struct {
	mu      sync.RWMutex
	formats []*BitstreamFormat
}

// NewFormatRegistry returns a registry seeded with common formats.
func NewFormatRegistry() *FormatRegistry {
	r := &FormatRegistry{}
	defaults := []BitstreamFormat{
		{ShortDescription: FormatUnknown, Description: "Unknown data format", MIMEType: "application/octet-stream", SupportLevel: SupportUnknown},
		{ShortDescription: FormatLicense, Description: "Item-specific license agreed upon to submission", MIMEType: "text/plain; charset=utf-8", SupportLevel: SupportSupported, Internal: true},
		{ShortDescription: FormatCCLicense, Description: "Item-specific Creative Commons license agreed upon to submission", MIMEType: "text/html; charset=utf-8", SupportLevel: SupportSupported, Internal: true},
		{ShortDescription: "RDF XML", Description: "RDF serialized in XML", MIMEType: "application/rdf+xml; charset=utf-8", SupportLevel: SupportSupported, Extensions: []string{"rdf"}},
		{ShortDescription: "Adobe PDF", Description: "Adobe Portable Document Format", MIMEType: "application/pdf", SupportLevel: SupportKnown, Extensions: []string{"pdf"}},
		{ShortDescription: "XML", Description: "Extensible Markup Language", MIMEType: "text/xml", SupportLevel: SupportKnown, Extensions: []string{"xml"}},
		{ShortDescription: "Text", Description: "Plain Text", MIMEType: "text/plain", SupportLevel: SupportKnown, Extensions: []string{"txt", "asc"}},
		{ShortDescription: "HTML", Description: "Hypertext Markup Language", MIMEType: "text/html", SupportLevel: SupportKnown, Extensions: []string{"htm", "html"}},
		{ShortDescription: "CSV", Description: "Comma-Separated Values", MIMEType: "text/csv", SupportLevel: SupportKnown, Extensions: []string{"csv"}},
		{ShortDescription: "JPEG", Description: "Joint Photographic Experts Group/JPEG File Interchange Format (JFIF)", MIMEType: "image/jpeg", SupportLevel: SupportKnown, Extensions: []string{"jpeg", "jpg"}},
		{ShortDescription: "PNG", Description: "Portable Network Graphics", MIMEType: "image/png", SupportLevel: SupportKnown, Extensions: []string{"png"}},
		{ShortDescription: "GIF", Description: "Graphics Interchange Format", MIMEType: "image/gif", SupportLevel: SupportKnown, Extensions: []string{"gif"}},
		{ShortDescription: "TIFF", Description: "Tag Image File Format", MIMEType: "image/tiff", SupportLevel: SupportKnown, Extensions: []string{"tiff", "tif"}},
		{ShortDescription: "Microsoft Word XML", Description: "Microsoft Word XML", MIMEType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", SupportLevel: SupportKnown, Extensions: []string{"docx"}},
		{ShortDescription: "JSON", Description: "JavaScript Object Notation", MIMEType: "application/json", SupportLevel: SupportKnown, Extensions: []string{"json"}},
	}
	for i := range defaults {
		f := defaults[i]
		r.Add(&f)
	}
	return r
}

// Add registers f and assigns it an id when it has none.
func (r *FormatRegistry) Add(f *BitstreamFormat) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == 0 {
		f.ID = len(r.formats) + 1
	}
	r.formats = append(r.formats, f)
}

// ByShortDescription finds a format by its short description.
func (r *FormatRegistry) ByShortDescription(name string) *BitstreamFormat {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.formats {
		if strings.EqualFold(f.ShortDescription, name) {
			return f
		}
	}
	return nil
}

// ByMIMEType finds the first non-internal format with the given MIME type.
// Parameters such as charset are ignored.
func (r *FormatRegistry) ByMIMEType(mimeType string) *BitstreamFormat {
	want := baseMIME(mimeType)
	if want == "" {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.formats {
		if !f.Internal && baseMIME(f.MIMEType) == want {
			return f
		}
	}
	return nil
}

// ByExtension finds a format by file extension.
func (r *FormatRegistry) ByExtension(ext string) *BitstreamFormat {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.formats {
		for _, e := range f.Extensions {
			if e == ext {
				return f
			}
		}
	}
	return nil
}

// Unknown returns the Unknown format.
func (r *FormatRegistry) Unknown() *BitstreamFormat {
	return r.ByShortDescription(FormatUnknown)
}

// Guess picks a format for a file from its name, then from its content.
func (r *FormatRegistry) Guess(name string, data []byte) *BitstreamFormat {
	if f := r.ByExtension(filepath.Ext(name)); f != nil {
		return f
	}
	if len(data) > 0 {
		for m := mimetype.Detect(data); m != nil; m = m.Parent() {
			if f := r.ByMIMEType(m.String()); f != nil {
				return f
			}
		}
	}
	return r.Unknown()
}

// List returns the formats ordered by id.
func (r *FormatRegistry) List() []*BitstreamFormat {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*BitstreamFormat, len(r.formats))
	copy(out, r.formats)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func baseMIME(s string) string {
	base, _, _ := strings.Cut(s, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
