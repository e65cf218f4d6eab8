package templates

import (
	"strings"

	"resumebuilder-backend/internal/resumes"
)

// Document is the rendered layout: everything the HTML (or any downstream)
// writer needs, with no further reference to the source resume.
type Document struct {
	Variant        Variant
	Header         Header
	Main           []Section
	Side           []Section
	FontFamily     string
	LineSpacing    float64
	SectionSpacing int
	Accent         string // empty when the variant ignores the primary color
}

// Header is the identity region at the top of every variant.
type Header struct {
	Name       string
	Profession string
	Contact    []string
	ShowPhoto  bool
	PhotoURL   string
}

// Section is one renderable block.
type Section struct {
	Kind  SectionKind
	Title string
	Items []Item
}

// Item is one entry inside a section. Fields unused by a kind stay empty.
type Item struct {
	Primary   string // company / course / skill text
	Secondary string // role / institution
	Meta      string // period / year / level
	Body      string // description / summary paragraph
}

// Render maps a resume to a layout using the variant named by its
// customization, falling back to the default variant for unknown identifiers.
// Render never mutates its input and renders empty sections for empty lists.
func Render(doc resumes.Resume) Document {
	variant := VariantFor(doc.Customization.Template)
	cust := doc.Customization.WithSpacingDefaults()

	out := Document{
		Variant:        variant,
		Header:         buildHeader(doc, variant),
		FontFamily:     cust.FontFamily,
		LineSpacing:    cust.LineSpacing,
		SectionSpacing: cust.SectionSpacing,
	}
	if variant.UsesAccent {
		out.Accent = cust.PrimaryColor
	}

	for _, kind := range variant.Main {
		out.Main = append(out.Main, buildSection(doc, kind))
	}
	for _, kind := range variant.Side {
		out.Side = append(out.Side, buildSection(doc, kind))
	}
	return out
}

func buildHeader(doc resumes.Resume, variant Variant) Header {
	info := doc.PersonalInfo
	var contact []string
	for _, field := range []string{info.Phone, info.Email, info.City} {
		if strings.TrimSpace(field) != "" {
			contact = append(contact, field)
		}
	}
	return Header{
		Name:       info.FullName,
		Profession: info.Profession,
		Contact:    contact,
		ShowPhoto:  variant.SupportsPhoto && doc.Customization.ShowPhoto,
		PhotoURL:   info.PhotoURL,
	}
}

func buildSection(doc resumes.Resume, kind SectionKind) Section {
	switch kind {
	case SectionSummary:
		sec := Section{Kind: kind, Title: "Summary"}
		if strings.TrimSpace(doc.PersonalInfo.Summary) != "" {
			sec.Items = []Item{{Body: doc.PersonalInfo.Summary}}
		}
		return sec
	case SectionExperience:
		sec := Section{Kind: kind, Title: "Experience"}
		for _, exp := range doc.Experiences {
			sec.Items = append(sec.Items, Item{
				Primary:   exp.Company,
				Secondary: exp.Role,
				Meta:      joinMeta(exp.Period, string(exp.Level)),
				Body:      exp.Description,
			})
		}
		return sec
	case SectionEducation:
		sec := Section{Kind: kind, Title: "Education"}
		for _, edu := range doc.Education {
			sec.Items = append(sec.Items, Item{
				Primary:   edu.Course,
				Secondary: edu.Institution,
				Meta:      edu.Year,
			})
		}
		return sec
	case SectionSkills:
		sec := Section{Kind: kind, Title: "Skills"}
		for _, skill := range doc.Skills {
			sec.Items = append(sec.Items, Item{Primary: skill})
		}
		return sec
	default:
		return Section{Kind: kind}
	}
}

func joinMeta(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " · ")
}
