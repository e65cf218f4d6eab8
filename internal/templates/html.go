package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: {{.Font}}, sans-serif; line-height: {{.LineSpacing}}; color: #1f2937; margin: 0; }
.page { max-width: 800px; margin: 0 auto; padding: 32px; }
.header { margin-bottom: {{.SectionSpacing}}px; }
.header .name { font-size: 28px; font-weight: 700; {{if .Accent}}color: {{.Accent}};{{end}} }
.header .profession { font-size: 16px; color: #4b5563; }
.header .contact { font-size: 13px; color: #6b7280; }
.photo { width: 72px; height: 72px; border-radius: 50%; background: #e5e7eb; float: right; }
.columns { display: flex; gap: 32px; }
.main { flex: 2; }
.side { flex: 1; }
.section { margin-bottom: {{.SectionSpacing}}px; }
.section h2 { font-size: 14px; text-transform: uppercase; letter-spacing: 1px; {{if .Accent}}color: {{.Accent}}; border-bottom: 2px solid {{.Accent}};{{else}}border-bottom: 1px solid #d1d5db;{{end}} padding-bottom: 4px; }
.item { margin-bottom: 12px; }
.item .primary { font-weight: 600; }
.item .secondary { color: #4b5563; }
.item .meta { font-size: 12px; color: #6b7280; }
.item .body { font-size: 13px; white-space: pre-line; }
</style>
</head>
<body>
<div class="page">
  <div class="header">
    {{if .Doc.Header.ShowPhoto}}{{if .Doc.Header.PhotoURL}}<img class="photo" src="{{.Doc.Header.PhotoURL}}" alt="">{{else}}<div class="photo"></div>{{end}}{{end}}
    <div class="name">{{.Doc.Header.Name}}</div>
    {{if .Doc.Header.Profession}}<div class="profession">{{.Doc.Header.Profession}}</div>{{end}}
    {{if .Doc.Header.Contact}}<div class="contact">{{range $i, $line := .Doc.Header.Contact}}{{if $i}} &middot; {{end}}{{$line}}{{end}}</div>{{end}}
  </div>
  {{if .Doc.Side}}
  <div class="columns">
    <div class="main">{{range .Doc.Main}}{{template "section" .}}{{end}}</div>
    <div class="side">{{range .Doc.Side}}{{template "section" .}}{{end}}</div>
  </div>
  {{else}}
  {{range .Doc.Main}}{{template "section" .}}{{end}}
  {{end}}
</div>
</body>
</html>
{{define "section"}}
<div class="section section-{{.Kind}}">
  <h2>{{.Title}}</h2>
  {{range .Items}}
  <div class="item">
    {{if .Primary}}<span class="primary">{{.Primary}}</span>{{end}}
    {{if .Secondary}}<span class="secondary">{{.Secondary}}</span>{{end}}
    {{if .Meta}}<div class="meta">{{.Meta}}</div>{{end}}
    {{if .Body}}<div class="body">{{.Body}}</div>{{end}}
  </div>
  {{end}}
</div>
{{end}}`

var page = template.Must(template.New("resume").Parse(pageTemplate))

type pageData struct {
	Doc            Document
	Font           string
	Accent         template.CSS
	LineSpacing    float64
	SectionSpacing int
}

// HTML writes a rendered document as a standalone HTML page.
func HTML(doc Document) (string, error) {
	data := pageData{
		Doc:            doc,
		Font:           doc.FontFamily,
		LineSpacing:    doc.LineSpacing,
		SectionSpacing: doc.SectionSpacing,
	}
	if data.Font == "" {
		data.Font = "Inter"
	}
	if hexColor.MatchString(doc.Accent) {
		data.Accent = template.CSS(doc.Accent)
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
