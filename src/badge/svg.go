package badge

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"
	"text/template"
)

// Flat shields-style badge: 20px tall, 3px corner radius, text drawn
// twice for the drop shadow. All text is pre-escaped before it reaches
// the template.
var svgTpl = template.Must(template.New("badge").Parse(strings.Join([]string{
	`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Total}}" height="20">`,
	`<defs>{{if .FontCSS}}<style type="text/css">{{.FontCSS}}</style>{{end}}`,
	`<linearGradient id="b" x2="0" y2="100%">`,
	`<stop offset="0" stop-color="#bbb" stop-opacity=".1"/>`,
	`<stop offset="1" stop-opacity=".1"/>`,
	`</linearGradient></defs>`,
	`<mask id="a"><rect width="{{.Total}}" height="20" rx="3" fill="#fff"/></mask>`,
	`<g mask="url(#a)">`,
	`<rect width="{{.LabelW}}" height="20" fill="#555"/>`,
	`<rect x="{{.LabelW}}" width="{{.ValueW}}" height="20" fill="{{.Color}}"/>`,
	`<rect width="{{.Total}}" height="20" fill="url(#b)"/>`,
	`</g>`,
	`<g fill="#fff" text-anchor="middle" font-family="{{.Family}}" font-size="{{.Size}}">`,
	`<text x="{{.LabelX}}" y="15" fill="#010101" fill-opacity=".3">{{.Label}}</text>`,
	`<text x="{{.LabelX}}" y="14">{{.Label}}</text>`,
	`<text x="{{.ValueX}}" y="15" fill="#010101" fill-opacity=".3">{{.Value}}</text>`,
	`<text x="{{.ValueX}}" y="14">{{.Value}}</text>`,
	`</g></svg>`,
}, "")))

// Generate renders b as a shields-compatible SVG document. File-loaded
// fonts ride along as an embedded @font-face; built-in fonts are named
// in the family stack only.
func (e *Engine) Generate(b Badge) string {
	labelW := int(math.Round(e.metrics.TextWidth(b.Label))) + 10
	valueW := int(math.Round(e.metrics.TextWidth(b.Value))) + 10
	name := e.metrics.FontName()

	var fontCSS string
	if data := e.metrics.FontData(); len(data) > 0 {
		fontCSS = fontFaceCSS(name, data)
	}

	var out strings.Builder
	err := svgTpl.Execute(&out, map[string]any{
		"Total":   labelW + valueW,
		"LabelW":  labelW,
		"ValueW":  valueW,
		"LabelX":  labelW / 2,
		"ValueX":  labelW + valueW/2,
		"Label":   esc(b.Label),
		"Value":   esc(b.Value),
		"Color":   esc(b.Color),
		"Family":  esc(fmt.Sprintf("'%s',Verdana,Geneva,DejaVu Sans,sans-serif", name)),
		"Size":    e.metrics.FontSize(),
		"FontCSS": fontCSS,
	})
	if err != nil {
		// Static template rendering into memory; failure here is a
		// programmer error.
		panic(err)
	}
	return out.String()
}

// fontFaceCSS embeds font bytes as a base64 @font-face rule. The first
// four bytes say whether the file is OpenType ("OTTO") or TrueType.
func fontFaceCSS(name string, data []byte) string {
	short, css := "ttf", "truetype"
	if len(data) >= 4 && string(data[:4]) == "OTTO" {
		short, css = "otf", "opentype"
	}
	return fmt.Sprintf(
		`@font-face{font-family:'%s';src:url(data:font/%s;base64,%s) format('%s')}`,
		name, short, base64.StdEncoding.EncodeToString(data), css,
	)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

func esc(s string) string { return xmlEscaper.Replace(s) }
