package formula

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	"ruby": rubyString,
	"pad":  pad,
}

// Render renders ctx with the template for strategy.
func Render(strategy Strategy, ctx *Context) (string, error) {
	if ctx == nil {
		return "", fmt.Errorf("render: nil context")
	}
	return RenderValues(strategy, ctx.Values())
}

// RenderValues renders an explicit value map. A template reference to a
// key the map lacks fails with the template engine's error.
func RenderValues(strategy Strategy, values map[string]any) (string, error) {
	name, err := strategy.templateName()
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(funcs).
		ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// rubyString quotes s as a Ruby double-quoted literal with interpolation
// disabled.
func rubyString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\', '#':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// pad right-pads s with spaces to width.
func pad(width int, s string) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
