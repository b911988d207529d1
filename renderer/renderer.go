// Package renderer turns simulation reports into markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/pea"
)

//go:embed templates/*.md
var templates embed.FS

// funcs are available in every template.
var funcs = template.FuncMap{
	"na": func(m *pea.Money) string {
		if m == nil {
			return "N.A"
		}
		return m.SignedString()
	},
	"month": func(d pea.Date) string { return d.Format("January 2006") },
}

// Valuation renders the dashboard of the account.
func Valuation(v pea.Valuation) string {
	return renderTemplate("valuation", "valuation.md", v)
}

// Listing renders the securities quoted on a month.
func Listing(l pea.MarketListing) string {
	return renderTemplate("listing", "listing.md", l)
}

// Closing renders the final statement of the account.
func Closing(c pea.Closing) string {
	return renderTemplate("closing", "closing.md", c)
}

// Month renders the dividends received and the new date.
func Month(r pea.MonthReport) string {
	return renderTemplate("month", "month.md", r)
}

// renderTemplate renders a single template file from the embedded templates.
func renderTemplate(templateName, file string, data any) string {
	content, err := fs.ReadFile(templates, "templates/"+file)
	if err != nil {
		return fmt.Sprintf("error reading template %q: %v", file, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(content))
	if err != nil {
		return fmt.Sprintf("error parsing template %q: %v", file, err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
