// internal/render/render.go
package render

import (
	"html"
	"regexp"
	"strings"

	"github.com/unclebandit/mailblast-backend/internal/model"
)

// Render substitutes {column} placeholders in template with values from the
// recipient row. Placeholders with no matching column are left verbatim so a
// partially personalized template still goes out instead of aborting the
// campaign. Values are inserted as-is, without HTML escaping: the body is
// operator-authored HTML, and CSV values are trusted by the same operator.
func Render(template string, row model.RecipientRow) string {
	result := template
	for k, v := range row {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML produces a best-effort plain-text version of an HTML body for the
// text/plain alternative part: tags removed, entities decoded.
func StripHTML(body string) string {
	plain := tagPattern.ReplaceAllString(body, "")
	return html.UnescapeString(plain)
}
