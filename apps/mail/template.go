package mail

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"
	"time"
)

// RenderTemplate renders the notification template with the given data.
func RenderTemplate(data TemplateData) (string, error) {
	tmpl, err := template.New("mail").Parse(DefaultTemplate)
	if err != nil {
		return "", err
	}

	if data.Date == "" {
		data.Date = time.Now().UTC().Format("January 2, 2006 at 15:04 MST")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)
var spacePattern = regexp.MustCompile(`\s+`)

// StripHTML removes HTML tags, used to derive the plain-text alternative.
func StripHTML(html string) string {
	text := tagPattern.ReplaceAllString(html, " ")

	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	text = strings.ReplaceAll(text, "&#39;", "'")

	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}
