// Package legal serves the static legal documents bundled with the client.
package legal

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed docs/*.md
var docs embed.FS

// ErrNotFound is returned for an unknown slug.
var ErrNotFound = errors.New("legal: document not found")

// Document is one legal page. Body is markdown.
type Document struct {
	Slug  string
	Title string
	Body  string
}

// order fixes the listing order shown to users.
var order = []string{"terms", "privacy", "cookies", "acceptable-use"}

// mdRenderer escapes raw HTML in the source (WithUnsafe is not set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// List returns every bundled document.
func List() []Document {
	out := make([]Document, 0, len(order))
	for _, slug := range order {
		if d, err := Get(slug); err == nil {
			out = append(out, d)
		}
	}
	return out
}

// Get returns the document for slug.
func Get(slug string) (Document, error) {
	if strings.ContainsAny(slug, "/\\.") || slug == "" {
		return Document{}, ErrNotFound
	}
	data, err := docs.ReadFile("docs/" + slug + ".md")
	if err != nil {
		return Document{}, ErrNotFound
	}
	body := string(data)
	return Document{Slug: slug, Title: title(body, slug), Body: body}, nil
}

// HTML renders the document for slug.
func HTML(slug string) (string, error) {
	d, err := Get(slug)
	if err != nil {
		return "", err
	}
	return render(d.Body)
}

// IndexHTML renders a linked list of every document. Links are relative to
// base, e.g. "/legal".
func IndexHTML(base string) (string, error) {
	var b strings.Builder
	b.WriteString("# Legal\n\n")
	for _, d := range List() {
		fmt.Fprintf(&b, "- [%s](%s/%s)\n", d.Title, strings.TrimRight(base, "/"), d.Slug)
	}
	return render(b.String())
}

func render(src string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Text renders the document as plain terminal text: headings lose their
// markers and are underlined.
func Text(d Document) string {
	var b strings.Builder
	for _, line := range strings.Split(d.Body, "\n") {
		trimmed := strings.TrimLeft(line, "#")
		if len(trimmed) != len(line) {
			heading := strings.TrimSpace(trimmed)
			b.WriteString(heading)
			b.WriteByte('\n')
			b.WriteString(strings.Repeat("─", len([]rune(heading))))
			b.WriteByte('\n')
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func title(body, fallback string) string {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return fallback
}
