// Package templates renders the transactional emails sent by AuthSecure.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"sort"
	"strings"
	texttemplate "text/template"

	domainerror "github.com/authsecure/backend/internal/domain/error"
)

//go:embed *.html *.txt
var files embed.FS

// Message is a rendered email body.
type Message struct {
	HTML string
	Text string
}

// Catalog holds an HTML and a plain-text template for every email kind.
type Catalog struct {
	html map[string]*htmltemplate.Template
	text map[string]*texttemplate.Template
}

// Load parses the embedded templates. A kind without a text body is an error,
// as is any data key a template references but the job does not carry.
func Load() (*Catalog, error) {
	paths, err := fs.Glob(files, "*.html")
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		html: make(map[string]*htmltemplate.Template, len(paths)),
		text: make(map[string]*texttemplate.Template, len(paths)),
	}
	for _, path := range paths {
		kind := strings.TrimSuffix(path, ".html")

		h, err := htmltemplate.ParseFS(files, path)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		t, err := texttemplate.ParseFS(files, kind+".txt")
		if err != nil {
			return nil, fmt.Errorf("template %q has no text body: %w", kind, err)
		}

		c.html[kind] = h.Option("missingkey=error")
		c.text[kind] = t.Option("missingkey=error")
	}
	return c, nil
}

// Kinds returns the loaded template kinds in sorted order.
func (c *Catalog) Kinds() []string {
	kinds := make([]string, 0, len(c.html))
	for kind := range c.html {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Render executes both bodies of kind against data.
func (c *Catalog) Render(kind string, data map[string]string) (Message, error) {
	h, ok := c.html[kind]
	if !ok {
		return Message{}, fmt.Errorf("%w: %q", domainerror.ErrUnknownEmailTemplate, kind)
	}

	var html, text bytes.Buffer
	if err := h.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", kind, err)
	}
	if err := c.text[kind].Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", kind, err)
	}
	return Message{HTML: html.String(), Text: text.String()}, nil
}
