// Package web holds the server-rendered screens: templates, static assets and page data.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page template names.
const (
	PageLogin          = "login.html"
	PageRegistration   = "registration.html"
	PageForgotPassword = "forgot_password.html"
	PageResetPassword  = "reset_password.html"
	PageDashboard      = "dashboard.html"
	PageTerms          = "terms.html"
	PagePrivacy        = "privacy.html"
)

// Page is the data every screen template receives.
type Page struct {
	Title       string
	Description string
	Year        int

	Error   string
	Notice  string
	Success string

	// Fields holds per-field validation messages keyed by form field name.
	Fields map[string]string
	// Values echoes submitted non-secret form values back into the form.
	Values map[string]string

	Meter template.HTML
	Token string

	UserName  string
	UserEmail string
}

// NewPage creates page data with the card title and description set.
func NewPage(title, description string) Page {
	return Page{
		Title:       title,
		Description: description,
		Year:        time.Now().Year(),
		Fields:      map[string]string{},
		Values:      map[string]string{},
	}
}

// Templates parses every screen template and the shared partials.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse screen templates: %w", err)
	}
	return tmpl, nil
}

// Static returns the static asset file system rooted at the static directory.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("static assets missing: %v", err))
	}
	return http.FS(sub)
}
