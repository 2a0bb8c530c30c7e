package meter

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/authsecure/backend/internal/domain/valueobject"
)

var fragment = template.Must(template.New("meter").Parse(
	`<div class="strength-meter strength-meter--{{.Strategy}} tier-{{.Tier}}" data-score="{{.Score}}" aria-live="polite">` +
		`{{if .Empty}}<p class="strength-meter__prompt">{{.Prompt}}</p>` +
		`{{else}}` +
		`{{if eq .Strategy "continuous"}}` +
		`<div class="strength-meter__track"><div class="strength-meter__bar" style="width: {{.Percent}}%"></div></div>` +
		`{{else}}` +
		`<div class="strength-meter__segments">{{range .Segments}}<span class="strength-meter__segment{{if .Filled}} is-filled{{end}}"></span>{{end}}</div>` +
		`{{end}}` +
		`<p class="strength-meter__caption">{{.Caption}}</p>` +
		`{{end}}</div>`,
))

// HTML renders level as an HTML fragment for the web screens.
func (r *Renderer) HTML(level valueobject.StrengthLevel) (template.HTML, error) {
	var buf bytes.Buffer
	if err := fragment.Execute(&buf, r.View(level)); err != nil {
		return "", fmt.Errorf("failed to render strength meter: %w", err)
	}
	return template.HTML(buf.String()), nil
}
