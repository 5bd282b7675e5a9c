package notify

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/rotisserie/eris"

	"github.com/agentgrowth/leadflow/internal/analysis"
	"github.com/agentgrowth/leadflow/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// emailActions is how many recommended actions the email previews.
const emailActions = 3

type emailData struct {
	BrandName         string
	FirstName         string
	CurrentEarnings   string
	ProjectedEarnings string
	Improvement       string
	Actions           []string
	BookingURL        string
	SupportEmail      string
	Fallback          bool
}

type templates struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

func parseTemplates() (*templates, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/report.html.tmpl")
	if err != nil {
		return nil, eris.Wrap(err, "notify: parse html template")
	}
	text, err := texttemplate.New("report.txt.tmpl").
		Funcs(texttemplate.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(templateFS, "templates/report.txt.tmpl")
	if err != nil {
		return nil, eris.Wrap(err, "notify: parse text template")
	}
	return &templates{html: html, text: text}, nil
}

func (t *templates) render(data emailData) (html, text string, err error) {
	var hb, tb bytes.Buffer
	if err := t.html.Execute(&hb, data); err != nil {
		return "", "", eris.Wrap(err, "notify: render html body")
	}
	if err := t.text.Execute(&tb, data); err != nil {
		return "", "", eris.Wrap(err, "notify: render text body")
	}
	return hb.String(), tb.String(), nil
}

func (d *Dispatcher) emailData(l model.Lead, r analysis.Result, fallback bool) emailData {
	first := l.FirstName
	if first == "" {
		first = "there"
	}
	actions := r.RecommendedActions
	if len(actions) > emailActions {
		actions = actions[:emailActions]
	}
	return emailData{
		BrandName:         d.cfg.BrandName,
		FirstName:         first,
		CurrentEarnings:   analysis.Currency(r.CurrentEarnings),
		ProjectedEarnings: analysis.Currency(r.ProjectedEarnings),
		Improvement:       r.ImprovementPercent,
		Actions:           actions,
		BookingURL:        d.cfg.BookingURL,
		SupportEmail:      d.cfg.SupportEmail,
		Fallback:          fallback,
	}
}
