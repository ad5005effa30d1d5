package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

// Handoff is the content of a department handoff e-mail.
type Handoff struct {
	HandoffID       string
	Intent          string
	Department      string
	Urgency         string
	Priority        int
	Confidence      float64
	SuggestedAction string
	Text            string
	SessionID       string
	PageURL         string
	ContactEmail    string
	ContactPhone    string
	Services        []string
	ClassifiedAt    string
}

// Critical reports whether the handoff carries critical urgency.
func (h Handoff) Critical() bool {
	return h.Urgency == "critical"
}

type handoffEmailData struct {
	baseEmailData
	Handoff
	ConfidencePercent string
	ServiceList       string
}

func handoffSubject(h Handoff) string {
	if h.Critical() {
		return fmt.Sprintf(subjectHandoffCriticalFmt, h.Department, h.Intent)
	}
	return fmt.Sprintf(subjectHandoffFmt, h.Department, h.Intent)
}

func renderHandoff(h Handoff) (string, error) {
	heading := "Nieuwe chat overgedragen"
	if h.Critical() {
		heading = "Spoedmelding vanuit de chat"
	}

	data := handoffEmailData{
		baseEmailData: baseEmailData{
			Title:      handoffSubject(h),
			Heading:    heading,
			Subheading: h.SuggestedAction,
		},
		Handoff:           h,
		ConfidencePercent: fmt.Sprintf("%.0f%%", h.Confidence*100),
		ServiceList:       strings.Join(h.Services, ", "),
	}
	if h.PageURL != "" {
		data.CTALabel = "Open pagina"
		data.CTAURL = h.PageURL
	}
	return renderEmailTemplate("handoff.html", data)
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
