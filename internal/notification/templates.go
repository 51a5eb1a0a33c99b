package notification

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	subjectQuoteConfirmation = "Your Novyrix quote request"
	subjectQuoteFollowUp     = "Still thinking it over? Your Novyrix quote"
	subjectHandoffAlert      = "Support chat: visitor waiting for a human"
)

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "layout_top"}}<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif; color: #1f2933; margin: 0; padding: 24px;">
<div style="max-width: 560px; margin: 0 auto;">{{end}}

{{define "layout_bottom"}}<p style="color: #7b8794; font-size: 12px;">Novyrix &mdash; Nairobi, Kenya</p>
</div></body></html>{{end}}

{{define "quote_confirmation"}}{{template "layout_top"}}
<h2>Thanks, {{.ClientName}}!</h2>
<p>We received your {{.ServiceType}} quote request of <strong>{{.TotalText}}</strong>.</p>
<p>Our team will reach out within one business day to walk you through the next steps.</p>
<p style="color: #7b8794; font-size: 13px;">Reference: {{.RequestID}}</p>
{{template "layout_bottom"}}{{end}}

{{define "quote_followup"}}{{template "layout_top"}}
<h2>Hi {{.ClientName}},</h2>
<p>Just checking in on the {{.ServiceType}} quote of <strong>{{.TotalText}}</strong> you built with our consultant.</p>
<p>Reply to this email or start a new chat if anything has changed &mdash; the quote is still valid.</p>
<p style="color: #7b8794; font-size: 13px;">Reference: {{.RequestID}}</p>
{{template "layout_bottom"}}{{end}}

{{define "handoff_alert"}}{{template "layout_top"}}
<h2>A visitor asked for a human</h2>
<p><strong>Session:</strong> {{.SessionID}}</p>
{{if .Name}}<p><strong>Name:</strong> {{.Name}}</p>{{end}}
{{if .Email}}<p><strong>Email:</strong> {{.Email}}</p>{{end}}
<p><strong>Message:</strong></p>
<blockquote style="border-left: 3px solid #cbd2d9; margin: 0; padding-left: 12px;">{{.Message}}</blockquote>
{{template "layout_bottom"}}{{end}}
`))

func renderEmailTemplate(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render email %s: %w", name, err)
	}
	return buf.String(), nil
}
