package notifyfn

import (
	"bytes"
	"fmt"
	"html/template"
)

// Payload is the request body accepted by the function.
type Payload struct {
	Type           string         `json:"type"`
	RecipientEmail string         `json:"recipientEmail"`
	RecipientName  string         `json:"recipientName"`
	Details        map[string]any `json:"details"`
}

type view struct {
	Name    string
	details map[string]any
}

// D returns a detail value as text, or "" when absent.
func (v view) D(key string) string {
	val, ok := v.details[key]
	if !ok || val == nil {
		return ""
	}
	return fmt.Sprint(val)
}

type emailTemplate struct {
	subject string
	body    *template.Template
}

const layoutStart = `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;color:#1f2937">
<h2 style="color:#15803d">AgroFund</h2>
<p>Hello {{.Name}},</p>`

const layoutEnd = `<p style="color:#6b7280;font-size:12px">You are receiving this email because you have an AgroFund account.</p>
</div>`

var templates = map[string]emailTemplate{
	"payment_approved": {
		subject: "Your payment has been approved",
		body: template.Must(template.New("payment_approved").Parse(layoutStart + `
<p>Your payment of <strong>{{.D "amount"}}</strong> for <strong>{{.D "packageName"}}</strong> has been verified and your investment is now active.</p>
{{if .D "tagId"}}<p>Your asset tag: <strong>{{.D "tagId"}}</strong></p>{{end}}
{{if .D "reference"}}<p>Reference: {{.D "reference"}}</p>{{end}}
` + layoutEnd)),
	},
	"payment_rejected": {
		subject: "Your payment could not be verified",
		body: template.Must(template.New("payment_rejected").Parse(layoutStart + `
<p>We could not verify your payment of <strong>{{.D "amount"}}</strong>.</p>
{{if .D "reason"}}<p>Reason: {{.D "reason"}}</p>{{end}}
<p>Please submit a new payment proof from your dashboard or contact support.</p>
` + layoutEnd)),
	},
	"farm_visit_confirmed": {
		subject: "Your farm visit is confirmed",
		body: template.Must(template.New("farm_visit_confirmed").Parse(layoutStart + `
<p>Your visit to <strong>{{.D "farmName"}}</strong> is confirmed for <strong>{{.D "visitDate"}}</strong> at <strong>{{.D "visitTime"}}</strong>.</p>
{{if .D "guests"}}<p>Guests: {{.D "guests"}}</p>{{end}}
{{if .D "location"}}<p>Location: {{.D "location"}}</p>{{end}}
` + layoutEnd)),
	},
}

// Render builds the subject and HTML body for a payload.
func Render(p Payload) (string, string, error) {
	tpl, ok := templates[p.Type]
	if !ok {
		return "", "", fmt.Errorf("unknown notification type: %q", p.Type)
	}
	name := p.RecipientName
	if name == "" {
		name = "there"
	}

	var buf bytes.Buffer
	if err := tpl.body.Execute(&buf, view{Name: name, details: p.Details}); err != nil {
		return "", "", fmt.Errorf("failed to render %s: %w", p.Type, err)
	}
	return tpl.subject, buf.String(), nil
}
