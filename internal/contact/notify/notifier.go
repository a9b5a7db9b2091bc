package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/thinkzo/intake/internal/contact/domain"
	"github.com/thinkzo/intake/internal/providers/email"
)

// Notifier renders and sends the operator notification for one submission.
// Callers treat failures as best-effort: a send error never unwinds the
// submission itself.
type Notifier struct {
	provider email.Provider
	from     string
	mailbox  string
}

func New(provider email.Provider, from, operatorMailbox string) *Notifier {
	return &Notifier{
		provider: provider,
		from:     from,
		mailbox:  operatorMailbox,
	}
}

func (n *Notifier) Configured() bool {
	return n != nil && n.provider != nil && n.provider.Configured() && n.mailbox != ""
}

// Send renders the fixed notification template and attempts one delivery,
// with the submitter's address as reply-to.
func (n *Notifier) Send(ctx context.Context, submission domain.ContactSubmission) error {
	body, err := renderBody(submission)
	if err != nil {
		return fmt.Errorf("render notification: %w", err)
	}

	return n.provider.Send(ctx, email.Message{
		From:    n.from,
		To:      []string{n.mailbox},
		ReplyTo: submission.Email,
		Subject: fmt.Sprintf("New Project Inquiry from %s - Thinkzo.ai", submission.Name),
		HTML:    body,
	})
}

type templateData struct {
	domain.ContactSubmission
	SubmittedAt string
}

func renderBody(submission domain.ContactSubmission) (string, error) {
	var buf bytes.Buffer
	err := bodyTemplate.Execute(&buf, templateData{
		ContactSubmission: submission,
		SubmittedAt:       time.Now().UTC().Format(time.RFC1123),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

var bodyTemplate = template.Must(template.New("contact_notification").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Contact Form Submission</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #2c3e50; padding: 30px; border-radius: 10px; margin-bottom: 20px;">
        <h1 style="color: white; margin: 0; text-align: center;">New Project Inquiry</h1>
        <p style="color: #f0f0f0; text-align: center; margin: 10px 0 0 0;">Thinkzo.ai Contact Form</p>
    </div>

    <div style="background: #f8f9fa; padding: 25px; border-radius: 8px; margin-bottom: 20px;">
        <h2 style="color: #2c3e50; margin-top: 0;">Contact Information</h2>
        <table style="width: 100%; border-collapse: collapse;">
            <tr>
                <td style="padding: 8px 0; font-weight: bold; width: 140px;">Name:</td>
                <td style="padding: 8px 0;">{{.Name}}</td>
            </tr>
            <tr>
                <td style="padding: 8px 0; font-weight: bold;">Email:</td>
                <td style="padding: 8px 0;">{{.Email}}</td>
            </tr>
            <tr>
                <td style="padding: 8px 0; font-weight: bold;">Company:</td>
                <td style="padding: 8px 0;">{{if .Company}}{{.Company}}{{else}}Not provided{{end}}</td>
            </tr>
            <tr>
                <td style="padding: 8px 0; font-weight: bold;">Service:</td>
                <td style="padding: 8px 0;">{{if .ServiceType}}{{.ServiceType}}{{else}}Not specified{{end}}</td>
            </tr>
            <tr>
                <td style="padding: 8px 0; font-weight: bold;">Budget:</td>
                <td style="padding: 8px 0;">{{if .BudgetRange}}{{.BudgetRange}}{{else}}Not specified{{end}}</td>
            </tr>
            <tr>
                <td style="padding: 8px 0; font-weight: bold;">Timeline:</td>
                <td style="padding: 8px 0;">{{if .TimeFrame}}{{.TimeFrame}}{{else}}Not specified{{end}}</td>
            </tr>
        </table>
    </div>

    <div style="background: #e8f4fd; padding: 25px; border-radius: 8px; border-left: 4px solid #3498db;">
        <h3 style="color: #2c3e50; margin-top: 0;">Project Description</h3>
        <p style="white-space: pre-wrap; background: white; padding: 15px; border-radius: 5px; border: 1px solid #ddd;">{{.Message}}</p>
    </div>

    <div style="background: #f1f2f6; padding: 20px; border-radius: 8px; margin-top: 20px; text-align: center;">
        <p style="color: #7f8c8d; margin: 0; font-size: 14px;">
            Submitted: {{.SubmittedAt}}<br>
            Contact ID: {{.ID}}
        </p>
    </div>

    <div style="text-align: center; margin-top: 30px; padding: 20px; background: #2c3e50; border-radius: 8px;">
        <p style="color: white; margin: 0; font-weight: bold;">Reply directly to this email to contact {{.Name}}</p>
    </div>
</body>
</html>
`))
