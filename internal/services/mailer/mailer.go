// Package mailer delivers rendered solar reports by email. Two channels are
// supported: direct SMTP (Gmail app-password style) and AWS SES. Both send
// the same HTML body with the PDF report attached.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"gopkg.in/gomail.v2"
)

// Delivery failure classification.
var (
	ErrAuthFailed        = errors.New("email authentication failed, check credentials")
	ErrAttachmentMissing = errors.New("report attachment not found")
)

// Mailer is the delivery channel contract used by the report pipeline.
type Mailer interface {
	// SendReport emails the rendered report to the recipient.
	SendReport(ctx context.Context, to, name, pdfPath string) error
	// TestConnection verifies the channel is reachable and authenticated
	// without sending anything.
	TestConnection(ctx context.Context) error
}

// bodyTemplate is the HTML email body sent with every report.
var bodyTemplate = template.Must(template.New("report_email").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 20px; text-align: center; border-radius: 10px 10px 0 0; }
        .content { padding: 30px; background-color: #f9f9f9; }
        .highlight { background-color: #fff3cd; padding: 15px; border-left: 4px solid #ffc107; margin: 20px 0; }
        .footer { text-align: center; padding: 20px; font-size: 12px; color: #666; background-color: #f1f1f1; border-radius: 0 0 10px 10px; }
    </style>
</head>
<body>
    <div class="header"><h1>Your Solar Energy Report is Ready!</h1></div>
    <div class="content">
        <p>Dear {{.Name}},</p>
        <p>Thank you for your interest in solar energy! We've analyzed your property and prepared a comprehensive solar potential report just for you.</p>
        <div class="highlight">
            <strong>Your personalized report includes:</strong>
            <ul>
                <li>Detailed solar potential analysis for your location</li>
                <li>Recommended system size and specifications</li>
                <li>Financial projections and savings estimates</li>
                <li>Environmental impact calculations</li>
                <li>Visual charts and next steps</li>
            </ul>
        </div>
        <p>Your complete solar energy report is attached as a PDF file. Please review it carefully and don't hesitate to reach out if you have any questions.</p>
        <p><strong>Next Steps:</strong></p>
        <ol>
            <li>Review your personalized report</li>
            <li>Consider the financial and environmental benefits</li>
            <li>Get quotes from certified solar installers</li>
            <li>Check for available incentives and rebates</li>
        </ol>
        <p>Best regards,<br><strong>Solar Energy Analysis Team</strong></p>
    </div>
    <div class="footer">
        <p>This is an automated report. The estimates provided are based on available data and standard assumptions. Please consult with certified solar professionals for accurate assessments specific to your property.</p>
    </div>
</body>
</html>`))

// renderBody renders the HTML email body for a recipient.
func renderBody(name string) (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, struct{ Name string }{Name: name}); err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return buf.String(), nil
}

// buildMessage assembles the report email with the PDF attached. The
// attachment is verified before anything touches the network.
func buildMessage(from, to, name, pdfPath string) (*gomail.Message, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAttachmentMissing, pdfPath)
	}

	body, err := renderBody(name)
	if err != nil {
		return nil, err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Your Solar Energy Report - %s", name))
	msg.SetBody("text/html", body)
	msg.Attach(pdfPath, gomail.Rename(filepath.Base(pdfPath)))

	return msg, nil
}
