package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"liftout/config"
)

type EmailData struct {
	Subject   string
	To        []string
	Template  string
	Data      map[string]string
	FromName  string
	FromEmail string
}

// Embedded email templates
var emailTemplates = map[string]string{
	"interest_received": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .highlight { font-size: 18px; font-weight: bold; color: #3498db; margin: 20px 0; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>A company is interested in your team</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p>{{.CompanyName}} has expressed interest in your team for the opportunity:</p>

        <div class="highlight">{{.OpportunityTitle}}</div>

        <p>Log in to review the opportunity and reply. Your team's identity stays
        protected until you choose to reveal it.</p>
    </div>

    <div class="footer">
        <p>© {{.Year}} Liftout. All rights reserved.</p>
    </div>
</body>
</html>`,

	"new_message": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>You have a new message</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p>{{.SenderName}} sent a new message in one of your conversations.</p>
        <p>Log in to read and reply.</p>
    </div>

    <div class="footer">
        <p>© {{.Year}} Liftout. All rights reserved.</p>
    </div>
</body>
</html>`,

	"company_verified": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Your company is verified</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p>{{.CompanyName}} has passed verification. Your account can now view
        anonymous team profiles and reach out to teams directly.</p>
    </div>

    <div class="footer">
        <p>© {{.Year}} Liftout. All rights reserved.</p>
    </div>
</body>
</html>`,
}

// renderEmail resolves the named template and renders it with the subject,
// the current year and the payload fields merged in
func renderEmail(data EmailData) (string, error) {
	tmplText, ok := emailTemplates[data.Template]
	if !ok {
		return "", fmt.Errorf("unknown email template: %s", data.Template)
	}

	tmpl, err := template.New(data.Template).Parse(tmplText)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	templateData := map[string]interface{}{
		"Subject": data.Subject,
		"Year":    time.Now().Year(),
	}
	for k, v := range data.Data {
		templateData[k] = v
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, templateData); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return body.String(), nil
}

// SendEmail renders the named template and delivers it over SMTP
func SendEmail(data EmailData) error {
	body, err := renderEmail(data)
	if err != nil {
		return err
	}

	fromEmail := data.FromEmail
	if fromEmail == "" {
		fromEmail = config.AppConfig.FromEmail
	}
	fromName := data.FromName
	if fromName == "" {
		fromName = config.AppConfig.FromName
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", fromEmail, fromName)
	m.SetHeader("To", data.To...)
	m.SetHeader("Subject", data.Subject)
	m.SetBody("text/html", body)

	port := ParseInt(config.AppConfig.SMTPPort, 587)
	d := gomail.NewDialer(
		config.AppConfig.SMTPHost,
		port,
		config.AppConfig.SMTPUsername,
		config.AppConfig.SMTPPassword,
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
