package mailer

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/coachevelyne/coachevelyne-api/config"
	"github.com/coachevelyne/coachevelyne-api/internal/models"
)

// DefaultSubject is the subject line of every contact notification
const DefaultSubject = "New Contact Form Submission"

// OutboundMessage is a rendered contact notification ready for a Transport
type OutboundMessage struct {
	From     mail.Address
	To       mail.Address
	ReplyTo  mail.Address
	Subject  string
	TextBody string
	HTMLBody string
}

// Envelope carries the fixed addressing of contact notifications
type Envelope struct {
	// Sender is the authenticated mailbox; the submitter's name is used as display name
	Sender    string
	Recipient string
	Subject   string
}

type templateData struct {
	Name    string
	Email   string
	Phone   string
	Goal    string
	Message string
	Site    config.SiteConfig
}

var textTemplate = texttemplate.Must(texttemplate.New("contact.txt").Parse(`Name: {{.Name}}
Email: {{.Email}}
Phone: {{.Phone}}
Fitness Goal: {{.Goal}}

Message:
{{.Message}}

--
Sent from the {{.Site.Name}} contact form.
{{.Site.Name}} | {{.Site.ContactPhone}} | {{.Site.ContactEmail}} | {{.Site.Location}}
`))

var htmlTemplate = htmltemplate.Must(htmltemplate.New("contact.html").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9fafb;">
  <div style="background-color: white; border-radius: 8px; padding: 30px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
    <h2 style="color: #1f2937; margin-bottom: 20px; border-bottom: 2px solid #3b82f6; padding-bottom: 10px;">New Contact Form Submission</h2>
    <div style="margin-bottom: 20px;">
      <p style="margin: 8px 0;"><strong style="color: #374151;">Name:</strong> <span style="color: #6b7280;">{{.Name}}</span></p>
      <p style="margin: 8px 0;"><strong style="color: #374151;">Email:</strong> <a href="mailto:{{.Email}}" style="color: #3b82f6; text-decoration: none;">{{.Email}}</a></p>
      <p style="margin: 8px 0;"><strong style="color: #374151;">Phone:</strong> <span style="color: #6b7280;">{{.Phone}}</span></p>
      <p style="margin: 8px 0;"><strong style="color: #374151;">Fitness Goal:</strong> <span style="color: #6b7280;">{{.Goal}}</span></p>
    </div>
    <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 25px 0;">
    <div style="margin-top: 20px;">
      <h3 style="color: #374151; margin-bottom: 10px;">Message:</h3>
      <p style="color: #6b7280; line-height: 1.6; white-space: pre-wrap;">{{.Message}}</p>
    </div>
    <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 25px 0;">
    <p style="color: #9ca3af; font-size: 12px; margin-top: 20px;">
      This email was sent from the {{.Site.Name}} contact form. Reply directly to this email to respond to {{.Name}}.
    </p>
    <p style="color: #9ca3af; font-size: 12px;">{{.Site.Name}} &middot; {{.Site.ContactPhone}} &middot; {{.Site.ContactEmail}} &middot; {{.Site.Location}}</p>
  </div>
</div>
`))

// BuildMessage renders the text and HTML bodies for a sanitized submission
func BuildMessage(sub *models.ContactSubmission, env Envelope, site config.SiteConfig) (*OutboundMessage, error) {
	name := sub.FullName()
	data := templateData{
		Name:    name,
		Email:   sub.Email,
		Phone:   sub.Phone,
		Goal:    sub.Goal,
		Message: sub.Message,
		Site:    site,
	}

	var text bytes.Buffer
	if err := textTemplate.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("failed to render text body: %w", err)
	}

	var html bytes.Buffer
	if err := htmlTemplate.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render html body: %w", err)
	}

	subject := env.Subject
	if subject == "" {
		subject = DefaultSubject
	}

	return &OutboundMessage{
		From:     mail.Address{Name: name, Address: env.Sender},
		To:       mail.Address{Address: env.Recipient},
		ReplyTo:  mail.Address{Name: name, Address: sub.Email},
		Subject:  subject,
		TextBody: text.String(),
		HTMLBody: html.String(),
	}, nil
}

// Bytes encodes the message as RFC 5322 multipart/alternative with quoted-printable parts
func (m *OutboundMessage) Bytes(messageID string, date time.Time) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	headers := []struct{ key, value string }{
		{"From", m.From.String()},
		{"To", m.To.String()},
		{"Reply-To", m.ReplyTo.String()},
		{"Subject", mime.QEncoding.Encode("utf-8", m.Subject)},
		{"Date", date.Format(time.RFC1123Z)},
		{"Message-ID", messageID},
		{"MIME-Version", "1.0"},
		{"Content-Type", "multipart/alternative; boundary=" + mw.Boundary()},
	}

	var head strings.Builder
	for _, h := range headers {
		head.WriteString(h.key)
		head.WriteString(": ")
		head.WriteString(h.value)
		head.WriteString("\r\n")
	}
	head.WriteString("\r\n")

	if err := writePart(mw, "text/plain; charset=UTF-8", m.TextBody); err != nil {
		return nil, err
	}
	if err := writePart(mw, "text/html; charset=UTF-8", m.HTMLBody); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	return append([]byte(head.String()), buf.Bytes()...), nil
}

func writePart(mw *multipart.Writer, contentType, body string) error {
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", contentType, err)
	}

	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(body)); err != nil {
		return fmt.Errorf("failed to encode %s part: %w", contentType, err)
	}
	return qp.Close()
}
