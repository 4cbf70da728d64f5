package email

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

// EmailService delivers the notification signals emitted by the core:
// HostWelcomed, PhotoApproved, PhotoRejected and ExportReady. Delivery
// is fire-and-forget; failures are logged, never propagated.
type EmailService struct {
	client   *resend.Client
	from     string
	fromName string
	logger   *zap.Logger
}

func NewEmailService(logger *zap.Logger) *EmailService {
	return &EmailService{
		client:   resend.NewClient(os.Getenv("RESEND_API_KEY")),
		from:     os.Getenv("EMAIL_FROM_ADDRESS"),
		fromName: os.Getenv("EMAIL_FROM_NAME"),
		logger:   logger,
	}
}

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<p>Hi {{.Name}},</p>
<p>Your SnapGather host account is ready. Create an event, share the link
or QR code with your guests, and approve their photos as they come in.</p>
<p>— SnapGather, {{.Year}}</p>`))

var moderationTmpl = template.Must(template.New("moderation").Parse(`
<p>Hi {{.Name}},</p>
<p>A photo in <b>{{.EventTitle}}</b> was {{.Verdict}}.</p>
<p>— SnapGather, {{.Year}}</p>`))

var exportReadyTmpl = template.Must(template.New("export").Parse(`
<p>Hi {{.Name}},</p>
<p>Your photo export for <b>{{.EventTitle}}</b> is ready:</p>
<p><a href="{{.DownloadURL}}">Download archive</a></p>
<p>— SnapGather, {{.Year}}</p>`))

func (s *EmailService) SendHostWelcomed(toEmail, name string) {
	s.send(toEmail, "Welcome to SnapGather!", welcomeTmpl, map[string]interface{}{
		"Name": displayName(name, toEmail),
		"Year": time.Now().Year(),
	})
}

func (s *EmailService) SendPhotoApproved(toEmail, name, eventTitle string) {
	s.send(toEmail, "A photo was approved - SnapGather", moderationTmpl, map[string]interface{}{
		"Name":       displayName(name, toEmail),
		"EventTitle": eventTitle,
		"Verdict":    "approved",
		"Year":       time.Now().Year(),
	})
}

func (s *EmailService) SendPhotoRejected(toEmail, name, eventTitle string) {
	s.send(toEmail, "A photo was rejected - SnapGather", moderationTmpl, map[string]interface{}{
		"Name":       displayName(name, toEmail),
		"EventTitle": eventTitle,
		"Verdict":    "rejected",
		"Year":       time.Now().Year(),
	})
}

func (s *EmailService) SendExportReady(toEmail, name, eventTitle, downloadURL string) {
	s.send(toEmail, "Your export is ready - SnapGather", exportReadyTmpl, map[string]interface{}{
		"Name":        displayName(name, toEmail),
		"EventTitle":  eventTitle,
		"DownloadURL": downloadURL,
		"Year":        time.Now().Year(),
	})
}

func (s *EmailService) send(toEmail, subject string, tmpl *template.Template, data map[string]interface{}) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		s.logger.Error("email template failed",
			zap.String("subject", subject), zap.Error(err))
		return
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.fromName, s.from),
		To:      []string{toEmail},
		Subject: subject,
		Html:    body.String(),
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Warn("email delivery failed",
			zap.String("to", toEmail), zap.String("subject", subject), zap.Error(err))
		return
	}
	s.logger.Info("email sent",
		zap.String("to", toEmail), zap.String("subject", subject), zap.String("id", resp.Id))
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
