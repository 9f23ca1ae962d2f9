package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/koaestudio/koa-photos-backend/internal/config"
	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Sender is the part of the Resend client the service uses.
type Sender interface {
	Send(params *resend.SendEmailRequest) (resend.SendEmailResponse, error)
}

type EmailService struct {
	emails      Sender
	from        string
	frontendURL string
	logger      *zap.Logger
}

// NewEmailService returns a service that only logs when no API key is configured.
func NewEmailService(cfg config.EmailConfig, frontendURL string, logger *zap.Logger) *EmailService {
	s := &EmailService{
		from:        cfg.FromName + " <" + cfg.FromAddress + ">",
		frontendURL: frontendURL,
		logger:      logger.Named("email"),
	}
	if cfg.APIKey != "" {
		s.emails = resend.NewClient(cfg.APIKey).Emails
	}
	return s
}

// WithSender replaces the Resend client.
func (s *EmailService) WithSender(sender Sender) *EmailService {
	s.emails = sender
	return s
}

func (s *EmailService) Enabled() bool {
	return s.emails != nil
}

// OrderReceipt is sent when checkout creates an order. Text is the "email"
// section of the client's dictionary.
type OrderReceipt struct {
	To         string
	Name       string
	Language   string
	OrderID    string
	EventTitle string
	PhotoCount int
	Total      string
	Text       map[string]string
}

// DownloadReady is sent when a payment is confirmed. It never carries the
// download password.
type DownloadReady struct {
	To         string
	Name       string
	Language   string
	OrderID    string
	EventTitle string
	Text       map[string]string
}

func (s *EmailService) SendOrderReceipt(r OrderReceipt) error {
	data := map[string]interface{}{
		"Name":       r.Name,
		"Language":   r.Language,
		"OrderID":    r.OrderID,
		"EventTitle": r.EventTitle,
		"PhotoCount": r.PhotoCount,
		"Total":      r.Total,
		"Text":       r.Text,
		"Year":       time.Now().Year(),
	}
	return s.send("order-receipt.html", r.To, r.Text["orderConfirmation.subject"], data)
}

func (s *EmailService) SendDownloadReady(d DownloadReady) error {
	data := map[string]interface{}{
		"Name":         d.Name,
		"Language":     d.Language,
		"EventTitle":   d.EventTitle,
		"DownloadLink": s.DownloadLink(d.OrderID),
		"Text":         d.Text,
		"Year":         time.Now().Year(),
	}
	return s.send("download-ready.html", d.To, d.Text["downloadReady.subject"], data)
}

func (s *EmailService) DownloadLink(orderID string) string {
	return s.frontendURL + "/download/" + orderID
}

func (s *EmailService) send(templateName, to, subject string, data interface{}) error {
	if !s.Enabled() {
		s.logger.Debug("email disabled, skipping", zap.String("template", templateName), zap.String("to", to))
		return nil
	}

	html, err := parseTemplate(templateName, data)
	if err != nil {
		s.logger.Error("failed to render email", zap.String("template", templateName), zap.Error(err))
		return err
	}

	resp, err := s.emails.Send(&resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		s.logger.Error("failed to send email", zap.String("template", templateName), zap.String("to", to), zap.Error(err))
		return fmt.Errorf("failed to send %s: %w", templateName, err)
	}

	s.logger.Info("email sent", zap.String("template", templateName), zap.String("to", to), zap.String("id", resp.Id))
	return nil
}

func parseTemplate(templateName string, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return "", err
	}
	return body.String(), nil
}
