package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/pkg/metrics"
)

type Service interface {
	SendCustom(ctx context.Context, to string, subject string, content string) error
	SendOrderPlaced(ctx context.Context, order model.MedicineOrder) error
	SendOrderMessage(ctx context.Context, order model.MedicineOrder, msg model.OrderMessage) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// AdminAddress receives order notifications.
	AdminAddress string
}

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPService struct {
	sender  Sender
	config  Config
	metrics *metrics.Metrics
}

func NewSMTPService(config Config, m *metrics.Metrics) *SMTPService {
	return NewService(gomail.NewDialer(config.Host, config.Port, config.Username, config.Password), config, m)
}

// NewService sends through sender. m may be nil.
func NewService(sender Sender, config Config, m *metrics.Metrics) *SMTPService {
	return &SMTPService{sender: sender, config: config, metrics: m}
}

var _ Service = (*SMTPService)(nil)

func (s *SMTPService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	return s.send(ctx, "custom", to, subject, content)
}

func (s *SMTPService) SendOrderPlaced(ctx context.Context, order model.MedicineOrder) error {
	subject := fmt.Sprintf("New medicine order %s from %s", order.ID, order.PatientName)
	var b strings.Builder
	fmt.Fprintf(&b, "Patient: %s (%s)\n", order.PatientName, order.PatientID)
	fmt.Fprintf(&b, "Medicines: %s\n", order.Medicines)
	fmt.Fprintf(&b, "Quantity: %s\n", order.Quantity)
	fmt.Fprintf(&b, "Address: %s\n", order.Address)
	fmt.Fprintf(&b, "Phone: %s\n", order.Phone)
	return s.send(ctx, "order_placed", s.config.AdminAddress, subject, b.String())
}

func (s *SMTPService) SendOrderMessage(ctx context.Context, order model.MedicineOrder, msg model.OrderMessage) error {
	subject := fmt.Sprintf("New message on order %s", order.ID)
	body := fmt.Sprintf("%s wrote:\n\n%s\n", order.PatientName, msg.Text)
	return s.send(ctx, "order_message", s.config.AdminAddress, subject, body)
}

func (s *SMTPService) send(ctx context.Context, template, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if to == "" {
		return fmt.Errorf("no recipient for %s email", template)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	err := s.sender.DialAndSend(m)
	if s.metrics != nil {
		s.metrics.EmailsSent.WithLabelValues(template, metrics.Status(err)).Inc()
	}
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}
	log.Debug().Str("template", template).Str("to", to).Msg("email sent")
	return nil
}

// NoopService drops every email. It is used when no SMTP host is configured.
type NoopService struct{}

var _ Service = NoopService{}

func (NoopService) SendCustom(context.Context, string, string, string) error { return nil }

func (NoopService) SendOrderPlaced(context.Context, model.MedicineOrder) error { return nil }

func (NoopService) SendOrderMessage(context.Context, model.MedicineOrder, model.OrderMessage) error {
	return nil
}
