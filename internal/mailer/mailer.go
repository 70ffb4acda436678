// Package mailer delivers contact form submissions over SMTP.
package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("SMTP credentials not configured")
	ErrUnavailable   = errors.New("mail delivery temporarily unavailable")
)

// Message is a contact form submission.
type Message struct {
	FullName string `form:"fullName" validate:"required,max=200"`
	Email    string `form:"email" validate:"required,email"`
	Message  string `form:"message" validate:"required,max=5000"`
}

var validate = validator.New()

// Validate trims the fields and checks them.
func (m *Message) Validate() error {
	m.FullName = strings.TrimSpace(m.FullName)
	m.Email = strings.TrimSpace(m.Email)
	m.Message = strings.TrimSpace(m.Message)
	return validate.Struct(m)
}

func (m Message) Subject() string {
	return fmt.Sprintf("Portfolio Contact: %s", m.FullName)
}

func (m Message) Body() string {
	return fmt.Sprintf(`New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, m.FullName, m.Email, m.Message)
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	To       string
}

// SMTPSender sends through an authenticated STARTTLS relay.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.cfg.User == "" || s.cfg.Password == "" {
		return ErrNotConfigured
	}

	m := mail.NewMsg()
	if err := m.From(s.cfg.User); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := m.To(s.cfg.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	if err := m.ReplyTo(msg.Email); err != nil {
		return fmt.Errorf("set reply-to: %w", err)
	}
	m.Subject(msg.Subject())
	m.SetBodyString(mail.TypeTextPlain, msg.Body())

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.User),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTLSConfig(&tls.Config{ServerName: s.cfg.Host}),
	)
	if err != nil {
		return fmt.Errorf("create SMTP client (host=%s port=%d): %w", s.cfg.Host, s.cfg.Port, err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail (host=%s port=%d): %w", s.cfg.Host, s.cfg.Port, err)
	}
	return nil
}

type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "smtp",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          5 * time.Minute,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

// Breaker stops calling a failing relay for a while. An unconfigured relay
// is not counted as a failure.
type Breaker struct {
	next   Sender
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

func NewBreaker(next Sender, cfg BreakerConfig, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Breaker{next: next, logger: logger}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotConfigured)
		},
	})
	return b
}

func (b *Breaker) Send(ctx context.Context, msg Message) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Send(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrUnavailable
	}
	return err
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
