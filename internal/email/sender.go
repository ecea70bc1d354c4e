package email

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/medisched/appointment-api/internal/config"
)

// Sender delivers notification emails to patients.
type Sender interface {
	SendAppointmentBooked(to string, appointmentTime time.Time) error
	SendAppointmentCancelled(to string, appointmentTime time.Time) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.SMTPConfig) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpSender) SendAppointmentBooked(to string, appointmentTime time.Time) error {
	subject := "Appointment confirmed"
	body := fmt.Sprintf("Your appointment on %s has been confirmed.",
		appointmentTime.Format(time.RFC1123))
	return s.send(to, subject, body)
}

func (s *smtpSender) SendAppointmentCancelled(to string, appointmentTime time.Time) error {
	subject := "Appointment cancelled"
	body := fmt.Sprintf("Your appointment on %s has been cancelled.",
		appointmentTime.Format(time.RFC1123))
	return s.send(to, subject, body)
}

func (s *smtpSender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
