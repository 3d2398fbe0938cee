package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// SMTPConfig holds the connection settings for the outbound mail server.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string

	// From is the envelope sender; defaults to Username when empty.
	From string

	// TLS selects implicit TLS; otherwise STARTTLS is used.
	TLS bool
}

// SMTPGateway implements Gateway over a plain SMTP connection.
type SMTPGateway struct {
	cfg     SMTPConfig
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewSMTPGateway creates a gateway that sends at most ratePerSec mails
// per second (burst of the same size). A non-positive rate defaults to 1.
func NewSMTPGateway(cfg SMTPConfig, ratePerSec int, log zerolog.Logger) *SMTPGateway {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPGateway{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
		log:     log,
	}
}

// SendDeadlineReminder composes and sends a single reminder mail,
// blocking on the rate limiter first.
func (g *SMTPGateway) SendDeadlineReminder(ctx context.Context, r DeadlineReminder) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for send slot: %w", err)
	}

	msg, err := composeReminder(g.cfg.From, r)
	if err != nil {
		return fmt.Errorf("composing reminder for %s: %w", r.ToEmail, err)
	}

	addr := g.cfg.Host + ":" + g.cfg.Port
	if g.cfg.TLS {
		err = sendWithTLS(addr, g.cfg, r.ToEmail, msg)
	} else {
		err = sendWithStartTLS(addr, g.cfg, r.ToEmail, msg)
	}
	if err != nil {
		return err
	}

	g.log.Debug().
		Str("to", r.ToEmail).
		Str("task", r.TaskName).
		Float64("hours_until_due", r.HoursUntilDue).
		Msg("reminder mail sent")
	return nil
}

// composeReminder builds the RFC 5322 message body.
func composeReminder(from string, r DeadlineReminder) ([]byte, error) {
	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{{Name: "Task Reminders", Address: from}})
	h.SetAddressList("To", []*mail.Address{{Name: r.UserName, Address: r.ToEmail}})
	h.SetSubject(fmt.Sprintf("Reminder: %q is due soon", r.TaskName))
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating message writer: %w", err)
	}

	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"The task %q is due in %.1f hours (%s).\n\n"+
			"Priority: %s\n",
		r.UserName, r.TaskName, r.HoursUntilDue, r.DueDateDisplay, r.PriorityLabel,
	)
	if r.ProjectName != "" {
		body += fmt.Sprintf("Project: %s\n", r.ProjectName)
	}
	if r.TaskDescription != "" {
		body += "\n" + r.TaskDescription + "\n"
	}

	if _, err := io.WriteString(w, body); err != nil {
		w.Close()
		return nil, fmt.Errorf("writing message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing message: %w", err)
	}

	return buf.Bytes(), nil
}

// sendWithTLS sends a message over an implicit TLS connection.
func sendWithTLS(addr string, cfg SMTPConfig, to string, msg []byte) error {
	tlsConfig := &tls.Config{ServerName: cfg.Host}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("TLS dial to %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth: %w", err)
	}

	return sendViaClient(client, cfg.From, to, msg)
}

// sendWithStartTLS sends a message using STARTTLS.
func sendWithStartTLS(addr string, cfg SMTPConfig, to string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", addr, 30*time.Second)
	if err != nil {
		return fmt.Errorf("dial to %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: cfg.Host}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("SMTP STARTTLS: %w", err)
	}

	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP auth: %w", err)
	}

	return sendViaClient(client, cfg.From, to, msg)
}

// sendViaClient submits a message on an already-authenticated client.
func sendViaClient(client *smtp.Client, from, to string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("SMTP MAIL FROM: %w", err)
	}

	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("SMTP RCPT TO: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA: %w", err)
	}

	if _, err := writer.Write(msg); err != nil {
		writer.Close()
		return fmt.Errorf("writing SMTP body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing SMTP body: %w", err)
	}

	return client.Quit()
}
