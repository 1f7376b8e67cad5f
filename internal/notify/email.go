package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"renewalpulse/internal/structures"
)

// EmailSender delivers over SMTP, sending to the configured sender address
// (the tool is single-user). STARTTLS is required when the flag is set.
type EmailSender struct {
	host     string
	port     int
	username string
	password string
	sender   string
	startTLS bool
	timeout  time.Duration
}

func NewEmailSender(conf *structures.Config) *EmailSender {
	timeout := conf.Notify.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	sender := conf.Notify.Email.Sender
	if sender == "" {
		sender = conf.Notify.Email.Username
	}
	return &EmailSender{
		host:     conf.Notify.Email.Host,
		port:     conf.Notify.Email.Port,
		username: conf.Notify.Email.Username,
		password: conf.Notify.Email.Password,
		sender:   sender,
		startTLS: conf.Notify.Email.StartTLS,
		timeout:  timeout,
	}
}

func (e *EmailSender) Channel() Channel {
	return ChannelEmail
}

func (e *EmailSender) Send(ctx context.Context, msg Message) error {
	if e.host == "" || e.sender == "" {
		return fmt.Errorf("email: missing smtp host or sender")
	}

	addr := net.JoinHostPort(e.host, strconv.Itoa(e.port))
	dialer := net.Dialer{Timeout: e.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("email: dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(e.timeout))
	}

	client, err := smtp.NewClient(conn, e.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("email: handshake: %w", err)
	}
	defer client.Close()

	if e.startTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return fmt.Errorf("email: server does not offer STARTTLS")
		}
		if err := client.StartTLS(&tls.Config{ServerName: e.host}); err != nil {
			return fmt.Errorf("email: starttls: %w", err)
		}
	}

	if e.username != "" && e.password != "" {
		auth := smtp.PlainAuth("", e.username, e.password, e.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("email: auth: %w", err)
		}
	}

	if err := client.Mail(e.sender); err != nil {
		return fmt.Errorf("email: mail from: %w", err)
	}
	if err := client.Rcpt(e.sender); err != nil {
		return fmt.Errorf("email: rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("email: data: %w", err)
	}
	if _, err := w.Write([]byte(e.compose(msg))); err != nil {
		w.Close()
		return fmt.Errorf("email: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("email: close body: %w", err)
	}
	return client.Quit()
}

func (e *EmailSender) compose(msg Message) string {
	var b strings.Builder
	b.WriteString("From: " + e.sender + "\r\n")
	b.WriteString("To: " + e.sender + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return b.String()
}
