package mailer

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-msgauth/dkim"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
)

// Outbound is one message to submit.
type Outbound struct {
	To      string
	Subject string
	HTML    string
}

// Mailer submits mail through a sender's SMTP account. The campaign
// dispatcher and the direct-send endpoint both depend on this interface.
type Mailer interface {
	Send(sender *models.Sender, out Outbound) error
}

type Service struct {
	timeout time.Duration
}

func NewService() *Service {
	return &Service{timeout: 30 * time.Second}
}

// Send builds the MIME message, signs it when the sender has a DKIM key,
// and submits it over SSL or STARTTLS depending on the sender config.
// Errors are returned as *SendError carrying the failure class.
func (s *Service) Send(sender *models.Sender, out Outbound) error {
	raw, err := buildMessage(sender, out)
	if err != nil {
		return &SendError{Class: ClassUnknown, Err: fmt.Errorf("failed to build message: %w", err)}
	}

	if sender.DKIMPrivateKey != "" && sender.DKIMSelector != "" {
		signed, err := signDKIM(raw, sender)
		if err != nil {
			// A bad key should not block delivery; send unsigned.
			slog.Warn("dkim signing failed, sending unsigned", "sender", sender.Email, "error", err)
		} else {
			raw = signed
		}
	}

	addr := fmt.Sprintf("%s:%d", sender.SMTPHost, sender.SMTPPort)
	if err := s.submit(addr, sender, out.To, raw); err != nil {
		return &SendError{Class: Classify(err), Err: err}
	}
	return nil
}

// submit opens the SMTP session. "ssl" means implicit TLS on connect,
// anything else uses STARTTLS.
func (s *Service) submit(addr string, sender *models.Sender, to string, raw []byte) error {
	tlsConfig := &tls.Config{ServerName: sender.SMTPHost}

	var client *smtp.Client
	var err error
	if sender.Secure == "ssl" {
		client, err = smtp.DialTLS(addr, tlsConfig)
	} else {
		client, err = smtp.DialStartTLS(addr, tlsConfig)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err := client.Auth(sasl.NewPlainClient("", sender.Username, sender.Password)); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := client.SendMail(sender.Email, []string{to}, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return client.Quit()
}

func buildMessage(sender *models.Sender, out Outbound) ([]byte, error) {
	var buf bytes.Buffer

	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{{Name: sender.Name, Address: sender.Email}})
	h.SetAddressList("To", []*mail.Address{{Address: out.To}})
	h.SetSubject(out.Subject)
	h.Set("Message-Id", fmt.Sprintf("<%s@%s>", uuid.New().String(), domainOf(sender.Email)))

	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, err
	}

	tw, err := mw.CreateInline()
	if err != nil {
		return nil, err
	}
	var th mail.InlineHeader
	th.Set("Content-Type", "text/html; charset=utf-8")
	pw, err := tw.CreatePart(th)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(pw, out.HTML); err != nil {
		return nil, err
	}
	pw.Close()
	tw.Close()
	mw.Close()

	return buf.Bytes(), nil
}

func signDKIM(raw []byte, sender *models.Sender) ([]byte, error) {
	block, _ := pem.Decode([]byte(sender.DKIMPrivateKey))
	if block == nil {
		return nil, fmt.Errorf("invalid PEM in DKIM private key")
	}
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DKIM private key: %w", err)
	}

	options := &dkim.SignOptions{
		Domain:   domainOf(sender.Email),
		Selector: sender.DKIMSelector,
		Signer:   key,
	}

	var signed bytes.Buffer
	if err := dkim.Sign(&signed, bytes.NewReader(raw), options); err != nil {
		return nil, err
	}
	return signed.Bytes(), nil
}

func domainOf(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return email[i+1:]
	}
	return email
}
