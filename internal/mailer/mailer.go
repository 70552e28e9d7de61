// internal/mailer/mailer.go
package mailer

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"
)

// Message is one outbound email: a single recipient, subject and body already
// rendered. PlainBody is the text/plain alternative shown by clients that do
// not render HTML.
type Message struct {
	SenderEmail string
	SenderName  string
	Recipient   string
	Subject     string
	HTMLBody    string
	PlainBody   string
}

// SendError carries the transport/protocol error for one failed recipient.
type SendError struct {
	Recipient string
	Err       error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("failed to send email to %s: %v", e.Recipient, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// Mailer submits one message per call. Implementations open and close their
// own connection each time; the low campaign send rate makes pooling not
// worth the relay-compatibility risk.
type Mailer interface {
	Send(msg Message) error
	// Ping checks that the relay is reachable at all. The runner calls it
	// once before the loop; failure aborts the whole campaign.
	Ping() error
}

// SMTPMailer talks to a plaintext SMTP relay without authentication, one
// connection per message. Timeout bounds the dial and every read/write so a
// stalled relay turns into a FAILED log entry instead of hanging the runner.
type SMTPMailer struct {
	Host    string
	Port    int
	Timeout time.Duration
}

func NewSMTPMailer(host string, port int, timeout time.Duration) *SMTPMailer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SMTPMailer{Host: host, Port: port, Timeout: timeout}
}

func (m *SMTPMailer) addr() string {
	return net.JoinHostPort(m.Host, fmt.Sprintf("%d", m.Port))
}

func (m *SMTPMailer) dial() (*smtp.Client, error) {
	conn, err := net.DialTimeout("tcp", m.addr(), m.Timeout)
	if err != nil {
		return nil, err
	}
	if err := conn.SetDeadline(time.Now().Add(m.Timeout)); err != nil {
		conn.Close()
		return nil, err
	}
	client, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return client, nil
}

// Ping dials the relay and quits immediately.
func (m *SMTPMailer) Ping() error {
	client, err := m.dial()
	if err != nil {
		return fmt.Errorf("smtp relay %s unreachable: %w", m.addr(), err)
	}
	return client.Quit()
}

// Send submits msg for exactly one recipient over a fresh connection.
func (m *SMTPMailer) Send(msg Message) error {
	client, err := m.dial()
	if err != nil {
		return &SendError{Recipient: msg.Recipient, Err: err}
	}
	defer client.Close()

	if err := client.Mail(msg.SenderEmail); err != nil {
		return &SendError{Recipient: msg.Recipient, Err: err}
	}
	if err := client.Rcpt(msg.Recipient); err != nil {
		return &SendError{Recipient: msg.Recipient, Err: err}
	}
	w, err := client.Data()
	if err != nil {
		return &SendError{Recipient: msg.Recipient, Err: err}
	}
	if _, err := w.Write(EncodeMessage(msg)); err != nil {
		return &SendError{Recipient: msg.Recipient, Err: err}
	}
	if err := w.Close(); err != nil {
		return &SendError{Recipient: msg.Recipient, Err: err}
	}
	return client.Quit()
}

var crlfReplacer = strings.NewReplacer("\r", " ", "\n", " ")

// encodeSubject makes a rendered subject safe as a header value: CR/LF from
// substituted CSV values cannot start a new header, and non-ASCII text is
// RFC 2047 q-encoded. Plain ASCII subjects pass through unchanged.
func encodeSubject(s string) string {
	return mime.QEncoding.Encode("utf-8", crlfReplacer.Replace(s))
}

// EncodeMessage renders msg as a multipart/alternative MIME document with the
// plain part first, HTML second (clients prefer the last part they support).
func EncodeMessage(msg Message) []byte {
	var buf bytes.Buffer
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	from := msg.SenderEmail
	if msg.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", msg.SenderName, msg.SenderEmail)
	}

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.Recipient)
	fmt.Fprintf(&buf, "Subject: %s\r\n", encodeSubject(msg.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	buf.WriteString("\r\n")

	plain, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	fmt.Fprintf(plain, "%s\r\n", msg.PlainBody)

	html, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	fmt.Fprintf(html, "%s\r\n", msg.HTMLBody)

	mw.Close()
	buf.Write(body.Bytes())
	return buf.Bytes()
}
