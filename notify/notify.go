// Package notify sends the report to its recipients by email.
package notify

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"dev.hon.one/radiocross/inventory"
)

// Greeting - Opening of every report email.
const Greeting = "Good day!\n Please find the Radio Cross report in attachment."

// ErrNoRecipients - The message has nobody to send to.
var ErrNoRecipients = errors.New("no recipients")

// Message - An email to send.
type Message struct {
	To          []string
	Subject     string
	Body        string
	Attachments []string
}

// Notifier - Delivers messages.
type Notifier interface {
	Send(message Message) error
}

// NewMessage - Build the report message with crossed radio statistics and the report attached.
func NewMessage(recipients []string, subject string, stats inventory.Stats, reportPath string) Message {
	body := fmt.Sprintf("%v\n\nCrossed radios per subnetwork:\n%v\n", Greeting, stats)
	message := Message{
		To:      recipients,
		Subject: subject,
		Body:    body,
	}
	if reportPath != "" {
		message.Attachments = []string{reportPath}
	}
	return message
}

// SMTPNotifier - Sends messages through an SMTP server.
type SMTPNotifier struct {
	From   string
	Dialer *gomail.Dialer
	// Replaces the dialer if set
	sender gomail.Sender
}

// NewSMTPNotifier - Create a notifier for an SMTP server. Username and password may be empty.
func NewSMTPNotifier(host string, port int, username string, password string, from string) *SMTPNotifier {
	return &SMTPNotifier{
		From:   from,
		Dialer: gomail.NewDialer(host, port, username, password),
	}
}

// Send - Send the message.
func (notifier *SMTPNotifier) Send(message Message) error {
	if len(message.To) == 0 {
		return ErrNoRecipients
	}
	mail, err := notifier.buildMail(message)
	if err != nil {
		return err
	}
	if notifier.sender != nil {
		err = gomail.Send(notifier.sender, mail)
	} else {
		err = notifier.Dialer.DialAndSend(mail)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.WithFields(log.Fields{
		"to":          message.To,
		"subject":     message.Subject,
		"attachments": message.Attachments,
	}).Info("Sent email")
	return nil
}

func (notifier *SMTPNotifier) buildMail(message Message) (*gomail.Message, error) {
	mail := gomail.NewMessage()
	mail.SetHeader("From", notifier.From)
	mail.SetHeader("To", message.To...)
	mail.SetHeader("Subject", message.Subject)
	mail.SetBody("text/plain", message.Body)
	for _, attachment := range message.Attachments {
		// Missing files would only fail once the connection is open
		if _, err := os.Stat(attachment); err != nil {
			return nil, fmt.Errorf("attachment unavailable: %w", err)
		}
		mail.Attach(attachment)
	}
	return mail, nil
}
