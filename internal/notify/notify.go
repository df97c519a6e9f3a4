// Package notify delivers outbound mail off the request path. Flows
// persist their state first and enqueue delivery here; a notifier outage
// therefore never fails account creation or checkout.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tupatil-17/easy-shop/internal/events"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender is the development sender: it logs the message instead of
// mailing it.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("outbound mail (dev mode)", "to", msg.To, "subject", msg.Subject, "body", msg.Body)
	return nil
}

// OTPMessage renders the verification-code mail for either flow.
func OTPMessage(evt events.OTPIssued) Message {
	subject := "Your verification code"
	if evt.Purpose == events.OTPLogin {
		subject = "Your login code"
	}
	return Message{
		To:      evt.Email,
		Subject: subject,
		Body:    fmt.Sprintf("Your one-time code is %s. It expires in 10 minutes.", evt.Code),
	}
}

// ReceiptMessage renders the order-paid confirmation mail.
func ReceiptMessage(evt events.OrderPaid, email string) Message {
	return Message{
		To:      email,
		Subject: "Order confirmed",
		Body:    fmt.Sprintf("Payment received for order %s (total %.2f). We'll let you know when it ships.", evt.OrderID, evt.Total),
	}
}
