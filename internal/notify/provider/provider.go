// Package provider holds the interchangeable delivery transports. Every
// provider is stateless between calls: each send opens its own session so
// one recipient's failure can never leak into another's.
package provider

import (
	"context"
	"net/mail"

	"business-notifier/internal/models"
	"business-notifier/internal/notify/compose"
)

// Status classifies one send attempt.
type Status string

const (
	// StatusDelivered means the provider accepted the message.
	StatusDelivered Status = "delivered"
	// StatusRejected is a permanent refusal; the cascade moves straight to
	// the next provider without retrying this one.
	StatusRejected Status = "rejected"
	// StatusUnavailable is a transient failure; retried with backoff.
	StatusUnavailable Status = "unavailable"
)

// Outcome is the result of one send attempt against one recipient.
type Outcome struct {
	Status    Status
	MessageID string // provider-assigned, when available
	Reason    string // empty on delivery
}

// Provider is the capability shared by all delivery transports.
type Provider interface {
	Name() string
	Send(ctx context.Context, rcpt models.Recipient, msg *compose.Message) Outcome
}

func delivered(messageID string) Outcome {
	return Outcome{Status: StatusDelivered, MessageID: messageID}
}

func rejected(reason string) Outcome {
	return Outcome{Status: StatusRejected, Reason: reason}
}

func unavailable(reason string) Outcome {
	return Outcome{Status: StatusUnavailable, Reason: reason}
}

// formatAddress renders "Display Name <addr>" for providers that accept
// named recipients.
func formatAddress(rcpt models.Recipient) string {
	addr := mail.Address{Name: rcpt.Name, Address: rcpt.Email}
	return addr.String()
}
