package email

import (
	"context"
	"fmt"

	"github.com/avelkov/tripdesk/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.PaymentEvent) error {
	fmt.Printf("send email to %s about %s for transaction %s (%s)\n",
		event.Email, event.Type, event.TransactionID, event.PaymentStatus)
	return nil
}
