package notify

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wneessen/go-mail"

	"github.com/pricewatch/pricewatch/internal/metrics"
	domain "github.com/pricewatch/pricewatch/pkg/types"
)

// EmailNotifier implements Notifier over SMTP.
type EmailNotifier struct {
	client *mail.Client
	from   string
}

// EmailOption configures an EmailNotifier.
type EmailOption func(*EmailNotifier)

// NewEmailNotifier creates an SMTP-backed notifier. Username and password
// may be empty for unauthenticated relays.
func NewEmailNotifier(
	host string,
	port int,
	username, password, from string,
	opts ...EmailOption,
) (*EmailNotifier, error) {
	clientOpts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}

	client, err := mail.NewClient(host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating SMTP client: %w", err)
	}

	n := &EmailNotifier{client: client, from: from}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// NotifyPriceDrop sends a price drop alert email.
func (n *EmailNotifier) NotifyPriceDrop(
	ctx context.Context,
	user *domain.User,
	product *domain.Product,
	oldPrice, newPrice decimal.Decimal,
) error {
	msg, err := buildPriceDropMessage(n.from, user, product, oldPrice, newPrice)
	if err != nil {
		return err
	}
	return n.send(ctx, msg, "price_drop")
}

// NotifyTargetReached sends a target price alert email.
func (n *EmailNotifier) NotifyTargetReached(
	ctx context.Context,
	user *domain.User,
	product *domain.Product,
) error {
	msg, err := buildTargetReachedMessage(n.from, user, product)
	if err != nil {
		return err
	}
	return n.send(ctx, msg, "target_reached")
}

func (n *EmailNotifier) send(ctx context.Context, msg *mail.Msg, kind string) error {
	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		return fmt.Errorf("sending %s email: %w", kind, err)
	}
	metrics.NotificationsSentTotal.WithLabelValues(kind).Inc()
	return nil
}

func buildPriceDropMessage(
	from string,
	user *domain.User,
	product *domain.Product,
	oldPrice, newPrice decimal.Decimal,
) (*mail.Msg, error) {
	msg, err := newMessage(from, user.Email)
	if err != nil {
		return nil, err
	}

	savings := oldPrice.Sub(newPrice)
	msg.Subject(fmt.Sprintf("Price drop: %s", product.Name))
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Hi %s,\n\n"+
			"The price of %s dropped.\n\n"+
			"Previous price: %s\n"+
			"Current price:  %s\n"+
			"You save:       %s\n\n"+
			"View the product: %s\n",
		user.Username,
		product.Name,
		oldPrice.StringFixed(2),
		newPrice.StringFixed(2),
		savings.StringFixed(2),
		product.URL,
	))

	return msg, nil
}

func buildTargetReachedMessage(
	from string,
	user *domain.User,
	product *domain.Product,
) (*mail.Msg, error) {
	msg, err := newMessage(from, user.Email)
	if err != nil {
		return nil, err
	}

	current := "unknown"
	if product.CurrentPrice != nil {
		current = product.CurrentPrice.StringFixed(2)
	}
	target := "unknown"
	if product.TargetPrice != nil {
		target = product.TargetPrice.StringFixed(2)
	}

	msg.Subject(fmt.Sprintf("Target price reached: %s", product.Name))
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Hi %s,\n\n"+
			"%s is now at or below your target price.\n\n"+
			"Current price: %s\n"+
			"Target price:  %s\n\n"+
			"View the product: %s\n",
		user.Username,
		product.Name,
		current,
		target,
		product.URL,
	))

	return msg, nil
}

func newMessage(from, to string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("setting sender %q: %w", from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("setting recipient %q: %w", to, err)
	}
	return msg, nil
}
