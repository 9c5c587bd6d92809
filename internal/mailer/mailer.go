package mailer

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"

	"github.com/bitmall/storefront/config"
	"github.com/bitmall/storefront/internal/domain"
	"github.com/bitmall/storefront/internal/pricing"
)

// Mailer sends order confirmation notices over SMTP.
type Mailer struct {
	cfg config.MailConfig
}

func New(cfg config.MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) OrderConfirmation(user *domain.User, order *domain.Order, valuation pricing.Valuation) error {
	if !m.cfg.Enabled {
		return nil
	}
	if user.Email == "" {
		return errors.New("user has no email address")
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\r\n\r\n", user.Name)
	fmt.Fprintf(&body, "Your order %s has been placed.\r\n\r\n", order.ID)
	fmt.Fprintf(&body, "Items: %d\r\n", len(order.CartItems))
	fmt.Fprintf(&body, "Subtotal: %s\r\n", valuation.Subtotal.StringFixed(2))
	fmt.Fprintf(&body, "Discount: -%s\r\n", valuation.Discount.StringFixed(2))
	fmt.Fprintf(&body, "Tax: +%s\r\n", valuation.Tax.StringFixed(2))
	fmt.Fprintf(&body, "Total: %s\r\n", valuation.Total.StringFixed(2))

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", user.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Order %s confirmed", order.ID))
	msg.SetBody("text/plain", body.String())

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return errors.Wrap(dialer.DialAndSend(msg), "send confirmation mail")
}
