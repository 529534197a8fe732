// Package sendgrid delivers transactional email through SendGrid.
package sendgrid

import (
	"context"
	"fmt"
	"strings"

	"github.com/cooleo273/ecommerce-platform/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService interface {
	SendOrderConfirmation(ctx context.Context, to string, order *models.Order) error
}

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (e *emailService) SendOrderConfirmation(ctx context.Context, to string, order *models.Order) error {

	from := mail.NewEmail(e.fromName, e.fromEmail)
	recipient := mail.NewEmail("", to)

	subject := fmt.Sprintf("Order %s confirmed", order.OrderNumber)

	message := mail.NewV3Mail()
	message.SetFrom(from)

	personalization := mail.NewPersonalization()
	personalization.AddTos(recipient)
	personalization.Subject = subject
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", orderSummaryText(order)))

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned %d: %s", response.StatusCode, response.Body)
	}

	return nil
}

func orderSummaryText(order *models.Order) string {

	var b strings.Builder

	fmt.Fprintf(&b, "Thank you for your purchase!\n\n")
	fmt.Fprintf(&b, "Order %s is now being processed.\n\n", order.OrderNumber)

	for _, item := range order.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}

		fmt.Fprintf(&b, "  %d x %s at %.2f\n", item.Quantity, name, item.Price)
	}

	fmt.Fprintf(&b, "\nShipping: %.2f\nTotal: %.2f\n", order.ShippingFee, order.Total)

	return b.String()
}
