// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Aaisha011/E-Auction/internal/config"
	"github.com/Aaisha011/E-Auction/internal/models"
)

type NotificationService struct {
	config *config.Config
}

func NewNotificationService(config *config.Config) *NotificationService {
	return &NotificationService{config: config}
}

var auctionWonTemplate = template.Must(template.New("auction_won").Parse(`
<div>
  <h2>Congratulations, {{.Username}}!</h2>
  <p>You have won the auction for the product: {{.ProductName}}</p>
  <p>Winning Bid: ${{.Amount}}</p>
  <p><a href="{{.PaymentURL}}">Proceed to payment</a></p>
</div>
`))

// SendAuctionWonEmail notifies the winning bidder. Delivery is best-effort;
// callers log and swallow any error.
func (s *NotificationService) SendAuctionWonEmail(user *models.User, product *models.Product, amount decimal.Decimal) error {
	if !s.config.Email.Enabled {
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,
			"product_id": product.ID,
		}).Debug("Email disabled, skipping winner notification")
		return nil
	}

	data := map[string]interface{}{
		"Username":    user.Username,
		"ProductName": product.Name,
		"Amount":      amount.StringFixed(2),
		"PaymentURL":  fmt.Sprintf("%s/payment/%d", s.config.Frontend.BaseURL, product.ID),
	}

	var body bytes.Buffer
	if err := auctionWonTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := "Congratulations! You won the auction for " + product.Name
	return s.sendEmail(user.Email, subject, body.String())
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	from := s.config.Email.FromEmail
	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.config.Email.FromName, from, to, subject, body,
	))

	addr := s.config.Email.SMTPHost + ":" + s.config.Email.SMTPPort
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	if err := smtp.SendMail(addr, auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}
