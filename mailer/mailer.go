// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"savora/config"
	"savora/models"
)

// SendInvoice emails the customer an HTML invoice for a paid order.
func SendInvoice(order models.Order) error {
	cfg := config.Load()
	if cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		return fmt.Errorf("smtp not configured")
	}

	subject := fmt.Sprintf("Order Invoice - #%s - Savora", shortID(order.OrderID))
	body := invoiceHTML(order)

	msg := []byte("From: " + cfg.SMTPUser + "\r\n" +
		"To: " + order.Address.Email + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" + body)

	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	return smtp.SendMail(cfg.SMTPHost+":"+cfg.SMTPPort, auth, cfg.SMTPUser,
		[]string{order.Address.Email}, msg)
}

func invoiceHTML(order models.Order) string {
	var rows strings.Builder
	for _, item := range order.Items {
		rows.WriteString(fmt.Sprintf(
			"<tr><td>%s</td><td>%d</td><td>GHS %.2f</td><td>GHS %.2f</td></tr>",
			item.Name, item.Quantity, item.Price, item.Price*float64(item.Quantity)))
	}

	promoLine := ""
	if order.PromoCode != "" {
		promoLine = fmt.Sprintf("<p><strong>Promo Code:</strong> %s</p>", order.PromoCode)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html><body>
<h1>Savora</h1>
<h2>Order Invoice</h2>
<p><strong>Order ID:</strong> #%s</p>
<p><strong>Date:</strong> %s</p>
<h3>Customer</h3>
<p>%s<br>%s<br>%s<br>%s</p>
<table border="1" cellpadding="6" cellspacing="0">
<tr><th>Item</th><th>Qty</th><th>Price</th><th>Total</th></tr>
%s
</table>
%s
<p><strong>Total Amount:</strong> GHS %.2f</p>
<p>Thank you for choosing Savora!</p>
</body></html>`,
		shortID(order.OrderID),
		order.CreatedAt.Format("02 Jan 2006 15:04"),
		order.Address.Name, order.Address.Email, order.Address.Phone, order.Address.Location,
		rows.String(),
		promoLine,
		order.Amount)
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return strings.ToUpper(id)
}
