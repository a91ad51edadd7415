// Package invoice renders downloadable PDF invoices for orders.
package invoice

import (
	"bytes"
	"fmt"

	"savora/config"
	"savora/models"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// BuildPDF renders an order invoice with a QR code linking to the order
// tracking page.
func BuildPDF(order models.Order) ([]byte, error) {
	trackURL := fmt.Sprintf("%s/myorders?order=%s", config.Load().FrontendURL, order.OrderID)
	qrPNG, err := qrcode.Encode(trackURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(40, 10, "Savora")
	pdf.Ln(10)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Order Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Order: %s", order.OrderID))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", order.CreatedAt.Format("02 Jan 2006 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Customer: %s (%s)", order.Address.Name, order.Address.Email))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Delivery: %s", order.Address.Location))
	pdf.Ln(10)

	// line items
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, item := range order.Items {
		pdf.CellFormat(90, 8, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("GHS %.2f", item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("GHS %.2f", item.Price*float64(item.Quantity)), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	if order.PromoCode != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Promo code: %s", order.PromoCode))
		pdf.Ln(6)
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: GHS %.2f", order.Amount))
	pdf.Ln(6)
	if !order.Payment {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 8, "Payment pending")
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 20, 35, 35, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
