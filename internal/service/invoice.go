package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// InvoiceLoader assembles the data printed on an invoice.
type InvoiceLoader interface {
	Invoice(ctx context.Context, billingID uint64) (*model.Invoice, error)
}

// Invoices renders billing records as PDF documents.
type Invoices struct {
	loader InvoiceLoader
	hotel  string
}

func NewInvoices(loader InvoiceLoader, hotel string) *Invoices {
	return &Invoices{loader: loader, hotel: hotel}
}

// Reference is the code printed and encoded in the invoice QR code.
func Reference(inv *model.Invoice) string {
	return fmt.Sprintf("RES-%06d-BILL-%06d", inv.Reservation.ID, inv.Billing.ID)
}

func money(cents uint64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// Render returns the PDF of billing billingID.
func (s *Invoices) Render(ctx context.Context, billingID uint64) ([]byte, error) {
	inv, err := s.loader.Invoice(ctx, billingID)
	if err != nil {
		return nil, err
	}
	ref := Reference(inv)
	qr, err := qrcode.Encode(ref, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, s.hotel+" - Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	lines := []string{
		"Reference: " + ref,
		"Guest: " + inv.Guest.FullName(),
		"Email: " + inv.Guest.Email,
		fmt.Sprintf("Stay: %s to %s", inv.Reservation.CheckIn, inv.Reservation.CheckOut),
		"Status: " + inv.Reservation.StatusName,
	}
	for _, l := range lines {
		pdf.Cell(0, 8, l)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, "Item", "1", 0, "", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Unit", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, r := range inv.Reservation.Rooms {
		pdf.CellFormat(90, 8, "Room "+r.RoomNumber+" ("+r.RoomTypeName+")", "1", 0, "", false, 0, "")
		pdf.CellFormat(20, 8, "1", "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, "", "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, "", "1", 1, "R", false, 0, "")
	}
	for _, it := range inv.Items {
		amount := uint64(it.UnitCents) * uint64(it.Quantity)
		pdf.CellFormat(90, 8, it.AddonName, "1", 0, "", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprint(it.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, money(uint64(it.UnitCents)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, money(amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	for _, row := range [][2]string{
		{"Total", money(inv.Billing.TotalCents)},
		{"Paid", money(inv.Billing.PaidCents)},
		{"Balance", money(inv.Billing.BalanceCents())},
	} {
		pdf.CellFormat(145, 8, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, row[1], "", 1, "R", false, 0, "")
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 160, 15, 35, 35, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
