package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderInvoicePDF renders an invoice into a PDF document using the
// built-in core fonts.
func (s *InvoiceService) RenderInvoicePDF(ctx context.Context, userID, invoiceID string) ([]byte, error) {
	invoice, err := s.Get(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", invoice.InvoiceNumber), false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("%s issued %s", invoice.InvoiceNumber, invoice.IssueDate.Format("Jan 2, 2006")), "", 1, "C", false, 0, "")
	hr(pdf)
	pdf.Ln(2)

	if invoice.Client != nil {
		sectionTitle(pdf, "Bill To")
		kvLine(pdf, "Client", invoice.Client.Name)
		kvLine(pdf, "Email", invoice.Client.Email)
		if invoice.Client.Phone != "" {
			kvLine(pdf, "Phone", invoice.Client.Phone)
		}
		pdf.Ln(2)
		hr(pdf)
	}

	sectionTitle(pdf, "Details")
	kvLine(pdf, "Status", invoice.Status)
	kvLine(pdf, "Due Date", invoice.DueDate.Format("Jan 2, 2006"))
	pdf.Ln(2)
	hr(pdf)

	sectionTitle(pdf, "Line Items")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(27, 7, "Unit Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(28, 7, "Total", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range invoice.Items {
		pdf.CellFormat(90, 7, item.Description, "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, item.Quantity.String(), "", 0, "R", false, 0, "")
		pdf.CellFormat(27, 7, item.UnitPrice.String(), "", 0, "R", false, 0, "")
		pdf.CellFormat(28, 7, item.Total().String(), "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 11)
	kvLine(pdf, "Subtotal", invoice.Subtotal().String())
	kvLine(pdf, "Tax", fmt.Sprintf("%s (%s%%)", invoice.TaxAmount().String(), invoice.TaxRate.String()))
	pdf.SetFont("Helvetica", "B", 12)
	kvLine(pdf, "Total", invoice.TotalAmount().String())

	if invoice.Notes != "" {
		pdf.Ln(3)
		hr(pdf)
		sectionTitle(pdf, "Notes")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, invoice.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

func kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
