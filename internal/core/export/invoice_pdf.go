package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/utils"
)

const (
	invoiceMargin = 15.0
	accentR       = 79
	accentG       = 70
	accentB       = 229
)

// InvoiceRenderer draws a single invoice onto an A4 page
type InvoiceRenderer struct {
	logos *LogoLoader
}

// NewInvoiceRenderer creates a renderer; logos may be nil to skip logos
func NewInvoiceRenderer(logos *LogoLoader) *InvoiceRenderer {
	return &InvoiceRenderer{logos: logos}
}

func (r *InvoiceRenderer) Render(ctx context.Context, doc InvoiceDocument, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(invoiceMargin, invoiceMargin, invoiceMargin)
	pdf.SetAutoPageBreak(true, invoiceMargin)
	pdf.AddPage()
	text := textEncoder(pdf)

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*invoiceMargin
	half := contentW / 2

	// title block
	pdf.SetFont("Arial", "B", 28)
	pdf.SetTextColor(30, 41, 59)
	pdf.Cell(half, 12, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(100, 116, 139)
	pdf.Cell(half, 6, text("#"+doc.Number))
	pdf.Ln(6)
	titleBottom := pdf.GetY()

	if doc.ShowCompany {
		y := invoiceMargin
		if logo := r.loadLogo(ctx, doc.Logo); logo != nil {
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			info := pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(logo))
			if info != nil && info.Height() > 0 {
				h := 16.0
				lw := h * info.Width() / info.Height()
				pdf.ImageOptions("logo", pageW-invoiceMargin-lw, y, lw, h, false, opts, 0, "")
				y += h + 2
			}
		}

		name := doc.Company.Name
		if strings.TrimSpace(name) == "" {
			name = "Your Company Name"
		}
		pdf.SetXY(invoiceMargin+half, y)
		pdf.SetFont("Arial", "B", 13)
		pdf.SetTextColor(30, 41, 59)
		pdf.CellFormat(half, 7, text(name), "", 2, "R", false, 0, "")

		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(71, 85, 105)
		for _, line := range partyLines(doc.Company) {
			pdf.SetX(invoiceMargin + half)
			pdf.CellFormat(half, 4.5, text(line), "", 2, "R", false, 0, "")
		}
		if pdf.GetY() > titleBottom {
			titleBottom = pdf.GetY()
		}
	}

	// bill-to and dates
	pdf.SetXY(invoiceMargin, titleBottom+8)
	top := pdf.GetY()
	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(100, 116, 139)
	pdf.Cell(half, 5, "BILL TO:")
	pdf.Ln(5)

	client := doc.BillTo.Name
	if strings.TrimSpace(client) == "" {
		client = "Client Name"
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(30, 41, 59)
	pdf.Cell(half, 6, text(client))
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(71, 85, 105)
	for _, line := range partyLines(doc.BillTo) {
		pdf.Cell(half, 4.5, text(line))
		pdf.Ln(4.5)
	}
	billBottom := pdf.GetY()

	pdf.SetXY(invoiceMargin+half, top)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(half, 5, text("Date: "+doc.Date), "", 2, "R", false, 0, "")
	if doc.DueDate != "" {
		pdf.SetX(invoiceMargin + half)
		pdf.CellFormat(half, 5, text("Due Date: "+doc.DueDate), "", 2, "R", false, 0, "")
	}
	if pdf.GetY() < billBottom {
		pdf.SetY(billBottom)
	}
	pdf.Ln(8)

	// items
	cols := []float64{contentW * 0.5, contentW * 0.12, contentW * 0.18, contentW * 0.2}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(241, 245, 249)
	pdf.SetTextColor(30, 41, 59)
	for i, h := range []string{"Description", "Qty", "Price", "Amount"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(cols[i], 8, h, "B", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(51, 65, 85)
	for _, line := range doc.Lines {
		pdf.CellFormat(cols[0], 7, truncate(pdf, text(line.Description), cols[0]-2), "B", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 7, text(line.Quantity), "B", 0, "R", false, 0, "")
		pdf.CellFormat(cols[2], 7, text(line.Price), "B", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 7, text(line.Amount), "B", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	// totals
	labelW, valueW := contentW*0.25, contentW*0.2
	for _, t := range doc.Totals {
		pdf.SetX(pageW - invoiceMargin - labelW - valueW)
		if t.Emphasis {
			pdf.SetDrawColor(accentR, accentG, accentB)
			pdf.Line(pdf.GetX(), pdf.GetY()+1, pageW-invoiceMargin, pdf.GetY()+1)
			pdf.Ln(2)
			pdf.SetX(pageW - invoiceMargin - labelW - valueW)
			pdf.SetFont("Arial", "B", 12)
			pdf.SetTextColor(accentR, accentG, accentB)
		} else {
			pdf.SetFont("Arial", "", 10)
			pdf.SetTextColor(71, 85, 105)
		}
		pdf.CellFormat(labelW, 7, text(t.Label), "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 7, text(t.Value), "", 1, "R", false, 0, "")
	}

	if strings.TrimSpace(doc.Notes) != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 9)
		pdf.SetTextColor(100, 116, 139)
		pdf.Cell(0, 5, "NOTES:")
		pdf.Ln(5)
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(71, 85, 105)
		pdf.MultiCell(contentW, 4.5, text(doc.Notes), "", "L", false)
	}

	if doc.QRPayload != "" {
		png, err := qrcode.Encode(doc.QRPayload, qrcode.Medium, 256)
		if err != nil {
			return fmt.Errorf("failed to encode QR code: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
		pdf.Ln(6)
		pdf.ImageOptions("qr", invoiceMargin, pdf.GetY(), 28, 28, true, opts, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write invoice PDF: %w", err)
	}
	return nil
}

func (r *InvoiceRenderer) loadLogo(ctx context.Context, src string) []byte {
	if r.logos == nil || strings.TrimSpace(src) == "" {
		return nil
	}
	logo, err := r.logos.Load(ctx, src)
	if err != nil {
		utils.LogWarn("skipping invoice logo", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return logo
}

func partyLines(p Party) []string {
	var lines []string
	for _, l := range strings.Split(p.Address, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	for _, l := range []string{p.Phone, p.Email} {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if p.TaxID != "" {
		lines = append(lines, "GSTIN: "+p.TaxID)
	}
	return lines
}
