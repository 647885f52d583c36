package utils

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/youssefhany/go-eventbook/models"
)

// TicketPDF renders a single-page eTicket for a booking: event details plus
// a QR code carrying the booking id for check-in scans.
func TicketPDF(b models.BookingDetail, holderName string) ([]byte, error) {
	qrPNG, err := qrcode.Encode("eventbook:booking:"+b.ID.Hex(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pdf.SetAutoPageBreak(false, 0)

	pdf.SetFont("Helvetica", "B", 22)
	pdf.Cell(0, 15, "EVENTBOOK eTICKET")
	pdf.Ln(20)

	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(8)

	yStart := pdf.GetY()
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(15, yStart, 120, 60, "F")

	pdf.SetXY(20, yStart+5)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, b.EventName)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		"Holder:   " + holderName,
		"Category: " + b.EventCategory,
		"Date:     " + b.EventDate.Format("Mon, 02 Jan 2006 15:04 MST"),
		"Venue:    " + b.EventVenue,
		fmt.Sprintf("Price:    %.2f", b.EventPrice),
		"Booking:  " + b.ID.Hex(),
	}
	y := yStart + 16
	for _, line := range lines {
		pdf.SetXY(20, y)
		pdf.Cell(0, 6, line)
		y += 7
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("ticket-qr", 143, yStart+5, 50, 50, false, opts, 0, "")

	pdf.SetXY(15, 270)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 5, "Present this ticket (printed or on screen) at the venue entrance.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
