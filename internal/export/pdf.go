package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/bidops/bid-data-service/internal/model"
)

type PDFGenerator struct {
	fontName string
}

func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{fontName: "Helvetica"}
}

// Generate renders the bid listing as a landscape table. Core fonts only:
// labels are kept ASCII and text cells pass through a latin-1 translator, so
// the numeric columns that matter for review always render.
func (g *PDFGenerator) Generate(bids []model.Bid) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Bid Listing", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d records", len(bids)), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	headers := []string{"Announcement No", "Deadline", "Bid Date", "Base Amount", "Winning Amount", "Expected Price", "Base/Win", "Winner"}
	colWidths := []float64{48, 28, 28, 34, 34, 34, 22, 45}
	drawRow(pdf, g.fontName, headers, colWidths, true)

	for _, bid := range bids {
		row := []string{
			bid.AnnouncementNumber,
			formatDateTime(bid.BidDeadline),
			formatDateTime(bid.BidDate),
			formatAmount(bid.BaseAmount),
			formatAmount(bid.WinningBidAmount),
			formatAmount(bid.ExpectedPrice),
			fmt.Sprintf("%.5f", bid.BaseToWinningRatio),
			tr(bid.FirstPlaceCompany),
		}
		drawRow(pdf, g.fontName, row, colWidths, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 8)
	for i, col := range cols {
		align := "R"
		if i == 0 || i == len(cols)-1 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 7, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func formatAmount(value int64) string {
	return fmt.Sprintf("%d", value)
}
