package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bidops/bid-data-service/internal/model"
	"github.com/bidops/bid-data-service/internal/parse"
)

func listing() []model.Bid {
	return []model.Bid{
		{
			Type:                    "공사",
			BidDeadline:             time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC),
			BidDate:                 time.Date(2025, 1, 21, 14, 0, 0, 0, time.UTC),
			OrderingAgency:          "경인테스트청",
			AnnouncementName:        "테스트 공사 입찰",
			AnnouncementNumber:      "20250120345-00",
			BaseAmount:              95000000,
			WinningBidAmount:        94000000,
			FirstPlaceCompany:       "테스트건설",
			BaseToWinningRatio:      0.98947,
			ExpectedToWinningRatio:  0.97917,
			EstimatedToWinningRatio: 0.94,
		},
		{
			Type:               "공사",
			BidDeadline:        time.Date(2025, 1, 22, 10, 0, 0, 0, time.UTC),
			BidDate:            time.Date(2025, 1, 23, 14, 0, 0, 0, time.UTC),
			AnnouncementName:   "둘째 입찰",
			AnnouncementNumber: "20250120346-00",
			BaseAmount:         80000000,
		},
	}
}

func TestExcelExportIsReuploadable(t *testing.T) {
	content, err := NewExcelGenerator().Generate(listing())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	rows, err := parse.ReadWorkbook(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("exported workbook is unreadable: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("exported workbook has %d rows, want 2", len(rows))
	}

	bids := parse.Records(rows, zerolog.Nop())
	if len(bids) != 2 {
		t.Fatalf("re-parse yielded %d bids, want 2", len(bids))
	}
	if bids[0].AnnouncementNumber != "20250120345-00" || bids[0].BaseAmount != 95000000 {
		t.Fatalf("re-parsed bid 0 = %+v", bids[0])
	}
	if !bids[1].BidDeadline.Equal(time.Date(2025, 1, 22, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("re-parsed deadline = %v", bids[1].BidDeadline)
	}
}

func TestPDFExportProducesDocument(t *testing.T) {
	content, err := NewPDFGenerator().Generate(listing())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Fatalf("output is not a pdf (starts with %q)", content[:min(8, len(content))])
	}
}

func TestExportsHandleEmptyListing(t *testing.T) {
	if _, err := NewExcelGenerator().Generate(nil); err != nil {
		t.Fatalf("excel Generate(nil) error: %v", err)
	}
	if _, err := NewPDFGenerator().Generate(nil); err != nil {
		t.Fatalf("pdf Generate(nil) error: %v", err)
	}
}
