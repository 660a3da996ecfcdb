package parse

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

func sampleRow() Row {
	return Row{
		ColNumber:                  "1",
		ColType:                    "공사",
		ColParticipationDeadline:   "5",
		ColBidDeadline:             "25-01-20 10:00",
		ColBidDate:                 "25-01-21 14:00",
		ColOrderingAgency:          "경인테스트청",
		ColAnnouncementName:        "테스트 공사 입찰",
		ColAnnouncementNumber:      "20250120345-00",
		ColIndustry:                "건설업",
		ColRegion:                  "서울",
		ColEstimatedPrice:          "100,000,000",
		ColBaseAmount:              "95,000,000",
		ColFirstPlaceCompany:       "테스트건설",
		ColWinningBidAmount:        "94,000,000",
		ColExpectedPrice:           "96,000,000",
		ColExpectedAdjustment:      "0.98",
		ColBaseToWinningRatio:      "0.98947",
		ColExpectedToWinningRatio:  "0.979166666",
		ColEstimatedToWinningRatio: "0.94",
	}
}

func TestRecordParsesValidRow(t *testing.T) {
	bid, ok, err := Record(sampleRow())
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if !ok {
		t.Fatalf("Record skipped a valid row")
	}
	if bid.AnnouncementNumber != "20250120345-00" {
		t.Errorf("announcement number = %q", bid.AnnouncementNumber)
	}
	if bid.BaseAmount != 95000000 {
		t.Errorf("base amount = %d, want 95000000", bid.BaseAmount)
	}
	if bid.ExpectedToWinningRatio != 0.97917 {
		t.Errorf("expected/winning ratio = %v, want 0.97917", bid.ExpectedToWinningRatio)
	}
	if bid.ParticipationDeadline == nil || *bid.ParticipationDeadline != 5 {
		t.Errorf("participation deadline = %v, want 5", bid.ParticipationDeadline)
	}
	if bid.BidDeadline.Year() != 2025 || bid.BidDeadline.Hour() != 10 {
		t.Errorf("bid deadline = %v", bid.BidDeadline)
	}
}

func TestRecordMalformedNumbersDoNotAbortRow(t *testing.T) {
	row := sampleRow()
	row[ColEstimatedPrice] = "garbage"
	row[ColBaseToWinningRatio] = "???"
	row[ColParticipationDeadline] = "-"

	bid, ok, err := Record(row)
	if err != nil || !ok {
		t.Fatalf("Record failed on malformed numerics: ok=%v err=%v", ok, err)
	}
	if bid.EstimatedPrice != 0 {
		t.Errorf("estimated price = %d, want 0", bid.EstimatedPrice)
	}
	if bid.BaseToWinningRatio != 0 {
		t.Errorf("base/winning ratio = %v, want 0", bid.BaseToWinningRatio)
	}
	if bid.ParticipationDeadline != nil {
		t.Errorf("participation deadline = %v, want nil", *bid.ParticipationDeadline)
	}
}

func TestRecordSkipsRowsWithoutAnnouncementNumber(t *testing.T) {
	for _, key := range []string{"", "   ", "nan"} {
		row := sampleRow()
		row[ColAnnouncementNumber] = key
		_, ok, err := Record(row)
		if err != nil {
			t.Fatalf("Record(%q key) returned error: %v", key, err)
		}
		if ok {
			t.Errorf("Record(%q key) produced a record, want skip", key)
		}
	}
}

func TestRecordFailsOnBadDate(t *testing.T) {
	row := sampleRow()
	row[ColBidDeadline] = "abc"
	_, _, err := Record(row)
	if err == nil {
		t.Fatalf("Record succeeded with unparseable bid deadline")
	}
}

func TestRecordsIsolatesBadRows(t *testing.T) {
	good1 := sampleRow()
	bad := sampleRow()
	bad[ColAnnouncementNumber] = "20250199999-00"
	bad[ColBidDate] = "123"
	good2 := sampleRow()
	good2[ColAnnouncementNumber] = "20250177777-00"

	bids := Records([]Row{good1, bad, good2}, zerolog.Nop())
	if len(bids) != 2 {
		t.Fatalf("Records returned %d bids, want 2", len(bids))
	}
	if bids[0].AnnouncementNumber != "20250120345-00" || bids[1].AnnouncementNumber != "20250177777-00" {
		t.Fatalf("unexpected surviving rows: %q, %q", bids[0].AnnouncementNumber, bids[1].AnnouncementNumber)
	}
}

func TestReadWorkbookRoundTrip(t *testing.T) {
	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	headers := []string{ColAnnouncementNumber, ColAnnouncementName, ColBaseAmount}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := file.SetCellValue(sheet, cell, h); err != nil {
			t.Fatalf("set header: %v", err)
		}
	}
	values := [][]string{
		{"20250120345-00", "테스트 입찰", "95,000,000"},
		{"20250120346-00", "둘째 입찰", "80,000,000"},
	}
	for r, line := range values {
		for c, v := range line {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := file.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	buf, err := file.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	rows, err := ReadWorkbook(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadWorkbook error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0][ColAnnouncementNumber] != "20250120345-00" {
		t.Errorf("row 0 key = %q", rows[0][ColAnnouncementNumber])
	}
	if rows[1][ColAnnouncementName] != "둘째 입찰" {
		t.Errorf("row 1 name = %q", rows[1][ColAnnouncementName])
	}
}
