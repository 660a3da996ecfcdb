package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/bidops/bid-data-service/internal/model"
	"github.com/bidops/bid-data-service/internal/parse"
)

type ExcelGenerator struct{}

func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{}
}

// Generate writes the bid listing as a workbook whose header row matches the
// upload schema, so an exported file can be re-uploaded unchanged.
func (g *ExcelGenerator) Generate(bids []model.Bid) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "입찰 목록"
	file.SetSheetName("Sheet1", sheet)

	set := func(col, row int, value interface{}) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		parse.ColNumber,
		parse.ColType,
		parse.ColParticipationDeadline,
		parse.ColBidDeadline,
		parse.ColBidDate,
		parse.ColOrderingAgency,
		parse.ColAnnouncementName,
		parse.ColAnnouncementNumber,
		parse.ColIndustry,
		parse.ColRegion,
		parse.ColEstimatedPrice,
		parse.ColBaseAmount,
		parse.ColFirstPlaceCompany,
		parse.ColWinningBidAmount,
		parse.ColExpectedPrice,
		parse.ColExpectedAdjustment,
		parse.ColBaseToWinningRatio,
		parse.ColExpectedToWinningRatio,
		parse.ColEstimatedToWinningRatio,
	}
	for i, header := range headers {
		set(i+1, 1, header)
	}

	for i, bid := range bids {
		row := i + 2
		set(1, row, formatOptionalFloat(bid.Number))
		set(2, row, bid.Type)
		set(3, row, formatOptionalInt(bid.ParticipationDeadline))
		set(4, row, formatDateTime(bid.BidDeadline))
		set(5, row, formatDateTime(bid.BidDate))
		set(6, row, bid.OrderingAgency)
		set(7, row, bid.AnnouncementName)
		set(8, row, bid.AnnouncementNumber)
		set(9, row, bid.Industry)
		set(10, row, bid.Region)
		set(11, row, bid.EstimatedPrice)
		set(12, row, bid.BaseAmount)
		set(13, row, bid.FirstPlaceCompany)
		set(14, row, bid.WinningBidAmount)
		set(15, row, bid.ExpectedPrice)
		set(16, row, bid.ExpectedAdjustment)
		set(17, row, bid.BaseToWinningRatio)
		set(18, row, bid.ExpectedToWinningRatio)
		set(19, row, bid.EstimatedToWinningRatio)
	}

	_ = file.SetColWidth(sheet, "D", "E", 18)
	_ = file.SetColWidth(sheet, "F", "G", 36)
	_ = file.SetColWidth(sheet, "H", "H", 20)
	_ = file.SetColWidth(sheet, "K", "O", 16)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("06-01-02 15:04")
}

func formatOptionalFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%g", *value)
}

func formatOptionalInt(value *int64) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *value)
}
