package parse

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/bidops/bid-data-service/internal/model"
)

// Upload columns. Exports carry a fixed Korean header schema; the table below
// is the single place that binds headers to Bid fields.
const (
	ColNumber                  = "번호"
	ColType                    = "타입"
	ColParticipationDeadline   = "참가마감"
	ColBidDeadline             = "투찰마감"
	ColBidDate                 = "입찰일"
	ColOrderingAgency          = "발주기관"
	ColAnnouncementName        = "공고명"
	ColAnnouncementNumber      = "공고번호"
	ColIndustry                = "업종"
	ColRegion                  = "지역"
	ColEstimatedPrice          = "추정가격"
	ColBaseAmount              = "기초금액"
	ColFirstPlaceCompany       = "1순위업체"
	ColWinningBidAmount        = "낙찰금액"
	ColExpectedPrice           = "예정가격"
	ColExpectedAdjustment      = "예정사정"
	ColBaseToWinningRatio      = "기초/낙찰"
	ColExpectedToWinningRatio  = "예정/낙찰"
	ColEstimatedToWinningRatio = "추정/낙찰"
)

// Row is one spreadsheet line keyed by column header.
type Row map[string]string

// Record maps one row into a Bid. The second return is false when the row
// has no announcement number and must be skipped (footer rows, padding — not
// an error). Only the two date columns can fail.
func Record(row Row) (*model.Bid, bool, error) {
	announcementNumber := String(row[ColAnnouncementNumber])
	if announcementNumber == "" {
		return nil, false, nil
	}

	bidDeadline, err := DateTime(row[ColBidDeadline])
	if err != nil {
		return nil, false, fmt.Errorf("column %s: %w", ColBidDeadline, err)
	}
	bidDate, err := DateTime(row[ColBidDate])
	if err != nil {
		return nil, false, fmt.Errorf("column %s: %w", ColBidDate, err)
	}

	return &model.Bid{
		Number:                  OptionalFloat(row[ColNumber]),
		Type:                    String(row[ColType]),
		ParticipationDeadline:   OptionalInt(row[ColParticipationDeadline]),
		BidDeadline:             bidDeadline,
		BidDate:                 bidDate,
		OrderingAgency:          String(row[ColOrderingAgency]),
		AnnouncementName:        String(row[ColAnnouncementName]),
		AnnouncementNumber:      announcementNumber,
		Industry:                String(row[ColIndustry]),
		Region:                  String(row[ColRegion]),
		EstimatedPrice:          Integer(row[ColEstimatedPrice]),
		BaseAmount:              Integer(row[ColBaseAmount]),
		FirstPlaceCompany:       String(row[ColFirstPlaceCompany]),
		WinningBidAmount:        Integer(row[ColWinningBidAmount]),
		ExpectedPrice:           Integer(row[ColExpectedPrice]),
		ExpectedAdjustment:      Ratio(row[ColExpectedAdjustment]),
		BaseToWinningRatio:      Ratio(row[ColBaseToWinningRatio]),
		ExpectedToWinningRatio:  Ratio(row[ColExpectedToWinningRatio]),
		EstimatedToWinningRatio: Ratio(row[ColEstimatedToWinningRatio]),
	}, true, nil
}

// Records converts a batch of rows, preserving input order. Rows without an
// announcement number are skipped quietly; rows with an unparseable date are
// dropped and logged, and the batch carries on. One bad row never aborts an
// upload.
func Records(rows []Row, log zerolog.Logger) []model.Bid {
	bids := make([]model.Bid, 0, len(rows))
	for i, row := range rows {
		bid, ok, err := Record(row)
		if err != nil {
			key := String(row[ColAnnouncementNumber])
			if key == "" {
				key = "unknown"
			}
			log.Warn().
				Int("row", i+1).
				Str("announcement_number", key).
				Err(err).
				Msg("dropping unparseable bid row")
			continue
		}
		if !ok {
			continue
		}
		bids = append(bids, *bid)
	}
	return bids
}

// ReadWorkbook reads the first sheet of an xls/xlsx stream into rows keyed by
// the header line.
func ReadWorkbook(r io.Reader) ([]Row, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	raw, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	header := make([]string, len(raw[0]))
	for i, name := range raw[0] {
		header[i] = strings.TrimSpace(name)
	}

	rows := make([]Row, 0, len(raw)-1)
	for _, line := range raw[1:] {
		row := make(Row, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(line) {
				row[name] = line[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
