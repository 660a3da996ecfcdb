package job

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/bidops/bid-data-service/internal/model"
	"github.com/bidops/bid-data-service/internal/openapi"
	"github.com/bidops/bid-data-service/internal/parse"
)

// BidUpserter is the slice of the store the sync job needs.
type BidUpserter interface {
	BulkUpsert(ctx context.Context, bids []model.Bid) (model.UploadOutcome, error)
}

// Syncer pulls award results from the open-data portal and upserts them into
// the bid collection, deduplicated by announcement number like any other
// ingestion path.
type Syncer struct {
	client   *openapi.Client
	store    BidUpserter
	pageSize int
	log      zerolog.Logger
}

func NewSyncer(client *openapi.Client, store BidUpserter, pageSize int, log zerolog.Logger) *Syncer {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Syncer{
		client:   client,
		store:    store,
		pageSize: pageSize,
		log:      log,
	}
}

// Schedule registers Run on the given cron spec and starts the scheduler.
func (s *Syncer) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := s.Run(context.Background()); err != nil {
			s.log.Error().Err(err).Msg("bid sync failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule bid sync: %w", err)
	}
	c.Start()
	return c, nil
}

// Run syncs the previous day's opening window.
func (s *Syncer) Run(ctx context.Context) error {
	yesterday := time.Now().AddDate(0, 0, -1)
	begin := yesterday.Format("20060102") + "0000"
	end := yesterday.Format("20060102") + "2359"
	return s.SyncWindow(ctx, begin, end)
}

// SyncWindow pages through the award results for one opening window and
// bulk-upserts everything it can map to a bid record.
func (s *Syncer) SyncWindow(ctx context.Context, begin, end string) error {
	var bids []model.Bid
	for page := 1; ; page++ {
		result, err := s.client.FetchAwards(ctx, openapi.Request{
			PageNo:       page,
			NumOfRows:    s.pageSize,
			OpeningBegin: begin,
			OpeningEnd:   end,
		})
		if err != nil {
			return err
		}

		body := result.Response.Body
		for _, item := range body.Items {
			bid, ok := mapItem(item)
			if !ok {
				s.log.Warn().
					Str("announcement_number", item.BidNtceNo).
					Msg("skipping award item without usable opening date")
				continue
			}
			bids = append(bids, bid)
		}

		fetched := page * s.pageSize
		if fetched >= body.TotalCount || len(body.Items) == 0 {
			break
		}
	}

	outcome, err := s.store.BulkUpsert(ctx, bids)
	if err != nil {
		return err
	}
	s.log.Info().
		Str("window_begin", begin).
		Str("window_end", end).
		Int("inserted", outcome.Inserted).
		Int("updated", outcome.Updated).
		Msg("bid sync finished")
	return nil
}

// mapItem converts one award-result item into a bid record, reusing the
// upload normalizers for the stringly-typed numeric fields. Items without a
// parseable opening date are unusable and reported to the caller.
func mapItem(item openapi.Item) (model.Bid, bool) {
	key := strings.TrimSpace(item.BidNtceNo)
	if key == "" {
		return model.Bid{}, false
	}
	if ord := strings.TrimSpace(item.BidNtceOrd); ord != "" {
		key = key + "-" + ord
	}

	opened, err := parse.DateTime(deref(item.OpengDate) + " " + deref(item.OpengTm))
	if err != nil {
		return model.Bid{}, false
	}

	bid := model.Bid{
		Type:               item.BsnsDivNm,
		BidDeadline:        opened,
		BidDate:            opened,
		OrderingAgency:     item.NtceInsttNm,
		AnnouncementName:   item.BidNtceNm,
		AnnouncementNumber: key,
		EstimatedPrice:     parse.Integer(deref(item.PresmptPrce)),
		BaseAmount:         parse.Integer(deref(item.BssAmt)),
		ExpectedPrice:      parse.Integer(deref(item.RsrvtnPrce)),
		WinningBidAmount:   parse.Integer(deref(item.FnlSucsfAmt)),
		FirstPlaceCompany:  deref(item.FnlSucsfCorpNm),
	}

	if bid.WinningBidAmount > 0 {
		bid.BaseToWinningRatio = parse.Round5(float64(bid.BaseAmount) / float64(bid.WinningBidAmount))
		bid.ExpectedToWinningRatio = parse.Round5(float64(bid.ExpectedPrice) / float64(bid.WinningBidAmount))
		bid.EstimatedToWinningRatio = parse.Round5(float64(bid.EstimatedPrice) / float64(bid.WinningBidAmount))
	}
	return bid, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
