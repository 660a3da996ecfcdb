package model

import "time"

// Bid is one procurement auction record. Bids are deduplicated by
// AnnouncementNumber; the storage id is assigned by the store on first
// insert and never changes afterwards. Storage mapping lives in the
// repository, not here.
type Bid struct {
	ID                      string     `json:"id"`
	Number                  *float64   `json:"number"`
	Type                    string     `json:"type"`
	ParticipationDeadline   *int64     `json:"participation_deadline"`
	BidDeadline             time.Time  `json:"bid_deadline"`
	BidDate                 time.Time  `json:"bid_date"`
	OrderingAgency          string     `json:"ordering_agency"`
	AnnouncementName        string     `json:"announcement_name"`
	AnnouncementNumber      string     `json:"announcement_number"`
	Industry                string     `json:"industry"`
	Region                  string     `json:"region"`
	EstimatedPrice          int64      `json:"estimated_price"`
	BaseAmount              int64      `json:"base_amount"`
	FirstPlaceCompany       string     `json:"first_place_company"`
	WinningBidAmount        int64      `json:"winning_bid_amount"`
	ExpectedPrice           int64      `json:"expected_price"`
	ExpectedAdjustment      float64    `json:"expected_adjustment"`
	BaseToWinningRatio      float64    `json:"base_to_winning_ratio"`
	ExpectedToWinningRatio  float64    `json:"expected_to_winning_ratio"`
	EstimatedToWinningRatio float64    `json:"estimated_to_winning_ratio"`
}

// BidUpdate is a partial patch: only non-nil fields are written, the rest of
// the stored document is retained.
type BidUpdate struct {
	Number                  *float64   `json:"number"`
	Type                    *string    `json:"type"`
	ParticipationDeadline   *int64     `json:"participation_deadline"`
	BidDeadline             *time.Time `json:"bid_deadline"`
	BidDate                 *time.Time `json:"bid_date"`
	OrderingAgency          *string    `json:"ordering_agency"`
	AnnouncementName        *string    `json:"announcement_name"`
	AnnouncementNumber      *string    `json:"announcement_number"`
	Industry                *string    `json:"industry"`
	Region                  *string    `json:"region"`
	EstimatedPrice          *int64     `json:"estimated_price"`
	BaseAmount              *int64     `json:"base_amount"`
	FirstPlaceCompany       *string    `json:"first_place_company"`
	WinningBidAmount        *int64     `json:"winning_bid_amount"`
	ExpectedPrice           *int64     `json:"expected_price"`
	ExpectedAdjustment      *float64   `json:"expected_adjustment"`
	BaseToWinningRatio      *float64   `json:"base_to_winning_ratio"`
	ExpectedToWinningRatio  *float64   `json:"expected_to_winning_ratio"`
	EstimatedToWinningRatio *float64   `json:"estimated_to_winning_ratio"`
}

// UploadOutcome summarizes one bulk upload: how many announcement numbers
// were newly inserted, how many overwrote an existing document, and which
// announcement numbers fell into the overwrite bucket.
type UploadOutcome struct {
	Inserted    int      `json:"inserted_count"`
	Updated     int      `json:"updated_count"`
	UpdatedList []string `json:"updated_list"`
}
