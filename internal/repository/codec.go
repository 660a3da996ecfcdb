package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bidops/bid-data-service/internal/model"
)

// bidDocument is the storage shape of a bid. The domain type deliberately
// carries no driver tags; this pair is the only place the mongo mapping is
// spelled out.
type bidDocument struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty"`
	Number                  *float64           `bson:"number"`
	Type                    string             `bson:"type"`
	ParticipationDeadline   *int64             `bson:"participation_deadline"`
	BidDeadline             time.Time          `bson:"bid_deadline"`
	BidDate                 time.Time          `bson:"bid_date"`
	OrderingAgency          string             `bson:"ordering_agency"`
	AnnouncementName        string             `bson:"announcement_name"`
	AnnouncementNumber      string             `bson:"announcement_number"`
	Industry                string             `bson:"industry"`
	Region                  string             `bson:"region"`
	EstimatedPrice          int64              `bson:"estimated_price"`
	BaseAmount              int64              `bson:"base_amount"`
	FirstPlaceCompany       string             `bson:"first_place_company"`
	WinningBidAmount        int64              `bson:"winning_bid_amount"`
	ExpectedPrice           int64              `bson:"expected_price"`
	ExpectedAdjustment      float64            `bson:"expected_adjustment"`
	BaseToWinningRatio      float64            `bson:"base_to_winning_ratio"`
	ExpectedToWinningRatio  float64            `bson:"expected_to_winning_ratio"`
	EstimatedToWinningRatio float64            `bson:"estimated_to_winning_ratio"`
}

// toDocument serializes a bid for storage. The id is carried over only when
// set, so upserts and inserts leave id assignment to the store.
func toDocument(bid model.Bid) (bidDocument, error) {
	doc := bidDocument{
		Number:                  bid.Number,
		Type:                    bid.Type,
		ParticipationDeadline:   bid.ParticipationDeadline,
		BidDeadline:             bid.BidDeadline,
		BidDate:                 bid.BidDate,
		OrderingAgency:          bid.OrderingAgency,
		AnnouncementName:        bid.AnnouncementName,
		AnnouncementNumber:      bid.AnnouncementNumber,
		Industry:                bid.Industry,
		Region:                  bid.Region,
		EstimatedPrice:          bid.EstimatedPrice,
		BaseAmount:              bid.BaseAmount,
		FirstPlaceCompany:       bid.FirstPlaceCompany,
		WinningBidAmount:        bid.WinningBidAmount,
		ExpectedPrice:           bid.ExpectedPrice,
		ExpectedAdjustment:      bid.ExpectedAdjustment,
		BaseToWinningRatio:      bid.BaseToWinningRatio,
		ExpectedToWinningRatio:  bid.ExpectedToWinningRatio,
		EstimatedToWinningRatio: bid.EstimatedToWinningRatio,
	}
	if bid.ID != "" {
		oid, err := primitive.ObjectIDFromHex(bid.ID)
		if err != nil {
			return bidDocument{}, ErrInvalidID
		}
		doc.ID = oid
	}
	return doc, nil
}

func fromDocument(doc bidDocument) model.Bid {
	bid := model.Bid{
		Number:                  doc.Number,
		Type:                    doc.Type,
		ParticipationDeadline:   doc.ParticipationDeadline,
		BidDeadline:             doc.BidDeadline,
		BidDate:                 doc.BidDate,
		OrderingAgency:          doc.OrderingAgency,
		AnnouncementName:        doc.AnnouncementName,
		AnnouncementNumber:      doc.AnnouncementNumber,
		Industry:                doc.Industry,
		Region:                  doc.Region,
		EstimatedPrice:          doc.EstimatedPrice,
		BaseAmount:              doc.BaseAmount,
		FirstPlaceCompany:       doc.FirstPlaceCompany,
		WinningBidAmount:        doc.WinningBidAmount,
		ExpectedPrice:           doc.ExpectedPrice,
		ExpectedAdjustment:      doc.ExpectedAdjustment,
		BaseToWinningRatio:      doc.BaseToWinningRatio,
		ExpectedToWinningRatio:  doc.ExpectedToWinningRatio,
		EstimatedToWinningRatio: doc.EstimatedToWinningRatio,
	}
	if !doc.ID.IsZero() {
		bid.ID = doc.ID.Hex()
	}
	return bid
}
