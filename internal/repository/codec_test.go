package repository

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/bidops/bid-data-service/internal/model"
)

func sampleBid() model.Bid {
	number := 1.0
	deadline := int64(5)
	return model.Bid{
		Number:                  &number,
		Type:                    "공사",
		ParticipationDeadline:   &deadline,
		BidDeadline:             time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC),
		BidDate:                 time.Date(2025, 1, 21, 14, 0, 0, 0, time.UTC),
		OrderingAgency:          "경인테스트청",
		AnnouncementName:        "테스트 공사 입찰",
		AnnouncementNumber:      "20250120345-00",
		Industry:                "건설업",
		Region:                  "서울",
		EstimatedPrice:          100000000,
		BaseAmount:              95000000,
		FirstPlaceCompany:       "테스트건설",
		WinningBidAmount:        94000000,
		ExpectedPrice:           96000000,
		ExpectedAdjustment:      0.98,
		BaseToWinningRatio:      0.98947,
		ExpectedToWinningRatio:  0.97917,
		EstimatedToWinningRatio: 0.94,
	}
}

func TestCodecRoundTrip(t *testing.T) {
	in := sampleBid()
	doc, err := toDocument(in)
	if err != nil {
		t.Fatalf("toDocument error: %v", err)
	}
	if !doc.ID.IsZero() {
		t.Fatalf("toDocument assigned an id for an unstored bid")
	}

	out := fromDocument(doc)
	if out.ID != "" {
		t.Fatalf("fromDocument produced id %q for a zero object id", out.ID)
	}
	out.ID = in.ID
	if out.AnnouncementNumber != in.AnnouncementNumber ||
		out.BaseAmount != in.BaseAmount ||
		out.ExpectedToWinningRatio != in.ExpectedToWinningRatio ||
		!out.BidDeadline.Equal(in.BidDeadline) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
	if out.Number == nil || *out.Number != *in.Number {
		t.Fatalf("number did not survive round trip: %v", out.Number)
	}
	if out.ParticipationDeadline == nil || *out.ParticipationDeadline != *in.ParticipationDeadline {
		t.Fatalf("participation deadline did not survive round trip: %v", out.ParticipationDeadline)
	}
}

func TestToDocumentPreservesStoredID(t *testing.T) {
	in := sampleBid()
	in.ID = "507f1f77bcf86cd799439011"
	doc, err := toDocument(in)
	if err != nil {
		t.Fatalf("toDocument error: %v", err)
	}
	if doc.ID.Hex() != in.ID {
		t.Fatalf("document id = %s, want %s", doc.ID.Hex(), in.ID)
	}
	if got := fromDocument(doc).ID; got != in.ID {
		t.Fatalf("round-tripped id = %q, want %q", got, in.ID)
	}
}

func TestToDocumentRejectsMalformedID(t *testing.T) {
	in := sampleBid()
	in.ID = "not-a-hex-id"
	if _, err := toDocument(in); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("toDocument error = %v, want ErrInvalidID", err)
	}
}

func TestPatchDocumentOnlySetFields(t *testing.T) {
	name := "수정된 공사 입찰"
	amount := int64(93000000)
	set := patchDocument(model.BidUpdate{
		AnnouncementName: &name,
		WinningBidAmount: &amount,
	})
	if len(set) != 2 {
		t.Fatalf("patch has %d fields, want 2: %v", len(set), set)
	}
	if set["announcement_name"] != name {
		t.Errorf("announcement_name = %v", set["announcement_name"])
	}
	if set["winning_bid_amount"] != amount {
		t.Errorf("winning_bid_amount = %v", set["winning_bid_amount"])
	}
}

func TestPatchDocumentEmpty(t *testing.T) {
	if set := patchDocument(model.BidUpdate{}); len(set) != 0 {
		t.Fatalf("empty patch produced fields: %v", set)
	}
}

func TestDocumentOmitsZeroIDOnMarshal(t *testing.T) {
	doc, err := toDocument(sampleBid())
	if err != nil {
		t.Fatalf("toDocument error: %v", err)
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("bson marshal: %v", err)
	}
	var decoded bson.M
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("bson unmarshal: %v", err)
	}
	if _, present := decoded["_id"]; present {
		t.Fatalf("zero _id was marshaled; upserts would clobber stored ids")
	}
	if decoded["announcement_number"] != "20250120345-00" {
		t.Fatalf("announcement_number = %v", decoded["announcement_number"])
	}
}
