package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bidops/bid-data-service/internal/model"
)

var (
	// ErrNotFound signals expected absence; callers translate it to a
	// client-facing 404. Driver failures surface as ordinary wrapped errors.
	ErrNotFound = errors.New("bid not found")
	// ErrInvalidID signals a storage id that is not a valid object id hex.
	ErrInvalidID = errors.New("invalid bid id")
)

const collectionName = "bid"

type BidRepository struct {
	collection *mongo.Collection
}

func NewBidRepository(db *mongo.Database) *BidRepository {
	return &BidRepository{collection: db.Collection(collectionName)}
}

// Insert stores a new bid and returns the assigned storage id.
func (r *BidRepository) Insert(ctx context.Context, bid model.Bid) (string, error) {
	doc, err := toDocument(bid)
	if err != nil {
		return "", err
	}
	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert bid: %w", err)
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert bid: unexpected inserted id type %T", result.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *BidRepository) FindByID(ctx context.Context, id string) (*model.Bid, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var doc bidDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find bid by id: %w", err)
	}
	bid := fromDocument(doc)
	return &bid, nil
}

func (r *BidRepository) FindByAnnouncementNumber(ctx context.Context, announcementNumber string) (*model.Bid, error) {
	var doc bidDocument
	err := r.collection.FindOne(ctx, bson.M{"announcement_number": announcementNumber}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find bid by announcement number: %w", err)
	}
	bid := fromDocument(doc)
	return &bid, nil
}

func (r *BidRepository) ExistsByAnnouncementNumber(ctx context.Context, announcementNumber string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"announcement_number": announcementNumber}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count bids by announcement number: %w", err)
	}
	return count > 0, nil
}

// List returns one page of bids in store-native order plus the total count.
func (r *BidRepository) List(ctx context.Context, skip, limit int64) ([]model.Bid, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count bids: %w", err)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSkip(skip).SetLimit(limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list bids: %w", err)
	}
	defer cursor.Close(ctx)

	bids := make([]model.Bid, 0, limit)
	for cursor.Next(ctx) {
		var doc bidDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode bid: %w", err)
		}
		bids = append(bids, fromDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list bids: %w", err)
	}
	return bids, total, nil
}

// Update applies a partial patch. The boolean reports whether a bid with the
// given id existed; patching a bid with values it already holds still counts
// as found.
func (r *BidRepository) Update(ctx context.Context, id string, patch model.BidUpdate) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrInvalidID
	}

	set := patchDocument(patch)
	if len(set) == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
		if err != nil {
			return false, fmt.Errorf("check bid exists: %w", err)
		}
		return count > 0, nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("update bid: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *BidRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrInvalidID
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete bid: %w", err)
	}
	return result.DeletedCount > 0, nil
}

// BulkUpsert persists the batch in one bulk write, keyed by announcement
// number: unseen numbers insert, existing ones are overwritten in place with
// their storage id preserved. Operations run in batch order, so when a batch
// repeats an announcement number the last occurrence wins.
//
// The inserted/updated split is read straight off the bulk result: an
// operation index present in UpsertedIDs inserted a new document, everything
// else matched an existing one.
func (r *BidRepository) BulkUpsert(ctx context.Context, bids []model.Bid) (model.UploadOutcome, error) {
	outcome := model.UploadOutcome{UpdatedList: []string{}}
	if len(bids) == 0 {
		return outcome, nil
	}

	writes := make([]mongo.WriteModel, 0, len(bids))
	keys := make([]string, 0, len(bids))
	for _, bid := range bids {
		bid.ID = ""
		doc, err := toDocument(bid)
		if err != nil {
			return outcome, err
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"announcement_number": bid.AnnouncementNumber}).
			SetUpdate(bson.M{"$set": doc}).
			SetUpsert(true))
		keys = append(keys, bid.AnnouncementNumber)
	}

	result, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return outcome, fmt.Errorf("bulk upsert bids: %w", err)
	}

	inserted := make(map[string]struct{}, len(result.UpsertedIDs))
	for idx := range result.UpsertedIDs {
		inserted[keys[idx]] = struct{}{}
	}
	for _, key := range keys {
		if _, ok := inserted[key]; !ok {
			outcome.UpdatedList = append(outcome.UpdatedList, key)
		}
	}

	outcome.Inserted = int(result.UpsertedCount)
	outcome.Updated = int(result.MatchedCount)
	return outcome, nil
}

// patchDocument builds the $set document from the non-nil patch fields.
func patchDocument(patch model.BidUpdate) bson.M {
	set := bson.M{}
	if patch.Number != nil {
		set["number"] = *patch.Number
	}
	if patch.Type != nil {
		set["type"] = *patch.Type
	}
	if patch.ParticipationDeadline != nil {
		set["participation_deadline"] = *patch.ParticipationDeadline
	}
	if patch.BidDeadline != nil {
		set["bid_deadline"] = *patch.BidDeadline
	}
	if patch.BidDate != nil {
		set["bid_date"] = *patch.BidDate
	}
	if patch.OrderingAgency != nil {
		set["ordering_agency"] = *patch.OrderingAgency
	}
	if patch.AnnouncementName != nil {
		set["announcement_name"] = *patch.AnnouncementName
	}
	if patch.AnnouncementNumber != nil {
		set["announcement_number"] = *patch.AnnouncementNumber
	}
	if patch.Industry != nil {
		set["industry"] = *patch.Industry
	}
	if patch.Region != nil {
		set["region"] = *patch.Region
	}
	if patch.EstimatedPrice != nil {
		set["estimated_price"] = *patch.EstimatedPrice
	}
	if patch.BaseAmount != nil {
		set["base_amount"] = *patch.BaseAmount
	}
	if patch.FirstPlaceCompany != nil {
		set["first_place_company"] = *patch.FirstPlaceCompany
	}
	if patch.WinningBidAmount != nil {
		set["winning_bid_amount"] = *patch.WinningBidAmount
	}
	if patch.ExpectedPrice != nil {
		set["expected_price"] = *patch.ExpectedPrice
	}
	if patch.ExpectedAdjustment != nil {
		set["expected_adjustment"] = *patch.ExpectedAdjustment
	}
	if patch.BaseToWinningRatio != nil {
		set["base_to_winning_ratio"] = *patch.BaseToWinningRatio
	}
	if patch.ExpectedToWinningRatio != nil {
		set["expected_to_winning_ratio"] = *patch.ExpectedToWinningRatio
	}
	if patch.EstimatedToWinningRatio != nil {
		set["estimated_to_winning_ratio"] = *patch.EstimatedToWinningRatio
	}
	return set
}
