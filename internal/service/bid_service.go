package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bidops/bid-data-service/internal/model"
	"github.com/bidops/bid-data-service/internal/parse"
	"github.com/bidops/bid-data-service/internal/repository"
)

// BidStore is the persistence contract the service runs against. The mongo
// repository implements it; tests use an in-memory fake.
type BidStore interface {
	Insert(ctx context.Context, bid model.Bid) (string, error)
	FindByID(ctx context.Context, id string) (*model.Bid, error)
	FindByAnnouncementNumber(ctx context.Context, announcementNumber string) (*model.Bid, error)
	ExistsByAnnouncementNumber(ctx context.Context, announcementNumber string) (bool, error)
	List(ctx context.Context, skip, limit int64) ([]model.Bid, int64, error)
	Update(ctx context.Context, id string, patch model.BidUpdate) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	BulkUpsert(ctx context.Context, bids []model.Bid) (model.UploadOutcome, error)
}

// Exporter renders a bid listing into a downloadable document.
type Exporter interface {
	Generate(bids []model.Bid) ([]byte, error)
}

type BidService struct {
	store BidStore
	excel Exporter
	pdf   Exporter
	log   zerolog.Logger
}

func NewBidService(store BidStore, excel, pdf Exporter, log zerolog.Logger) *BidService {
	return &BidService{
		store: store,
		excel: excel,
		pdf:   pdf,
		log:   log,
	}
}

// Upload runs the ingestion pipeline: read the workbook, parse rows with
// per-row failure isolation, then bulk-upsert the survivors keyed by
// announcement number.
func (s *BidService) Upload(ctx context.Context, fileName string, file io.Reader) (model.UploadOutcome, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".xls" && ext != ".xlsx" {
		return model.UploadOutcome{}, fmt.Errorf("unsupported file extension %q, expected .xls or .xlsx", ext)
	}

	rows, err := parse.ReadWorkbook(file)
	if err != nil {
		return model.UploadOutcome{}, err
	}

	bids := parse.Records(rows, s.log)
	s.log.Info().
		Int("rows", len(rows)).
		Int("parsed", len(bids)).
		Msg("parsed bid upload")

	outcome, err := s.store.BulkUpsert(ctx, bids)
	if err != nil {
		return model.UploadOutcome{}, err
	}
	return outcome, nil
}

// Create stores a single bid, rejecting announcement numbers that already
// exist.
func (s *BidService) Create(ctx context.Context, bid model.Bid) (string, error) {
	bid.AnnouncementNumber = strings.TrimSpace(bid.AnnouncementNumber)
	if bid.AnnouncementNumber == "" {
		return "", fmt.Errorf("%w: announcement_number is required", ErrInvalidInput)
	}

	exists, err := s.store.ExistsByAnnouncementNumber(ctx, bid.AnnouncementNumber)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: %s", ErrDuplicate, bid.AnnouncementNumber)
	}

	bid.ID = ""
	return s.store.Insert(ctx, bid)
}

type ListResult struct {
	Total int64       `json:"total"`
	Items []model.Bid `json:"items"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}

func (s *BidService) List(ctx context.Context, page, size int) (*ListResult, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1", ErrInvalidInput)
	}
	if size < 1 || size > 1000 {
		return nil, fmt.Errorf("%w: size must be between 1 and 1000", ErrInvalidInput)
	}

	skip := int64(page-1) * int64(size)
	items, total, err := s.store.List(ctx, skip, int64(size))
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Total: total,
		Items: items,
		Page:  page,
		Size:  size,
	}, nil
}

func (s *BidService) Get(ctx context.Context, id string) (*model.Bid, error) {
	bid, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return bid, nil
}

func (s *BidService) GetByAnnouncementNumber(ctx context.Context, announcementNumber string) (*model.Bid, error) {
	bid, err := s.store.FindByAnnouncementNumber(ctx, announcementNumber)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return bid, nil
}

func (s *BidService) Update(ctx context.Context, id string, patch model.BidUpdate) error {
	found, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return translateStoreErr(err)
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (s *BidService) Delete(ctx context.Context, id string) error {
	found, err := s.store.Delete(ctx, id)
	if err != nil {
		return translateStoreErr(err)
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

type ExportResult struct {
	FileName string
	Content  []byte
}

const exportPageSize = 500

// Export renders the full bid listing as an xlsx or pdf download.
func (s *BidService) Export(ctx context.Context, format string) (*ExportResult, error) {
	var exporter Exporter
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "xlsx":
		format = "xlsx"
		exporter = s.excel
	case "pdf":
		exporter = s.pdf
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", ErrInvalidInput, format)
	}

	var bids []model.Bid
	for skip := int64(0); ; skip += exportPageSize {
		page, total, err := s.store.List(ctx, skip, exportPageSize)
		if err != nil {
			return nil, err
		}
		bids = append(bids, page...)
		if int64(len(bids)) >= total || len(page) == 0 {
			break
		}
	}

	content, err := exporter.Generate(bids)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("bids-%s.%s", time.Now().Format("20060102"), format),
		Content:  content,
	}, nil
}

func translateStoreErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrInvalidID):
		return fmt.Errorf("%w: malformed bid id", ErrInvalidInput)
	default:
		return err
	}
}
