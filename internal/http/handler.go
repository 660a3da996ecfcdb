package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/bidops/bid-data-service/internal/model"
	"github.com/bidops/bid-data-service/internal/openapi"
	"github.com/bidops/bid-data-service/internal/service"
)

type Handler struct {
	bids *service.BidService
	open *openapi.Client
	log  zerolog.Logger
}

func NewHandler(bids *service.BidService, open *openapi.Client, log zerolog.Logger) *Handler {
	return &Handler{bids: bids, open: open, log: log}
}

func (h *Handler) Register(router *gin.Engine) {
	bid := router.Group("/bid")
	bid.POST("/upload", h.uploadBids)
	bid.GET("", h.listBids)
	bid.GET("/id/:id", h.getBidByID)
	bid.GET("/announcement/:number", h.getBidByAnnouncementNumber)
	bid.GET("/export", h.exportBids)
	bid.POST("", h.createBid)
	bid.PUT("/:id", h.updateBid)
	bid.DELETE("/:id", h.deleteBid)

	router.GET("/openapi/result", h.openAPIResult)
	router.GET("/health", h.health)
}

func (h *Handler) uploadBids(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer file.Close()

	outcome, err := h.bids.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *Handler) listBids(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "50"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid size"})
		return
	}

	result, err := h.bids.List(c.Request.Context(), page, size)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) getBidByID(c *gin.Context) {
	bid, err := h.bids.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, bid)
}

func (h *Handler) getBidByAnnouncementNumber(c *gin.Context) {
	bid, err := h.bids.GetByAnnouncementNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, bid)
}

type createBidRequest struct {
	Number                  *float64 `json:"number"`
	Type                    string   `json:"type" binding:"required"`
	ParticipationDeadline   *int64   `json:"participation_deadline"`
	BidDeadline             string   `json:"bid_deadline" binding:"required"`
	BidDate                 string   `json:"bid_date" binding:"required"`
	OrderingAgency          string   `json:"ordering_agency" binding:"required"`
	AnnouncementName        string   `json:"announcement_name" binding:"required"`
	AnnouncementNumber      string   `json:"announcement_number" binding:"required"`
	Industry                string   `json:"industry"`
	Region                  string   `json:"region"`
	EstimatedPrice          int64    `json:"estimated_price"`
	BaseAmount              int64    `json:"base_amount"`
	FirstPlaceCompany       string   `json:"first_place_company"`
	WinningBidAmount        int64    `json:"winning_bid_amount"`
	ExpectedPrice           int64    `json:"expected_price"`
	ExpectedAdjustment      float64  `json:"expected_adjustment"`
	BaseToWinningRatio      float64  `json:"base_to_winning_ratio"`
	ExpectedToWinningRatio  float64  `json:"expected_to_winning_ratio"`
	EstimatedToWinningRatio float64  `json:"estimated_to_winning_ratio"`
}

func (h *Handler) createBid(c *gin.Context) {
	var req createBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deadline, err := parseDate(req.BidDeadline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bid_deadline"})
		return
	}
	bidDate, err := parseDate(req.BidDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bid_date"})
		return
	}

	id, err := h.bids.Create(c.Request.Context(), model.Bid{
		Number:                  req.Number,
		Type:                    req.Type,
		ParticipationDeadline:   req.ParticipationDeadline,
		BidDeadline:             deadline,
		BidDate:                 bidDate,
		OrderingAgency:          req.OrderingAgency,
		AnnouncementName:        req.AnnouncementName,
		AnnouncementNumber:      req.AnnouncementNumber,
		Industry:                req.Industry,
		Region:                  req.Region,
		EstimatedPrice:          req.EstimatedPrice,
		BaseAmount:              req.BaseAmount,
		FirstPlaceCompany:       req.FirstPlaceCompany,
		WinningBidAmount:        req.WinningBidAmount,
		ExpectedPrice:           req.ExpectedPrice,
		ExpectedAdjustment:      req.ExpectedAdjustment,
		BaseToWinningRatio:      req.BaseToWinningRatio,
		ExpectedToWinningRatio:  req.ExpectedToWinningRatio,
		EstimatedToWinningRatio: req.EstimatedToWinningRatio,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type updateBidRequest struct {
	Number                  *float64 `json:"number"`
	Type                    *string  `json:"type"`
	ParticipationDeadline   *int64   `json:"participation_deadline"`
	BidDeadline             *string  `json:"bid_deadline"`
	BidDate                 *string  `json:"bid_date"`
	OrderingAgency          *string  `json:"ordering_agency"`
	AnnouncementName        *string  `json:"announcement_name"`
	AnnouncementNumber      *string  `json:"announcement_number"`
	Industry                *string  `json:"industry"`
	Region                  *string  `json:"region"`
	EstimatedPrice          *int64   `json:"estimated_price"`
	BaseAmount              *int64   `json:"base_amount"`
	FirstPlaceCompany       *string  `json:"first_place_company"`
	WinningBidAmount        *int64   `json:"winning_bid_amount"`
	ExpectedPrice           *int64   `json:"expected_price"`
	ExpectedAdjustment      *float64 `json:"expected_adjustment"`
	BaseToWinningRatio      *float64 `json:"base_to_winning_ratio"`
	ExpectedToWinningRatio  *float64 `json:"expected_to_winning_ratio"`
	EstimatedToWinningRatio *float64 `json:"estimated_to_winning_ratio"`
}

func (h *Handler) updateBid(c *gin.Context) {
	var req updateBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := model.BidUpdate{
		Number:                  req.Number,
		Type:                    req.Type,
		ParticipationDeadline:   req.ParticipationDeadline,
		OrderingAgency:          req.OrderingAgency,
		AnnouncementName:        req.AnnouncementName,
		AnnouncementNumber:      req.AnnouncementNumber,
		Industry:                req.Industry,
		Region:                  req.Region,
		EstimatedPrice:          req.EstimatedPrice,
		BaseAmount:              req.BaseAmount,
		FirstPlaceCompany:       req.FirstPlaceCompany,
		WinningBidAmount:        req.WinningBidAmount,
		ExpectedPrice:           req.ExpectedPrice,
		ExpectedAdjustment:      req.ExpectedAdjustment,
		BaseToWinningRatio:      req.BaseToWinningRatio,
		ExpectedToWinningRatio:  req.ExpectedToWinningRatio,
		EstimatedToWinningRatio: req.EstimatedToWinningRatio,
	}
	if req.BidDeadline != nil {
		t, err := parseDate(*req.BidDeadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bid_deadline"})
			return
		}
		patch.BidDeadline = &t
	}
	if req.BidDate != nil {
		t, err := parseDate(*req.BidDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bid_date"})
			return
		}
		patch.BidDate = &t
	}

	if err := h.bids.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) deleteBid(c *gin.Context) {
	if err := h.bids.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) exportBids(c *gin.Context) {
	result, err := h.bids.Export(c.Request.Context(), c.DefaultQuery("format", "xlsx"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if strings.HasSuffix(result.FileName, ".pdf") {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

func (h *Handler) openAPIResult(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("pageNo", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pageNo"})
		return
	}
	rows, err := strconv.Atoi(c.DefaultQuery("numOfRows", "5"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid numOfRows"})
		return
	}

	result, err := h.open.FetchAwards(c.Request.Context(), openapi.Request{
		PageNo:       page,
		NumOfRows:    rows,
		OpeningBegin: c.DefaultQuery("opengBgnDt", "202501010000"),
		OpeningEnd:   c.DefaultQuery("opengEndDt", "202501052359"),
	})
	if err != nil {
		h.log.Error().Err(err).Msg("openapi request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "openapi request failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("bid request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
