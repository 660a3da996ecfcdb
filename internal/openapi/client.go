package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultEndpoint is the public procurement award-result dataset on the
// Korean open-data portal.
const DefaultEndpoint = "https://apis.data.go.kr/1230000/ao/PubDataOpnStdService/getDataSetOpnStdScsbidInfo"

// businessDivisionConstruction is the bsnsDivCd value for construction bids.
const businessDivisionConstruction = "3"

type Client struct {
	endpoint string
	apiKey   string
	httpc    *http.Client
}

func NewClient(endpoint, apiKey string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Request is one award-result page query. The opening window is bounded to a
// short range (about a week) by the upstream service.
type Request struct {
	PageNo       int
	NumOfRows    int
	OpeningBegin string // YYYYMMDDhhmm
	OpeningEnd   string // YYYYMMDDhhmm
}

// Item is one award-result row as the portal returns it.
type Item struct {
	BidNtceNo           string  `json:"bidNtceNo"`
	BidNtceOrd          string  `json:"bidNtceOrd"`
	BidNtceNm           string  `json:"bidNtceNm"`
	BsnsDivNm           string  `json:"bsnsDivNm"`
	CntrctCnclsSttusNm  string  `json:"cntrctCnclsSttusNm"`
	CntrctCnclsMthdNm   string  `json:"cntrctCnclsMthdNm"`
	BidwinrDcsnMthdNm   string  `json:"bidwinrDcsnMthdNm"`
	NtceInsttNm         string  `json:"ntceInsttNm"`
	NtceInsttCd         string  `json:"ntceInsttCd"`
	DmndInsttNm         string  `json:"dmndInsttNm"`
	DmndInsttCd         string  `json:"dmndInsttCd"`
	SucsfLwstlmtRt      *string `json:"sucsfLwstlmtRt"`
	PresmptPrce         *string `json:"presmptPrce"`
	RsrvtnPrce          *string `json:"rsrvtnPrce"`
	BssAmt              *string `json:"bssAmt"`
	OpengDate           *string `json:"opengDate"`
	OpengTm             *string `json:"opengTm"`
	OpengRsltDivNm      *string `json:"opengRsltDivNm"`
	OpengRank           *string `json:"opengRank"`
	FnlSucsfAmt         *string `json:"fnlSucsfAmt"`
	FnlSucsfRt          *string `json:"fnlSucsfRt"`
	FnlSucsfDate        *string `json:"fnlSucsfDate"`
	FnlSucsfCorpNm      *string `json:"fnlSucsfCorpNm"`
	FnlSucsfCorpCeoNm   *string `json:"fnlSucsfCorpCeoNm"`
	FnlSucsfCorpBizrno  *string `json:"fnlSucsfCorpBizrno"`
	FnlSucsfCorpAdrs    *string `json:"fnlSucsfCorpAdrs"`
	FnlSucsfCorpContact *string `json:"fnlSucsfCorpContactTel"`
	DataBssDate         *string `json:"dataBssDate"`
}

type Header struct {
	ResultCode string `json:"resultCode"`
	ResultMsg  string `json:"resultMsg"`
}

type Body struct {
	Items      []Item `json:"items"`
	NumOfRows  int    `json:"numOfRows"`
	PageNo     int    `json:"pageNo"`
	TotalCount int    `json:"totalCount"`
}

type Response struct {
	Header Header `json:"header"`
	Body   Body   `json:"body"`
}

type Result struct {
	Response Response `json:"response"`
}

// FetchAwards queries one page of award results. Any upstream failure is
// returned as-is; there is no retry.
func (c *Client) FetchAwards(ctx context.Context, req Request) (*Result, error) {
	params := url.Values{}
	params.Set("serviceKey", c.apiKey)
	params.Set("pageNo", strconv.Itoa(req.PageNo))
	params.Set("numOfRows", strconv.Itoa(req.NumOfRows))
	params.Set("type", "json")
	params.Set("bsnsDivCd", businessDivisionConstruction)
	params.Set("opengBgnDt", req.OpeningBegin)
	params.Set("opengEndDt", req.OpeningEnd)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build openapi request: %w", err)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call openapi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openapi returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode openapi response: %w", err)
	}
	return &result, nil
}
