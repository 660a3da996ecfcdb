package openapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchAwardsDecodesResponse(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"response": {
				"header": {"resultCode": "00", "resultMsg": "정상"},
				"body": {
					"items": [{
						"bidNtceNo": "20250101111",
						"bidNtceOrd": "00",
						"bidNtceNm": "테스트 공사",
						"bsnsDivNm": "공사",
						"ntceInsttNm": "경인테스트청",
						"bssAmt": "95000000",
						"fnlSucsfAmt": "94000000",
						"fnlSucsfCorpNm": "테스트건설"
					}],
					"numOfRows": 5,
					"pageNo": 1,
					"totalCount": 1
				}
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	result, err := client.FetchAwards(context.Background(), Request{
		PageNo:       1,
		NumOfRows:    5,
		OpeningBegin: "202501010000",
		OpeningEnd:   "202501052359",
	})
	if err != nil {
		t.Fatalf("FetchAwards error: %v", err)
	}

	if gotQuery["serviceKey"] != "test-key" || gotQuery["type"] != "json" || gotQuery["bsnsDivCd"] != "3" {
		t.Fatalf("unexpected query: %v", gotQuery)
	}
	if gotQuery["opengBgnDt"] != "202501010000" || gotQuery["opengEndDt"] != "202501052359" {
		t.Fatalf("opening window not forwarded: %v", gotQuery)
	}

	if result.Response.Header.ResultCode != "00" {
		t.Fatalf("result code = %q", result.Response.Header.ResultCode)
	}
	body := result.Response.Body
	if body.TotalCount != 1 || len(body.Items) != 1 {
		t.Fatalf("body = %+v", body)
	}
	item := body.Items[0]
	if item.BidNtceNo != "20250101111" || item.FnlSucsfCorpNm == nil || *item.FnlSucsfCorpNm != "테스트건설" {
		t.Fatalf("item = %+v", item)
	}
}

func TestFetchAwardsNon200IsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	if _, err := client.FetchAwards(context.Background(), Request{PageNo: 1, NumOfRows: 5}); err == nil {
		t.Fatalf("FetchAwards accepted a 502 response")
	}
}
