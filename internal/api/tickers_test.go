package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// TestGetTickers tests a single listing page request.
func TestGetTickers(t *testing.T) {
	t.Run("basic request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v3/reference/tickers" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/v3/reference/tickers")
			}
			json.NewEncoder(w).Encode(TickersResponse{
				Status: "OK",
				Results: []APITicker{
					{Ticker: "AAPL", Name: "Apple Inc."},
					{Ticker: "MSFT", Name: "Microsoft Corp."},
				},
				Count: 2,
			})
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		resp, err := c.GetTickers(context.Background(), GetTickersOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Results) != 2 {
			t.Errorf("len(Results) = %d, want 2", len(resp.Results))
		}
		if resp.Results[0].Ticker != "AAPL" {
			t.Errorf("Results[0].Ticker = %q, want %q", resp.Results[0].Ticker, "AAPL")
		}
	})

	t.Run("with options", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("limit") != "100" {
				t.Errorf("limit = %q, want %q", q.Get("limit"), "100")
			}
			if q.Get("cursor") != "cursor123" {
				t.Errorf("cursor = %q, want %q", q.Get("cursor"), "cursor123")
			}
			if q.Get("market") != "stocks" {
				t.Errorf("market = %q, want %q", q.Get("market"), "stocks")
			}
			if q.Get("active") != "true" {
				t.Errorf("active = %q, want %q", q.Get("active"), "true")
			}
			if q.Get("order") != "asc" {
				t.Errorf("order = %q, want %q", q.Get("order"), "asc")
			}
			if q.Get("sort") != "ticker" {
				t.Errorf("sort = %q, want %q", q.Get("sort"), "ticker")
			}
			json.NewEncoder(w).Encode(TickersResponse{Status: "OK"})
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		_, err := c.GetTickers(context.Background(), GetTickersOptions{
			Limit:      100,
			Cursor:     "cursor123",
			Market:     "stocks",
			ActiveOnly: true,
			Order:      "asc",
			Sort:       "ticker",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("non-OK body status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(TickersResponse{Status: "ERROR"})
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		_, err := c.GetTickers(context.Background(), GetTickersOptions{})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), `upstream status "ERROR"`) {
			t.Errorf("error = %v, want upstream status mention", err)
		}
	})
}

// TestNextCursor tests continuation cursor extraction from next_url.
func TestNextCursor(t *testing.T) {
	tests := []struct {
		name    string
		nextURL string
		want    string
	}{
		{
			name:    "cursor present",
			nextURL: "https://api.polygon.io/v3/reference/tickers?cursor=YWN0aXZl",
			want:    "YWN0aXZl",
		},
		{
			name:    "cursor among other params",
			nextURL: "https://api.polygon.io/v3/reference/tickers?limit=1000&cursor=abc123&sort=ticker",
			want:    "abc123",
		},
		{
			name:    "empty next_url",
			nextURL: "",
			want:    "",
		},
		{
			name:    "no cursor param",
			nextURL: "https://api.polygon.io/v3/reference/tickers?limit=1000",
			want:    "",
		},
		{
			name:    "unparseable url",
			nextURL: "://bad",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &TickersResponse{NextURL: tt.nextURL}
			if got := r.NextCursor(); got != tt.want {
				t.Errorf("NextCursor() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestGetAllTickers tests pagination through the full listing.
func TestGetAllTickers(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(TickersResponse{
				Status:  "OK",
				Results: []APITicker{{Ticker: "AAPL"}, {Ticker: "MSFT"}},
			})
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		batch, err := c.GetAllTickers(context.Background(), GetTickersOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(batch.Records) != 2 {
			t.Errorf("len(Records) = %d, want 2", len(batch.Records))
		}
		if batch.Pages != 1 {
			t.Errorf("Pages = %d, want 1", batch.Pages)
		}
	})

	t.Run("multiple pages make exactly P requests", func(t *testing.T) {
		var requestCount int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count := atomic.AddInt32(&requestCount, 1)
			cursor := r.URL.Query().Get("cursor")

			switch {
			case count == 1 && cursor == "":
				json.NewEncoder(w).Encode(TickersResponse{
					Status:  "OK",
					Results: []APITicker{{Ticker: "AAPL"}, {Ticker: "AMZN"}},
					NextURL: "https://example.com/v3/reference/tickers?cursor=page2",
				})
			case count == 2 && cursor == "page2":
				json.NewEncoder(w).Encode(TickersResponse{
					Status:  "OK",
					Results: []APITicker{{Ticker: "MSFT"}},
					NextURL: "https://example.com/v3/reference/tickers?cursor=page3",
				})
			case count == 3 && cursor == "page3":
				json.NewEncoder(w).Encode(TickersResponse{
					Status:  "OK",
					Results: []APITicker{{Ticker: "NVDA"}},
				})
			default:
				t.Errorf("unexpected request: count=%d cursor=%q", count, cursor)
			}
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		batch, err := c.GetAllTickers(context.Background(), GetTickersOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(batch.Records) != 4 {
			t.Errorf("len(Records) = %d, want 4", len(batch.Records))
		}
		if requestCount != 3 {
			t.Errorf("requestCount = %d, want 3", requestCount)
		}
		if batch.Pages != 3 {
			t.Errorf("Pages = %d, want 3", batch.Pages)
		}
	})

	t.Run("malformed records are skipped not fatal", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(TickersResponse{
				Status: "OK",
				Results: []APITicker{
					{Ticker: "AAPL", Name: "Apple Inc."},
					{Ticker: "", Name: "No Symbol Corp."},
					{Ticker: "   ", Name: "Whitespace Inc."},
					{Ticker: "MSFT", Name: "Microsoft Corp."},
				},
			})
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		batch, err := c.GetAllTickers(context.Background(), GetTickersOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(batch.Records) != 2 {
			t.Errorf("len(Records) = %d, want 2", len(batch.Records))
		}
		if batch.Skipped != 2 {
			t.Errorf("Skipped = %d, want 2", batch.Skipped)
		}
	})

	t.Run("repeating cursor terminates the walk", func(t *testing.T) {
		var requestCount int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			// Always hand back the same cursor.
			json.NewEncoder(w).Encode(TickersResponse{
				Status:  "OK",
				Results: []APITicker{{Ticker: "AAPL"}},
				NextURL: "https://example.com/v3/reference/tickers?cursor=stuck",
			})
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		batch, err := c.GetAllTickers(context.Background(), GetTickersOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// First page (no cursor) follows "stuck" once, second page sees the
		// same cursor again and halts.
		if requestCount != 2 {
			t.Errorf("requestCount = %d, want 2", requestCount)
		}
		if batch.Pages != 2 {
			t.Errorf("Pages = %d, want 2", batch.Pages)
		}
	})

	t.Run("default page limit applied", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("limit") != "1000" {
				t.Errorf("limit = %q, want %q", r.URL.Query().Get("limit"), "1000")
			}
			json.NewEncoder(w).Encode(TickersResponse{Status: "OK"})
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		if _, err := c.GetAllTickers(context.Background(), GetTickersOptions{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("page error aborts the walk", func(t *testing.T) {
		var requestCount int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count := atomic.AddInt32(&requestCount, 1)
			if count == 1 {
				json.NewEncoder(w).Encode(TickersResponse{
					Status:  "OK",
					Results: []APITicker{{Ticker: "AAPL"}},
					NextURL: "https://example.com/v3/reference/tickers?cursor=page2",
				})
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		c := NewClient(server.URL, "key", WithRetries(0, time.Millisecond))
		_, err := c.GetAllTickers(context.Background(), GetTickersOptions{})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("record count preserved across page sizes", func(t *testing.T) {
		// 25 records served in pages of 10 must come back as exactly 25.
		total := 25
		pageSize := 10
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := 0
			if c := r.URL.Query().Get("cursor"); c != "" {
				fmt.Sscanf(c, "p%d", &start)
			}
			end := start + pageSize
			if end > total {
				end = total
			}
			resp := TickersResponse{Status: "OK"}
			for i := start; i < end; i++ {
				resp.Results = append(resp.Results, APITicker{Ticker: fmt.Sprintf("TK%02d", i)})
			}
			if end < total {
				resp.NextURL = fmt.Sprintf("https://example.com/v3/reference/tickers?cursor=p%d", end)
			}
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		c := NewClient(server.URL, "key")
		batch, err := c.GetAllTickers(context.Background(), GetTickersOptions{Limit: pageSize})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(batch.Records) != total {
			t.Errorf("len(Records) = %d, want %d", len(batch.Records), total)
		}
		if batch.Pages != 3 {
			t.Errorf("Pages = %d, want 3", batch.Pages)
		}
	})
}

// TestParseTimestamp tests ISO timestamp parsing.
func TestParseTimestamp(t *testing.T) {
	t.Run("RFC3339", func(t *testing.T) {
		got := ParseTimestamp("2024-01-15T10:00:00Z")
		want := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("ParseTimestamp() = %v, want %v", got, want)
		}
	})

	t.Run("without timezone", func(t *testing.T) {
		got := ParseTimestamp("2024-01-15T10:00:00")
		if got.IsZero() {
			t.Error("ParseTimestamp() should not be zero")
		}
	})

	t.Run("empty and invalid", func(t *testing.T) {
		if !ParseTimestamp("").IsZero() {
			t.Error("ParseTimestamp(\"\") should be zero")
		}
		if !ParseTimestamp("not a time").IsZero() {
			t.Error("ParseTimestamp(invalid) should be zero")
		}
	})
}

// TestToRecord tests API-to-model conversion.
func TestToRecord(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		at := APITicker{
			Ticker:          "AAPL",
			Name:            "Apple Inc.",
			Market:          "stocks",
			Locale:          "us",
			PrimaryExchange: "XNAS",
			Type:            "CS",
			Active:          true,
			CurrencyName:    "usd",
			CIK:             "0000320193",
			CompositeFIGI:   "BBG000B9XRY4",
			ShareClassFIGI:  "BBG001S5N8V8",
			LastUpdatedUTC:  "2024-01-15T10:00:00Z",
		}

		rec, ok := at.ToRecord()
		if !ok {
			t.Fatal("ToRecord() returned false for a valid record")
		}
		if rec.Ticker != "AAPL" {
			t.Errorf("Ticker = %q, want %q", rec.Ticker, "AAPL")
		}
		if rec.Name != "Apple Inc." {
			t.Errorf("Name = %q, want %q", rec.Name, "Apple Inc.")
		}
		if !rec.Active {
			t.Error("Active = false, want true")
		}
		if rec.LastUpdated.IsZero() {
			t.Error("LastUpdated should not be zero")
		}
	})

	t.Run("missing ticker rejected", func(t *testing.T) {
		at := APITicker{Name: "No Symbol Corp."}
		if _, ok := at.ToRecord(); ok {
			t.Error("ToRecord() = true for a record without a ticker")
		}
	})

	t.Run("surrounding whitespace trimmed", func(t *testing.T) {
		at := APITicker{Ticker: " AAPL "}
		rec, ok := at.ToRecord()
		if !ok {
			t.Fatal("ToRecord() returned false")
		}
		if rec.Ticker != "AAPL" {
			t.Errorf("Ticker = %q, want %q", rec.Ticker, "AAPL")
		}
	})
}
