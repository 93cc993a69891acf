package api

// TickersResponse from GET /v3/reference/tickers
type TickersResponse struct {
	Status  string      `json:"status"`
	Results []APITicker `json:"results"`
	Count   int         `json:"count"`
	NextURL string      `json:"next_url"`
}

// APITicker represents one ticker from the reference listing.
type APITicker struct {
	Ticker          string `json:"ticker"`
	Name            string `json:"name"`
	Market          string `json:"market"`
	Locale          string `json:"locale"`
	PrimaryExchange string `json:"primary_exchange"`
	Type            string `json:"type"`
	Active          bool   `json:"active"`
	CurrencyName    string `json:"currency_name"`
	CIK             string `json:"cik"`
	CompositeFIGI   string `json:"composite_figi"`
	ShareClassFIGI  string `json:"share_class_figi"`

	// Timestamp (ISO 8601)
	LastUpdatedUTC string `json:"last_updated_utc"`
}

// GetTickersOptions configures a GetTickers request.
type GetTickersOptions struct {
	Limit      int
	Cursor     string
	Market     string
	ActiveOnly bool
	Order      string
	Sort       string
}
