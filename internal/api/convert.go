package api

import (
	"strings"
	"time"

	"github.com/quantfeed/tickersync/internal/model"
)

// ParseTimestamp parses an ISO 8601 timestamp.
// Returns the zero time for empty or invalid input.
func ParseTimestamp(iso string) time.Time {
	if iso == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		// Try without timezone
		t, err = time.Parse("2006-01-02T15:04:05", iso)
		if err != nil {
			return time.Time{}
		}
	}

	return t.UTC()
}

// ToRecord converts an APITicker to a model.TickerRecord.
// Returns false when the upstream record has no ticker symbol, since the
// symbol is the identity the warehouse merge is keyed on.
func (t *APITicker) ToRecord() (model.TickerRecord, bool) {
	symbol := strings.TrimSpace(t.Ticker)
	if symbol == "" {
		return model.TickerRecord{}, false
	}

	return model.TickerRecord{
		Ticker:          symbol,
		Name:            t.Name,
		Market:          t.Market,
		Locale:          t.Locale,
		PrimaryExchange: t.PrimaryExchange,
		Type:            t.Type,
		Active:          t.Active,
		CurrencyName:    t.CurrencyName,
		CIK:             t.CIK,
		CompositeFIGI:   t.CompositeFIGI,
		ShareClassFIGI:  t.ShareClassFIGI,
		LastUpdated:     ParseTimestamp(t.LastUpdatedUTC),
	}, true
}
