package api

import (
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"meme-token-dashboard/internal/domain"
)

// parseTokenFilter reads the list filters from the query string. Empty values
// are treated as absent; malformed numbers are rejected.
func parseTokenFilter(q url.Values) (domain.TokenFilter, error) {
	ve := &domain.ValidationError{}
	f := domain.TokenFilter{
		Search:      q.Get("search"),
		Platform:    q.Get("platform"),
		Category:    domain.Category(q.Get("category")),
		SafetyCheck: q.Get("safetyCheck") == "true",
	}

	f.MinMarketCap = parseDecimalParam(ve, q, "minMarketCap")
	f.MaxMarketCap = parseDecimalParam(ve, q, "maxMarketCap")
	f.MinAge = parseInt64Param(ve, q, "minAge")
	f.MaxAge = parseInt64Param(ve, q, "maxAge")

	if err := ve.OrNil(); err != nil {
		return domain.TokenFilter{}, err
	}
	return f, nil
}

func parseDecimalParam(ve *domain.ValidationError, q url.Values, name string) *decimal.Decimal {
	raw := q.Get(name)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		ve.Add(name, "must be a number")
		return nil
	}
	return &d
}

func parseInt64Param(ve *domain.ValidationError, q url.Values, name string) *int64 {
	raw := q.Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		ve.Add(name, "must be an integer")
		return nil
	}
	return &n
}

// parseID parses a positive path id.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
