package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TokenFilter holds the optional criteria for a token listing.
// Empty strings and nil pointers impose no constraint; SafetyCheck only
// constrains when true.
type TokenFilter struct {
	Search       string
	Platform     string
	Category     Category
	MinMarketCap *decimal.Decimal
	MaxMarketCap *decimal.Decimal
	MinAge       *int64
	MaxAge       *int64
	SafetyCheck  bool
}

// IsEmpty reports whether the filter has no present criteria.
func (f TokenFilter) IsEmpty() bool {
	return f.Search == "" && f.Platform == "" && f.Category == "" &&
		f.MinMarketCap == nil && f.MaxMarketCap == nil &&
		f.MinAge == nil && f.MaxAge == nil && !f.SafetyCheck
}

// Normalize returns a copy with the search term lowercased, ready for
// repeated evaluation.
func (f TokenFilter) Normalize() TokenFilter {
	f.Search = strings.ToLower(f.Search)
	return f
}

// Matches reports whether t satisfies every present criterion of f.
// f must be normalized.
func (f TokenFilter) Matches(t *Token) bool {
	if f.Search != "" && !matchesSearch(t, f.Search) {
		return false
	}
	if f.Platform != "" && t.Platform != f.Platform {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.MinMarketCap != nil && t.MarketCap.LessThan(*f.MinMarketCap) {
		return false
	}
	if f.MaxMarketCap != nil && t.MarketCap.GreaterThan(*f.MaxMarketCap) {
		return false
	}
	if f.MinAge != nil && t.Age < *f.MinAge {
		return false
	}
	if f.MaxAge != nil && t.Age > *f.MaxAge {
		return false
	}
	if f.SafetyCheck && t.SafetyScore < SafeScoreThreshold {
		return false
	}
	return true
}

// matchesSearch does a case-insensitive substring match on symbol, name or address.
func matchesSearch(t *Token, lowered string) bool {
	return strings.Contains(strings.ToLower(t.Symbol), lowered) ||
		strings.Contains(strings.ToLower(t.Name), lowered) ||
		strings.Contains(strings.ToLower(t.Address), lowered)
}
