package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func agePtr(n int64) *int64 { return &n }

func sampleToken() *Token {
	return &Token{
		Symbol:      "CARROT",
		Name:        "Accucarrot",
		Address:     "cJcyWkNzQ8Q4",
		MarketCap:   decimal.RequireFromString("2300000"),
		Platform:    "raydium",
		Age:         7,
		SafetyScore: 7,
		Category:    CategoryTrending,
	}
}

func TestTokenFilter_Matches(t *testing.T) {
	tests := []struct {
		name   string
		filter TokenFilter
		want   bool
	}{
		{"empty filter", TokenFilter{}, true},
		{"search symbol", TokenFilter{Search: "carr"}, true},
		{"search name mixed case", TokenFilter{Search: "ACCU"}, true},
		{"search address", TokenFilter{Search: "nzq8"}, true},
		{"search miss", TokenFilter{Search: "pepe"}, false},
		{"platform exact", TokenFilter{Platform: "raydium"}, true},
		{"platform is case sensitive", TokenFilter{Platform: "Raydium"}, false},
		{"category", TokenFilter{Category: CategoryTrending}, true},
		{"category miss", TokenFilter{Category: CategoryNew}, false},
		{"min market cap inclusive", TokenFilter{MinMarketCap: decPtr("2300000")}, true},
		{"min market cap above", TokenFilter{MinMarketCap: decPtr("2300000.01")}, false},
		{"max market cap inclusive", TokenFilter{MaxMarketCap: decPtr("2300000.00")}, true},
		{"max market cap below", TokenFilter{MaxMarketCap: decPtr("2299999.99")}, false},
		{"min age inclusive", TokenFilter{MinAge: agePtr(7)}, true},
		{"min age above", TokenFilter{MinAge: agePtr(8)}, false},
		{"max age inclusive", TokenFilter{MaxAge: agePtr(7)}, true},
		{"max age below", TokenFilter{MaxAge: agePtr(6)}, false},
		{"safety at threshold", TokenFilter{SafetyCheck: true}, true},
		{"all criteria", TokenFilter{
			Search: "carrot", Platform: "raydium", Category: CategoryTrending,
			MinMarketCap: decPtr("1"), MaxMarketCap: decPtr("9999999"),
			MinAge: agePtr(0), MaxAge: agePtr(100), SafetyCheck: true,
		}, true},
		{"one failing criterion", TokenFilter{Search: "carrot", Platform: "uniswap"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Normalize().Matches(sampleToken())
			if got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenFilter_SafetyBelowThreshold(t *testing.T) {
	tok := sampleToken()
	tok.SafetyScore = SafeScoreThreshold - 1

	if (TokenFilter{SafetyCheck: true}).Matches(tok) {
		t.Error("expected token below threshold to be excluded")
	}
	if !(TokenFilter{}).Matches(tok) {
		t.Error("expected token to match when safety check is off")
	}
}

func TestTokenFilter_IsEmpty(t *testing.T) {
	if !(TokenFilter{}).IsEmpty() {
		t.Error("zero filter should be empty")
	}
	if (TokenFilter{SafetyCheck: true}).IsEmpty() {
		t.Error("safety check counts as a criterion")
	}
	if (TokenFilter{MinAge: agePtr(0)}).IsEmpty() {
		t.Error("zero-valued bound is still present")
	}
}

func TestTokenFilter_NormalizeDoesNotMutate(t *testing.T) {
	f := TokenFilter{Search: "PePe"}
	n := f.Normalize()
	if n.Search != "pepe" {
		t.Errorf("Search = %q, want pepe", n.Search)
	}
	if f.Search != "PePe" {
		t.Errorf("original changed to %q", f.Search)
	}
}

func TestComputeStats(t *testing.T) {
	tokens := []*Token{
		{Category: CategoryNew, Volume24h: decimal.RequireFromString("10.25"), MarketCap: decimal.RequireFromString("100")},
		{Category: CategoryNew, Volume24h: decimal.RequireFromString("0.75"), MarketCap: decimal.RequireFromString("200.50")},
		{Category: CategoryCompleting, Volume24h: decimal.Zero, MarketCap: decimal.RequireFromString("1")},
		{Category: CategoryTrending, Volume24h: decimal.RequireFromString("1000"), MarketCap: decimal.RequireFromString("0.5")},
	}

	s := ComputeStats(tokens)

	if s.TotalTokens != 4 || s.NewTokens != 2 || s.CompletingTokens != 1 || s.CompletedTokens != 0 || s.TrendingTokens != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if !s.TotalVolume.Equal(decimal.RequireFromString("1011")) {
		t.Errorf("TotalVolume = %s, want 1011", s.TotalVolume)
	}
	if !s.TotalMarketCap.Equal(decimal.RequireFromString("302")) {
		t.Errorf("TotalMarketCap = %s, want 302", s.TotalMarketCap)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	s := ComputeStats(nil)
	if s.TotalTokens != 0 || !s.TotalVolume.IsZero() || !s.TotalMarketCap.IsZero() {
		t.Errorf("unexpected stats for empty set: %+v", s)
	}
	if s.TotalVolume.String() != "0" {
		t.Errorf("TotalVolume renders as %q", s.TotalVolume.String())
	}
}
