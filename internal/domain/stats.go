package domain

import "github.com/shopspring/decimal"

// Stats aggregates counts and sums over the full token set.
type Stats struct {
	TotalTokens      int             `json:"totalTokens"`
	NewTokens        int             `json:"newTokens"`
	CompletingTokens int             `json:"completingTokens"`
	CompletedTokens  int             `json:"completedTokens"`
	TrendingTokens   int             `json:"trendingTokens"`
	TotalVolume      decimal.Decimal `json:"totalVolume"`
	TotalMarketCap   decimal.Decimal `json:"totalMarketCap"`
}

// ComputeStats reduces tokens in a single pass.
func ComputeStats(tokens []*Token) Stats {
	s := Stats{
		TotalTokens:    len(tokens),
		TotalVolume:    decimal.Zero,
		TotalMarketCap: decimal.Zero,
	}
	for _, t := range tokens {
		switch t.Category {
		case CategoryNew:
			s.NewTokens++
		case CategoryCompleting:
			s.CompletingTokens++
		case CategoryCompleted:
			s.CompletedTokens++
		case CategoryTrending:
			s.TrendingTokens++
		}
		s.TotalVolume = s.TotalVolume.Add(t.Volume24h)
		s.TotalMarketCap = s.TotalMarketCap.Add(t.MarketCap)
	}
	return s
}
