// Package seed holds the fixed sample data loaded into an empty store.
package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"meme-token-dashboard/internal/domain"
	"meme-token-dashboard/internal/storage"
)

// Tokens returns fresh copies of the seed tokens in insertion order.
func Tokens() []*domain.Token {
	return []*domain.Token{
		{
			Symbol:         "LDRAGO",
			Name:           "Legendary Dragon",
			Address:        "7V3QjzLezFFAG5QHP1PVG3i7UC2LTjKvPEVYc1fjbonk",
			Price:          dec("0.0024"),
			MarketCap:      dec("156700"),
			Volume24h:      dec("45200"),
			Holders:        1247,
			PriceChange24h: dec("15.6"),
			Platform:       "pump.fun",
			Age:            2,
			LPBurned:       true,
			Renounced:      true,
			HoneypotCheck:  false,
			SafetyScore:    8,
			Category:       domain.CategoryNew,
			SocialLinks:    links(`{"twitter":"https://x.com/legendarydragon","telegram":"https://t.me/ldrago"}`),
		},
		{
			Symbol:         "CARROT",
			Name:           "Accucarrot",
			Address:        "cJcyWkNzQ8Q4mNhRWjQgqNhQjNGQqmNhQjN",
			Price:          dec("0.0078"),
			MarketCap:      dec("2300000"),
			Volume24h:      dec("890500"),
			Holders:        3456,
			PriceChange24h: dec("245.8"),
			Platform:       "raydium",
			Age:            7,
			LPBurned:       true,
			Renounced:      true,
			HoneypotCheck:  true,
			SafetyScore:    10,
			Category:       domain.CategoryTrending,
			SocialLinks:    links(`{"twitter":"https://x.com/Accucarrot","website":"https://accucarrot.capital/"}`),
		},
		{
			Symbol:         "PEPE",
			Name:           "Pepe Coin",
			Address:        "4WpXqNhQjNGQqmNhQjNGUKH",
			Price:          dec("0.0001"),
			MarketCap:      dec("45600"),
			Volume24h:      dec("12300"),
			Holders:        567,
			PriceChange24h: dec("-12.3"),
			Platform:       "meteora",
			Age:            180,
			SafetyScore:    3,
			Category:       domain.CategoryCompleted,
			SocialLinks:    links(`{}`),
		},
		{
			Symbol:         "BTCMEME",
			Name:           "Bitcoin Meme",
			Address:        "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh",
			Price:          dec("0.00045"),
			MarketCap:      dec("892000"),
			Volume24h:      dec("234500"),
			Holders:        2134,
			PriceChange24h: dec("89.7"),
			Platform:       "odin.fun",
			Age:            15,
			LPBurned:       true,
			Renounced:      false,
			HoneypotCheck:  true,
			SafetyScore:    7,
			Category:       domain.CategoryTrending,
			SocialLinks:    links(`{"twitter":"https://x.com/btcmeme","website":"https://btcmeme.fun"}`),
		},
		{
			Symbol:         "SATOSHI",
			Name:           "Satoshi Token",
			Address:        "bc1pqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq3sf2dp",
			Price:          dec("0.0012"),
			MarketCap:      dec("345600"),
			Volume24h:      dec("78900"),
			Holders:        789,
			PriceChange24h: dec("23.4"),
			Platform:       "tychi.fun",
			Age:            45,
			LPBurned:       false,
			Renounced:      true,
			HoneypotCheck:  true,
			SafetyScore:    6,
			Category:       domain.CategoryNew,
			SocialLinks:    links(`{"telegram":"https://t.me/satoshitoken"}`),
		},
		{
			Symbol:         "UNIMEME",
			Name:           "Uniswap Meme",
			Address:        "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
			Price:          dec("0.0567"),
			MarketCap:      dec("12450000"),
			Volume24h:      dec("3456700"),
			Holders:        8934,
			PriceChange24h: dec("156.8"),
			Platform:       "uniswap",
			Age:            3,
			LPBurned:       true,
			Renounced:      true,
			HoneypotCheck:  true,
			SafetyScore:    9,
			Category:       domain.CategoryTrending,
			SocialLinks:    links(`{"twitter":"https://x.com/unimeme","website":"https://unimeme.io","discord":"https://discord.gg/unimeme"}`),
		},
		{
			Symbol:         "ETHBULL",
			Name:           "Ethereum Bull",
			Address:        "0xA0b86a33E6C0B7C8C1E4CaF092a7dFf0d7F95C4A",
			Price:          dec("0.0234"),
			MarketCap:      dec("5670000"),
			Volume24h:      dec("1234500"),
			Holders:        4567,
			PriceChange24h: dec("67.3"),
			Platform:       "uniswap",
			Age:            12,
			LPBurned:       true,
			Renounced:      false,
			HoneypotCheck:  true,
			SafetyScore:    8,
			Category:       domain.CategoryNew,
			SocialLinks:    links(`{"twitter":"https://x.com/ethbull","telegram":"https://t.me/ethbull"}`),
		},
	}
}

// Alerts returns the seed alerts. tokenIDs are the ids assigned to Tokens(),
// in the same order.
func Alerts(tokenIDs []int64) []*domain.Alert {
	ref := func(i int) *int64 {
		if i >= len(tokenIDs) {
			return nil
		}
		id := tokenIDs[i]
		return &id
	}
	return []*domain.Alert{
		{
			TokenID: ref(0),
			Type:    domain.AlertTypeNewToken,
			Title:   "New Token Alert!",
			Message: "$LDRAGO just launched with high volume",
		},
		{
			TokenID: ref(1),
			Type:    domain.AlertTypePriceChange,
			Title:   "Price Spike Alert!",
			Message: "$CARROT gained 245% in the last hour",
		},
	}
}

// Result reports what Apply did.
type Result struct {
	Skipped bool
	Tokens  int
	Alerts  int
}

// Apply loads the seed set into stores unless any token already exists.
func Apply(ctx context.Context, stores storage.Stores, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("seed")

	existing, err := stores.Tokens.List(ctx, domain.TokenFilter{})
	if err != nil {
		return Result{}, fmt.Errorf("check existing tokens: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("store already has tokens, skipping seed", zap.Int("tokens", len(existing)))
		return Result{Skipped: true}, nil
	}

	var res Result
	ids := make([]int64, 0, 7)
	for _, t := range Tokens() {
		created, err := stores.Tokens.Insert(ctx, t)
		if err != nil {
			return res, fmt.Errorf("insert token %s: %w", t.Symbol, err)
		}
		ids = append(ids, created.ID)
		res.Tokens++
	}

	for _, a := range Alerts(ids) {
		if _, err := stores.Alerts.Insert(ctx, a); err != nil {
			return res, fmt.Errorf("insert alert %q: %w", a.Title, err)
		}
		res.Alerts++
	}

	logger.Info("seeded store", zap.Int("tokens", res.Tokens), zap.Int("alerts", res.Alerts))
	return res, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func links(s string) *string {
	return &s
}
