package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validInput() *TokenInput {
	return &TokenInput{
		Symbol:         "PEPE",
		Name:           "Pepe Coin",
		Address:        "4WpXqNhQjNGQ",
		Price:          decPtr("0.0001"),
		MarketCap:      decPtr("45600"),
		Volume24h:      decPtr("12300"),
		Holders:        ptr[int64](567),
		PriceChange24h: decPtr("-12.3"),
		Platform:       "meteora",
		Age:            ptr[int64](180),
	}
}

func TestTokenInput_BuildDefaults(t *testing.T) {
	tok := validInput().Build()

	assert.Equal(t, CategoryNew, tok.Category)
	assert.False(t, tok.LPBurned)
	assert.False(t, tok.Renounced)
	assert.False(t, tok.HoneypotCheck)
	assert.Zero(t, tok.SafetyScore)
	assert.Nil(t, tok.SocialLinks)
	assert.Zero(t, tok.ID)
	assert.True(t, tok.CreatedAt.IsZero())
	assert.Equal(t, "-12.3", tok.PriceChange24h.String())
}

func TestTokenInput_BuildExplicit(t *testing.T) {
	in := validInput()
	in.LPBurned = ptr(true)
	in.SafetyScore = ptr(9)
	in.Category = ptr(CategoryCompleted)
	in.SocialLinks = ptr(`{"twitter":"x"}`)

	tok := in.Build()
	assert.True(t, tok.LPBurned)
	assert.Equal(t, 9, tok.SafetyScore)
	assert.Equal(t, CategoryCompleted, tok.Category)
	require.NotNil(t, tok.SocialLinks)
	assert.Equal(t, `{"twitter":"x"}`, *tok.SocialLinks)
}

func TestTokenPatch_IsEmpty(t *testing.T) {
	assert.True(t, (&TokenPatch{}).IsEmpty())
	assert.False(t, (&TokenPatch{HoneypotCheck: ptr(false)}).IsEmpty())
	assert.False(t, (&TokenPatch{SocialLinks: ptr("")}).IsEmpty())
}

func TestTokenPatch_ApplyOnlyPresentFields(t *testing.T) {
	orig := validInput().Build()
	orig.ID = 3
	tok := orig

	p := &TokenPatch{
		Price:       decPtr("0.0002"),
		Category:    ptr(CategoryTrending),
		LPBurned:    ptr(true),
		SocialLinks: ptr(`{}`),
	}
	p.Apply(&tok)

	assert.Equal(t, int64(3), tok.ID)
	assert.Equal(t, orig.Symbol, tok.Symbol)
	assert.Equal(t, orig.Holders, tok.Holders)
	assert.True(t, tok.MarketCap.Equal(orig.MarketCap))
	assert.Equal(t, "0.0002", tok.Price.String())
	assert.Equal(t, CategoryTrending, tok.Category)
	assert.True(t, tok.LPBurned)
	require.NotNil(t, tok.SocialLinks)
	assert.Equal(t, "{}", *tok.SocialLinks)

	// The patch must not alias the token.
	*p.SocialLinks = "changed"
	assert.Equal(t, "{}", *tok.SocialLinks)
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("").Valid())
	assert.False(t, Category("New").Valid())
}

func TestAlertInput_Build(t *testing.T) {
	in := &AlertInput{TokenID: ptr[int64](2), Type: AlertTypePriceChange, Title: "t", Message: "m"}
	a := in.Build()

	assert.False(t, a.IsRead)
	require.NotNil(t, a.TokenID)
	assert.Equal(t, int64(2), *a.TokenID)

	*in.TokenID = 5
	assert.Equal(t, int64(2), *a.TokenID)

	in.IsRead = ptr(true)
	assert.True(t, in.Build().IsRead)
}

func TestDecimalRoundTripKeepsScale(t *testing.T) {
	d := decimal.RequireFromString("0.00000001")
	assert.Equal(t, "0.00000001", d.String())
}
