package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the lifecycle state of a token listing.
type Category string

const (
	CategoryNew        Category = "new"
	CategoryCompleting Category = "completing"
	CategoryCompleted  Category = "completed"
	CategoryTrending   Category = "trending"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryNew, CategoryCompleting, CategoryCompleted, CategoryTrending}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryNew, CategoryCompleting, CategoryCompleted, CategoryTrending:
		return true
	}
	return false
}

// SafeScoreThreshold is the minimum safety score admitted by the safety filter.
const SafeScoreThreshold = 7

// MaxSafetyScore is the upper bound of Token.SafetyScore.
const MaxSafetyScore = 10

// Token represents a meme token listing.
// Money fields are exact decimals; SocialLinks is an opaque serialized map.
type Token struct {
	ID             int64           `json:"id"`
	Symbol         string          `json:"symbol"`
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	Price          decimal.Decimal `json:"price"`
	MarketCap      decimal.Decimal `json:"marketCap"`
	Volume24h      decimal.Decimal `json:"volume24h"`
	Holders        int64           `json:"holders"`
	PriceChange24h decimal.Decimal `json:"priceChange24h"`
	Platform       string          `json:"platform"`
	Age            int64           `json:"age"` // minutes since launch
	LPBurned       bool            `json:"lpBurned"`
	Renounced      bool            `json:"renounced"`
	HoneypotCheck  bool            `json:"honeypotCheck"`
	SafetyScore    int             `json:"safetyScore"`
	Category       Category        `json:"category"`
	SocialLinks    *string         `json:"socialLinks"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// TokenInput is the payload for creating a token. Pointer fields are required
// unless tagged otherwise; nil optional fields take their defaults in Build.
type TokenInput struct {
	Symbol         string           `json:"symbol" validate:"required"`
	Name           string           `json:"name" validate:"required"`
	Address        string           `json:"address" validate:"required"`
	Price          *decimal.Decimal `json:"price" validate:"required"`
	MarketCap      *decimal.Decimal `json:"marketCap" validate:"required"`
	Volume24h      *decimal.Decimal `json:"volume24h" validate:"required"`
	Holders        *int64           `json:"holders" validate:"required,min=0"`
	PriceChange24h *decimal.Decimal `json:"priceChange24h" validate:"required"`
	Platform       string           `json:"platform" validate:"required"`
	Age            *int64           `json:"age" validate:"required,min=0"`
	LPBurned       *bool            `json:"lpBurned"`
	Renounced      *bool            `json:"renounced"`
	HoneypotCheck  *bool            `json:"honeypotCheck"`
	SafetyScore    *int             `json:"safetyScore" validate:"omitempty,min=0,max=10"`
	Category       *Category        `json:"category" validate:"omitempty,oneof=new completing completed trending"`
	SocialLinks    *string          `json:"socialLinks"`
}

// Build converts a validated input into a Token without id or creation time.
func (in *TokenInput) Build() Token {
	t := Token{
		Symbol:      in.Symbol,
		Name:        in.Name,
		Address:     in.Address,
		Platform:    in.Platform,
		Category:    CategoryNew,
		SocialLinks: in.SocialLinks,
	}
	if in.Price != nil {
		t.Price = *in.Price
	}
	if in.MarketCap != nil {
		t.MarketCap = *in.MarketCap
	}
	if in.Volume24h != nil {
		t.Volume24h = *in.Volume24h
	}
	if in.PriceChange24h != nil {
		t.PriceChange24h = *in.PriceChange24h
	}
	if in.Holders != nil {
		t.Holders = *in.Holders
	}
	if in.Age != nil {
		t.Age = *in.Age
	}
	if in.LPBurned != nil {
		t.LPBurned = *in.LPBurned
	}
	if in.Renounced != nil {
		t.Renounced = *in.Renounced
	}
	if in.HoneypotCheck != nil {
		t.HoneypotCheck = *in.HoneypotCheck
	}
	if in.SafetyScore != nil {
		t.SafetyScore = *in.SafetyScore
	}
	if in.Category != nil {
		t.Category = *in.Category
	}
	return t
}

// TokenPatch is a partial update. Nil fields are left unchanged.
// A JSON null for socialLinks is indistinguishable from absent and is ignored.
type TokenPatch struct {
	Symbol         *string          `json:"symbol"`
	Name           *string          `json:"name"`
	Address        *string          `json:"address"`
	Price          *decimal.Decimal `json:"price"`
	MarketCap      *decimal.Decimal `json:"marketCap"`
	Volume24h      *decimal.Decimal `json:"volume24h"`
	Holders        *int64           `json:"holders" validate:"omitempty,min=0"`
	PriceChange24h *decimal.Decimal `json:"priceChange24h"`
	Platform       *string          `json:"platform"`
	Age            *int64           `json:"age" validate:"omitempty,min=0"`
	LPBurned       *bool            `json:"lpBurned"`
	Renounced      *bool            `json:"renounced"`
	HoneypotCheck  *bool            `json:"honeypotCheck"`
	SafetyScore    *int             `json:"safetyScore" validate:"omitempty,min=0,max=10"`
	Category       *Category        `json:"category"`
	SocialLinks    *string          `json:"socialLinks"`
}

// IsEmpty reports whether the patch carries no fields.
func (p *TokenPatch) IsEmpty() bool {
	return p.Symbol == nil && p.Name == nil && p.Address == nil &&
		p.Price == nil && p.MarketCap == nil && p.Volume24h == nil &&
		p.Holders == nil && p.PriceChange24h == nil && p.Platform == nil &&
		p.Age == nil && p.LPBurned == nil && p.Renounced == nil &&
		p.HoneypotCheck == nil && p.SafetyScore == nil && p.Category == nil &&
		p.SocialLinks == nil
}

// Apply shallow-merges the patch onto t. ID and CreatedAt are never touched.
func (p *TokenPatch) Apply(t *Token) {
	if p.Symbol != nil {
		t.Symbol = *p.Symbol
	}
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Address != nil {
		t.Address = *p.Address
	}
	if p.Price != nil {
		t.Price = *p.Price
	}
	if p.MarketCap != nil {
		t.MarketCap = *p.MarketCap
	}
	if p.Volume24h != nil {
		t.Volume24h = *p.Volume24h
	}
	if p.Holders != nil {
		t.Holders = *p.Holders
	}
	if p.PriceChange24h != nil {
		t.PriceChange24h = *p.PriceChange24h
	}
	if p.Platform != nil {
		t.Platform = *p.Platform
	}
	if p.Age != nil {
		t.Age = *p.Age
	}
	if p.LPBurned != nil {
		t.LPBurned = *p.LPBurned
	}
	if p.Renounced != nil {
		t.Renounced = *p.Renounced
	}
	if p.HoneypotCheck != nil {
		t.HoneypotCheck = *p.HoneypotCheck
	}
	if p.SafetyScore != nil {
		t.SafetyScore = *p.SafetyScore
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.SocialLinks != nil {
		v := *p.SocialLinks
		t.SocialLinks = &v
	}
}
