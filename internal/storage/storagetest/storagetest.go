// Package storagetest holds the behavioural contract every storage backend
// must satisfy. Backend packages call Run from their own tests so the memory
// and Postgres implementations are held to identical expectations.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meme-token-dashboard/internal/domain"
	"meme-token-dashboard/internal/storage"
)

// Factory returns an empty set of stores. It is called once per subtest.
type Factory func(t *testing.T) storage.Stores

// Run executes the full contract against stores produced by newStores.
func Run(t *testing.T, newStores Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Stores)
	}{
		{"ListEmptyFilterReturnsAllNewestFirst", testListEmptyFilter},
		{"ListOnEmptyStore", testListEmptyStore},
		{"FilterSearch", testFilterSearch},
		{"FilterSearchEscapesWildcards", testFilterSearchWildcards},
		{"FilterPlatform", testFilterPlatform},
		{"FilterCategory", testFilterCategory},
		{"FilterMarketCapBoundsInclusive", testFilterMarketCap},
		{"FilterAgeBoundsInclusive", testFilterAge},
		{"FilterSafetyCheck", testFilterSafetyCheck},
		{"FilterConjunction", testFilterConjunction},
		{"SafeLargeCapVersusCompleted", testSafeLargeCapVersusCompleted},
		{"InsertAndGetRoundTrip", testInsertRoundTrip},
		{"InsertAssignsIncreasingIDs", testInsertIDs},
		{"InsertDuplicateAddress", testInsertDuplicateAddress},
		{"GetByIDNotFound", testGetByIDNotFound},
		{"IDsBeyondInt32", testIDsBeyondInt32},
		{"AgeBeyondInt32", testAgeBeyondInt32},
		{"GetByAddress", testGetByAddress},
		{"UpdateChangesOnlyPatchedFields", testUpdatePartial},
		{"UpdateEmptyPatchReturnsCurrent", testUpdateEmptyPatch},
		{"UpdateNotFound", testUpdateNotFound},
		{"UpdateDuplicateAddress", testUpdateDuplicateAddress},
		{"StatsOverStore", testStats},
		{"AlertInsertAndListNewestFirst", testAlertList},
		{"AlertUnknownToken", testAlertUnknownToken},
		{"AlertMarkReadIdempotent", testAlertMarkRead},
		{"AlertMarkReadUnknownID", testAlertMarkReadUnknown},
		{"UserInsertAndGet", testUserInsertAndGet},
		{"UserDuplicate", testUserDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStores(t))
		})
	}
}

// ptr is a helper to create pointers to values.
func ptr[T any](v T) *T {
	return &v
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// NewToken returns a valid token with a unique address derived from symbol.
func NewToken(symbol string) *domain.Token {
	return &domain.Token{
		Symbol:         symbol,
		Name:           symbol + " Token",
		Address:        "addr-" + symbol,
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
		SocialLinks:    ptr(`{"twitter":"https://x.com/example"}`),
	}
}

func insertTokens(t *testing.T, s storage.Stores, tokens ...*domain.Token) []*domain.Token {
	t.Helper()
	ctx := context.Background()
	out := make([]*domain.Token, 0, len(tokens))
	for _, tok := range tokens {
		created, err := s.Tokens.Insert(ctx, tok)
		require.NoError(t, err, "insert %s", tok.Symbol)
		out = append(out, created)
	}
	return out
}

func listSymbols(t *testing.T, s storage.Stores, f domain.TokenFilter) []string {
	t.Helper()
	tokens, err := s.Tokens.List(context.Background(), f)
	require.NoError(t, err)
	symbols := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		symbols = append(symbols, tok.Symbol)
	}
	return symbols
}

// assertSameToken compares tokens field by field, using decimal equality for
// money values since scale may differ between backends.
func assertSameToken(t *testing.T, want, got *domain.Token) {
	t.Helper()
	assert.Equal(t, want.Symbol, got.Symbol, "symbol")
	assert.Equal(t, want.Name, got.Name, "name")
	assert.Equal(t, want.Address, got.Address, "address")
	assert.True(t, want.Price.Equal(got.Price), "price: want %s, got %s", want.Price, got.Price)
	assert.True(t, want.MarketCap.Equal(got.MarketCap), "marketCap: want %s, got %s", want.MarketCap, got.MarketCap)
	assert.True(t, want.Volume24h.Equal(got.Volume24h), "volume24h: want %s, got %s", want.Volume24h, got.Volume24h)
	assert.True(t, want.PriceChange24h.Equal(got.PriceChange24h), "priceChange24h: want %s, got %s", want.PriceChange24h, got.PriceChange24h)
	assert.Equal(t, want.Holders, got.Holders, "holders")
	assert.Equal(t, want.Platform, got.Platform, "platform")
	assert.Equal(t, want.Age, got.Age, "age")
	assert.Equal(t, want.LPBurned, got.LPBurned, "lpBurned")
	assert.Equal(t, want.Renounced, got.Renounced, "renounced")
	assert.Equal(t, want.HoneypotCheck, got.HoneypotCheck, "honeypotCheck")
	assert.Equal(t, want.SafetyScore, got.SafetyScore, "safetyScore")
	assert.Equal(t, want.Category, got.Category, "category")
	assert.Equal(t, want.SocialLinks, got.SocialLinks, "socialLinks")
}

func testListEmptyFilter(t *testing.T, s storage.Stores) {
	insertTokens(t, s, NewToken("AAA"), NewToken("BBB"), NewToken("CCC"))

	assert.Equal(t, []string{"CCC", "BBB", "AAA"}, listSymbols(t, s, domain.TokenFilter{}))
}

func testListEmptyStore(t *testing.T, s storage.Stores) {
	tokens, err := s.Tokens.List(context.Background(), domain.TokenFilter{})
	require.NoError(t, err)
	assert.NotNil(t, tokens)
	assert.Empty(t, tokens)
}

func testFilterSearch(t *testing.T, s storage.Stores) {
	carrot := NewToken("CARROT")
	carrot.Name = "Accucarrot"
	carrot.Address = "cJcyWkNzQ8Q4mNhRWjQgqNhQjNGQqmNhQjN"
	pepe := NewToken("PEPE")
	pepe.Name = "Pepe Coin"
	pepe.Address = "4WpXqNhQjNGQqmNhQjNGUKH"
	insertTokens(t, s, carrot, pepe)

	tests := []struct {
		search string
		want   []string
	}{
		{"carrot", []string{"CARROT"}},
		{"CARROT", []string{"CARROT"}},
		{"accu", []string{"CARROT"}},
		{"coin", []string{"PEPE"}},
		{"gukh", []string{"PEPE"}},
		{"qmnhqjn", []string{"PEPE", "CARROT"}},
		{"nothing-here", []string{}},
	}
	for _, tt := range tests {
		got := listSymbols(t, s, domain.TokenFilter{Search: tt.search})
		assert.Equal(t, tt.want, got, "search=%q", tt.search)
	}
}

func testFilterSearchWildcards(t *testing.T, s storage.Stores) {
	plain := NewToken("PLAIN")
	pct := NewToken("PCT")
	pct.Name = "100% Meme"
	under := NewToken("UNDER")
	under.Name = "snake_case"
	insertTokens(t, s, plain, pct, under)

	assert.Equal(t, []string{"PCT"}, listSymbols(t, s, domain.TokenFilter{Search: "%"}))
	assert.Equal(t, []string{"UNDER"}, listSymbols(t, s, domain.TokenFilter{Search: "_"}))
	assert.Equal(t, []string{}, listSymbols(t, s, domain.TokenFilter{Search: `\`}))
}

func testFilterPlatform(t *testing.T, s storage.Stores) {
	a := NewToken("A")
	a.Platform = "pump.fun"
	b := NewToken("B")
	b.Platform = "raydium"
	insertTokens(t, s, a, b)

	assert.Equal(t, []string{"B"}, listSymbols(t, s, domain.TokenFilter{Platform: "raydium"}))
	// Platform match is case-sensitive.
	assert.Equal(t, []string{}, listSymbols(t, s, domain.TokenFilter{Platform: "Raydium"}))
}

func testFilterCategory(t *testing.T, s storage.Stores) {
	a := NewToken("A")
	a.Category = domain.CategoryCompleted
	b := NewToken("B")
	b.Category = domain.CategoryTrending
	c := NewToken("C")
	c.Category = domain.CategoryTrending
	insertTokens(t, s, a, b, c)

	assert.Equal(t, []string{"C", "B"}, listSymbols(t, s, domain.TokenFilter{Category: domain.CategoryTrending}))
	assert.Equal(t, []string{}, listSymbols(t, s, domain.TokenFilter{Category: domain.CategoryCompleting}))
}

func testFilterMarketCap(t *testing.T, s storage.Stores) {
	low := NewToken("LOW")
	low.MarketCap = dec("45600")
	mid := NewToken("MID")
	mid.MarketCap = dec("100000.50")
	high := NewToken("HIGH")
	high.MarketCap = dec("2300000")
	insertTokens(t, s, low, mid, high)

	assert.Equal(t, []string{"HIGH", "MID"}, listSymbols(t, s, domain.TokenFilter{MinMarketCap: ptr(dec("100000.50"))}))
	assert.Equal(t, []string{"MID", "LOW"}, listSymbols(t, s, domain.TokenFilter{MaxMarketCap: ptr(dec("100000.5"))}))
	assert.Equal(t, []string{"MID"}, listSymbols(t, s, domain.TokenFilter{
		MinMarketCap: ptr(dec("100000.50")),
		MaxMarketCap: ptr(dec("100000.50")),
	}))
	assert.Equal(t, []string{}, listSymbols(t, s, domain.TokenFilter{
		MinMarketCap: ptr(dec("3000000")),
	}))
}

func testFilterAge(t *testing.T, s storage.Stores) {
	young := NewToken("YOUNG")
	young.Age = 2
	mid := NewToken("MID")
	mid.Age = 45
	old := NewToken("OLD")
	old.Age = 180
	insertTokens(t, s, young, mid, old)

	assert.Equal(t, []string{"OLD", "MID"}, listSymbols(t, s, domain.TokenFilter{MinAge: ptr[int64](45)}))
	assert.Equal(t, []string{"MID", "YOUNG"}, listSymbols(t, s, domain.TokenFilter{MaxAge: ptr[int64](45)}))
	assert.Equal(t, []string{"MID"}, listSymbols(t, s, domain.TokenFilter{MinAge: ptr[int64](45), MaxAge: ptr[int64](45)}))
}

func testFilterSafetyCheck(t *testing.T, s storage.Stores) {
	for score := 0; score <= domain.MaxSafetyScore; score++ {
		tok := NewToken(fmt.Sprintf("S%02d", score))
		tok.SafetyScore = score
		insertTokens(t, s, tok)
	}

	safe := listSymbols(t, s, domain.TokenFilter{SafetyCheck: true})
	assert.Equal(t, []string{"S10", "S09", "S08", "S07"}, safe)

	all := listSymbols(t, s, domain.TokenFilter{SafetyCheck: false})
	assert.Len(t, all, domain.MaxSafetyScore+1)
}

func testFilterConjunction(t *testing.T, s storage.Stores) {
	match := NewToken("MATCH")
	match.Platform = "uniswap"
	match.Category = domain.CategoryTrending
	match.Age = 3
	match.SafetyScore = 9

	wrongPlatform := NewToken("WRONGP")
	wrongPlatform.Platform = "raydium"
	wrongPlatform.Category = domain.CategoryTrending
	wrongPlatform.Age = 3
	wrongPlatform.SafetyScore = 9

	unsafe := NewToken("UNSAFE")
	unsafe.Platform = "uniswap"
	unsafe.Category = domain.CategoryTrending
	unsafe.Age = 3
	unsafe.SafetyScore = 4

	insertTokens(t, s, match, wrongPlatform, unsafe)

	f := domain.TokenFilter{
		Search:      "mat",
		Platform:    "uniswap",
		Category:    domain.CategoryTrending,
		MaxAge:      ptr[int64](10),
		SafetyCheck: true,
	}
	assert.Equal(t, []string{"MATCH"}, listSymbols(t, s, f))
}

func testSafeLargeCapVersusCompleted(t *testing.T, s storage.Stores) {
	a := NewToken("A")
	a.MarketCap = dec("45600")
	a.Category = domain.CategoryCompleted
	a.SafetyScore = 3
	b := NewToken("B")
	b.MarketCap = dec("2300000")
	b.Category = domain.CategoryTrending
	b.SafetyScore = 10
	insertTokens(t, s, a, b)

	assert.Equal(t, []string{"B"}, listSymbols(t, s, domain.TokenFilter{
		MinMarketCap: ptr(dec("100000")),
		SafetyCheck:  true,
	}))
	assert.Equal(t, []string{"A"}, listSymbols(t, s, domain.TokenFilter{Category: domain.CategoryCompleted}))
}

func testInsertRoundTrip(t *testing.T, s storage.Stores) {
	ctx := context.Background()
	in := NewToken("ROUND")
	in.PriceChange24h = dec("-12.3")
	in.SocialLinks = nil

	created, err := s.Tokens.Insert(ctx, in)
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assertSameToken(t, in, created)

	got, err := s.Tokens.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt), "createdAt: want %v, got %v", created.CreatedAt, got.CreatedAt)
	assertSameToken(t, in, got)
}

func testInsertIDs(t *testing.T, s storage.Stores) {
	created := insertTokens(t, s, NewToken("ONE"), NewToken("TWO"), NewToken("THREE"))
	for i := 1; i < len(created); i++ {
		assert.Greater(t, created[i].ID, created[i-1].ID)
	}
}

func testInsertDuplicateAddress(t *testing.T, s storage.Stores) {
	insertTokens(t, s, NewToken("DUP"))

	dup := NewToken("OTHER")
	dup.Address = "addr-DUP"
	_, err := s.Tokens.Insert(context.Background(), dup)
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey), "expected ErrDuplicateKey, got %v", err)
}

func testGetByIDNotFound(t *testing.T, s storage.Stores) {
	_, err := s.Tokens.GetByID(context.Background(), 999999)
	assert.True(t, errors.Is(err, storage.ErrNotFound), "expected ErrNotFound, got %v", err)
}

// Ids past the int32 range must behave like any other unknown id.
func testIDsBeyondInt32(t *testing.T, s storage.Stores) {
	ctx := context.Background()
	const id = int64(1) << 31

	_, err := s.Tokens.GetByID(ctx, id)
	assert.True(t, errors.Is(err, storage.ErrNotFound), "GetByID: expected ErrNotFound, got %v", err)

	_, err = s.Tokens.Update(ctx, id, &domain.TokenPatch{Name: ptr("x")})
	assert.True(t, errors.Is(err, storage.ErrNotFound), "Update: expected ErrNotFound, got %v", err)

	assert.NoError(t, s.Alerts.MarkRead(ctx, id))

	_, err = s.Alerts.Insert(ctx, &domain.Alert{
		TokenID: ptr(id),
		Type:    domain.AlertTypeNewToken,
		Title:   "t",
		Message: "m",
	})
	assert.True(t, errors.Is(err, storage.ErrInvalidReference), "alert Insert: expected ErrInvalidReference, got %v", err)

	_, err = s.Users.GetByID(ctx, id)
	assert.True(t, errors.Is(err, storage.ErrNotFound), "user GetByID: expected ErrNotFound, got %v", err)
}

func testAgeBeyondInt32(t *testing.T, s storage.Stores) {
	ctx := context.Background()
	const age = int64(3_000_000_000)

	ancient := NewToken("ANCIENT")
	ancient.Age = age
	young := NewToken("YOUNG")
	young.Age = 1
	created := insertTokens(t, s, ancient, young)
	assert.Equal(t, age, created[0].Age)

	got, err := s.Tokens.GetByID(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, age, got.Age)

	assert.Equal(t, []string{"ANCIENT"}, listSymbols(t, s, domain.TokenFilter{MinAge: ptr(age)}))
	assert.Equal(t, []string{}, listSymbols(t, s, domain.TokenFilter{MinAge: ptr(age + 1)}))
	assert.Equal(t, []string{"YOUNG", "ANCIENT"}, listSymbols(t, s, domain.TokenFilter{MaxAge: ptr(age)}))

	updated, err := s.Tokens.Update(ctx, created[1].ID, &domain.TokenPatch{Age: ptr(age + 1)})
	require.NoError(t, err)
	assert.Equal(t, age+1, updated.Age)
}

func testGetByAddress(t *testing.T, s storage.Stores) {
	ctx := context.Background()
	created := insertTokens(t, s, NewToken("ADDR"))

	got, err := s.Tokens.GetByAddress(ctx, "addr-ADDR")
	require.NoError(t, err)
	assert.Equal(t, created[0].ID, got.ID)

	_, err = s.Tokens.GetByAddress(ctx, "addr-missing")
	assert.True(t, errors.Is(err, storage.ErrNotFound), "expected ErrNotFound, got %v", err)
}

func testUpdatePartial(t *testing.T, s storage.Stores) {
	ctx := context.Background()
	before := insertTokens(t, s, NewToken("UPD"))[0]

	after, err := s.Tokens.Update(ctx, before.ID, &domain.TokenPatch{Category: ptr(domain.CategoryTrending)})
	require.NoError(t, err)

	want := *before
	want.Category = domain.CategoryTrending
	assertSameToken(t, &want, after)
	assert.Equal(t, before.ID, after.ID)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))

	got, err := s.Tokens.GetByID(ctx, before.ID)
	require.NoError(t, err)
	assertSameToken(t, &want, got)

	after, err = s.Tokens.Update(ctx, before.ID, &domain.TokenPatch{
		MarketCap:   ptr(dec("999.99")),
		SafetyScore: ptr(2),
		SocialLinks: ptr("{}"),
	})
	require.NoError(t, err)
	want.MarketCap = dec("999.99")
	want.SafetyScore = 2
	want.SocialLinks = ptr("{}")
	assertSameToken(t, &want, after)
}

func testUpdateEmptyPatch(t *testing.T, s storage.Stores) {
	before := insertTokens(t, s, NewToken("SAME"))[0]

	got, err := s.Tokens.Update(context.Background(), before.ID, &domain.TokenPatch{})
	require.NoError(t, err)
	assertSameToken(t, before, got)
}

func testUpdateNotFound(t *testing.T, s storage.Stores) {
	ctx := context.Background()
	_, err := s.Tokens.Update(ctx, 999999, &domain.TokenPatch{Name: ptr("x")})
	assert.True(t, errors.Is(err, storage.ErrNotFound), "expected ErrNotFound, got %v", err)

	_, err = s.Tokens.Update(ctx, 999999, &domain.TokenPatch{})
	assert.True(t, errors.Is(err, storage.ErrNotFound), "expected ErrNotFound for empty patch, got %v", err)
}

func testUpdateDuplicateAddress(t *testing.T, s storage.Stores) {
	ctx := context.Background()
	created := insertTokens(t, s, NewToken("X"), NewToken("Y"))

	_, err := s.Tokens.Update(ctx, created[1].ID, &domain.TokenPatch{Address: ptr("addr-X")})
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey), "expected ErrDuplicateKey, got %v", err)

	// Original address still resolves to the unchanged record.
	got, err := s.Tokens.GetByAddress(ctx, "addr-Y")
	require.NoError(t, err)
	assert.Equal(t, created[1].ID, got.ID)

	// Re-assigning a token its own address is not a conflict.
	_, err = s.Tokens.Update(ctx, created[0].ID, &domain.TokenPatch{Address: ptr("addr-X")})
	require.NoError(t, err)
}

func testStats(t *testing.T, s storage.Stores) {
	ctx := context.Background()

	tokens, err := s.Tokens.List(ctx, domain.TokenFilter{})
	require.NoError(t, err)
	empty := domain.ComputeStats(tokens)
	assert.Zero(t, empty.TotalTokens)
	assert.True(t, empty.TotalVolume.IsZero())
	assert.True(t, empty.TotalMarketCap.IsZero())

	a := NewToken("A")
	a.Category = domain.CategoryNew
	a.Volume24h = dec("0.10")
	a.MarketCap = dec("100.01")
	b := NewToken("B")
	b.Category = domain.CategoryTrending
	b.Volume24h = dec("0.20")
	b.MarketCap = dec("200.02")
	c := NewToken("C")
	c.Category = domain.CategoryTrending
	c.Volume24h = dec("0.30")
	c.MarketCap = dec("300.03")
	insertTokens(t, s, a, b, c)

	tokens, err = s.Tokens.List(ctx, domain.TokenFilter{})
	require.NoError(t, err)
	stats := domain.ComputeStats(tokens)
	assert.Equal(t, 3, stats.TotalTokens)
	assert.Equal(t, 1, stats.NewTokens)
	assert.Equal(t, 2, stats.TrendingTokens)
	assert.Equal(t, stats.TotalTokens,
		stats.NewTokens+stats.CompletingTokens+stats.CompletedTokens+stats.TrendingTokens)
	assert.True(t, dec("0.6").Equal(stats.TotalVolume), "totalVolume = %s", stats.TotalVolume)
	assert.True(t, dec("600.06").Equal(stats.TotalMarketCap), "totalMarketCap = %s", stats.TotalMarketCap)
}

func testAlertList(t *testing.T, s storage.Stores) {
	ctx := context.Background()
	tok := insertTokens(t, s, NewToken("ALRT"))[0]

	first, err := s.Alerts.Insert(ctx, &domain.Alert{
		TokenID: ptr(tok.ID),
		Type:    domain.AlertTypeNewToken,
		Title:   "New Token Alert!",
		Message: "$ALRT just launched",
	})
	require.NoError(t, err)
	assert.Positive(t, first.ID)
	assert.False(t, first.IsRead)
	assert.False(t, first.CreatedAt.IsZero())
	require.NotNil(t, first.TokenID)
	assert.Equal(t, tok.ID, *first.TokenID)

	second, err := s.Alerts.Insert(ctx, &domain.Alert{
		Type:    domain.AlertTypeVolumeSpike,
		Title:   "Volume Spike",
		Message: "market-wide volume spike",
	})
	require.NoError(t, err)
	assert.Nil(t, second.TokenID)
	assert.Greater(t, second.ID, first.ID)

	alerts, err := s.Alerts.List(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, second.ID, alerts[0].ID)
	assert.Equal(t, first.ID, alerts[1].ID)
}

func testAlertUnknownToken(t *testing.T, s storage.Stores) {
	_, err := s.Alerts.Insert(context.Background(), &domain.Alert{
		TokenID: ptr(int64(999999)),
		Type:    domain.AlertTypePriceChange,
		Title:   "t",
		Message: "m",
	})
	assert.True(t, errors.Is(err, storage.ErrInvalidReference), "expected ErrInvalidReference, got %v", err)
}

func testAlertMarkRead(t *testing.T, s storage.Stores) {
	ctx := context.Background()
	a, err := s.Alerts.Insert(ctx, &domain.Alert{Type: domain.AlertTypeNewToken, Title: "t", Message: "m"})
	require.NoError(t, err)

	require.NoError(t, s.Alerts.MarkRead(ctx, a.ID))
	require.NoError(t, s.Alerts.MarkRead(ctx, a.ID))

	alerts, err := s.Alerts.List(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.True(t, alerts[0].IsRead)
}

func testAlertMarkReadUnknown(t *testing.T, s storage.Stores) {
	assert.NoError(t, s.Alerts.MarkRead(context.Background(), 999999))
}

func testUserInsertAndGet(t *testing.T, s storage.Stores) {
	ctx := context.Background()
	u, err := s.Users.Insert(ctx, &domain.UserInput{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Positive(t, u.ID)

	byID, err := s.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, "hash", byID.PasswordHash)

	byName, err := s.Users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	_, err = s.Users.GetByUsername(ctx, "bob")
	assert.True(t, errors.Is(err, storage.ErrNotFound), "expected ErrNotFound, got %v", err)
}

func testUserDuplicate(t *testing.T, s storage.Stores) {
	ctx := context.Background()
	_, err := s.Users.Insert(ctx, &domain.UserInput{Username: "alice", Email: "alice@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = s.Users.Insert(ctx, &domain.UserInput{Username: "alice", Email: "other@example.com", PasswordHash: "h"})
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey), "expected ErrDuplicateKey, got %v", err)

	_, err = s.Users.Insert(ctx, &domain.UserInput{Username: "bob", Email: "alice@example.com", PasswordHash: "h"})
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey), "expected ErrDuplicateKey, got %v", err)
}
