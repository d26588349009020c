package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"meme-token-dashboard/internal/domain"
	"meme-token-dashboard/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

const tokenColumns = `
	id, symbol, name, address,
	price::text, market_cap::text, volume_24h::text, holders, price_change_24h::text,
	platform, age, lp_burned, renounced, honeypot_check, safety_score, category,
	social_links, created_at`

// List translates f into a conjunctive WHERE clause and orders newest first.
func (s *TokenStore) List(ctx context.Context, f domain.TokenFilter) (tokens []*domain.Token, err error) {
	start := time.Now()
	defer func() { observe("tokens.list", start, err) }()

	where, args := buildTokenFilter(f)
	query := "SELECT " + tokenColumns + " FROM tokens" + where + " ORDER BY created_at DESC, id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tokens: %w", err)
	}
	defer rows.Close()

	tokens = make([]*domain.Token, 0)
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tokens: %w", err)
	}
	return tokens, nil
}

// buildTokenFilter returns the WHERE clause (with leading space, or empty)
// and its positional arguments. Each present criterion becomes one AND term.
func buildTokenFilter(f domain.TokenFilter) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + escapeLike(strings.ToLower(f.Search)) + "%")
		conds = append(conds, fmt.Sprintf("(symbol ILIKE %[1]s OR name ILIKE %[1]s OR address ILIKE %[1]s)", p))
	}
	if f.Platform != "" {
		conds = append(conds, "platform = "+arg(f.Platform))
	}
	if f.Category != "" {
		conds = append(conds, "category = "+arg(string(f.Category)))
	}
	if f.MinMarketCap != nil {
		conds = append(conds, "market_cap >= "+arg(f.MinMarketCap.String())+"::numeric")
	}
	if f.MaxMarketCap != nil {
		conds = append(conds, "market_cap <= "+arg(f.MaxMarketCap.String())+"::numeric")
	}
	if f.MinAge != nil {
		conds = append(conds, "age >= "+arg(*f.MinAge))
	}
	if f.MaxAge != nil {
		conds = append(conds, "age <= "+arg(*f.MaxAge))
	}
	if f.SafetyCheck {
		conds = append(conds, "safety_score >= "+arg(domain.SafeScoreThreshold))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// GetByID retrieves a token by its ID. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByID(ctx context.Context, id int64) (t *domain.Token, err error) {
	start := time.Now()
	defer func() { observe("tokens.get_by_id", start, err) }()

	row := s.pool.QueryRow(ctx, "SELECT "+tokenColumns+" FROM tokens WHERE id = $1", id)
	t, err = scanToken(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token by id: %w", err)
	}
	return t, nil
}

// GetByAddress retrieves a token by its address. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByAddress(ctx context.Context, address string) (t *domain.Token, err error) {
	start := time.Now()
	defer func() { observe("tokens.get_by_address", start, err) }()

	row := s.pool.QueryRow(ctx, "SELECT "+tokenColumns+" FROM tokens WHERE address = $1", address)
	t, err = scanToken(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token by address: %w", err)
	}
	return t, nil
}

// Insert stores t; id and created_at come from the database.
func (s *TokenStore) Insert(ctx context.Context, t *domain.Token) (created *domain.Token, err error) {
	start := time.Now()
	defer func() { observe("tokens.insert", start, err) }()

	if t == nil || t.Address == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		INSERT INTO tokens (
			symbol, name, address, price, market_cap, volume_24h, holders, price_change_24h,
			platform, age, lp_burned, renounced, honeypot_check, safety_score, category, social_links
		) VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7, $8::numeric,
			$9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + tokenColumns

	row := s.pool.QueryRow(ctx, query,
		t.Symbol,
		t.Name,
		t.Address,
		t.Price.String(),
		t.MarketCap.String(),
		t.Volume24h.String(),
		t.Holders,
		t.PriceChange24h.String(),
		t.Platform,
		t.Age,
		t.LPBurned,
		t.Renounced,
		t.HoneypotCheck,
		t.SafetyScore,
		string(t.Category),
		t.SocialLinks,
	)
	created, err = scanToken(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, storage.ErrDuplicateKey
		}
		return nil, fmt.Errorf("insert token: %w", err)
	}
	return created, nil
}

// Update applies p in a single UPDATE statement so concurrent writers rely on
// row-level atomicity. An empty patch returns the current record.
func (s *TokenStore) Update(ctx context.Context, id int64, p *domain.TokenPatch) (updated *domain.Token, err error) {
	if p == nil || p.IsEmpty() {
		return s.GetByID(ctx, id)
	}

	start := time.Now()
	defer func() { observe("tokens.update", start, err) }()

	set, args := buildTokenPatch(p)
	args = append(args, id)
	query := fmt.Sprintf("UPDATE tokens SET %s WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), tokenColumns)

	updated, err = scanToken(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		if isDuplicateKeyError(err) {
			return nil, storage.ErrDuplicateKey
		}
		return nil, fmt.Errorf("update token: %w", err)
	}
	return updated, nil
}

// buildTokenPatch returns SET assignments for every field present in p.
func buildTokenPatch(p *domain.TokenPatch) ([]string, []any) {
	var set []string
	var args []any
	add := func(column string, v any, cast string) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d%s", column, len(args), cast))
	}
	addDecimal := func(column string, d *decimal.Decimal) {
		if d != nil {
			add(column, d.String(), "::numeric")
		}
	}

	if p.Symbol != nil {
		add("symbol", *p.Symbol, "")
	}
	if p.Name != nil {
		add("name", *p.Name, "")
	}
	if p.Address != nil {
		add("address", *p.Address, "")
	}
	addDecimal("price", p.Price)
	addDecimal("market_cap", p.MarketCap)
	addDecimal("volume_24h", p.Volume24h)
	if p.Holders != nil {
		add("holders", *p.Holders, "")
	}
	addDecimal("price_change_24h", p.PriceChange24h)
	if p.Platform != nil {
		add("platform", *p.Platform, "")
	}
	if p.Age != nil {
		add("age", *p.Age, "")
	}
	if p.LPBurned != nil {
		add("lp_burned", *p.LPBurned, "")
	}
	if p.Renounced != nil {
		add("renounced", *p.Renounced, "")
	}
	if p.HoneypotCheck != nil {
		add("honeypot_check", *p.HoneypotCheck, "")
	}
	if p.SafetyScore != nil {
		add("safety_score", *p.SafetyScore, "")
	}
	if p.Category != nil {
		add("category", string(*p.Category), "")
	}
	if p.SocialLinks != nil {
		add("social_links", *p.SocialLinks, "")
	}
	return set, args
}

// scanToken scans a single row into Token.
func scanToken(row pgx.Row) (*domain.Token, error) {
	var (
		t                                     domain.Token
		price, marketCap, volume, priceChange string
		category                              string
	)

	err := row.Scan(
		&t.ID,
		&t.Symbol,
		&t.Name,
		&t.Address,
		&price,
		&marketCap,
		&volume,
		&t.Holders,
		&priceChange,
		&t.Platform,
		&t.Age,
		&t.LPBurned,
		&t.Renounced,
		&t.HoneypotCheck,
		&t.SafetyScore,
		&category,
		&t.SocialLinks,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if t.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	if t.MarketCap, err = decimal.NewFromString(marketCap); err != nil {
		return nil, fmt.Errorf("parse market_cap: %w", err)
	}
	if t.Volume24h, err = decimal.NewFromString(volume); err != nil {
		return nil, fmt.Errorf("parse volume_24h: %w", err)
	}
	if t.PriceChange24h, err = decimal.NewFromString(priceChange); err != nil {
		return nil, fmt.Errorf("parse price_change_24h: %w", err)
	}
	t.Category = domain.Category(category)
	t.CreatedAt = t.CreatedAt.UTC()

	return &t, nil
}
