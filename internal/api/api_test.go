package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"meme-token-dashboard/internal/dashboard"
	"meme-token-dashboard/internal/domain"
	"meme-token-dashboard/internal/seed"
	"meme-token-dashboard/internal/storage/memory"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testServer struct {
	router http.Handler
	svc    *dashboard.Service
	hub    *AlertHub
}

func newTestServer(t *testing.T, seeded bool) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)
	stores := memory.NewStores(nil)
	if seeded {
		_, err := seed.Apply(context.Background(), stores, logger)
		require.NoError(t, err)
	}

	hub := NewAlertHub(logger, nil)
	t.Cleanup(hub.Close)
	svc := dashboard.NewService(stores, dashboard.WithLogger(logger), dashboard.WithAlertNotifier(hub))
	router := NewRouter(svc, Options{Prefix: "/api", Logger: logger, Hub: hub})
	return &testServer{router: router, svc: svc, hub: hub}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func symbols(tokens []domain.Token) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Symbol)
	}
	return out
}

const validTokenBody = `{
	"symbol": "NEWT",
	"name": "Newt Token",
	"address": "NewtAddress111",
	"price": "0.0031",
	"marketCap": 250000,
	"volume24h": "12000.50",
	"holders": 321,
	"priceChange24h": "-4.2",
	"platform": "pump.fun",
	"age": 1
}`

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	s.do(t, http.MethodGet, "/api/tokens", "")
	rec = s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "meme_dashboard_http_requests_total")
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/api/alerts", "")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestListTokens_SeededNewestFirst(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodGet, "/api/tokens", "")
	require.Equal(t, http.StatusOK, rec.Code)

	tokens := decodeBody[[]domain.Token](t, rec)
	assert.Equal(t, []string{"ETHBULL", "UNIMEME", "SATOSHI", "BTCMEME", "PEPE", "CARROT", "LDRAGO"}, symbols(tokens))
}

func TestListTokens_Filters(t *testing.T) {
	s := newTestServer(t, true)

	tests := []struct {
		query string
		want  []string
	}{
		{"search=carrot", []string{"CARROT"}},
		{"search=CARROT", []string{"CARROT"}},
		{"platform=uniswap", []string{"ETHBULL", "UNIMEME"}},
		{"category=completed", []string{"PEPE"}},
		{"minMarketCap=100000&safetyCheck=true", []string{"ETHBULL", "UNIMEME", "BTCMEME", "CARROT", "LDRAGO"}},
		{"minMarketCap=1000000&maxMarketCap=5670000", []string{"ETHBULL", "CARROT"}},
		{"minAge=10&maxAge=45", []string{"ETHBULL", "SATOSHI", "BTCMEME"}},
		{"safetyCheck=TRUE", []string{"ETHBULL", "UNIMEME", "SATOSHI", "BTCMEME", "PEPE", "CARROT", "LDRAGO"}},
		{"safetyCheck=false&platform=meteora", []string{"PEPE"}},
		{"minMarketCap=&search=", []string{"ETHBULL", "UNIMEME", "SATOSHI", "BTCMEME", "PEPE", "CARROT", "LDRAGO"}},
		{"search=bc1", []string{"SATOSHI", "BTCMEME"}},
		{"category=completing", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/tokens?"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, symbols(decodeBody[[]domain.Token](t, rec)))
		})
	}
}

func TestListTokens_MalformedNumbers(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodGet, "/api/tokens?minMarketCap=abc&maxAge=12abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody[errorResponse](t, rec)
	assert.Equal(t, "Invalid filter parameters", body.Message)
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "minMarketCap", body.Errors[0].Field)
	assert.Equal(t, "maxAge", body.Errors[1].Field)
}

func TestGetToken(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodGet, "/api/tokens/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	tok := decodeBody[domain.Token](t, rec)
	assert.Equal(t, "CARROT", tok.Symbol)
	assert.Equal(t, "0.0078", tok.Price.String())

	for _, path := range []string{"/api/tokens/999", "/api/tokens/abc", "/api/tokens/0"} {
		rec = s.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "Token not found", decodeBody[errorResponse](t, rec).Message)
	}
}

func TestGetToken_DecimalsRenderAsStrings(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodGet, "/api/tokens/3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, "45600", raw["marketCap"])
	assert.Equal(t, "-12.3", raw["priceChange24h"])
	assert.Equal(t, "completed", raw["category"])
	assert.Equal(t, "{}", raw["socialLinks"])
}

func TestCreateToken(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodPost, "/api/tokens", validTokenBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeBody[domain.Token](t, rec)
	assert.Equal(t, int64(8), created.ID)
	assert.Equal(t, domain.CategoryNew, created.Category)
	assert.Equal(t, "250000", created.MarketCap.String())
	assert.Nil(t, created.SocialLinks)

	rec = s.do(t, http.MethodGet, "/api/tokens/8", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "NEWT", decodeBody[domain.Token](t, rec).Symbol)

	rec = s.do(t, http.MethodGet, "/api/tokens", "")
	assert.Equal(t, "NEWT", decodeBody[[]domain.Token](t, rec)[0].Symbol)
}

func TestCreateToken_ValidationErrors(t *testing.T) {
	s := newTestServer(t, true)

	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"empty object", `{}`, []string{"symbol", "name", "address", "price", "marketCap", "volume24h", "holders", "priceChange24h", "platform", "age"}},
		{"wrong type", `{"holders": "many"}`, []string{"holders"}},
		{"malformed json", `{"symbol":`, []string{""}},
		{"empty body", ``, []string{""}},
		{"duplicate address", strings.Replace(validTokenBody, "NewtAddress111", "4WpXqNhQjNGQqmNhQjNGUKH", 1), []string{"address"}},
		{"bad category", strings.Replace(validTokenBody, `"age": 1`, `"age": 1, "category": "moon"`, 1), []string{"category"}},
		{"unparseable decimal", strings.Replace(validTokenBody, `"0.0031"`, `"cheap"`, 1), []string{"price"}},
		{"several bad decimals", strings.NewReplacer(`"0.0031"`, `"abc"`, `250000`, `"1e"`).Replace(validTokenBody), []string{"price", "marketCap"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/tokens", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			body := decodeBody[errorResponse](t, rec)
			assert.Equal(t, "Invalid token data", body.Message)
			fields := make([]string, 0, len(body.Errors))
			for _, fe := range body.Errors {
				fields = append(fields, fe.Field)
				assert.NotEmpty(t, fe.Message)
			}
			assert.ElementsMatch(t, tt.fields, fields)
		})
	}
}

func TestUpdateToken(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodGet, "/api/tokens/1", "")
	before := decodeBody[domain.Token](t, rec)

	rec = s.do(t, http.MethodPatch, "/api/tokens/1", `{"category":"trending"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	after := decodeBody[domain.Token](t, rec)

	want := before
	want.Category = domain.CategoryTrending
	assert.Equal(t, want.Symbol, after.Symbol)
	assert.Equal(t, want.Category, after.Category)
	assert.True(t, want.MarketCap.Equal(after.MarketCap))
	assert.Equal(t, want.SocialLinks, after.SocialLinks)
	assert.True(t, want.CreatedAt.Equal(after.CreatedAt))

	rec = s.do(t, http.MethodPatch, "/api/tokens/999", `{"category":"trending"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/tokens/1", `{"safetyScore": 42}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[errorResponse](t, rec)
	assert.Equal(t, "Invalid update data", body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "safetyScore", body.Errors[0].Field)

	rec = s.do(t, http.MethodPatch, "/api/tokens/1", `{}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateToken_BadDecimalNamesField(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodPatch, "/api/tokens/1", `{"volume24h":"lots","name":"Still Dragon"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	body := decodeBody[errorResponse](t, rec)
	assert.Equal(t, "Invalid update data", body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "volume24h", body.Errors[0].Field)
	assert.Equal(t, "must be a decimal number", body.Errors[0].Message)

	rec = s.do(t, http.MethodGet, "/api/tokens/1", "")
	assert.Equal(t, "Legendary Dragon", decodeBody[domain.Token](t, rec).Name)
}

func TestLargeIntegers(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodGet, "/api/tokens/2147483648", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/alerts/2147483648/read", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := strings.Replace(validTokenBody, `"age": 1`, `"age": 3000000000`, 1)
	rec = s.do(t, http.MethodPost, "/api/tokens", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, int64(3000000000), decodeBody[domain.Token](t, rec).Age)

	rec = s.do(t, http.MethodGet, "/api/tokens?minAge=3000000000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"NEWT"}, symbols(decodeBody[[]domain.Token](t, rec)))
}

func TestAlerts(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodGet, "/api/alerts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	alerts := decodeBody[[]domain.Alert](t, rec)
	require.Len(t, alerts, 2)
	assert.Equal(t, "Price Spike Alert!", alerts[0].Title)

	rec = s.do(t, http.MethodPost, "/api/alerts", `{"tokenId":3,"type":"volume_spike","title":"Volume Spike","message":"$PEPE volume up"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[domain.Alert](t, rec)
	assert.False(t, created.IsRead)

	rec = s.do(t, http.MethodPost, "/api/alerts", `{"tokenId":99,"type":"new_token","title":"t","message":"m"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[errorResponse](t, rec)
	assert.Equal(t, "Invalid alert data", body.Message)
	assert.Equal(t, "tokenId", body.Errors[0].Field)

	rec = s.do(t, http.MethodGet, "/api/alerts", "")
	alerts = decodeBody[[]domain.Alert](t, rec)
	require.Len(t, alerts, 3)
	assert.Equal(t, created.ID, alerts[0].ID)
}

func TestMarkAlertRead(t *testing.T) {
	s := newTestServer(t, true)

	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPatch, "/api/alerts/1/read", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Alert marked as read", decodeBody[messageResponse](t, rec).Message)
	}

	rec := s.do(t, http.MethodGet, "/api/alerts", "")
	alerts := decodeBody[[]domain.Alert](t, rec)
	for _, a := range alerts {
		assert.Equal(t, a.ID == 1, a.IsRead, "alert %d", a.ID)
	}

	for _, path := range []string{"/api/alerts/999/read", "/api/alerts/nope/read"} {
		rec = s.do(t, http.MethodPatch, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestStats(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.Number
	dec := json.NewDecoder(bytes.NewReader(rec.Body.Bytes()))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&raw))

	assert.Equal(t, json.Number("7"), raw["totalTokens"])
	assert.Equal(t, json.Number("3"), raw["newTokens"])
	assert.Equal(t, json.Number("0"), raw["completingTokens"])
	assert.Equal(t, json.Number("1"), raw["completedTokens"])
	assert.Equal(t, json.Number("3"), raw["trendingTokens"])
	assert.Equal(t, json.Number("5952600"), raw["totalVolume"])
	assert.Equal(t, json.Number("21859900"), raw["totalMarketCap"])
}

func TestStats_EmptyStore(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"totalTokens": 0, "newTokens": 0, "completingTokens": 0,
		"completedTokens": 0, "trendingTokens": 0,
		"totalVolume": 0, "totalMarketCap": 0
	}`, rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/api/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAlertStream(t *testing.T) {
	s := newTestServer(t, true)
	server := httptest.NewServer(s.router)
	defer server.Close()

	conn := dialStream(t, server.URL+"/api/alerts/stream")
	defer conn.Close()

	require.Eventually(t, func() bool { return s.hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	rec := s.do(t, http.MethodPost, "/api/alerts", `{"type":"new_token","title":"Fresh","message":"$NEW launched"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type string       `json:"type"`
		Data domain.Alert `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "alert", msg.Type)
	assert.Equal(t, "Fresh", msg.Data.Title)
	assert.Nil(t, msg.Data.TokenID)
}
