package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"

	"meme-token-dashboard/internal/dashboard"
	"meme-token-dashboard/internal/domain"
	"meme-token-dashboard/internal/storage"
)

// handlers adapts dashboard.Service to gin.
type handlers struct {
	svc *dashboard.Service
}

func (h *handlers) listTokens(c *gin.Context) {
	f, err := parseTokenFilter(c.Request.URL.Query())
	if err != nil {
		writeError(c, failureMessages{invalid: "Invalid filter parameters"}, err)
		return
	}

	tokens, err := h.svc.ListTokens(c.Request.Context(), f)
	if err != nil {
		writeError(c, listTokensMessages, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (h *handlers) getToken(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		writeError(c, getTokenMessages, storage.ErrNotFound)
		return
	}

	t, err := h.svc.GetToken(c.Request.Context(), id)
	if err != nil {
		writeError(c, getTokenMessages, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *handlers) createToken(c *gin.Context) {
	var in domain.TokenInput
	if err := decodeJSON(c, &in); err != nil {
		writeError(c, createTokenMessages, err)
		return
	}

	t, err := h.svc.CreateToken(c.Request.Context(), &in)
	if err != nil {
		writeError(c, createTokenMessages, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *handlers) updateToken(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		writeError(c, updateTokenMessages, storage.ErrNotFound)
		return
	}

	var p domain.TokenPatch
	if err := decodeJSON(c, &p); err != nil {
		writeError(c, updateTokenMessages, err)
		return
	}

	t, err := h.svc.UpdateToken(c.Request.Context(), id, &p)
	if err != nil {
		writeError(c, updateTokenMessages, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *handlers) listAlerts(c *gin.Context) {
	alerts, err := h.svc.ListAlerts(c.Request.Context())
	if err != nil {
		writeError(c, listAlertsMessages, err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *handlers) createAlert(c *gin.Context) {
	var in domain.AlertInput
	if err := decodeJSON(c, &in); err != nil {
		writeError(c, createAlertMessages, err)
		return
	}

	a, err := h.svc.CreateAlert(c.Request.Context(), &in)
	if err != nil {
		writeError(c, createAlertMessages, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// markAlertRead always acknowledges; an id that cannot exist is a no-op.
func (h *handlers) markAlertRead(c *gin.Context) {
	if id, ok := parseID(c.Param("id")); ok {
		if err := h.svc.MarkAlertRead(c.Request.Context(), id); err != nil {
			writeError(c, markReadMessages, err)
			return
		}
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Alert marked as read"})
}

// statsResponse renders the sums as JSON numbers.
type statsResponse struct {
	TotalTokens      int         `json:"totalTokens"`
	NewTokens        int         `json:"newTokens"`
	CompletingTokens int         `json:"completingTokens"`
	CompletedTokens  int         `json:"completedTokens"`
	TrendingTokens   int         `json:"trendingTokens"`
	TotalVolume      json.Number `json:"totalVolume"`
	TotalMarketCap   json.Number `json:"totalMarketCap"`
}

func newStatsResponse(s domain.Stats) statsResponse {
	return statsResponse{
		TotalTokens:      s.TotalTokens,
		NewTokens:        s.NewTokens,
		CompletingTokens: s.CompletingTokens,
		CompletedTokens:  s.CompletedTokens,
		TrendingTokens:   s.TrendingTokens,
		TotalVolume:      json.Number(s.TotalVolume.String()),
		TotalMarketCap:   json.Number(s.TotalMarketCap.String()),
	}
}

func (h *handlers) stats(c *gin.Context) {
	s, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		writeError(c, statsMessages, err)
		return
	}
	c.JSON(http.StatusOK, newStatsResponse(s))
}

// decodeJSON binds the request body into v, turning decode failures into
// validation errors. The body is cached so a failed decode can be rescanned
// to name the offending decimal fields.
func decodeJSON(c *gin.Context, v any) error {
	err := c.ShouldBindBodyWith(v, binding.JSON)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return domain.NewValidationError("", "request body is required")
	case errors.As(err, &typeErr):
		field := typeErr.Field
		return domain.NewValidationError(field, "must be of type "+jsonKind(typeErr.Type.Kind().String()))
	default:
		var body []byte
		if cached, ok := c.Get(gin.BodyBytesKey); ok {
			body, _ = cached.([]byte)
		}
		if ve := invalidDecimalFields(body, v); ve != nil {
			return ve
		}
		return domain.NewValidationError("", "malformed JSON body")
	}
}

var decimalPtrType = reflect.TypeOf((*decimal.Decimal)(nil))

// invalidDecimalFields reports every decimal field of target whose raw value
// in body does not parse. It returns nil when body is not a JSON object or
// all decimals are well formed.
func invalidDecimalFields(body []byte, target any) *domain.ValidationError {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	rt := reflect.TypeOf(target)
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil
	}

	ve := &domain.ValidationError{}
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.Type != decimalPtrType && f.Type != decimalPtrType.Elem() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		value, present := raw[name]
		if name == "" || !present {
			continue
		}
		var d decimal.Decimal
		if err := d.UnmarshalJSON(value); err != nil {
			ve.Add(name, "must be a decimal number")
		}
	}
	if len(ve.Fields) == 0 {
		return nil
	}
	return ve
}

func jsonKind(goKind string) string {
	switch goKind {
	case "string":
		return "string"
	case "bool":
		return "boolean"
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64", "float32", "float64":
		return "number"
	default:
		return goKind
	}
}
