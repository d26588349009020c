package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"meme-token-dashboard/internal/domain"
	"meme-token-dashboard/internal/storage"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// messageResponse is the body of acknowledgement-only responses.
type messageResponse struct {
	Message string `json:"message"`
}

// Per-route messages for each failure class.
type failureMessages struct {
	invalid  string
	notFound string
	internal string
}

var (
	listTokensMessages  = failureMessages{internal: "Failed to fetch tokens"}
	getTokenMessages    = failureMessages{notFound: "Token not found", internal: "Failed to fetch token"}
	createTokenMessages = failureMessages{invalid: "Invalid token data", internal: "Failed to create token"}
	updateTokenMessages = failureMessages{invalid: "Invalid update data", notFound: "Token not found", internal: "Failed to update token"}
	listAlertsMessages  = failureMessages{internal: "Failed to fetch alerts"}
	createAlertMessages = failureMessages{invalid: "Invalid alert data", internal: "Failed to create alert"}
	markReadMessages    = failureMessages{internal: "Failed to mark alert as read"}
	statsMessages       = failureMessages{internal: "Failed to fetch statistics"}
)

// writeError maps err onto a status code and body. Internal detail never
// reaches the client; the service layer has already logged it.
func writeError(c *gin.Context, msgs failureMessages, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		message := msgs.invalid
		if message == "" {
			message = "Invalid request"
		}
		c.JSON(http.StatusBadRequest, errorResponse{Message: message, Errors: ve.Fields})
	case errors.Is(err, storage.ErrNotFound) && msgs.notFound != "":
		c.JSON(http.StatusNotFound, errorResponse{Message: msgs.notFound})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Message: msgs.internal})
	}
}
