package domain

import "time"

// AlertType classifies an alert.
type AlertType string

const (
	AlertTypeNewToken    AlertType = "new_token"
	AlertTypePriceChange AlertType = "price_change"
	AlertTypeVolumeSpike AlertType = "volume_spike"
)

// Alert is a notification optionally tied to a token.
// TokenID is a reference only; alerts are not owned by tokens.
type Alert struct {
	ID        int64     `json:"id"`
	TokenID   *int64    `json:"tokenId"`
	Type      AlertType `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// AlertInput is the payload for creating an alert.
type AlertInput struct {
	TokenID *int64    `json:"tokenId" validate:"omitempty,min=1"`
	Type    AlertType `json:"type" validate:"required,oneof=new_token price_change volume_spike"`
	Title   string    `json:"title" validate:"required"`
	Message string    `json:"message" validate:"required"`
	IsRead  *bool     `json:"isRead"`
}

// Build converts a validated input into an Alert without id or creation time.
func (in *AlertInput) Build() Alert {
	a := Alert{
		Type:    in.Type,
		Title:   in.Title,
		Message: in.Message,
	}
	if in.TokenID != nil {
		id := *in.TokenID
		a.TokenID = &id
	}
	if in.IsRead != nil {
		a.IsRead = *in.IsRead
	}
	return a
}
