// Package memory holds the process-local storage backend. State lives only
// for the process lifetime and is rebuilt from the seed set on start.
package memory

import "meme-token-dashboard/internal/storage"

// NewStores wires the in-memory token, alert and user stores together.
func NewStores(now Clock) storage.Stores {
	tokens := NewTokenStore(now)
	return storage.Stores{
		Tokens: tokens,
		Alerts: NewAlertStore(tokens, now),
		Users:  NewUserStore(now),
	}
}
