package events

import "github.com/AlibekovAA/profile-editor/internal/profile/domain"

const (
	TypeProfileUpdated = "profile_updated"
	TypeShutdown       = "shutdown"
)

// Message is a single websocket frame pushed to subscribers.
type Message struct {
	Type    string         `json:"type"`
	Payload *domain.Record `json:"payload,omitempty"`
}
