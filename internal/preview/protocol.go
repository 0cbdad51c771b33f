package preview

import (
	"encoding/json"

	"github.com/satkunas/sticker-factory/backend-go/internal/template"
)

type Message struct {
	Type     string          `json:"type"`
	RoomID   string          `json:"roomId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

const (
	// Connection
	TypeWelcome = "welcome"

	// Editing
	TypeOverrideSet   = "override.set"
	TypeOverrideClear = "override.clear"
	TypeTemplateSet   = "template.set"

	// Server pushes
	TypeRender    = "preview.render"
	TypePeerJoin  = "peer.join"
	TypePeerLeave = "peer.leave"
	TypeError     = "error"
)

// WelcomePayload snapshots the room for a client that just connected:
// the current render, the overrides behind it, and who else is here.
type WelcomePayload struct {
	ClientID  string                       `json:"clientId"`
	RoomID    string                       `json:"roomId"`
	Seq       int64                        `json:"seq"`
	SVG       string                       `json:"svg"`
	Overrides map[string]template.Override `json:"overrides"`
	Peers     []PeerPayload                `json:"peers"`
}

// OverridePayload replaces one layer's override wholesale.
type OverridePayload struct {
	LayerID  string            `json:"layerId"`
	Override template.Override `json:"override"`
}

// ClearPayload drops one layer's override, or all of them when LayerID
// is empty.
type ClearPayload struct {
	LayerID string `json:"layerId,omitempty"`
}

// TemplatePayload swaps the room's working document. Playground only.
type TemplatePayload struct {
	Template *template.Template `json:"template"`
}

// RenderPayload carries a fresh render. Seq increases with every render
// in a room; clients keep the highest seq they have seen and drop the
// rest, so late arrivals cannot roll the preview back.
type RenderPayload struct {
	SVG       string `json:"svg"`
	Seq       int64  `json:"seq"`
	UpdatedBy string `json:"updatedBy,omitempty"`
}

type PeerPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
