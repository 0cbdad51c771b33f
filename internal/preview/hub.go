package preview

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/satkunas/sticker-factory/backend-go/internal/engine"
	"github.com/satkunas/sticker-factory/backend-go/internal/template"
)

// PlaygroundRoom is the shared anonymous room. It starts from the
// sample template and accepts template.set, so the playground works
// without an account and without storage.
const PlaygroundRoom = "playground"

// DocumentLoader fetches the working document for a template room. The
// socket handler has already authorized the user by the time the hub
// loads anything.
type DocumentLoader func(templateID string) (*template.Template, error)

type room struct {
	id      string
	clients map[string]*Client // clientID -> client

	mu        sync.Mutex
	doc       *template.Template
	overrides map[string]template.Override
	seq       int64
}

func newRoom(id string, doc *template.Template) *room {
	return &room{
		id:        id,
		clients:   make(map[string]*Client),
		doc:       doc,
		overrides: make(map[string]template.Override),
	}
}

// Hub fans override edits out to every client watching the same
// document. Each edit re-renders the room's template and broadcasts the
// result, so all connected editors see an identical preview.
type Hub struct {
	renderer *engine.Renderer
	loader   DocumentLoader

	mu         sync.RWMutex
	rooms      map[string]*room // roomID -> room
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
}

func NewHub(renderer *engine.Renderer, loader DocumentLoader) *Hub {
	return &Hub{
		renderer:   renderer,
		loader:     loader,
		rooms:      make(map[string]*room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.stop:
			h.closeAll()
			return
		}
	}
}

// Stop shuts down the hub and disconnects every client.
func (h *Hub) Stop() {
	close(h.stop)
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	rm, ok := h.rooms[client.RoomID]
	if !ok {
		rm = newRoom(client.RoomID, h.loadDocument(client.RoomID))
		h.rooms[client.RoomID] = rm
	}
	rm.clients[client.ClientID] = client

	peers := make([]PeerPayload, 0, len(rm.clients)-1)
	for _, c := range rm.clients {
		if c.ClientID != client.ClientID {
			peers = append(peers, PeerPayload{UserID: c.UserID, DisplayName: c.DisplayName})
		}
	}
	h.mu.Unlock()

	// Snapshot the current preview for the new client
	rm.mu.Lock()
	welcome, _ := json.Marshal(WelcomePayload{
		ClientID:  client.ClientID,
		RoomID:    rm.id,
		Seq:       rm.seq,
		SVG:       h.renderer.Render(rm.doc, rm.overrides),
		Overrides: rm.overrides,
		Peers:     peers,
	})
	rm.mu.Unlock()
	client.Send(&Message{Type: TypeWelcome, RoomID: rm.id, Payload: welcome})

	joinPayload, _ := json.Marshal(PeerPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	h.broadcastToRoom(client.RoomID, &Message{
		Type:    TypePeerJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "room", client.RoomID)
}

func (h *Hub) loadDocument(roomID string) *template.Template {
	if roomID == PlaygroundRoom {
		return template.NewSampleTemplate()
	}
	if h.loader == nil {
		return nil
	}
	doc, err := h.loader(roomID)
	if err != nil {
		slog.Error("load preview document", "error", err, "room", roomID)
		return nil
	}
	return doc
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	rm, ok := h.rooms[client.RoomID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := rm.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(rm.clients, client.ClientID)
	close(client.send)

	if len(rm.clients) == 0 {
		delete(h.rooms, client.RoomID)
	}
	h.mu.Unlock()

	leavePayload, _ := json.Marshal(PeerPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	h.broadcastToRoom(client.RoomID, &Message{
		Type:    TypePeerLeave,
		UserID:  client.UserID,
		Payload: leavePayload,
	}, "")

	slog.Info("client left", "user", client.UserID, "room", client.RoomID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypeOverrideSet:
		h.handleOverrideSet(sender, msg)
	case TypeOverrideClear:
		h.handleOverrideClear(sender, msg)
	case TypeTemplateSet:
		h.handleTemplateSet(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) roomFor(client *Client) *room {
	h.mu.RLock()
	rm := h.rooms[client.RoomID]
	h.mu.RUnlock()
	return rm
}

func (h *Hub) handleOverrideSet(sender *Client, msg *Message) {
	var payload OverridePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.LayerID == "" {
		sender.Send(errorMessage("override.set needs a layerId"))
		return
	}

	rm := h.roomFor(sender)
	if rm == nil {
		return
	}

	rm.mu.Lock()
	if rm.doc == nil {
		rm.mu.Unlock()
		sender.Send(errorMessage("no document loaded"))
		return
	}
	rm.overrides[payload.LayerID] = payload.Override
	svg, seq := h.renderLocked(rm)
	rm.mu.Unlock()

	h.broadcastRender(rm.id, svg, seq, sender.UserID)
}

func (h *Hub) handleOverrideClear(sender *Client, msg *Message) {
	var payload ClearPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		sender.Send(errorMessage("invalid override.clear payload"))
		return
	}

	rm := h.roomFor(sender)
	if rm == nil {
		return
	}

	rm.mu.Lock()
	if payload.LayerID == "" {
		rm.overrides = make(map[string]template.Override)
	} else {
		delete(rm.overrides, payload.LayerID)
	}
	svg, seq := h.renderLocked(rm)
	rm.mu.Unlock()

	h.broadcastRender(rm.id, svg, seq, sender.UserID)
}

func (h *Hub) handleTemplateSet(sender *Client, msg *Message) {
	if sender.RoomID != PlaygroundRoom {
		sender.Send(errorMessage("template.set is only allowed in the playground"))
		return
	}

	var payload TemplatePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Template == nil {
		sender.Send(errorMessage("template.set needs a template"))
		return
	}
	if err := template.Validate(payload.Template); err != nil {
		sender.Send(errorMessage("invalid template: " + err.Error()))
		return
	}

	rm := h.roomFor(sender)
	if rm == nil {
		return
	}

	rm.mu.Lock()
	rm.doc = payload.Template
	rm.overrides = make(map[string]template.Override)
	svg, seq := h.renderLocked(rm)
	rm.mu.Unlock()

	h.broadcastRender(rm.id, svg, seq, sender.UserID)
}

// renderLocked re-renders the room and bumps its sequence number. The
// caller holds rm.mu.
func (h *Hub) renderLocked(rm *room) (string, int64) {
	rm.seq++
	return h.renderer.Render(rm.doc, rm.overrides), rm.seq
}

func (h *Hub) broadcastRender(roomID, svg string, seq int64, updatedBy string) {
	payload, _ := json.Marshal(RenderPayload{
		SVG:       svg,
		Seq:       seq,
		UpdatedBy: updatedBy,
	})
	h.broadcastToRoom(roomID, &Message{
		Type:    TypeRender,
		Seq:     seq,
		UserID:  updatedBy,
		Payload: payload,
	}, "")
}

func (h *Hub) broadcastToRoom(roomID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	rm, ok := h.rooms[roomID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(rm.clients))
	for _, c := range rm.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, rm := range h.rooms {
		for _, c := range rm.clients {
			close(c.send)
		}
	}
	h.rooms = make(map[string]*room)
}

func errorMessage(text string) *Message {
	payload, _ := json.Marshal(ErrorPayload{Message: text})
	return &Message{Type: TypeError, Payload: payload}
}
