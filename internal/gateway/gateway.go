package gateway

import (
	"log/slog"
	"sync"

	"github.com/eleven-am/vokchat/internal/signaling"
	"github.com/google/uuid"
)

// Peer is the outbound half of one client connection.
type Peer interface {
	// Enqueue queues ev for delivery and reports whether it was accepted.
	// It must not block.
	Enqueue(ev *signaling.Event) bool
}

// Dispatcher receives decoded client traffic.
type Dispatcher interface {
	Dispatch(from signaling.ConnectionID, msg *signaling.Inbound)
	Disconnect(id signaling.ConnectionID)
}

type entry struct {
	peer   Peer
	roomID string
}

// Gateway tracks live connections and delivers addressed events. It knows
// which room a connection was placed in but nothing about room rules.
type Gateway struct {
	logger *slog.Logger

	mu         sync.RWMutex
	conns      map[signaling.ConnectionID]*entry
	rooms      map[string]map[signaling.ConnectionID]struct{}
	dispatcher Dispatcher
}

func NewGateway(logger *slog.Logger) *Gateway {
	return &Gateway{
		logger: logger.With("component", "gateway"),
		conns:  make(map[signaling.ConnectionID]*entry),
		rooms:  make(map[string]map[signaling.ConnectionID]struct{}),
	}
}

func (g *Gateway) SetDispatcher(d Dispatcher) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dispatcher = d
}

func (g *Gateway) getDispatcher() Dispatcher {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.dispatcher
}

// OnConnect registers peer under a fresh identifier and greets it.
func (g *Gateway) OnConnect(peer Peer) signaling.ConnectionID {
	id := signaling.ConnectionID(uuid.NewString())

	g.mu.Lock()
	g.conns[id] = &entry{peer: peer}
	g.mu.Unlock()

	g.logger.Info("connection registered", "connection_id", id)
	peer.Enqueue(signaling.NewConnectedEvent(id))
	return id
}

// OnMessage decodes raw and hands it to the dispatcher. Frames that fail to
// decode, or that come from unknown connections, are dropped.
func (g *Gateway) OnMessage(id signaling.ConnectionID, raw []byte) {
	if !g.isLive(id) {
		return
	}

	msg, err := signaling.Decode(raw)
	if err != nil {
		g.logger.Debug("dropping message", "connection_id", id, "error", err)
		return
	}

	if d := g.getDispatcher(); d != nil {
		d.Dispatch(id, msg)
	}
}

// OnDisconnect deregisters id before notifying the dispatcher, so cleanup
// never delivers to the closed connection.
func (g *Gateway) OnDisconnect(id signaling.ConnectionID) {
	g.mu.Lock()
	e, ok := g.conns[id]
	if ok {
		g.unindexLocked(id, e.roomID)
		delete(g.conns, id)
	}
	d := g.dispatcher
	g.mu.Unlock()

	if !ok {
		return
	}

	g.logger.Info("connection deregistered", "connection_id", id)
	if d != nil {
		d.Disconnect(id)
	}
}

// Send delivers ev to id. Unknown or closed connections are a no-op.
func (g *Gateway) Send(id signaling.ConnectionID, ev *signaling.Event) {
	g.mu.RLock()
	e, ok := g.conns[id]
	g.mu.RUnlock()

	if !ok {
		g.logger.Debug("send to stale connection", "connection_id", id, "type", ev.Type)
		return
	}

	if !e.peer.Enqueue(ev) {
		g.logger.Warn("event dropped", "connection_id", id, "type", ev.Type)
	}
}

// BroadcastToRoomExcept delivers ev to every connection placed in roomID
// other than excluded.
func (g *Gateway) BroadcastToRoomExcept(roomID string, excluded signaling.ConnectionID, ev *signaling.Event) {
	if roomID == "" {
		return
	}

	g.mu.RLock()
	members := g.rooms[roomID]
	targets := make([]Peer, 0, len(members))
	ids := make([]signaling.ConnectionID, 0, len(members))
	for id := range members {
		if id == excluded {
			continue
		}
		if e, ok := g.conns[id]; ok {
			targets = append(targets, e.peer)
			ids = append(ids, id)
		}
	}
	g.mu.RUnlock()

	for i, p := range targets {
		if !p.Enqueue(ev) {
			g.logger.Warn("event dropped", "connection_id", ids[i], "type", ev.Type)
		}
	}
}

// SetRoom records the room id was placed in. An empty roomID clears it.
func (g *Gateway) SetRoom(id signaling.ConnectionID, roomID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.conns[id]
	if !ok || e.roomID == roomID {
		return
	}
	g.unindexLocked(id, e.roomID)
	e.roomID = roomID
	if roomID == "" {
		return
	}
	members, ok := g.rooms[roomID]
	if !ok {
		members = make(map[signaling.ConnectionID]struct{})
		g.rooms[roomID] = members
	}
	members[id] = struct{}{}
}

func (g *Gateway) unindexLocked(id signaling.ConnectionID, roomID string) {
	if roomID == "" {
		return
	}
	members := g.rooms[roomID]
	delete(members, id)
	if len(members) == 0 {
		delete(g.rooms, roomID)
	}
}

func (g *Gateway) ConnectionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.conns)
}

func (g *Gateway) isLive(id signaling.ConnectionID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.conns[id]
	return ok
}
