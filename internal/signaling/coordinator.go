package signaling

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/eleven-am/vokchat/internal/shared"
)

// Sender is the delivery side of the Gateway. Implementations must not block
// and must not call back into the Coordinator.
type Sender interface {
	Send(id ConnectionID, ev *Event)
	BroadcastToRoomExcept(roomID string, excluded ConnectionID, ev *Event)
	SetRoom(id ConnectionID, roomID string)
}

// Recorder counts coordinator activity. Incr must not block.
type Recorder interface {
	Incr(field string)
}

const (
	MetricRoomsCreated  = "rooms_created"
	MetricPeersJoined   = "peers_joined"
	MetricJoinsRejected = "joins_rejected"
	MetricPeersLeft     = "peers_left"
	MetricRoomsDeleted  = "rooms_deleted"
	metricRelayedPrefix = "relayed_"
)

type room struct {
	id        string
	occupants []ConnectionID
}

func (r *room) remove(id ConnectionID) {
	kept := r.occupants[:0]
	for _, o := range r.occupants {
		if o != id {
			kept = append(kept, o)
		}
	}
	r.occupants = kept
}

// RoomSnapshot is a copy of one room's state.
type RoomSnapshot struct {
	ID        string
	Occupants []ConnectionID
}

func (s RoomSnapshot) Full() bool {
	return len(s.Occupants) >= RoomCapacity
}

// Coordinator owns the room table. A single mutex serializes every membership
// change and every relay, so delivery order matches arrival order.
type Coordinator struct {
	sender   Sender
	recorder Recorder
	logger   *slog.Logger

	mu      sync.Mutex
	rooms   map[string]*room
	members map[ConnectionID]string
}

func NewCoordinator(sender Sender, recorder Recorder, logger *slog.Logger) *Coordinator {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Coordinator{
		sender:   sender,
		recorder: recorder,
		logger:   logger.With("component", "coordinator"),
		rooms:    make(map[string]*room),
		members:  make(map[ConnectionID]string),
	}
}

// Dispatch routes one decoded message from a connection.
func (c *Coordinator) Dispatch(from ConnectionID, msg *Inbound) {
	switch msg.Type {
	case EventJoin:
		c.Join(msg.RoomID, from)
	case EventLeave:
		c.Leave(from)
	case EventOffer, EventAnswer, EventICECandidate, EventMediaState:
		c.Relay(from, msg)
	default:
		c.logger.Debug("ignoring message", "type", msg.Type, "connection_id", from)
	}
}

// Join admits id into roomID. The returned error describes a rejection; the
// joiner has already been told through session-error.
func (c *Coordinator) Join(roomID string, id ConnectionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !validRoomID(roomID) {
		c.reject(roomID, id, ErrInvalidRoom)
		return ErrInvalidRoom
	}

	current, seated := c.members[id]
	if seated && current == roomID {
		c.logger.Debug("duplicate join ignored", "room_id", roomID, "connection_id", id)
		return nil
	}

	// A rejected join must leave the joiner seated where it was.
	r, ok := c.rooms[roomID]
	if ok && len(r.occupants) >= RoomCapacity {
		c.reject(roomID, id, ErrRoomFull)
		return ErrRoomFull
	}

	if seated {
		c.leaveLocked(id)
	}

	if !ok {
		c.rooms[roomID] = &room{id: roomID, occupants: []ConnectionID{id}}
		c.members[id] = roomID
		c.sender.SetRoom(id, roomID)
		c.recorder.Incr(MetricRoomsCreated)
		c.logger.Info("room created", "room_id", roomID, "connection_id", id)
		return nil
	}

	existing := append([]ConnectionID(nil), r.occupants...)
	r.occupants = append(r.occupants, id)
	c.members[id] = roomID
	c.sender.SetRoom(id, roomID)
	c.recorder.Incr(MetricPeersJoined)
	c.logger.Info("peer joined room", "room_id", roomID, "connection_id", id)

	for _, other := range existing {
		c.sender.Send(other, newUserJoinedEvent(id))
	}
	return nil
}

func (c *Coordinator) reject(roomID string, id ConnectionID, reason error) {
	c.recorder.Incr(MetricJoinsRejected)
	c.logger.Info("join rejected", "room_id", roomID, "connection_id", id, "reason", reason)
	c.sender.Send(id, newSessionErrorEvent())
}

// Leave removes id from its room, if any, and keeps the connection usable.
func (c *Coordinator) Leave(id ConnectionID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leaveLocked(id)
}

// Disconnect is Leave for a connection that is already gone from the Gateway.
func (c *Coordinator) Disconnect(id ConnectionID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger.Debug("connection lost", "connection_id", id)
	c.leaveLocked(id)
}

func (c *Coordinator) leaveLocked(id ConnectionID) {
	roomID, ok := c.members[id]
	if !ok {
		return
	}
	delete(c.members, id)
	c.sender.SetRoom(id, "")

	r, ok := c.rooms[roomID]
	if !ok {
		return
	}
	r.remove(id)
	c.recorder.Incr(MetricPeersLeft)

	if len(r.occupants) == 0 {
		delete(c.rooms, roomID)
		c.recorder.Incr(MetricRoomsDeleted)
		c.logger.Info("room deleted", "room_id", roomID)
		return
	}

	c.logger.Info("peer left room", "room_id", roomID, "connection_id", id)
	for _, other := range r.occupants {
		c.sender.Send(other, newUserLeftEvent(id))
	}
}

// Relay forwards an offer, answer, candidate or media-state verbatim. An
// explicit target wins; otherwise the room's other occupant receives it.
func (c *Coordinator) Relay(from ConnectionID, msg *Inbound) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ev := relayEvent(from, msg)
	c.recorder.Incr(metricRelayedPrefix + strings.ReplaceAll(string(msg.Type), "-", "_"))

	if msg.To != "" {
		c.logger.Debug("relaying to target", "type", msg.Type, "from", from, "to", msg.To)
		c.sender.Send(msg.To, ev)
		return
	}

	c.logger.Debug("relaying to room", "type", msg.Type, "from", from, "room_id", msg.RoomID)
	c.sender.BroadcastToRoomExcept(msg.RoomID, from, ev)
}

// Room returns a snapshot of roomID.
func (c *Coordinator) Room(roomID string) (RoomSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.rooms[roomID]
	if !ok {
		return RoomSnapshot{}, false
	}
	return RoomSnapshot{ID: r.id, Occupants: append([]ConnectionID(nil), r.occupants...)}, true
}

// RoomOf returns the room id occupies.
func (c *Coordinator) RoomOf(id ConnectionID) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	roomID, ok := c.members[id]
	return roomID, ok
}

// Counts returns the number of rooms and occupants.
func (c *Coordinator) Counts() (rooms, occupants int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rooms), len(c.members)
}

const roomCodeLength = 6

// NewRoomCode returns a six character code that is not currently in use.
func (c *Coordinator) NewRoomCode() string {
	for {
		code := shared.NewCode(roomCodeLength)

		c.mu.Lock()
		_, taken := c.rooms[code]
		c.mu.Unlock()

		if !taken {
			return code
		}
	}
}

func validRoomID(roomID string) bool {
	return strings.TrimSpace(roomID) != "" && len(roomID) <= MaxRoomIDLength
}

type nopRecorder struct{}

func (nopRecorder) Incr(string) {}
