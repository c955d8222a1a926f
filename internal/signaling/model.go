package signaling

import (
	"encoding/json"
	"errors"
)

var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
	ErrRoomFull    = errors.New("room full")
	ErrInvalidRoom = errors.New("invalid room id")
)

// ConnectionID identifies one live client connection. Identifiers are never
// reused within a process lifetime.
type ConnectionID string

type EventType string

const (
	EventJoin         EventType = "join"
	EventLeave        EventType = "leave"
	EventOffer        EventType = "offer"
	EventAnswer       EventType = "answer"
	EventICECandidate EventType = "ice-candidate"
	EventMediaState   EventType = "media-state"

	EventConnected    EventType = "connected"
	EventUserJoined   EventType = "user-joined"
	EventUserLeft     EventType = "user-left"
	EventSessionError EventType = "session-error"
)

const (
	MaxRoomIDLength = 128
	RoomCapacity    = 2

	sessionErrorMessage = "Session not found or already full."
	userLeftMessage     = "Peer left the room"
)

// Envelope is the frame shape in both directions.
type Envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Event is an outbound message. Payload is marshalled as-is.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// Inbound is a decoded client message. Blob holds the opaque offer, answer or
// candidate and is never inspected.
type Inbound struct {
	Type   EventType
	RoomID string
	To     ConnectionID
	Blob   json.RawMessage
	Media  *MediaState
}

type MediaState struct {
	VideoPaused bool `json:"videoPaused"`
	Muted       bool `json:"muted"`
}

type ConnectedPayload struct {
	ID ConnectionID `json:"id"`
}

type UserJoinedPayload struct {
	PeerID ConnectionID `json:"peerId"`
}

type UserLeftPayload struct {
	Message string       `json:"message"`
	PeerID  ConnectionID `json:"peerId"`
}

type SessionErrorPayload struct {
	Message string `json:"message"`
}

type OfferPayload struct {
	From  ConnectionID    `json:"from"`
	Offer json.RawMessage `json:"offer"`
}

type AnswerPayload struct {
	From   ConnectionID    `json:"from"`
	Answer json.RawMessage `json:"answer"`
}

type ICECandidatePayload struct {
	From      ConnectionID    `json:"from"`
	Candidate json.RawMessage `json:"candidate"`
}

type MediaStatePayload struct {
	From        ConnectionID `json:"from"`
	VideoPaused bool         `json:"videoPaused"`
	Muted       bool         `json:"muted"`
}

func NewConnectedEvent(id ConnectionID) *Event {
	return &Event{Type: EventConnected, Payload: ConnectedPayload{ID: id}}
}

func newUserJoinedEvent(peer ConnectionID) *Event {
	return &Event{Type: EventUserJoined, Payload: UserJoinedPayload{PeerID: peer}}
}

func newUserLeftEvent(peer ConnectionID) *Event {
	return &Event{Type: EventUserLeft, Payload: UserLeftPayload{Message: userLeftMessage, PeerID: peer}}
}

func newSessionErrorEvent() *Event {
	return &Event{Type: EventSessionError, Payload: SessionErrorPayload{Message: sessionErrorMessage}}
}

// relayEvent tags the forwarded message with its sender.
func relayEvent(from ConnectionID, msg *Inbound) *Event {
	ev := &Event{Type: msg.Type}
	switch msg.Type {
	case EventOffer:
		ev.Payload = OfferPayload{From: from, Offer: msg.Blob}
	case EventAnswer:
		ev.Payload = AnswerPayload{From: from, Answer: msg.Blob}
	case EventICECandidate:
		ev.Payload = ICECandidatePayload{From: from, Candidate: msg.Blob}
	case EventMediaState:
		ev.Payload = MediaStatePayload{From: from, VideoPaused: msg.Media.VideoPaused, Muted: msg.Media.Muted}
	}
	return ev
}
