package signaling

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type relayFields struct {
	RoomID    string          `json:"roomId"`
	To        ConnectionID    `json:"to,omitempty"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`

	VideoPaused *bool `json:"videoPaused,omitempty"`
	Muted       *bool `json:"muted,omitempty"`
}

// Decode parses one client frame. Any error means the frame should be dropped.
func Decode(raw []byte) (*Inbound, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.Type {
	case EventJoin:
		roomID, err := decodeRoomID(env.Payload)
		if err != nil {
			return nil, err
		}
		return &Inbound{Type: EventJoin, RoomID: roomID}, nil

	case EventLeave:
		msg := &Inbound{Type: EventLeave}
		if !isEmpty(env.Payload) {
			roomID, err := decodeRoomID(env.Payload)
			if err != nil {
				return nil, err
			}
			msg.RoomID = roomID
		}
		return msg, nil

	case EventOffer, EventAnswer, EventICECandidate, EventMediaState:
		return decodeRelay(env.Type, env.Payload)

	case "":
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

// decodeRoomID accepts either a bare JSON string or an object with roomId.
func decodeRoomID(payload json.RawMessage) (string, error) {
	if isEmpty(payload) {
		return "", fmt.Errorf("%w: missing payload", ErrMalformed)
	}

	var roomID string
	if err := json.Unmarshal(payload, &roomID); err == nil {
		return roomID, nil
	}

	var obj struct {
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(payload, &obj); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return obj.RoomID, nil
}

func decodeRelay(typ EventType, payload json.RawMessage) (*Inbound, error) {
	if isEmpty(payload) {
		return nil, fmt.Errorf("%w: missing payload", ErrMalformed)
	}

	var f relayFields
	if err := json.Unmarshal(payload, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	msg := &Inbound{Type: typ, RoomID: f.RoomID, To: f.To}

	switch typ {
	case EventOffer:
		msg.Blob = f.Offer
	case EventAnswer:
		msg.Blob = f.Answer
	case EventICECandidate:
		msg.Blob = f.Candidate
	case EventMediaState:
		if f.VideoPaused == nil || f.Muted == nil {
			return nil, fmt.Errorf("%w: media-state needs videoPaused and muted", ErrMalformed)
		}
		msg.Media = &MediaState{VideoPaused: *f.VideoPaused, Muted: *f.Muted}
		return msg, nil
	}

	if isEmpty(msg.Blob) {
		return nil, fmt.Errorf("%w: %s without body", ErrMalformed, typ)
	}
	return msg, nil
}

func isEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
