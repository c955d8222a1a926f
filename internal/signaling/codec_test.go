package signaling

import (
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Inbound
		wantErr error
	}{
		{
			name: "join object",
			raw:  `{"type":"join","payload":{"roomId":"ABC123"}}`,
			want: Inbound{Type: EventJoin, RoomID: "ABC123"},
		},
		{
			name: "join bare string",
			raw:  `{"type":"join","payload":"ABC123"}`,
			want: Inbound{Type: EventJoin, RoomID: "ABC123"},
		},
		{
			name:    "join without payload",
			raw:     `{"type":"join"}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "join with number",
			raw:     `{"type":"join","payload":42}`,
			wantErr: ErrMalformed,
		},
		{
			name: "leave without payload",
			raw:  `{"type":"leave"}`,
			want: Inbound{Type: EventLeave},
		},
		{
			name: "leave with room",
			raw:  `{"type":"leave","payload":{"roomId":"ABC123"}}`,
			want: Inbound{Type: EventLeave, RoomID: "ABC123"},
		},
		{
			name: "offer with target",
			raw:  `{"type":"offer","payload":{"roomId":"ABC123","to":"peer-b","offer":{"type":"offer","sdp":"v=0"}}}`,
			want: Inbound{Type: EventOffer, RoomID: "ABC123", To: "peer-b", Blob: []byte(`{"type":"offer","sdp":"v=0"}`)},
		},
		{
			name: "answer without target",
			raw:  `{"type":"answer","payload":{"roomId":"ABC123","answer":{"type":"answer","sdp":"v=0"}}}`,
			want: Inbound{Type: EventAnswer, RoomID: "ABC123", Blob: []byte(`{"type":"answer","sdp":"v=0"}`)},
		},
		{
			name: "ice candidate",
			raw:  `{"type":"ice-candidate","payload":{"roomId":"ABC123","candidate":{"candidate":"candidate:1"}}}`,
			want: Inbound{Type: EventICECandidate, RoomID: "ABC123", Blob: []byte(`{"candidate":"candidate:1"}`)},
		},
		{
			name:    "offer with null body",
			raw:     `{"type":"offer","payload":{"roomId":"ABC123","offer":null}}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "candidate without body",
			raw:     `{"type":"ice-candidate","payload":{"roomId":"ABC123"}}`,
			wantErr: ErrMalformed,
		},
		{
			name: "media state",
			raw:  `{"type":"media-state","payload":{"roomId":"ABC123","videoPaused":true,"muted":false}}`,
			want: Inbound{Type: EventMediaState, RoomID: "ABC123", Media: &MediaState{VideoPaused: true}},
		},
		{
			name:    "media state missing flag",
			raw:     `{"type":"media-state","payload":{"roomId":"ABC123","muted":true}}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "relay target wrong type",
			raw:     `{"type":"offer","payload":{"roomId":"ABC123","to":7,"offer":{}}}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "unknown type",
			raw:     `{"type":"chat","payload":{}}`,
			wantErr: ErrUnknownType,
		},
		{
			name:    "missing type",
			raw:     `{"payload":{}}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "invalid json",
			raw:     `{"type":`,
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.Type != tt.want.Type || got.RoomID != tt.want.RoomID || got.To != tt.want.To {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if string(got.Blob) != string(tt.want.Blob) {
				t.Errorf("blob = %s, want %s", got.Blob, tt.want.Blob)
			}
			if (got.Media == nil) != (tt.want.Media == nil) {
				t.Fatalf("media = %+v, want %+v", got.Media, tt.want.Media)
			}
			if got.Media != nil && *got.Media != *tt.want.Media {
				t.Errorf("media = %+v, want %+v", *got.Media, *tt.want.Media)
			}
		})
	}
}

func TestDecode_BlobIsOpaque(t *testing.T) {
	raw := `{"type":"offer","payload":{"roomId":"R","offer":"not-even-sdp é"}}`

	got, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got.Blob) != `"not-even-sdp é"` {
		t.Errorf("blob should be kept verbatim, got %s", got.Blob)
	}
}
