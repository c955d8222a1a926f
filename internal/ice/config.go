package ice

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pion/stun/v3"
	"github.com/pion/webrtc/v4"
)

// DefaultSTUNURLs is used when no ICE configuration is supplied.
var DefaultSTUNURLs = []string{
	"stun:stun.l.google.com:19302",
	"stun:stun1.l.google.com:19302",
	"stun:stun2.l.google.com:19302",
	"stun:stun3.l.google.com:19302",
	"stun:stun4.l.google.com:19302",
}

// Settings is the raw ICE configuration as read from the environment.
type Settings struct {
	ServersJSON    string
	STUNURLs       string
	TURNURLs       string
	TURNUsername   string
	TURNCredential string
}

// ParseServers builds the ICE server list. ServersJSON wins over the URL lists.
func ParseServers(s Settings) ([]webrtc.ICEServer, error) {
	if raw := strings.TrimSpace(s.ServersJSON); raw != "" {
		servers, err := ParseServersJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("ICE_SERVERS_JSON: %w", err)
		}
		return servers, nil
	}
	return ServersFromURLs(splitList(s.STUNURLs), splitList(s.TURNURLs), s.TURNUsername, s.TURNCredential)
}

type serverJSON struct {
	URLs       urlList `json:"urls"`
	Username   string  `json:"username,omitempty"`
	Credential string  `json:"credential,omitempty"`
}

// urlList accepts both "urls": "stun:x" and "urls": ["stun:x"].
type urlList []string

func (u *urlList) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*u = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*u = many
	return nil
}

// ParseServersJSON parses an RTCIceServer JSON list.
func ParseServersJSON(raw string) ([]webrtc.ICEServer, error) {
	var entries []serverJSON
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}

	servers := make([]webrtc.ICEServer, 0, len(entries))
	for i, entry := range entries {
		server := webrtc.ICEServer{
			URLs:     splitList(strings.Join(entry.URLs, ",")),
			Username: strings.TrimSpace(entry.Username),
		}
		if strings.TrimSpace(entry.Credential) != "" {
			server.Credential = entry.Credential
		}
		if err := Validate(server); err != nil {
			return nil, fmt.Errorf("iceServers[%d]: %w", i, err)
		}
		servers = append(servers, server)
	}
	return servers, nil
}

// ServersFromURLs groups STUN urls into one entry and TURN urls into another.
func ServersFromURLs(stunURLs, turnURLs []string, username, credential string) ([]webrtc.ICEServer, error) {
	var servers []webrtc.ICEServer

	if len(stunURLs) > 0 {
		server := webrtc.ICEServer{URLs: stunURLs}
		if err := Validate(server); err != nil {
			return nil, fmt.Errorf("STUN_URLS: %w", err)
		}
		servers = append(servers, server)
	}

	if len(turnURLs) > 0 {
		username = strings.TrimSpace(username)
		credential = strings.TrimSpace(credential)
		if username == "" || credential == "" {
			return nil, errors.New("TURN_USERNAME and TURN_CREDENTIAL must be set with TURN_URLS")
		}
		server := webrtc.ICEServer{URLs: turnURLs, Username: username, Credential: credential}
		if err := Validate(server); err != nil {
			return nil, fmt.Errorf("TURN_URLS: %w", err)
		}
		servers = append(servers, server)
	}

	return servers, nil
}

// Validate checks every url of server and requires credentials for TURN.
func Validate(server webrtc.ICEServer) error {
	if len(server.URLs) == 0 {
		return errors.New("missing urls")
	}

	needsCreds := false
	for _, raw := range server.URLs {
		uri, err := stun.ParseURI(raw)
		if err != nil {
			return fmt.Errorf("invalid url %q: %w", raw, err)
		}
		if uri.Scheme == stun.SchemeTypeTURN || uri.Scheme == stun.SchemeTypeTURNS {
			needsCreds = true
		}
	}

	if !needsCreds {
		return nil
	}
	if server.Username == "" {
		return errors.New("turn urls require username")
	}
	if cred, ok := server.Credential.(string); !ok || strings.TrimSpace(cred) == "" {
		return errors.New("turn urls require credential")
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
