package bootstrap

import (
	"log/slog"
	"reflect"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_ADDR", "PORT", "LOG_LEVEL", "ALLOWED_ORIGINS", "REDIS_ADDR", "REDIS_DB",
		"ICE_SERVERS_JSON", "STUN_URLS", "TURN_URLS", "MESSAGE_RATE", "MESSAGE_BURST",
		"SEND_BUFFER", "HTTP_RATE", "HTTP_BURST",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	if cfg.ServerAddr != ":5001" {
		t.Errorf("ServerAddr = %q, want :5001", cfg.ServerAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	wantOrigins := []string{"https://vok-chat.vercel.app", "http://localhost:5173"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, wantOrigins) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, wantOrigins)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr should default to empty, got %q", cfg.RedisAddr)
	}
	if cfg.ICE.STUNURLs == "" {
		t.Error("STUN urls should default to the public list")
	}
	if cfg.MessageRate != 50 || cfg.MessageBurst != 100 || cfg.SendBuffer != 256 {
		t.Errorf("unexpected message limits %v/%d/%d", cfg.MessageRate, cfg.MessageBurst, cfg.SendBuffer)
	}
	if cfg.HTTPRate != 10 || cfg.HTTPBurst != 20 {
		t.Errorf("unexpected http limits %v/%d", cfg.HTTPRate, cfg.HTTPBurst)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", " * ")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MESSAGE_RATE", "2.5")
	t.Setenv("SEND_BUFFER", "not-a-number")

	cfg := LoadConfig()

	if cfg.ServerAddr != ":9000" {
		t.Errorf("ServerAddr = %q, want :9000", cfg.ServerAddr)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"*"}) {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.RedisAddr != "redis:6379" || cfg.RedisDB != 3 {
		t.Errorf("unexpected redis config %q/%d", cfg.RedisAddr, cfg.RedisDB)
	}
	if cfg.MessageRate != 2.5 {
		t.Errorf("MessageRate = %v, want 2.5", cfg.MessageRate)
	}
	if cfg.SendBuffer != 256 {
		t.Errorf("invalid SEND_BUFFER should fall back to default, got %d", cfg.SendBuffer)
	}
}

func TestLoadConfig_ServerAddrWinsOverPort(t *testing.T) {
	t.Setenv("SERVER_ADDR", "127.0.0.1:8080")
	t.Setenv("PORT", "9000")

	if got := LoadConfig().ServerAddr; got != "127.0.0.1:8080" {
		t.Errorf("ServerAddr = %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, ,b ,")
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("splitList = %v", got)
	}
	if splitList("") != nil {
		t.Error("empty input should give nil")
	}
}
