package bootstrap

import (
	"os"
	"strconv"
	"strings"

	"github.com/eleven-am/vokchat/internal/ice"
)

const defaultAllowedOrigins = "https://vok-chat.vercel.app,http://localhost:5173"

type Config struct {
	ServerAddr string
	LogLevel   string

	AllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ICE ice.Settings

	MessageRate  float64
	MessageBurst int
	SendBuffer   int

	HTTPRate  float64
	HTTPBurst int
}

func LoadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":"+getEnv("PORT", "5001")),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", defaultAllowedOrigins)),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		ICE: ice.Settings{
			ServersJSON:    getEnv("ICE_SERVERS_JSON", ""),
			STUNURLs:       getEnv("STUN_URLS", strings.Join(ice.DefaultSTUNURLs, ",")),
			TURNURLs:       getEnv("TURN_URLS", ""),
			TURNUsername:   getEnv("TURN_USERNAME", ""),
			TURNCredential: getEnv("TURN_CREDENTIAL", ""),
		},

		MessageRate:  getEnvFloat("MESSAGE_RATE", 50),
		MessageBurst: getEnvInt("MESSAGE_BURST", 100),
		SendBuffer:   getEnvInt("SEND_BUFFER", 256),

		HTTPRate:  getEnvFloat("HTTP_RATE", 10),
		HTTPBurst: getEnvInt("HTTP_BURST", 20),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func splitList(envValue string) []string {
	var out []string
	for _, item := range strings.Split(envValue, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
