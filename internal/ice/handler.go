package ice

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pion/webrtc/v4"
)

// CandidatePoolSize is the iceCandidatePoolSize handed to browsers.
const CandidatePoolSize = 10

type Response struct {
	ICEServers           []webrtc.ICEServer `json:"iceServers"`
	ICECandidatePoolSize int                `json:"iceCandidatePoolSize"`
}

type Handler struct {
	servers []webrtc.ICEServer
}

func NewHandler(servers []webrtc.ICEServer) *Handler {
	if servers == nil {
		servers = []webrtc.ICEServer{}
	}
	return &Handler{servers: servers}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetServers)
}

func (h *Handler) GetServers(c echo.Context) error {
	return c.JSON(http.StatusOK, Response{
		ICEServers:           h.servers,
		ICECandidatePoolSize: CandidatePoolSize,
	})
}
