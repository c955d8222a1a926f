package signaling

import (
	"log/slog"
	"net/http"

	"github.com/eleven-am/vokchat/internal/shared"
	"github.com/labstack/echo/v4"
)

type RoomCodeResponse struct {
	RoomID string `json:"roomId"`
}

type RoomStatusResponse struct {
	RoomID    string `json:"roomId"`
	Occupants int    `json:"occupants"`
	Full      bool   `json:"full"`
}

type Handler struct {
	coordinator *Coordinator
	logger      *slog.Logger
}

func NewHandler(coordinator *Coordinator, logger *slog.Logger) *Handler {
	return &Handler{
		coordinator: coordinator,
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/new", h.NewRoom)
	g.GET("/:id", h.GetRoom)
}

func (h *Handler) NewRoom(c echo.Context) error {
	code := h.coordinator.NewRoomCode()
	h.logger.Debug("room code issued", "room_id", code)
	return c.JSON(http.StatusOK, RoomCodeResponse{RoomID: code})
}

func (h *Handler) GetRoom(c echo.Context) error {
	roomID := c.Param("id")
	if !validRoomID(roomID) {
		return shared.BadRequest("invalid_room_id", "invalid room id")
	}

	snap, ok := h.coordinator.Room(roomID)
	if !ok {
		return shared.NotFound("room_not_found", "room not found")
	}

	return c.JSON(http.StatusOK, RoomStatusResponse{
		RoomID:    snap.ID,
		Occupants: len(snap.Occupants),
		Full:      snap.Full(),
	})
}
