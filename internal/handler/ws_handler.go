package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/config"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/middleware"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
	ws "github.com/ramit8508/Teacher-managment-system-sub000/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live attendance events to admin dashboards.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// AttendanceFeed godoc
// WS /ws/v1/attendance/feed
// Upgrades to WebSocket and forwards every attendance event published on
// the Redis feed channel. Admin only; the connection is read-mostly, the
// client sends nothing but pings.
func (h *WSHandler) AttendanceFeed(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil || claims.Role != rules.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access only"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	feedLog := h.log.With().Int("user_id", claims.UserID).Logger()
	feedLog.Info().Msg("Admin connected to attendance feed")

	ctx := c.Request.Context()
	sub := h.rdb.Subscribe(ctx, config.CacheKey.AttendanceFeedChannel())
	defer sub.Close()

	// Reader goroutine: answers pings and unblocks the writer when the
	// client goes away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				return
			}
			if msg.Action == ws.ActionPing {
				_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			feedLog.Debug().Msg("Request context closed")
			return
		case <-done:
			feedLog.Info().Msg("Admin disconnected from attendance feed")
			return
		case raw, ok := <-sub.Channel():
			if !ok {
				return
			}
			var event model.AttendanceEvent
			if err := json.Unmarshal([]byte(raw.Payload), &event); err != nil {
				feedLog.Warn().Err(err).Msg("Malformed attendance event")
				continue
			}
			if err := ws.WriteTyped(conn, ws.AttendanceResponse{Event: ws.EventAttendance, Record: event}); err != nil {
				feedLog.Debug().Err(err).Msg("Write failed, closing feed")
				return
			}
		}
	}
}
