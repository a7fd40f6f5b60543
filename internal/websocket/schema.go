package websocket

import "github.com/ramit8508/Teacher-managment-system-sub000/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError      Event = "error"
	EventAttendance Event = "attendance"
	EventPong       Event = "pong"
)

// AttendanceResponse carries one live attendance event to subscribers.
type AttendanceResponse struct {
	Event  Event                 `json:"event"`
	Record model.AttendanceEvent `json:"record"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
