package live

import "encoding/json"

// Event kinds exchanged over the live-session channel.
const (
	EventAttendanceMarked = "ATTENDANCE_MARKED"
	EventTodaySummary     = "TODAY_SUMMARY"
	EventMyAttendance     = "MY_ATTENDANCE"
	EventDone             = "DONE"
	EventError            = "ERROR"
)

// Inbound is a client event as read off the wire. Data stays raw until the
// router knows which payload to decode.
type Inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Envelope is an outbound message.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type MarkPayload struct {
	StudentID string `json:"studentId"`
	Status    string `json:"status"`
}

type MyAttendancePayload struct {
	Status string `json:"status"`
}

type DonePayload struct {
	Message string `json:"message"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Total   int    `json:"total"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func errorEnvelope(message string) Envelope {
	return Envelope{
		Event: EventError,
		Data:  ErrorPayload{Message: message},
	}
}
