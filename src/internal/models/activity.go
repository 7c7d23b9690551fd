package models

import "time"

type ActivityMessage struct {
	SessionID string    `json:"session_id"`
	ClassID   string    `json:"class_id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Summary   *Summary  `json:"summary,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Activity action constants
const (
	ActionSessionStarted   = "session.started"
	ActionSessionFinalized = "session.finalized"
)
