package attendance

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record is one persisted attendance entry, keyed by (classId, studentId).
type Record struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ClassID   primitive.ObjectID `json:"classId" bson:"classId"`
	StudentID primitive.ObjectID `json:"studentId" bson:"studentId"`
	Status    string             `json:"status" bson:"status"`
}

type StartRequest struct {
	ClassID string `json:"classId" binding:"required"`
}

type StartResponse struct {
	SessionID string `json:"sessionId"`
	ClassID   string `json:"classId"`
	StartedAt string `json:"startedAt"`
}

// MyAttendanceResponse reports a student's persisted status for a class.
// Status is null when no record has been written yet.
type MyAttendanceResponse struct {
	ClassID string  `json:"classId"`
	Status  *string `json:"status"`
}
