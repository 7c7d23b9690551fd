package live

import (
	"context"

	"attendance-svc/src/internal/models"

	"github.com/sirupsen/logrus"
)

// RosterReader returns the enrolled student IDs for a class. Implemented by
// the class repository.
type RosterReader interface {
	StudentIDs(ctx context.Context, classID string) ([]string, error)
}

// RecordWriter persists one attendance record per student, keyed by
// (classId, studentId). Implemented by the attendance repository.
type RecordWriter interface {
	Upsert(ctx context.Context, classID, studentID, status string) error
}

// SummaryCache stores the last finalized summary per class. Implemented by
// the cache service.
type SummaryCache interface {
	SaveClassSummary(ctx context.Context, classID string, summary *models.Summary) error
}

// EventPublisher announces session lifecycle events. Implemented by the
// activity publisher.
type EventPublisher interface {
	PublishSessionFinalized(sessionID, classID, userID string, summary *models.Summary) error
}

// Finalizer commits the active session to durable storage exactly once.
type Finalizer struct {
	store     *Store
	roster    RosterReader
	records   RecordWriter
	summaries SummaryCache
	events    EventPublisher
}

func NewFinalizer(store *Store, roster RosterReader, records RecordWriter, summaries SummaryCache, events EventPublisher) *Finalizer {
	return &Finalizer{
		store:     store,
		roster:    roster,
		records:   records,
		summaries: summaries,
		events:    events,
	}
}

// Finalize reconciles the active session's marks against the enrolled
// roster, persists one record per student, and clears the session. Any
// failure before the clear leaves the session active so the teacher can
// retry; the upserts are idempotent by key, so a retry is safe.
func (f *Finalizer) Finalize(ctx context.Context, teacherID string) (*models.Summary, error) {
	snapshot := f.store.Snapshot()
	if snapshot == nil {
		return nil, models.ErrNoActiveSession
	}

	// The roster fetch is a read against external storage and runs outside
	// the store's critical section.
	roster, err := f.roster.StudentIDs(ctx, snapshot.ClassID)
	if err != nil {
		logrus.WithError(err).WithField("class_id", snapshot.ClassID).
			Error("Roster fetch failed, finalize aborted")
		return nil, err
	}

	final, err := f.store.MergeAbsent(roster)
	if err != nil {
		return nil, err
	}

	for studentID, status := range final.Marks {
		if err := f.records.Upsert(ctx, final.ClassID, studentID, status); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"class_id":   final.ClassID,
				"student_id": studentID,
			}).Error("Record upsert failed, finalize aborted")
			return nil, err
		}
	}

	summary := final.Summarize()

	// The caller broadcasts DONE after this clear. The broadcast payload is
	// built from the merged copy and never reads the store, so the two
	// orderings are indistinguishable on the wire.
	f.store.Clear(final.ID)

	logrus.WithFields(logrus.Fields{
		"session_id": final.ID,
		"class_id":   final.ClassID,
		"present":    summary.Present,
		"absent":     summary.Absent,
		"total":      summary.Total,
	}).Info("Attendance session finalized")

	// Summary cache and activity event are best-effort; the session is
	// already committed.
	if f.summaries != nil {
		if err := f.summaries.SaveClassSummary(ctx, final.ClassID, summary); err != nil {
			logrus.WithError(err).Warn("Failed to cache finalized summary")
		}
	}
	if f.events != nil {
		if err := f.events.PublishSessionFinalized(final.ID, final.ClassID, teacherID, summary); err != nil {
			logrus.WithError(err).Warn("Failed to publish finalize event")
		}
	}

	return summary, nil
}
