package live

import (
	"sync"
	"time"

	"attendance-svc/src/internal/models"

	"github.com/google/uuid"
)

// Session is the in-memory state of one live attendance session. Marks maps
// studentId to status; a student missing from the map is unmarked, which is
// distinct from absent until the session is finalized.
type Session struct {
	ID        string
	ClassID   string
	StartedAt string
	Marks     map[string]string
}

// Store owns the single active session. At most one session exists
// process-wide; all access goes through the store so mutations are
// serialized and callers never hold a reference into live state.
type Store struct {
	mu     sync.Mutex
	active *Session
}

func NewStore() *Store {
	return &Store{}
}

// Start creates the active session. Returns ErrSessionConflict if a session
// is already running; the caller must finalize it first.
func (s *Store) Start(classID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return nil, models.ErrSessionConflict
	}

	s.active = &Session{
		ID:        uuid.NewString(),
		ClassID:   classID,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
		Marks:     make(map[string]string),
	}

	return s.active.copy(), nil
}

// Mark sets a student's status in the active session. Last write wins.
// Only present and absent are storable; StatusUnmarked is a read-side
// default, never a mark.
func (s *Store) Mark(studentID, status string) error {
	if status != models.StatusPresent && status != models.StatusAbsent {
		return models.ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return models.ErrNoActiveSession
	}

	s.active.Marks[studentID] = status
	return nil
}

// StatusOf returns the active session's status for a student, or
// StatusUnmarked when the student has not been marked.
func (s *Store) StatusOf(studentID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return "", models.ErrNoActiveSession
	}

	status, ok := s.active.Marks[studentID]
	if !ok {
		return models.StatusUnmarked, nil
	}
	return status, nil
}

// Snapshot returns a copy of the active session, or nil when none exists.
func (s *Store) Snapshot() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil
	}
	return s.active.copy()
}

// MergeAbsent fills in "absent" for every roster student without a mark and
// returns the completed session. Existing marks are never overwritten.
func (s *Store) MergeAbsent(roster []string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil, models.ErrNoActiveSession
	}

	for _, studentID := range roster {
		if _, marked := s.active.Marks[studentID]; !marked {
			s.active.Marks[studentID] = models.StatusAbsent
		}
	}

	return s.active.copy(), nil
}

// Clear drops the active session if it matches the given session ID. The ID
// check keeps a finalize from clearing a session it did not complete.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil && s.active.ID == sessionID {
		s.active = nil
	}
}

func (sess *Session) copy() *Session {
	marks := make(map[string]string, len(sess.Marks))
	for studentID, status := range sess.Marks {
		marks[studentID] = status
	}
	return &Session{
		ID:        sess.ID,
		ClassID:   sess.ClassID,
		StartedAt: sess.StartedAt,
		Marks:     marks,
	}
}

// Summarize counts present and absent marks. Unset statuses cannot occur in
// the map, so total is always present + absent.
func (sess *Session) Summarize() *models.Summary {
	summary := &models.Summary{}
	for _, status := range sess.Marks {
		switch status {
		case models.StatusPresent:
			summary.Present++
		case models.StatusAbsent:
			summary.Absent++
		}
	}
	summary.Total = summary.Present + summary.Absent
	return summary
}
