package attendance

import (
	"context"

	"attendance-svc/src/internal/cache"
	"attendance-svc/src/internal/class"
	"attendance-svc/src/internal/live"
	"attendance-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityPublisher announces session starts. Implemented by the clients
// activity publisher.
type ActivityPublisher interface {
	PublishSessionStarted(sessionID, classID, userID string) error
}

type Service interface {
	StartSession(ctx context.Context, teacher *models.Identity, req *StartRequest) (*StartResponse, error)
	MyAttendance(ctx context.Context, student *models.Identity, classID string) (*MyAttendanceResponse, error)
	ClassSummary(ctx context.Context, teacher *models.Identity, classID string) (*models.Summary, error)
}

type attendanceService struct {
	recordRepository Repository
	classRepository  class.Repository
	store            *live.Store
	cacheService     cache.Service
	events           ActivityPublisher
}

func NewAttendanceService(recordRepository Repository, classRepository class.Repository, store *live.Store, cacheService cache.Service, events ActivityPublisher) Service {
	return &attendanceService{
		recordRepository: recordRepository,
		classRepository:  classRepository,
		store:            store,
		cacheService:     cacheService,
		events:           events,
	}
}

// StartSession opens the live attendance session for a class the caller
// teaches. Rejects with ErrSessionConflict while another session is active.
func (s *attendanceService) StartSession(ctx context.Context, teacher *models.Identity, req *StartRequest) (*StartResponse, error) {
	classDoc, err := s.classRepository.GetByID(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}

	if classDoc.TeacherID.Hex() != teacher.UserID {
		return nil, models.ErrNotClassTeacher
	}

	session, err := s.store.Start(req.ClassID)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"session_id": session.ID,
		"class_id":   session.ClassID,
		"teacher_id": teacher.UserID,
	}).Info("Attendance session started")

	if s.events != nil {
		if err := s.events.PublishSessionStarted(session.ID, session.ClassID, teacher.UserID); err != nil {
			logrus.WithError(err).Warn("Failed to publish session start event")
		}
	}

	return &StartResponse{
		SessionID: session.ID,
		ClassID:   session.ClassID,
		StartedAt: session.StartedAt,
	}, nil
}

// MyAttendance returns the persisted status for the calling student in a
// class, or a null status when no record has been written yet.
func (s *attendanceService) MyAttendance(ctx context.Context, student *models.Identity, classID string) (*MyAttendanceResponse, error) {
	classDoc, err := s.classRepository.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	studentOID, err := primitive.ObjectIDFromHex(student.UserID)
	if err != nil {
		return nil, models.ErrInvalidParams
	}
	if !classDoc.HasStudent(studentOID) {
		return nil, models.ErrNotEnrolled
	}

	record, err := s.recordRepository.GetByClassAndStudent(ctx, classID, student.UserID)
	if err != nil {
		return nil, err
	}

	response := &MyAttendanceResponse{ClassID: classID}
	if record != nil {
		response.Status = &record.Status
	}
	return response, nil
}

// ClassSummary returns the last finalized summary for a class the caller
// teaches, served from the redis cache.
func (s *attendanceService) ClassSummary(ctx context.Context, teacher *models.Identity, classID string) (*models.Summary, error) {
	classDoc, err := s.classRepository.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	if classDoc.TeacherID.Hex() != teacher.UserID {
		return nil, models.ErrNotClassTeacher
	}

	summary, err := s.cacheService.GetClassSummary(ctx, classID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, models.ErrSummaryNotFound
	}

	return summary, nil
}
