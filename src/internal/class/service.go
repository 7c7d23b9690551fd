package class

import (
	"context"

	"attendance-svc/src/internal/models"
	"attendance-svc/src/internal/user"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Service interface {
	Create(ctx context.Context, teacher *models.Identity, req *CreateClassRequest) (*Response, error)
	AddStudent(ctx context.Context, teacher *models.Identity, classID string, req *AddStudentRequest) (*Response, error)
	Get(ctx context.Context, caller *models.Identity, classID string) (*PopulatedResponse, error)
}

type classService struct {
	classRepository Repository
	userRepository  user.Repository
}

func NewClassService(classRepository Repository, userRepository user.Repository) Service {
	return &classService{
		classRepository: classRepository,
		userRepository:  userRepository,
	}
}

func (s *classService) Create(ctx context.Context, teacher *models.Identity, req *CreateClassRequest) (*Response, error) {
	teacherID, err := primitive.ObjectIDFromHex(teacher.UserID)
	if err != nil {
		return nil, models.ErrInvalidParams
	}

	created, err := s.classRepository.Create(ctx, &Class{
		ClassName: req.ClassName,
		TeacherID: teacherID,
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"class_id":   created.ID.Hex(),
		"teacher_id": teacher.UserID,
	}).Info("Class created")

	return created.ToResponse(), nil
}

func (s *classService) AddStudent(ctx context.Context, teacher *models.Identity, classID string, req *AddStudentRequest) (*Response, error) {
	class, err := s.classRepository.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	if class.TeacherID.Hex() != teacher.UserID {
		return nil, models.ErrNotClassTeacher
	}

	student, err := s.userRepository.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	if student.Role != models.RoleStudent {
		return nil, models.ErrNotAStudent
	}

	if class.HasStudent(student.ID) {
		return nil, models.ErrAlreadyEnrolled
	}

	if err := s.classRepository.AddStudent(ctx, class.ID, student.ID); err != nil {
		return nil, err
	}

	updated, err := s.classRepository.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"class_id":   classID,
		"student_id": req.StudentID,
	}).Info("Student added to class")

	return updated.ToResponse(), nil
}

func (s *classService) Get(ctx context.Context, caller *models.Identity, classID string) (*PopulatedResponse, error) {
	class, err := s.classRepository.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(caller, class); err != nil {
		return nil, err
	}

	// Populate the roster. Missing users are skipped, not errors.
	students := make([]*Member, 0, len(class.StudentIDs))
	for _, sid := range class.StudentIDs {
		student, err := s.userRepository.GetByID(ctx, sid.Hex())
		if err != nil {
			continue
		}
		students = append(students, &Member{
			ID:    student.ID.Hex(),
			Name:  student.Name,
			Email: student.Email,
		})
	}

	return &PopulatedResponse{
		ID:        class.ID.Hex(),
		ClassName: class.ClassName,
		TeacherID: class.TeacherID.Hex(),
		Students:  students,
	}, nil
}

func (s *classService) authorize(caller *models.Identity, class *Class) error {
	switch caller.Role {
	case models.RoleTeacher:
		if class.TeacherID.Hex() != caller.UserID {
			return models.ErrNotClassTeacher
		}
	case models.RoleStudent:
		callerID, err := primitive.ObjectIDFromHex(caller.UserID)
		if err != nil {
			return models.ErrInvalidParams
		}
		if !class.HasStudent(callerID) {
			return models.ErrNotEnrolled
		}
	}
	return nil
}
