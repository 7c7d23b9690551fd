package user

import (
	"context"
	"errors"
	"time"

	"attendance-svc/src/internal/config"
	"attendance-svc/src/internal/middleware"
	"attendance-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Signup(ctx context.Context, req *SignupRequest) (*Profile, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Students(ctx context.Context) ([]*Profile, error)
}

type userService struct {
	userRepository Repository
	cfg            *config.Configuration
}

func NewUserService(userRepository Repository, cfg *config.Configuration) Service {
	return &userService{
		userRepository: userRepository,
		cfg:            cfg,
	}
}

func (s *userService) Signup(ctx context.Context, req *SignupRequest) (*Profile, error) {
	existing, err := s.userRepository.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		logrus.WithError(err).Error("Failed to check for existing user")
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Failed to hash password")
		return nil, err
	}

	created, err := s.userRepository.Create(ctx, &User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Role:     req.Role,
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": created.ID.Hex(),
		"role":    created.Role,
	}).Info("User signed up")

	return created.ToProfile(), nil
}

func (s *userService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(req.Password)); err != nil {
		logrus.WithField("email", req.Email).Warn("Login attempt with wrong password")
		return nil, models.ErrWrongPassword
	}

	ttl := time.Duration(s.cfg.Security.TokenTTLHours) * time.Hour
	token, err := middleware.IssueToken(s.cfg.Security.JwtKey, ttl, user.ToIdentity())
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		return nil, err
	}

	logrus.WithField("user_id", user.ID.Hex()).Info("User logged in")

	return &LoginResponse{
		Token: token,
		Type:  "bearer",
	}, nil
}

func (s *userService) Students(ctx context.Context) ([]*Profile, error) {
	students, err := s.userRepository.ListStudents(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]*Profile, 0, len(students))
	for _, student := range students {
		profile := student.ToProfile()
		profile.Role = "" // role is implied by the endpoint
		profiles = append(profiles, profile)
	}

	return profiles, nil
}
