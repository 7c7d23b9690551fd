package user

import (
	"context"
	"testing"

	"attendance-svc/src/internal/config"
	"attendance-svc/src/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepository struct {
	byEmail map[string]*User
	byID    map[string]*User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byEmail: make(map[string]*User),
		byID:    make(map[string]*User),
	}
}

func (f *fakeUserRepository) Create(ctx context.Context, user *User) (*User, error) {
	created := *user
	created.ID = primitive.NewObjectID()
	f.byEmail[created.Email] = &created
	f.byID[created.ID.Hex()] = &created
	return &created, nil
}

func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) GetByID(ctx context.Context, userID string) (*User, error) {
	user, ok := f.byID[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) GetIdentity(ctx context.Context, userID string) (*models.Identity, error) {
	user, err := f.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ToIdentity(), nil
}

func (f *fakeUserRepository) ListStudents(ctx context.Context) ([]*User, error) {
	var students []*User
	for _, user := range f.byID {
		if user.Role == models.RoleStudent {
			students = append(students, user)
		}
	}
	return students, nil
}

func testConfig() *config.Configuration {
	return &config.Configuration{
		Security: config.SecuritySettings{
			JwtKey:        "test-key",
			TokenTTLHours: 1,
		},
	}
}

func TestSignupHashesPassword(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewUserService(repo, testConfig())

	profile, err := service.Signup(context.Background(), &SignupRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "secret123",
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, models.RoleTeacher, profile.Role)

	stored := repo.byEmail["ada@example.com"]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword(stored.Password, []byte("secret123")))
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewUserService(repo, testConfig())

	req := &SignupRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "secret123",
		Role:     models.RoleStudent,
	}

	_, err := service.Signup(context.Background(), req)
	require.NoError(t, err)

	_, err = service.Signup(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrUserExists)
}

func TestLoginIssuesBearerToken(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewUserService(repo, testConfig())

	_, err := service.Signup(context.Background(), &SignupRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "secret123",
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)

	response, err := service.Login(context.Background(), &LoginRequest{
		Email:    "ada@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "bearer", response.Type)
	assert.NotEmpty(t, response.Token)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewUserService(repo, testConfig())

	_, err := service.Signup(context.Background(), &SignupRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "secret123",
		Role:     models.RoleStudent,
	})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), &LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, models.ErrWrongPassword)
}

func TestLoginUnknownUser(t *testing.T) {
	service := NewUserService(newFakeUserRepository(), testConfig())

	_, err := service.Login(context.Background(), &LoginRequest{
		Email:    "ghost@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestStudentsOmitsRole(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewUserService(repo, testConfig())

	for _, req := range []*SignupRequest{
		{Name: "Ada", Email: "ada@example.com", Password: "secret123", Role: models.RoleTeacher},
		{Name: "Bob", Email: "bob@example.com", Password: "secret123", Role: models.RoleStudent},
	} {
		_, err := service.Signup(context.Background(), req)
		require.NoError(t, err)
	}

	students, err := service.Students(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Bob", students[0].Name)
	assert.Empty(t, students[0].Role)
}
