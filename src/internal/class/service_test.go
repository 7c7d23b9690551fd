package class

import (
	"context"
	"testing"

	"attendance-svc/src/internal/models"
	"attendance-svc/src/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeClassRepository struct {
	classes map[string]*Class
}

func (f *fakeClassRepository) Create(ctx context.Context, c *Class) (*Class, error) {
	created := *c
	created.ID = primitive.NewObjectID()
	if created.StudentIDs == nil {
		created.StudentIDs = []primitive.ObjectID{}
	}
	f.classes[created.ID.Hex()] = &created
	return &created, nil
}

func (f *fakeClassRepository) GetByID(ctx context.Context, classID string) (*Class, error) {
	c, ok := f.classes[classID]
	if !ok {
		return nil, models.ErrClassNotFound
	}
	return c, nil
}

func (f *fakeClassRepository) AddStudent(ctx context.Context, classID, studentID primitive.ObjectID) error {
	c := f.classes[classID.Hex()]
	c.StudentIDs = append(c.StudentIDs, studentID)
	return nil
}

func (f *fakeClassRepository) StudentIDs(ctx context.Context, classID string) ([]string, error) {
	c, err := f.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(c.StudentIDs))
	for _, sid := range c.StudentIDs {
		ids = append(ids, sid.Hex())
	}
	return ids, nil
}

type fakeUserRepository struct {
	users map[string]*user.User
}

func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	created := *u
	created.ID = primitive.NewObjectID()
	f.users[created.ID.Hex()] = &created
	return &created, nil
}

func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (f *fakeUserRepository) GetByID(ctx context.Context, userID string) (*user.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepository) GetIdentity(ctx context.Context, userID string) (*models.Identity, error) {
	u, err := f.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.ToIdentity(), nil
}

func (f *fakeUserRepository) ListStudents(ctx context.Context) ([]*user.User, error) {
	var students []*user.User
	for _, u := range f.users {
		if u.Role == models.RoleStudent {
			students = append(students, u)
		}
	}
	return students, nil
}

type classFixture struct {
	service  Service
	teacher  *models.Identity
	students []*user.User
	classID  string
}

func newClassFixture(t *testing.T) *classFixture {
	t.Helper()

	users := &fakeUserRepository{users: make(map[string]*user.User)}
	classes := &fakeClassRepository{classes: make(map[string]*Class)}
	service := NewClassService(classes, users)

	teacherUser, err := users.Create(context.Background(), &user.User{
		Name: "Ada", Email: "ada@example.com", Role: models.RoleTeacher,
	})
	require.NoError(t, err)
	teacher := teacherUser.ToIdentity()

	var students []*user.User
	for _, name := range []string{"Bob", "Cleo"} {
		u, err := users.Create(context.Background(), &user.User{
			Name: name, Email: name + "@example.com", Role: models.RoleStudent,
		})
		require.NoError(t, err)
		students = append(students, u)
	}

	created, err := service.Create(context.Background(), teacher, &CreateClassRequest{ClassName: "go101"})
	require.NoError(t, err)

	return &classFixture{
		service:  service,
		teacher:  teacher,
		students: students,
		classID:  created.ID,
	}
}

func TestCreateClass(t *testing.T) {
	f := newClassFixture(t)

	response, err := f.service.Get(context.Background(), f.teacher, f.classID)
	require.NoError(t, err)
	assert.Equal(t, "go101", response.ClassName)
	assert.Equal(t, f.teacher.UserID, response.TeacherID)
	assert.Empty(t, response.Students)
}

func TestAddStudent(t *testing.T) {
	f := newClassFixture(t)

	response, err := f.service.AddStudent(context.Background(), f.teacher, f.classID, &AddStudentRequest{
		StudentID: f.students[0].ID.Hex(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{f.students[0].ID.Hex()}, response.StudentIDs)
}

func TestAddStudentValidations(t *testing.T) {
	f := newClassFixture(t)
	studentID := f.students[0].ID.Hex()

	_, err := f.service.AddStudent(context.Background(), f.teacher, f.classID, &AddStudentRequest{StudentID: studentID})
	require.NoError(t, err)

	tests := []struct {
		name      string
		teacher   *models.Identity
		classID   string
		studentID string
		wantErr   error
	}{
		{
			name:      "unknown class",
			teacher:   f.teacher,
			classID:   primitive.NewObjectID().Hex(),
			studentID: studentID,
			wantErr:   models.ErrClassNotFound,
		},
		{
			name:      "not the owning teacher",
			teacher:   &models.Identity{UserID: primitive.NewObjectID().Hex(), Role: models.RoleTeacher},
			classID:   f.classID,
			studentID: studentID,
			wantErr:   models.ErrNotClassTeacher,
		},
		{
			name:      "unknown student",
			teacher:   f.teacher,
			classID:   f.classID,
			studentID: primitive.NewObjectID().Hex(),
			wantErr:   models.ErrUserNotFound,
		},
		{
			name:      "target is not a student",
			teacher:   f.teacher,
			classID:   f.classID,
			studentID: f.teacher.UserID,
			wantErr:   models.ErrNotAStudent,
		},
		{
			name:      "already enrolled",
			teacher:   f.teacher,
			classID:   f.classID,
			studentID: studentID,
			wantErr:   models.ErrAlreadyEnrolled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.AddStudent(context.Background(), tt.teacher, tt.classID, &AddStudentRequest{
				StudentID: tt.studentID,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetClassAuthorization(t *testing.T) {
	f := newClassFixture(t)

	_, err := f.service.AddStudent(context.Background(), f.teacher, f.classID, &AddStudentRequest{
		StudentID: f.students[0].ID.Hex(),
	})
	require.NoError(t, err)

	enrolled := f.students[0].ToIdentity()
	response, err := f.service.Get(context.Background(), enrolled, f.classID)
	require.NoError(t, err)
	require.Len(t, response.Students, 1)
	assert.Equal(t, "Bob", response.Students[0].Name)

	outsider := f.students[1].ToIdentity()
	_, err = f.service.Get(context.Background(), outsider, f.classID)
	assert.ErrorIs(t, err, models.ErrNotEnrolled)

	otherTeacher := &models.Identity{UserID: primitive.NewObjectID().Hex(), Role: models.RoleTeacher}
	_, err = f.service.Get(context.Background(), otherTeacher, f.classID)
	assert.ErrorIs(t, err, models.ErrNotClassTeacher)
}
