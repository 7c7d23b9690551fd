package user

import (
	"context"
	"errors"

	"attendance-svc/src/clients"
	"attendance-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, userID string) (*User, error)
	GetIdentity(ctx context.Context, userID string) (*models.Identity, error)
	ListStudents(ctx context.Context) ([]*User, error)
}

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(mongoClient *clients.MongoDB, collectionName string) Repository {
	return &userRepository{
		collection: mongoClient.Database.Collection(collectionName),
	}
}

func (r *userRepository) Create(ctx context.Context, user *User) (*User, error) {
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert user")
		return nil, models.ErrDatabaseInsert
	}

	created := *user
	created.ID = result.InsertedID.(primitive.ObjectID)
	return &created, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		logrus.WithError(err).WithField("email", email).Error("Failed to get user by email")
		return nil, models.ErrDatabaseQuery
	}

	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, models.ErrInvalidParams
	}

	var user User
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to get user by ID")
		return nil, models.ErrDatabaseQuery
	}

	return &user, nil
}

func (r *userRepository) GetIdentity(ctx context.Context, userID string) (*models.Identity, error) {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ToIdentity(), nil
}

func (r *userRepository) ListStudents(ctx context.Context) ([]*User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"role": models.RoleStudent})
	if err != nil {
		logrus.WithError(err).Error("Failed to find students")
		return nil, models.ErrDatabaseQuery
	}
	defer cursor.Close(ctx)

	var students []*User
	for cursor.Next(ctx) {
		var user User
		if err := cursor.Decode(&user); err != nil {
			logrus.WithError(err).Error("Failed to decode student")
			continue
		}
		students = append(students, &user)
	}

	if err := cursor.Err(); err != nil {
		logrus.WithError(err).Error("Cursor error")
		return nil, models.ErrDatabaseQuery
	}

	return students, nil
}
