package attendance

import (
	"context"
	"errors"

	"attendance-svc/src/clients"
	"attendance-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Upsert(ctx context.Context, classID, studentID, status string) error
	GetByClassAndStudent(ctx context.Context, classID, studentID string) (*Record, error)
}

type attendanceRepository struct {
	collection *mongo.Collection
}

func NewAttendanceRepository(mongoClient *clients.MongoDB, collectionName string) Repository {
	return &attendanceRepository{
		collection: mongoClient.Database.Collection(collectionName),
	}
}

// Upsert writes one attendance record keyed by (classId, studentId),
// overwriting any prior status for the pair. The finalizer relies on this
// being idempotent so a retried finalize never duplicates records.
func (r *attendanceRepository) Upsert(ctx context.Context, classID, studentID, status string) error {
	classOID, err := primitive.ObjectIDFromHex(classID)
	if err != nil {
		return models.ErrInvalidParams
	}
	studentOID, err := primitive.ObjectIDFromHex(studentID)
	if err != nil {
		return models.ErrInvalidParams
	}

	filter := bson.M{
		"classId":   classOID,
		"studentId": studentOID,
	}
	update := bson.M{
		"$set": bson.M{
			"classId":   classOID,
			"studentId": studentOID,
			"status":    status,
		},
	}

	_, err = r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"class_id":   classID,
			"student_id": studentID,
		}).Error("Failed to upsert attendance record")
		return models.ErrDatabaseUpdate
	}

	return nil
}

func (r *attendanceRepository) GetByClassAndStudent(ctx context.Context, classID, studentID string) (*Record, error) {
	classOID, err := primitive.ObjectIDFromHex(classID)
	if err != nil {
		return nil, models.ErrInvalidParams
	}
	studentOID, err := primitive.ObjectIDFromHex(studentID)
	if err != nil {
		return nil, models.ErrInvalidParams
	}

	var record Record
	err = r.collection.FindOne(ctx, bson.M{
		"classId":   classOID,
		"studentId": studentOID,
	}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // no record yet, not an error
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"class_id":   classID,
			"student_id": studentID,
		}).Error("Failed to get attendance record")
		return nil, models.ErrDatabaseQuery
	}

	return &record, nil
}
