package class

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
	Create(ctx context.Context, class *Class) (*Class, error)
	GetByID(ctx context.Context, classID string) (*Class, error)
	AddStudent(ctx context.Context, classID, studentID primitive.ObjectID) error
	StudentIDs(ctx context.Context, classID string) ([]string, error)
}

type classRepository struct {
	collection *mongo.Collection
}

func NewClassRepository(mongoClient *clients.MongoDB, collectionName string) Repository {
	return &classRepository{
		collection: mongoClient.Database.Collection(collectionName),
	}
}

func (r *classRepository) Create(ctx context.Context, class *Class) (*Class, error) {
	if class.StudentIDs == nil {
		class.StudentIDs = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, class)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert class")
		return nil, models.ErrDatabaseInsert
	}

	created := *class
	created.ID = result.InsertedID.(primitive.ObjectID)
	return &created, nil
}

func (r *classRepository) GetByID(ctx context.Context, classID string) (*Class, error) {
	oid, err := primitive.ObjectIDFromHex(classID)
	if err != nil {
		return nil, models.ErrInvalidParams
	}

	var class Class
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&class)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrClassNotFound
		}
		logrus.WithError(err).WithField("class_id", classID).Error("Failed to get class")
		return nil, models.ErrDatabaseQuery
	}

	return &class, nil
}

func (r *classRepository) AddStudent(ctx context.Context, classID, studentID primitive.ObjectID) error {
	update := bson.M{"$push": bson.M{"studentIds": studentID}}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": classID}, update)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"class_id":   classID.Hex(),
			"student_id": studentID.Hex(),
		}).Error("Failed to add student to class")
		return models.ErrDatabaseUpdate
	}

	return nil
}

// StudentIDs returns the enrolled roster for a class as hex IDs. This is the
// roster reader consulted by the live-session finalizer.
func (r *classRepository) StudentIDs(ctx context.Context, classID string) ([]string, error) {
	class, err := r.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(class.StudentIDs))
	for _, sid := range class.StudentIDs {
		ids = append(ids, sid.Hex())
	}
	return ids, nil
}
