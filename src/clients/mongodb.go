package clients

import (
	"context"
	"time"

	"attendance-svc/src/internal/config"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var log = *logrus.StandardLogger()

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	cfg      *config.Database
}

func NewMongoDB(cfg *config.Database) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Timeout)*time.Second)
	defer cancel()

	log.WithField("url", cfg.Url).Info("Connecting to MongoDB...")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Url))
	if err != nil {
		log.WithError(err).Error("Failed to connect to MongoDB")
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.WithError(err).Error("Failed to ping MongoDB")
		return nil, err
	}

	log.Infof("Connected to MongoDB database %s", cfg.DbName)

	return &MongoDB{
		Client:   client,
		Database: client.Database(cfg.DbName),
		cfg:      cfg,
	}, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	if err := m.Client.Disconnect(ctx); err != nil {
		log.WithError(err).Error("Failed to disconnect from MongoDB")
		return err
	}
	log.Info("MongoDB connection closed")
	return nil
}
