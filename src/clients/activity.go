package clients

import (
	"encoding/json"
	"fmt"
	"time"

	"attendance-svc/src/internal/config"
	"attendance-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// ActivityPublisher emits attendance lifecycle events to RabbitMQ.
// Publishing is best-effort: callers log failures but never fail the
// operation that triggered the event.
type ActivityPublisher struct {
	channel *amqp.Channel
	cfg     *config.QueueConfig
}

func NewActivityPublisher(cfg *config.Configuration, channel *amqp.Channel) *ActivityPublisher {
	return &ActivityPublisher{
		channel: channel,
		cfg:     &cfg.Queue,
	}
}

// PublishSessionStarted announces that a teacher opened a live session.
func (p *ActivityPublisher) PublishSessionStarted(sessionID, classID, userID string) error {
	return p.publish(models.ActivityMessage{
		SessionID: sessionID,
		ClassID:   classID,
		UserID:    userID,
		Action:    models.ActionSessionStarted,
		Timestamp: time.Now(),
	})
}

// PublishSessionFinalized announces that a session was persisted, with its
// final counts.
func (p *ActivityPublisher) PublishSessionFinalized(sessionID, classID, userID string, summary *models.Summary) error {
	return p.publish(models.ActivityMessage{
		SessionID: sessionID,
		ClassID:   classID,
		UserID:    userID,
		Action:    models.ActionSessionFinalized,
		Summary:   summary,
		Timestamp: time.Now(),
	})
}

func (p *ActivityPublisher) publish(message models.ActivityMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal activity message: %w", err)
	}

	err = p.channel.Publish(
		p.cfg.RabbitMQ.Exchange,
		p.cfg.RabbitMQ.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)

	if err != nil {
		logrus.WithError(err).Error("Failed to publish activity message")
		return fmt.Errorf("failed to publish activity message: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"session_id":  message.SessionID,
		"class_id":    message.ClassID,
		"action":      message.Action,
		"exchange":    p.cfg.RabbitMQ.Exchange,
		"routing_key": p.cfg.RabbitMQ.RoutingKey,
	}).Debug("Activity message published")

	return nil
}
