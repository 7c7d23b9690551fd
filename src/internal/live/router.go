package live

import (
	"context"
	"encoding/json"
	"errors"

	"attendance-svc/src/internal/models"

	"github.com/sirupsen/logrus"
)

// Router validates an inbound event against the sender's role and the
// session state, applies its effect, and fans out the result. A rejected
// event produces a single ERROR to the sender and changes nothing.
type Router struct {
	store     *Store
	registry  *Registry
	finalizer *Finalizer
}

func NewRouter(store *Store, registry *Registry, finalizer *Finalizer) *Router {
	return &Router{
		store:     store,
		registry:  registry,
		finalizer: finalizer,
	}
}

// Route dispatches one inbound event from a client. Events from clients no
// longer in the registry are dropped.
func (r *Router) Route(ctx context.Context, client *Client, event Inbound) {
	if !r.registry.IsRegistered(client) {
		logrus.WithField("user_id", client.UserID).Debug("Dropping event from unregistered client")
		return
	}

	switch event.Event {
	case EventAttendanceMarked:
		r.handleMark(client, event.Data)
	case EventTodaySummary:
		r.handleSummary(client)
	case EventMyAttendance:
		r.handleMyAttendance(client)
	case EventDone:
		r.handleDone(ctx, client)
	default:
		// Unknown kinds are ignored: no state change, no response.
		logrus.WithFields(logrus.Fields{
			"user_id": client.UserID,
			"event":   event.Event,
		}).Debug("Ignoring unknown event kind")
	}
}

func (r *Router) handleMark(client *Client, data json.RawMessage) {
	if !r.requireTeacher(client) {
		return
	}

	var payload MarkPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.StudentID == "" {
		r.sendError(client, "Invalid event payload")
		return
	}

	if err := r.store.Mark(payload.StudentID, payload.Status); err != nil {
		if errors.Is(err, models.ErrInvalidStatus) {
			r.sendError(client, "Invalid attendance status")
			return
		}
		r.sendError(client, "No active attendance session")
		return
	}

	r.registry.Broadcast(Envelope{
		Event: EventAttendanceMarked,
		Data:  payload,
	})
}

func (r *Router) handleSummary(client *Client) {
	if !r.requireTeacher(client) {
		return
	}

	snapshot := r.store.Snapshot()
	if snapshot == nil {
		r.sendError(client, "No active attendance session")
		return
	}

	r.registry.Broadcast(Envelope{
		Event: EventTodaySummary,
		Data:  snapshot.Summarize(),
	})
}

func (r *Router) handleMyAttendance(client *Client) {
	if client.Role != models.RoleStudent {
		r.sendError(client, "Forbidden, student event only")
		return
	}

	status, err := r.store.StatusOf(client.UserID)
	if err != nil {
		r.sendError(client, "No active attendance session")
		return
	}

	// Unicast to the caller only.
	if err := r.registry.Unicast(client, Envelope{
		Event: EventMyAttendance,
		Data:  MyAttendancePayload{Status: status},
	}); err != nil {
		logrus.WithError(err).WithField("user_id", client.UserID).
			Warn("Unicast delivery failed, dropping client")
		r.registry.Unregister(client)
		client.Close()
	}
}

func (r *Router) handleDone(ctx context.Context, client *Client) {
	if !r.requireTeacher(client) {
		return
	}

	summary, err := r.finalizer.Finalize(ctx, client.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNoActiveSession) {
			r.sendError(client, "No active attendance session")
			return
		}
		// Persistence failure: session stays active, teacher may retry.
		r.sendError(client, "Failed to persist attendance, please retry")
		return
	}

	r.registry.Broadcast(Envelope{
		Event: EventDone,
		Data: DonePayload{
			Message: "Attendance persisted",
			Present: summary.Present,
			Absent:  summary.Absent,
			Total:   summary.Total,
		},
	})
}

func (r *Router) requireTeacher(client *Client) bool {
	if client.Role != models.RoleTeacher {
		r.sendError(client, "Forbidden, teacher event only")
		return false
	}
	return true
}

// sendError reports a rejection to the sender only, never broadcast.
func (r *Router) sendError(client *Client, message string) {
	if err := r.registry.Unicast(client, errorEnvelope(message)); err != nil {
		logrus.WithError(err).WithField("user_id", client.UserID).
			Warn("Failed to deliver error response")
		r.registry.Unregister(client)
		client.Close()
	}
}
