package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/budisantoso88/shipbid-app/internal/auctionerrors"
	model "github.com/budisantoso88/shipbid-app/internal/models"
	"github.com/budisantoso88/shipbid-app/utils"

	"github.com/jonboulle/clockwork"
)

// Publisher forwards emitted notifications to an outside consumer.
// Publish receives batches in emit order.
type Publisher interface {
	Publish(ctx context.Context, batch []model.Notification) error
	Close() error
}

// EmitterConfig tunes the outbound queue
type EmitterConfig struct {
	QueueSize      int
	BatchSize      int
	PublishTimeout time.Duration
}

// DefaultEmitterConfig is used when fields are left zero
var DefaultEmitterConfig = EmitterConfig{
	QueueSize:      1024,
	BatchSize:      100,
	PublishTimeout: 5 * time.Second,
}

type location struct {
	userID string
	index  int
}

// Emitter owns every user's notifications. Only the read flag ever changes after emit.
type Emitter struct {
	mu     sync.RWMutex
	clock  clockwork.Clock
	byUser map[string][]model.Notification // key: userID -> value: notifications, oldest first
	byID   map[string]location             // key: notificationID -> value: position in byUser

	publisher Publisher
	queue     chan model.Notification
	config    EmitterConfig
}

// NewEmitter creates an emitter. publisher may be nil, in which case nothing leaves the process.
func NewEmitter(clock clockwork.Clock, publisher Publisher, config EmitterConfig) *Emitter {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultEmitterConfig.QueueSize
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultEmitterConfig.BatchSize
	}
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = DefaultEmitterConfig.PublishTimeout
	}

	e := &Emitter{
		clock:     clock,
		byUser:    make(map[string][]model.Notification),
		byID:      make(map[string]location),
		publisher: publisher,
		config:    config,
	}
	if publisher != nil {
		e.queue = make(chan model.Notification, config.QueueSize)
	}
	return e
}

// Emit appends an unread notification for userID and queues it for publishing
func (e *Emitter) Emit(userID, title, message string, typ model.NotificationType, linkTo string) model.Notification {
	n := model.Notification{
		NotificationID: utils.GenerateID(),
		UserID:         userID,
		Title:          title,
		Message:        message,
		Read:           false,
		CreatedAt:      e.clock.Now().UTC(),
		Type:           typ,
		LinkTo:         linkTo,
	}

	e.mu.Lock()
	e.byUser[userID] = append(e.byUser[userID], n)
	e.byID[n.NotificationID] = location{userID: userID, index: len(e.byUser[userID]) - 1}
	e.mu.Unlock()

	if e.queue != nil {
		select {
		case e.queue <- n:
		default:
			utils.Warn("notification: outbound queue full, dropping publish", map[string]any{
				"notification_id": n.NotificationID,
				"user_id":         userID,
			})
		}
	}
	return n
}

// List returns the user's notifications, oldest first
func (e *Emitter) List(userID string) []model.Notification {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return append([]model.Notification{}, e.byUser[userID]...)
}

// UnreadCount returns how many of the user's notifications are unread
func (e *Emitter) UnreadCount(userID string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	count := 0
	for _, n := range e.byUser[userID] {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead flags a notification as read. Marking it again is a no-op.
func (e *Emitter) MarkRead(notificationID string) (model.Notification, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	loc, ok := e.byID[notificationID]
	if !ok {
		return model.Notification{}, fmt.Errorf("notification %s: %w", notificationID, auctionerrors.ErrNotFound)
	}
	e.byUser[loc.userID][loc.index].Read = true
	return e.byUser[loc.userID][loc.index], nil
}

// MarkAllRead flags every unread notification of the user and returns how many changed
func (e *Emitter) MarkAllRead(userID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	flipped := 0
	list := e.byUser[userID]
	for i := range list {
		if !list[i].Read {
			list[i].Read = true
			flipped++
		}
	}
	return flipped
}

// Run publishes queued notifications until ctx is cancelled, then flushes what is
// left and closes the publisher. Whatever is already queued when a notification
// arrives goes out in the same batch, up to BatchSize. It returns immediately
// when there is no publisher.
func (e *Emitter) Run(ctx context.Context) error {
	if e.publisher == nil {
		return nil
	}
	utils.Info("notification: publisher started", nil)

	for {
		select {
		case n := <-e.queue:
			e.publish(context.Background(), e.collect(n))
		case <-ctx.Done():
			e.flush()
			if err := e.publisher.Close(); err != nil {
				utils.Error("notification: failed to close publisher", map[string]any{"error": err.Error()})
				return fmt.Errorf("close notification publisher: %w", err)
			}
			utils.Info("notification: publisher stopped", nil)
			return nil
		}
	}
}

// collect starts a batch with first and adds whatever is queued without blocking
func (e *Emitter) collect(first model.Notification) []model.Notification {
	batch := append(make([]model.Notification, 0, e.config.BatchSize), first)
	for len(batch) < e.config.BatchSize {
		select {
		case n := <-e.queue:
			batch = append(batch, n)
		default:
			return batch
		}
	}
	return batch
}

func (e *Emitter) flush() {
	for {
		select {
		case n := <-e.queue:
			e.publish(context.Background(), e.collect(n))
		default:
			return
		}
	}
}

func (e *Emitter) publish(parent context.Context, batch []model.Notification) {
	ctx, cancel := context.WithTimeout(parent, e.config.PublishTimeout)
	defer cancel()

	if err := e.publisher.Publish(ctx, batch); err != nil {
		utils.Error("notification: publish failed", map[string]any{
			"first_notification_id": batch[0].NotificationID,
			"batch_size":            len(batch),
			"error":                 err.Error(),
		})
	}
}
