package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/datatypes"

	"hotelbooking/internal/domain"
)

const (
	defaultWorkers   = 2
	defaultQueueSize = 256
	defaultTimeout   = 5 * time.Second
)

type Options struct {
	Workers   int
	QueueSize int
	// Channel is the Redis channel events are published on.
	Channel string
	// Timeout bounds the delivery of a single event.
	Timeout time.Duration
}

// Event is the payload stored with the notification and published on the
// channel.
type Event struct {
	Type          domain.NotificationType `json:"type"`
	BookingID     int64                   `json:"booking_id"`
	UserID        int64                   `json:"user_id"`
	BookingCode   string                  `json:"booking_code,omitempty"`
	Status        string                  `json:"status"`
	DeclineReason string                  `json:"decline_reason,omitempty"`
	OccurredAt    time.Time               `json:"occurred_at"`
}

// Dispatcher delivers booking notifications in the background. Callers never
// wait on storage or Redis: events go to a bounded queue drained by a fixed
// set of workers, and a full queue drops the event with a log line.
type Dispatcher struct {
	repo    *NotificationRepository
	pub     Publisher
	channel string
	timeout time.Duration
	workers int

	queue  chan Event
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	now    func() time.Time
}

// NewDispatcher starts the workers. pub may be nil, in which case events are
// only stored.
func NewDispatcher(repo *NotificationRepository, pub Publisher, opts Options) *Dispatcher {
	d := newDispatcher(repo, pub, opts)
	d.start()
	return d
}

func newDispatcher(repo *NotificationRepository, pub Publisher, opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Dispatcher{
		repo:    repo,
		pub:     pub,
		channel: opts.Channel,
		timeout: opts.Timeout,
		workers: opts.Workers,
		queue:   make(chan Event, opts.QueueSize),
		now:     time.Now,
	}
}

func (d *Dispatcher) start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
}

func (d *Dispatcher) NotifyBookingConfirmed(_ context.Context, b *domain.Booking) {
	d.enqueue(d.event(domain.NotifBookingConfirmed, b))
}

func (d *Dispatcher) NotifyBookingDeclined(_ context.Context, b *domain.Booking) {
	d.enqueue(d.event(domain.NotifBookingDeclined, b))
}

func (d *Dispatcher) event(t domain.NotificationType, b *domain.Booking) Event {
	return Event{
		Type:          t,
		BookingID:     b.ID,
		UserID:        b.UserID,
		BookingCode:   b.Code(),
		Status:        string(b.Status),
		DeclineReason: b.DeclineReason,
		OccurredAt:    d.now().UTC(),
	}
}

// enqueue reports whether the event was accepted.
func (d *Dispatcher) enqueue(ev Event) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		log.Printf("notification_dropped type=%s booking_id=%d reason=closed", ev.Type, ev.BookingID)
		return false
	}
	select {
	case d.queue <- ev:
		return true
	default:
		log.Printf("notification_dropped type=%s booking_id=%d reason=queue_full", ev.Type, ev.BookingID)
		return false
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.deliver(ev); err != nil {
			log.Printf("notification_failed type=%s booking_id=%d err=%v", ev.Type, ev.BookingID, err)
		}
	}
}

func (d *Dispatcher) deliver(ev Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	title, message := render(ev)
	n := &domain.Notification{
		UserID:  ev.UserID,
		Type:    ev.Type,
		Title:   title,
		Message: message,
		Data:    datatypes.JSON(payload),
	}
	if err := d.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	if d.pub == nil || d.channel == "" {
		return nil
	}
	if err := d.pub.Publish(ctx, d.channel, payload); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func render(ev Event) (title, message string) {
	switch ev.Type {
	case domain.NotifBookingDeclined:
		title = "Booking declined"
		message = fmt.Sprintf("Your booking %s was declined.", ev.BookingCode)
		if ev.DeclineReason != "" {
			message = fmt.Sprintf("Your booking %s was declined: %s", ev.BookingCode, ev.DeclineReason)
		}
	default:
		title = "Booking confirmed"
		message = fmt.Sprintf("Your booking %s has been confirmed.", ev.BookingCode)
	}
	return title, message
}

// Close stops accepting events and waits until the queue is drained or ctx
// ends.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notification queue not drained: %w", ctx.Err())
	}
}
