package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

// Queue topics. Reads flow through TopicReads one message per recorded read; aggregation
// is triggered by TopicAggregate messages; messages that exhaust their retries land on
// TopicPoison.
const (
	TopicReads     = "analytics.reads"
	TopicAggregate = "analytics.aggregate"
	TopicPoison    = "analytics.poison"
)

// maxDeadLetters bounds the in-process dead-letter retention; the oldest entries are
// pruned once the cap is reached.
const maxDeadLetters = 1000

const dayFormat = "2006-01-02"

// DispatcherOptions configures retry behavior of the queue consumers.
type DispatcherOptions struct {
	// MaxRetries is the number of redeliveries before a message is poisoned.
	MaxRetries int
	// InitialBackoff is the first retry delay; subsequent delays grow exponentially.
	InitialBackoff time.Duration
}

// readMessage is the payload published for every recorded read.
type readMessage struct {
	ArticleID string    `json:"article_id"`
	ReadAt    time.Time `json:"read_at"`
}

// aggregateMessage triggers a daily aggregation run. An empty date means "now".
type aggregateMessage struct {
	Date string `json:"date,omitempty"`
}

// DeadLetter is a message that failed all delivery attempts.
type DeadLetter struct {
	Reason   string
	Payload  []byte
	FailedAt time.Time
}

// Dispatcher decouples the request path from read-event post-processing. Delivery is
// at-least-once: handlers must stay idempotent or purely observational.
type Dispatcher struct {
	pubSub     *gochannel.GoChannel
	router     *message.Router
	aggregator *Aggregator
	log        *zap.SugaredLogger

	mu   sync.Mutex
	dead []DeadLetter
}

// NewDispatcher wires the in-process pub/sub, the consumer router and its middleware
// stack (panic recovery, bounded exponential-backoff retry, poison queue).
func NewDispatcher(opts DispatcherOptions, aggregator *Aggregator, logger *zap.Logger) (*Dispatcher, error) {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = time.Second
	}

	wmLogger := newWatermillLogger(logger)

	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, wmLogger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create queue router: %w", err)
	}

	d := &Dispatcher{
		pubSub:     pubSub,
		router:     router,
		aggregator: aggregator,
		log:        logger.Sugar(),
	}

	// First-added middleware is outermost. PoisonQueue must wrap Retry, not the other
	// way around: only an error that has already exhausted its retries may reach the
	// poison layer. Recoverer sits innermost so handler panics surface as errors the
	// retry layer can see.
	poison, err := middleware.PoisonQueue(pubSub, TopicPoison)
	if err != nil {
		return nil, fmt.Errorf("create poison queue: %w", err)
	}
	router.AddMiddleware(poison)

	retry := middleware.Retry{
		MaxRetries:      opts.MaxRetries,
		InitialInterval: opts.InitialBackoff,
		Multiplier:      2,
		Logger:          wmLogger,
	}
	router.AddMiddleware(retry.Middleware)

	router.AddMiddleware(middleware.Recoverer)

	router.AddNoPublisherHandler("read-observer", TopicReads, pubSub, d.handleRead)
	router.AddNoPublisherHandler("daily-aggregator", TopicAggregate, pubSub, d.handleAggregate)
	router.AddNoPublisherHandler("dead-letter-keeper", TopicPoison, pubSub, d.keepDeadLetter)

	return d, nil
}

// Run starts the consumer router and blocks until it is ready to receive.
func (d *Dispatcher) Run(ctx context.Context) {
	go func() {
		if err := d.router.Run(ctx); err != nil {
			d.log.Errorf("queue router stopped: %v", err)
		}
	}()
	<-d.router.Running()
}

// Close shuts down the router and the underlying pub/sub.
func (d *Dispatcher) Close() {
	if err := d.router.Close(); err != nil {
		d.log.Warnf("queue router close: %v", err)
	}
	if err := d.pubSub.Close(); err != nil {
		d.log.Warnf("queue pubsub close: %v", err)
	}
}

// PublishRead enqueues a "read recorded" notification.
func (d *Dispatcher) PublishRead(articleID string, readAt time.Time) error {
	payload, err := json.Marshal(readMessage{ArticleID: articleID, ReadAt: readAt})
	if err != nil {
		return err
	}
	return d.pubSub.Publish(TopicReads, message.NewMessage(watermill.NewUUID(), payload))
}

// PublishAggregate enqueues a daily aggregation run. A zero date targets the current
// UTC day; explicit dates support backfill and reprocessing.
func (d *Dispatcher) PublishAggregate(date time.Time) error {
	var m aggregateMessage
	if !date.IsZero() {
		m.Date = DayOf(date).Format(dayFormat)
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return d.pubSub.Publish(TopicAggregate, message.NewMessage(watermill.NewUUID(), payload))
}

// DeadLetters returns a snapshot of retained undeliverable messages.
func (d *Dispatcher) DeadLetters() []DeadLetter {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DeadLetter, len(d.dead))
	copy(out, d.dead)
	return out
}

// handleRead is intentionally observational: the read event is already durable before
// the message is published, and at-least-once delivery means this may run twice for
// the same read.
func (d *Dispatcher) handleRead(msg *message.Message) error {
	var m readMessage
	if err := json.Unmarshal(msg.Payload, &m); err != nil {
		return fmt.Errorf("decode read message: %w", err)
	}
	d.log.Debugf("read event processed article=%s read_at=%s", m.ArticleID, m.ReadAt.Format(time.RFC3339))
	return nil
}

func (d *Dispatcher) handleAggregate(msg *message.Message) error {
	var m aggregateMessage
	if err := json.Unmarshal(msg.Payload, &m); err != nil {
		return fmt.Errorf("decode aggregate message: %w", err)
	}

	date := time.Now().UTC()
	if m.Date != "" {
		parsed, err := time.Parse(dayFormat, m.Date)
		if err != nil {
			return fmt.Errorf("parse aggregate date %q: %w", m.Date, err)
		}
		date = parsed
	}

	return d.aggregator.Aggregate(msg.Context(), date)
}

func (d *Dispatcher) keepDeadLetter(msg *message.Message) error {
	entry := DeadLetter{
		Reason:   msg.Metadata.Get(middleware.ReasonForPoisonedKey),
		Payload:  msg.Payload,
		FailedAt: time.Now().UTC(),
	}

	d.mu.Lock()
	d.dead = append(d.dead, entry)
	if len(d.dead) > maxDeadLetters {
		d.dead = d.dead[len(d.dead)-maxDeadLetters:]
	}
	d.mu.Unlock()

	d.log.Warnf("message moved to dead letter: %s", entry.Reason)
	return nil
}
