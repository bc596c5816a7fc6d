package kafka

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultQueueSize      = 256
	defaultPublishTimeout = 5 * time.Second
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

// FlowPublisher routes flow events to their topics. Emit only enqueues; a background
// goroutine does the publishing, so a slow or failed broker is logged and never changes
// the outcome or timing of the user's action.
type FlowPublisher struct {
	publisher          Publisher
	flowTopic          string
	notificationsTopic string
	timeout            time.Duration
	log                *zap.Logger
	now                func() time.Time

	queue     chan FlowEvent
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type FlowPublisherOption func(*FlowPublisher)

// WithQueueSize bounds how many events may wait for the broker; beyond that events are dropped.
func WithQueueSize(n int) FlowPublisherOption {
	return func(p *FlowPublisher) {
		if n > 0 {
			p.queue = make(chan FlowEvent, n)
		}
	}
}

// WithPublishTimeout caps each broker write.
func WithPublishTimeout(d time.Duration) FlowPublisherOption {
	return func(p *FlowPublisher) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func NewFlowPublisher(publisher Publisher, flowTopic, notificationsTopic string, log *zap.Logger, opts ...FlowPublisherOption) *FlowPublisher {
	p := &FlowPublisher{
		publisher:          publisher,
		flowTopic:          flowTopic,
		notificationsTopic: notificationsTopic,
		timeout:            defaultPublishTimeout,
		log:                log.With(zap.String("component", "flow_publisher")),
		now:                time.Now,
		queue:              make(chan FlowEvent, defaultQueueSize),
		stop:               make(chan struct{}),
		done:               make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	go p.drain()
	return p
}

// Emit queues event without waiting on the broker. The request context is not used for the
// write, so a closed browser stream still records its outcome.
func (p *FlowPublisher) Emit(_ context.Context, event FlowEvent) {
	if p == nil || p.publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now()
	}

	select {
	case p.queue <- event:
	default:
		p.log.Warn("flow event queue full, dropping", zap.String("type", event.Type), zap.String("booking_id", event.BookingID))
	}
}

// Close publishes whatever is still queued and stops the background goroutine.
func (p *FlowPublisher) Close() error {
	if p == nil || p.stop == nil {
		return nil
	}
	p.closeOnce.Do(func() { close(p.stop) })
	<-p.done
	return nil
}

func (p *FlowPublisher) drain() {
	defer close(p.done)
	for {
		select {
		case event := <-p.queue:
			p.publish(event)
		case <-p.stop:
			for {
				select {
				case event := <-p.queue:
					p.publish(event)
				default:
					return
				}
			}
		}
	}
}

func (p *FlowPublisher) publish(event FlowEvent) {
	key := event.BookingID
	if key == "" {
		key = event.SessionID
	}

	if p.flowTopic != "" {
		p.write(p.flowTopic, key, event, "publish flow event")
	}
	if event.IsTerminalPayment() && p.notificationsTopic != "" {
		p.write(p.notificationsTopic, key, event, "publish notification")
	}
}

func (p *FlowPublisher) write(topic, key string, event FlowEvent, msg string) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.publisher.Publish(ctx, topic, key, event); err != nil {
		p.log.Warn(msg, zap.String("type", event.Type), zap.Error(err))
	}
}
