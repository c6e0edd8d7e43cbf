package event

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dshills/thoughtmap/internal/logging"
)

// Handler receives published events.
type Handler func(Event)

// Subscription is a registered handler.
type Subscription struct {
	id      uint64
	pattern Topic
	handler Handler
	emitter *Emitter
}

// Pattern returns the subscribed pattern.
func (s *Subscription) Pattern() Topic {
	return s.pattern
}

// Unsubscribe removes the subscription. It is safe to call more than once
// and from inside a handler.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.emitter == nil {
		return
	}
	e := s.emitter
	e.subs = slices.DeleteFunc(e.subs, func(o *Subscription) bool { return o.id == s.id })
	s.emitter = nil
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithLogger logs handler panics to l.
func WithLogger(l *logging.Logger) Option {
	return func(e *Emitter) {
		e.logger = l
	}
}

// Emitter delivers events to subscribers synchronously.
// Emitter is not safe for concurrent use.
type Emitter struct {
	subs   []*Subscription
	nextID uint64
	muted  int
	logger *logging.Logger
}

// NewEmitter creates an emitter.
func NewEmitter(opts ...Option) *Emitter {
	e := &Emitter{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Subscribe registers h for topics matching pattern.
func (e *Emitter) Subscribe(pattern Topic, h Handler) (*Subscription, error) {
	if !pattern.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}
	if h == nil {
		return nil, ErrNilHandler
	}
	e.nextID++
	s := &Subscription{id: e.nextID, pattern: pattern, handler: h, emitter: e}
	e.subs = append(e.subs, s)
	return s, nil
}

// SubscriberCount returns the number of live subscriptions.
func (e *Emitter) SubscriberCount() int {
	return len(e.subs)
}

// Mute runs fn without delivering any event it publishes.
func (e *Emitter) Mute(fn func()) {
	e.muted++
	defer func() { e.muted-- }()
	fn()
}

// Publish delivers an event to every matching subscriber. A handler that
// panics does not stop delivery; its panic is returned as a *PanicError,
// joined with any others.
func (e *Emitter) Publish(t Topic, source, payload any) error {
	if e == nil || e.muted > 0 {
		return nil
	}
	if !t.IsValid() || t.IsPattern() {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, t)
	}
	ev := New(t, source, payload)
	var errs []error
	for _, s := range slices.Clone(e.subs) {
		if s.emitter == nil || !t.Matches(s.pattern) {
			continue
		}
		if err := e.deliver(s, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *Emitter) deliver(s *Subscription, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Topic: ev.Topic, Value: r}
			e.logger.WithField("topic", ev.Topic.String()).Error("handler panic: %v", r)
		}
	}()
	s.handler(ev)
	return nil
}
