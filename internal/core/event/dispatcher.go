package event

import (
	"fmt"

	"go.uber.org/zap"
)

// Handler receives a drained event.
type Handler func(Data)

// Subscription identifies one registered handler for Unsubscribe.
type Subscription struct {
	category Category
	id       uint64
}

type subscriber struct {
	id     uint64
	fn     Handler
	active bool
}

type dedupKey struct {
	category Category
	action   Action
	params   int
}

// Dispatcher buffers events for one frame and fans them out per category.
//
// Events recorded since the previous Update are drained last-published-first
// (the buffer is a stack). A value equal to one already recorded this frame is
// dropped on Publish. Events published by handlers during a drain belong to
// the next frame. Accessed only from the frame loop goroutine.
type Dispatcher struct {
	pending  []Data
	spare    []Data
	seen     map[dedupKey][]int // indices into pending
	handlers map[Category][]*subscriber
	nextID   uint64
	log      *zap.Logger
}

func NewDispatcher(capacity int, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if capacity <= 0 {
		capacity = 16
	}
	return &Dispatcher{
		pending:  make([]Data, 0, capacity),
		spare:    make([]Data, 0, capacity),
		seen:     make(map[dedupKey][]int, capacity),
		handlers: make(map[Category][]*subscriber, len(knownCategories)),
		log:      log,
	}
}

// Publish records e for the next drain unless an equal event is already
// recorded this frame. Publishing an empty event is a setup bug and panics.
func (d *Dispatcher) Publish(e Data) {
	if e.IsZero() {
		panic("event: Publish of empty event")
	}
	key := dedupKey{category: e.Category, action: e.Action, params: len(e.Params)}
	for _, i := range d.seen[key] {
		if d.pending[i].Equal(e) {
			return
		}
	}
	if len(e.Params) > 0 {
		params := make([]any, len(e.Params))
		copy(params, e.Params)
		e.Params = params
	}
	d.seen[key] = append(d.seen[key], len(d.pending))
	d.pending = append(d.pending, e)
}

// Subscribe registers fn for category. Handlers for one category run in
// registration order. Subscribing to a category outside the dispatch table
// is a setup bug and panics.
func (d *Dispatcher) Subscribe(category Category, fn Handler) Subscription {
	if !category.Known() {
		panic(fmt.Sprintf("event: Subscribe to unknown category %s", category))
	}
	if fn == nil {
		panic("event: Subscribe with nil handler")
	}
	d.nextID++
	d.handlers[category] = append(d.handlers[category], &subscriber{id: d.nextID, fn: fn, active: true})
	return Subscription{category: category, id: d.nextID}
}

// Unsubscribe removes a handler. A handler removed mid-drain is not called
// for the rest of that drain.
func (d *Dispatcher) Unsubscribe(s Subscription) bool {
	subs := d.handlers[s.category]
	for i, sub := range subs {
		if sub.id != s.id {
			continue
		}
		sub.active = false
		next := make([]*subscriber, 0, len(subs)-1)
		next = append(next, subs[:i]...)
		next = append(next, subs[i+1:]...)
		d.handlers[s.category] = next
		return true
	}
	return false
}

// Pending returns the number of events recorded for the next drain.
func (d *Dispatcher) Pending() int { return len(d.pending) }

// Update drains every event recorded since the previous call, newest first,
// and leaves the buffer and dedup set empty.
func (d *Dispatcher) Update() {
	if len(d.pending) == 0 {
		return
	}
	batch := d.pending
	d.pending = d.spare[:0]
	clear(d.seen)

	for i := len(batch) - 1; i >= 0; i-- {
		d.dispatch(batch[i])
	}

	clear(batch)
	d.spare = batch[:0]
}

func (d *Dispatcher) dispatch(e Data) {
	if !e.Category.Known() {
		d.log.Debug("dropped event on unknown category", zap.Stringer("event", e))
		return
	}
	// new subscribers appended during this loop are not visible to it
	subs := d.handlers[e.Category]
	for _, sub := range subs {
		if sub.active {
			sub.fn(e)
		}
	}
}

// Close drops all buffered events and handlers.
func (d *Dispatcher) Close() {
	for _, subs := range d.handlers {
		for _, sub := range subs {
			sub.active = false
		}
	}
	clear(d.handlers)
	clear(d.pending)
	d.pending = d.pending[:0]
	clear(d.seen)
}
