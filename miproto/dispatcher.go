package miproto

import (
	"strings"
	"sync"

	"github.com/dbgmi/gomi/mi"
	"github.com/rs/zerolog"
)

// Subscriber receives events for the name(s) it was registered under.
type Subscriber func(Event)

// Dispatcher fans async/stream records out to typed, named events
// (spec §4.5). It is only ever driven from the session's single
// read-loop goroutine; since Subscribe/Unsubscribe/Clear may run
// concurrently with it, Dispatch holds the mutex just long enough to
// copy the subscriber list and calls subscribers without it.
type Dispatcher struct {
	mu          sync.Mutex
	subscribers map[EventName][]subscriberEntry
	nextID      uint64
	log         zerolog.Logger
}

type subscriberEntry struct {
	id uint64
	fn Subscriber
}

// SubscriptionID identifies a registered subscriber for Unsubscribe.
type SubscriptionID struct {
	name EventName
	id   uint64
}

// NewDispatcher creates an empty dispatcher logging through log.
func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{subscribers: make(map[EventName][]subscriberEntry), log: log}
}

// Subscribe registers fn for events named name, returning an ID usable
// with Unsubscribe. Subscribers for the same name are notified in
// registration order (spec §8 event fan-out property).
func (d *Dispatcher) Subscribe(name EventName, fn Subscriber) SubscriptionID {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.subscribers[name] = append(d.subscribers[name], subscriberEntry{id: id, fn: fn})
	return SubscriptionID{name: name, id: id}
}

// Unsubscribe removes a previously registered subscriber. It is a
// no-op if the subscription no longer exists.
func (d *Dispatcher) Unsubscribe(sub SubscriptionID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	entries := d.subscribers[sub.name]
	for i, e := range entries {
		if e.id == sub.id {
			d.subscribers[sub.name] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// Clear drops every subscriber (called on session end, spec §8 "no
// leak" property).
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = make(map[EventName][]subscriberEntry)
}

// Dispatch delivers ev to every subscriber of ev.Name, in registration
// order. A subscriber panic is caught, logged, and does not prevent
// delivery to the remaining subscribers or fault the session (spec
// §4.5).
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.Lock()
	entries := append([]subscriberEntry(nil), d.subscribers[ev.Name]...)
	d.mu.Unlock()

	for _, e := range entries {
		d.deliverOne(e, ev)
	}
}

func (d *Dispatcher) deliverOne(e subscriberEntry, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Str("event", string(ev.Name)).
				Interface("panic", r).
				Msg("mi event subscriber panicked")
		}
	}()
	e.fn(ev)
}

// DispatchRecord classifies one inbound async or stream record and
// dispatches whatever typed events it produces. Results are not
// passed here — they go through the Correlator instead (spec §3:
// "Async records without tokens are NEVER routed through the
// correlator").
func (d *Dispatcher) DispatchRecord(rec mi.Record) {
	// A "stopped-threads" value that is neither "all" nor a single
	// thread id is still split into a list, but logged as ambiguous.
	if r, ok := rec.(*mi.AsyncExecRecord); ok && r.Class == "stopped" {
		if raw, ok := r.Data.Str("stopped-threads"); ok && raw != "all" && strings.Trim(raw, "0123456789") != "" {
			d.log.Warn().Str("stopped-threads", raw).Msg("mi: ambiguous stopped-threads value")
		}
	}
	for _, ev := range eventsForRecord(rec) {
		d.Dispatch(ev)
	}
}
