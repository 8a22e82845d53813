// Package event carries discrete notifications from the simulation to
// collaborators (renderer, audio, feed). Listeners observe, they never
// mutate simulation state.
package event

// EventType names a notification.
type EventType string

// Event is a flat, serialisable notification. Fields that do not apply to a
// type are left zero.
type Event struct {
	Type   EventType `msgpack:"type" json:"type"`
	TimeMs float64   `msgpack:"t" json:"t"`
	Source uint64    `msgpack:"src,omitempty" json:"src,omitempty"` // acting entity id
	Target uint64    `msgpack:"dst,omitempty" json:"dst,omitempty"` // affected entity id
	Amount float64   `msgpack:"amt,omitempty" json:"amt,omitempty"`
	X      float64   `msgpack:"x,omitempty" json:"x,omitempty"`
	Y      float64   `msgpack:"y,omitempty" json:"y,omitempty"`
	Kind   string    `msgpack:"kind,omitempty" json:"kind,omitempty"`     // type id, ability, weapon
	Reason string    `msgpack:"reason,omitempty" json:"reason,omitempty"` // denial reason
}

// Listener receives dispatched events.
type Listener interface {
	OnEvent(e Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(e Event)

// OnEvent calls f(e).
func (f ListenerFunc) OnEvent(e Event) { f(e) }

// Dispatcher fans events out to subscribers in subscription order.
type Dispatcher struct {
	listeners map[EventType][]Listener
	all       []Listener
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[EventType][]Listener)}
}

// Subscribe registers a listener for one event type.
func (d *Dispatcher) Subscribe(t EventType, l Listener) {
	d.listeners[t] = append(d.listeners[t], l)
}

// SubscribeAll registers a listener for every event type.
func (d *Dispatcher) SubscribeAll(l Listener) {
	d.all = append(d.all, l)
}

// Unsubscribe removes a listener registered with Subscribe. Only comparable
// listeners (pointers) can be removed; ListenerFunc values cannot.
func (d *Dispatcher) Unsubscribe(t EventType, l Listener) {
	ls := d.listeners[t]
	for i := range ls {
		if _, isFunc := ls[i].(ListenerFunc); isFunc {
			continue
		}
		if ls[i] == l {
			d.listeners[t] = append(ls[:i], ls[i+1:]...)
			return
		}
	}
}

// Dispatch delivers an event to typed subscribers first, then to catch-all ones.
func (d *Dispatcher) Dispatch(e Event) {
	for _, l := range d.listeners[e.Type] {
		l.OnEvent(e)
	}
	for _, l := range d.all {
		l.OnEvent(e)
	}
}

// Recorder buffers events until drained. The simulation uses one to collect
// the events of a tick.
type Recorder struct {
	events []Event
}

// OnEvent appends e.
func (r *Recorder) OnEvent(e Event) { r.events = append(r.events, e) }

// Drain returns the buffered events and empties the buffer.
func (r *Recorder) Drain() []Event {
	out := r.events
	r.events = nil
	return out
}

// Len returns the number of buffered events.
func (r *Recorder) Len() int { return len(r.events) }
