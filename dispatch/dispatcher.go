package dispatch

import (
	"strings"
	"sync"

	"github.com/aarondl/cmdbot/irc"
)

// Handler is the interface for use with normal dispatching
type Handler interface {
	Handle(w irc.Writer, ev *irc.Event)
}

// HandlerFunc implements the Handler interface
type HandlerFunc func(w irc.Writer, ev *irc.Event)

// Handle implements Handler interface
func (h HandlerFunc) Handle(w irc.Writer, ev *irc.Event) {
	h(w, ev)
}

// Dispatcher is made for handling dispatching of raw-ish irc events.
type Dispatcher struct {
	*Core

	protect sync.RWMutex
	// events maps a lowercase event name to its handlers, the empty name
	// holds the raw handlers that see every event.
	events map[string]map[uint64]Handler
	// index maps a handler id to the event it was registered under.
	index  map[uint64]string
	nextID uint64
}

// NewDispatcher initializes an empty dispatcher ready to register events.
func NewDispatcher(core *Core) *Dispatcher {
	return &Dispatcher{
		Core:   core,
		events: make(map[string]map[uint64]Handler),
		index:  make(map[uint64]string),
	}
}

// Register registers an event handler to a particular event. In return a
// unique identifer is given to later pass into Unregister in case of a need
// to unregister the event handler. Registering to irc.RAW receives every
// event.
func (d *Dispatcher) Register(event string, handler Handler) uint64 {
	event = strings.ToLower(event)
	if event == irc.RAW {
		event = ""
	}

	d.protect.Lock()
	defer d.protect.Unlock()

	d.nextID++
	id := d.nextID

	handlers, ok := d.events[event]
	if !ok {
		handlers = make(map[uint64]Handler)
		d.events[event] = handlers
	}
	handlers[id] = handler
	d.index[id] = event

	return id
}

// Unregister uses the identifier returned by Register to unregister a
// callback from the Dispatcher. If the callback was removed it returns
// true, false if it could not be found.
func (d *Dispatcher) Unregister(id uint64) bool {
	d.protect.Lock()
	defer d.protect.Unlock()

	event, ok := d.index[id]
	if !ok {
		return false
	}

	delete(d.index, id)
	handlers := d.events[event]
	delete(handlers, id)
	if len(handlers) == 0 {
		delete(d.events, event)
	}

	return true
}

// Dispatch an event to the handlers registered for its name, also ensures
// all raw handlers receive all events. Each handler runs in its own
// goroutine, use WaitForHandlers to wait for them.
func (d *Dispatcher) Dispatch(w irc.Writer, ev *irc.Event) {
	for _, h := range d.handlers(ev.Name) {
		h := h
		d.HandlerStarted()
		go func() {
			defer d.HandlerFinished()
			defer d.PanicHandler()
			h.Handle(w, ev)
		}()
	}
}

// handlers copies out the handlers for an event so they can be called
// without holding the lock.
func (d *Dispatcher) handlers(event string) []Handler {
	d.protect.RLock()
	defer d.protect.RUnlock()

	event = strings.ToLower(event)
	named := d.events[event]
	raw := d.events[""]

	list := make([]Handler, 0, len(named)+len(raw))
	if len(event) > 0 {
		for _, h := range named {
			list = append(list, h)
		}
	}
	for _, h := range raw {
		list = append(list, h)
	}

	return list
}
