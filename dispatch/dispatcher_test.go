package dispatch

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/aarondl/cmdbot/irc"
	"gopkg.in/inconshreveable/log15.v2"
)

type recorder struct {
	sync.Mutex
	events []*irc.Event
}

func (r *recorder) Handle(_ irc.Writer, ev *irc.Event) {
	r.Lock()
	r.events = append(r.events, ev)
	r.Unlock()
}

func (r *recorder) count() int {
	r.Lock()
	defer r.Unlock()
	return len(r.events)
}

func TestCore(t *testing.T) {
	t.Parallel()

	c := NewCore(nil)
	if c == nil || c.Logger == nil {
		t.Error("Create should create things.")
	}
}

func TestCore_Synchronization(t *testing.T) {
	t.Parallel()

	c := NewCore(nil)
	c.HandlerStarted()
	c.HandlerStarted()
	c.HandlerFinished()
	c.HandlerFinished()
	c.WaitForHandlers()
}

func TestCore_PanicHandler(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := log15.New()
	logger.SetHandler(log15.StreamHandler(buf, log15.LogfmtFormat()))
	c := NewCore(logger)

	func() {
		defer c.PanicHandler()
		panic("oh no")
	}()

	if s := buf.String(); !strings.Contains(s, "Handler panic") ||
		!strings.Contains(s, "oh no") {

		t.Error("Expected the panic to be logged, got:", s)
	}

	buf.Reset()
	func() {
		defer c.PanicHandler()
	}()
	if buf.Len() != 0 {
		t.Error("Expected nothing to be logged, got:", buf.String())
	}
}

func TestDispatcher_Registration(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(NewCore(nil))
	h := &recorder{}

	id := d.Register(irc.PRIVMSG, h)
	if id == 0 {
		t.Error("Expected a non-zero id.")
	}
	id2 := d.Register(irc.PRIVMSG, h)
	if id2 == id {
		t.Error("Expected ids to be unique.")
	}

	if !d.Unregister(id) {
		t.Error("Should have unregistered the handler.")
	}
	if d.Unregister(id) {
		t.Error("Should not unregister the handler twice.")
	}
	if !d.Unregister(id2) {
		t.Error("Should have unregistered the handler.")
	}
	if len(d.events) != 0 {
		t.Error("Expected the event table to be cleaned up:", d.events)
	}
}

func TestDispatcher_Dispatching(t *testing.T) {
	t.Parallel()

	h1, h2, h3 := &recorder{}, &recorder{}, &recorder{}

	d := NewDispatcher(NewCore(nil))
	d.Register(irc.PRIVMSG, h1)
	d.Register("PRIVMSG", h2)
	d.Register(irc.QUIT, h3)

	privmsg := irc.NewEvent(irc.PRIVMSG, "n!u@h", "#chan", "hi")
	d.Dispatch(nil, privmsg)
	d.WaitForHandlers()

	if h1.count() != 1 || h1.events[0] != privmsg {
		t.Error("Expected the privmsg handler to be called:", h1.events)
	}
	if h2.count() != 1 || h2.events[0] != privmsg {
		t.Error("Expected names to be case insensitive:", h2.events)
	}
	if h3.count() != 0 {
		t.Error("Quit handler should not see a privmsg:", h3.events)
	}

	d.Dispatch(nil, irc.NewEvent(irc.QUIT, "n!u@h", "bye"))
	d.WaitForHandlers()
	if h3.count() != 1 {
		t.Error("Expected the quit handler to be called.")
	}
}

func TestDispatcher_RawDispatch(t *testing.T) {
	t.Parallel()

	h1, h2 := &recorder{}, &recorder{}

	d := NewDispatcher(NewCore(nil))
	d.Register(irc.PRIVMSG, h1)
	d.Register(irc.RAW, h2)

	privmsg := irc.NewEvent(irc.PRIVMSG, "n!u@h", "#chan", "hi")
	d.Dispatch(nil, privmsg)
	d.Dispatch(nil, irc.NewEvent(irc.PING, "", "token"))
	d.WaitForHandlers()

	if h1.count() != 1 {
		t.Error("Expected: 1, got:", h1.count())
	}
	if h2.count() != 2 {
		t.Error("Expected raw to see everything, got:", h2.count())
	}
}

func TestDispatcher_Panic(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := log15.New()
	logger.SetHandler(log15.StreamHandler(buf, log15.LogfmtFormat()))

	d := NewDispatcher(NewCore(logger))
	d.Register(irc.JOIN, HandlerFunc(func(irc.Writer, *irc.Event) {
		panic("handler blew up")
	}))

	d.Dispatch(nil, irc.NewEvent(irc.JOIN, "n!u@h", "#chan"))
	d.WaitForHandlers()

	if !strings.Contains(buf.String(), "handler blew up") {
		t.Error("Expected the panic to be logged, got:", buf.String())
	}
}

func TestDispatcher_Writer(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	w := irc.Helper{Writer: buf}

	d := NewDispatcher(NewCore(nil))
	d.Register(irc.PING, HandlerFunc(func(w irc.Writer, ev *irc.Event) {
		w.Pong(ev.Target())
	}))

	d.Dispatch(w, irc.NewEvent(irc.PING, "", "token"))
	d.WaitForHandlers()

	if s := buf.String(); s != "PONG :token" {
		t.Error("Expected: PONG :token, got:", s)
	}
}
