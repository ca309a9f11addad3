/*
Package dispatch supplies a low level core that can be shared between
multiple dispatcher implementations. It also provides one basic
dispatcher implementation for raw irc events.
*/
package dispatch

import (
	"runtime/debug"
	"sync"

	"gopkg.in/inconshreveable/log15.v2"
)

// Core is shared by all the dispatchers of a bot. It holds the logger and a
// waiter to synchronize the exit of all the handlers sharing this core.
type Core struct {
	log15.Logger

	waiter sync.WaitGroup
}

// NewCore initializes a dispatch core. A nil logger discards everything.
func NewCore(logger log15.Logger) *Core {
	if logger == nil {
		logger = log15.New()
		logger.SetHandler(log15.DiscardHandler())
	}

	return &Core{Logger: logger}
}

// HandlerStarted tells the core that a handler has started and it should be
// waited on.
func (c *Core) HandlerStarted() {
	c.waiter.Add(1)
}

// HandlerFinished tells the core that a handler has ended.
func (c *Core) HandlerFinished() {
	c.waiter.Done()
}

// WaitForHandlers waits for the unfinished handlers to finish.
func (c *Core) WaitForHandlers() {
	c.waiter.Wait()
}

// PanicHandler logs a panic and its stack and lets the program continue.
// It must be deferred directly, it does nothing when there is no panic.
func (c *Core) PanicHandler() {
	recovered := recover()
	if recovered == nil {
		return
	}

	c.Error("Handler panic", "panic", recovered)
	c.Error(string(debug.Stack()))
}
