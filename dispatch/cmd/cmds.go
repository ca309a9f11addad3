/*
Package cmd is a more involved dispatcher implementation. In short it
allows users to create commands very easily rather than doing everything by
hand in a privmsg handler.

A privmsg is turned into a Command when it is addressed to the bot, see
Extract. The Command is handed to every handler registered under its name and
whatever each handler returns is turned into a reply, see NewReply. Replies
are delivered to the channel the command came from, or to the sender when it
was a query.
*/
package cmd

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/aarondl/cmdbot/dispatch"
	"github.com/aarondl/cmdbot/irc"
)

// Error messages.
const (
	errFmtBadResponse = "Command handler for %s returned with invalid value: %v"
	errFmtPanic       = "cmd: Command handler for %s panicked: %v"
	errFmtHandlerErr  = "cmd: Command handler for %s (id: %d) failed"
)

var (
	typeCommand = reflect.TypeOf((*Command)(nil))
	typeValue   = reflect.TypeOf((*interface{})(nil)).Elem()
	typeError   = reflect.TypeOf((*error)(nil)).Elem()
)

// Sayer delivers lines of text to a channel or a nick.
type Sayer interface {
	Say(target string, lines ...string) error
}

// registration is a handler and the id it was registered under.
type registration struct {
	id      uint64
	handler Handler
}

// Cmds dispatches privmsgs that address the bot to command handlers.
type Cmds struct {
	*dispatch.Core

	trigger string
	self    irc.Self
	sayer   Sayer

	protect sync.RWMutex
	cmds    map[string][]registration
	nextID  uint64
	timeout time.Duration
}

// NewCmds creates a command dispatcher. self is asked for the bot's nick
// every time a message is looked at, sayer delivers the replies.
func NewCmds(core *dispatch.Core, trigger string, self irc.Self,
	sayer Sayer) *Cmds {

	if core == nil {
		core = dispatch.NewCore(nil)
	}

	return &Cmds{
		Core:    core,
		trigger: trigger,
		self:    self,
		sayer:   sayer,
		cmds:    make(map[string][]registration),
	}
}

// Trigger returns the prefix that marks a message as a command.
func (c *Cmds) Trigger() string {
	return c.trigger
}

// SetTimeout sets how long a reply may take to resolve before it is dropped.
// Zero waits forever.
func (c *Cmds) SetTimeout(timeout time.Duration) {
	c.protect.Lock()
	c.timeout = timeout
	c.protect.Unlock()
}

// Timeout returns the current reply timeout.
func (c *Cmds) Timeout() time.Duration {
	c.protect.RLock()
	defer c.protect.RUnlock()
	return c.timeout
}

// Register a handler for a command name. Several handlers may share a name,
// they are called in the order they were registered. The returned id can be
// passed to Unregister.
func (c *Cmds) Register(name string, handler Handler) uint64 {
	name = strings.ToLower(name)

	c.protect.Lock()
	defer c.protect.Unlock()

	c.nextID++
	c.cmds[name] = append(c.cmds[name], registration{c.nextID, handler})

	return c.nextID
}

// Unregister removes the handler registered with id. Returns false if there
// was no such handler.
func (c *Cmds) Unregister(id uint64) bool {
	c.protect.Lock()
	defer c.protect.Unlock()

	for name, regs := range c.cmds {
		for i, reg := range regs {
			if reg.id != id {
				continue
			}

			if len(regs) == 1 {
				delete(c.cmds, name)
			} else {
				c.cmds[name] = append(regs[:i:i], regs[i+1:]...)
			}
			return true
		}
	}

	return false
}

// EachCmd calls fn for every registration, sorted by command name and then
// by registration order.
func (c *Cmds) EachCmd(fn func(name string, id uint64)) {
	type pair struct {
		name string
		id   uint64
	}

	c.protect.RLock()
	names := make([]string, 0, len(c.cmds))
	for name := range c.cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	var pairs []pair
	for _, name := range names {
		for _, reg := range c.cmds[name] {
			pairs = append(pairs, pair{name, reg.id})
		}
	}
	c.protect.RUnlock()

	for _, p := range pairs {
		fn(p.name, p.id)
	}
}

// Parse looks at a privmsg and if it is addressed to the bot builds a
// Command and hands it to every handler registered under the command's name.
// Each handler's result is turned into a reply. Replies are delivered in the
// background, use WaitForHandlers to wait for them. Returns nil when the
// message was not a command.
func (c *Cmds) Parse(ev *irc.Event) *Command {
	text, ok := Extract(ev, c.trigger, c.self)
	if !ok {
		return nil
	}

	command := NewCommand(ev, text)
	if command == nil {
		return nil
	}

	c.Info("Emitting command", "cmd", command.Cmd, "nick", command.Actor,
		"target", command.ReplyTarget(), "args", len(command.Args))

	for _, reg := range c.handlers(command.Cmd) {
		value, err := c.call(reg.handler, command)
		c.after(err, value, reg.id, command)
	}

	return command
}

// handlers copies out the registrations for a name so they can be called
// without holding the lock.
func (c *Cmds) handlers(name string) []registration {
	c.protect.RLock()
	defer c.protect.RUnlock()

	regs := c.cmds[name]
	if len(regs) == 0 {
		return nil
	}
	cpy := make([]registration, len(regs))
	copy(cpy, regs)
	return cpy
}

// call invokes a handler, turning a panic into an error.
func (c *Cmds) call(handler Handler, command *Command) (
	value interface{}, err error) {

	defer func() {
		if r := recover(); r != nil {
			value, err = nil, errors.Errorf(errFmtPanic, command.Cmd, r)
		}
	}()

	value, dispatched, err := cmdNameDispatch(handler, command)
	if !dispatched {
		value, err = handler.Cmd(command)
	}
	return value, err
}

// after normalizes the outcome of a single handler. Errors and malformed
// values are logged, nothing is a valid answer, everything else is awaited in
// its own goroutine and then delivered.
func (c *Cmds) after(err error, value interface{}, id uint64,
	command *Command) {

	if err != nil {
		c.Error("Error thrown in command handler", "cmd", command.Cmd,
			"id", id, "err", err)
		c.Error(fmt.Sprintf("%+v", errors.Wrapf(err, errFmtHandlerErr,
			command.Cmd, id)))
		return
	}

	reply := NewReply(value)

	var deferred *Deferred
	switch reply.Kind {
	case NoReply:
		return
	case TextReply, SequenceReply:
		deferred = Resolved(reply.Lines)
	case AsyncReply:
		deferred = reply.Deferred
	default:
		c.Error(fmt.Sprintf(errFmtBadResponse, command.Cmd, reply.Value))
		return
	}

	c.HandlerStarted()
	go func() {
		defer c.HandlerFinished()
		defer c.PanicHandler()
		c.deliver(command, deferred)
	}()
}

// deliver waits for a Deferred to settle and says the result. A Deferred that
// resolves to another Deferred is followed.
func (c *Cmds) deliver(command *Command, deferred *Deferred) {
	var expired <-chan time.Time
	timeout := c.Timeout()
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	for {
		select {
		case <-deferred.Done():
		case <-expired:
			c.Error("Command reply timed out", "cmd", command.Cmd,
				"timeout", timeout)
			return
		}

		value, err := deferred.Result()
		if err != nil {
			c.Error("Command reply rejected", "cmd", command.Cmd, "err", err)
			c.Error(fmt.Sprintf("%+v", err))
			return
		}

		reply := NewReply(value)
		switch reply.Kind {
		case NoReply:
			return
		case AsyncReply:
			deferred = reply.Deferred
			continue
		case Malformed:
			c.Error(fmt.Sprintf(errFmtBadResponse, command.Cmd, reply.Value))
			return
		}

		if len(reply.Lines) == 0 {
			return
		}

		target := command.ReplyTarget()
		if err = c.sayer.Say(target, reply.Lines...); err != nil {
			c.Error("Failed to deliver reply", "cmd", command.Cmd,
				"target", target, "err", err)
		}
		return
	}
}

// cmdNameDispatch attempts to dispatch a command to a method named the same
// as the command with an uppercase letter (no camel case). The method must
// have the same signature as Handler.Cmd for this to work.
func cmdNameDispatch(handler Handler, command *Command) (
	value interface{}, dispatched bool, err error) {

	name := command.Cmd
	methodName := strings.ToUpper(name[:1]) + name[1:]

	var fn reflect.Method
	fn, dispatched = reflect.TypeOf(handler).MethodByName(methodName)
	if !dispatched {
		return
	}

	fnType := fn.Type
	dispatched = fnType.NumIn() == 2 && fnType.NumOut() == 2 &&
		typeCommand.AssignableTo(fnType.In(1)) &&
		fnType.Out(0) == typeValue &&
		fnType.Out(1) == typeError
	if !dispatched {
		return
	}

	returnVals := fn.Func.Call([]reflect.Value{
		reflect.ValueOf(handler), reflect.ValueOf(command),
	})

	// We have already verified the types. So these should never fail.
	value = returnVals[0].Interface()
	err, _ = returnVals[1].Interface().(error)
	return
}
