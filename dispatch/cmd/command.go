package cmd

import (
	"strings"

	"github.com/aarondl/cmdbot/irc"
)

// Handler for command types. The returned value decides the reply, see
// NewReply for what is accepted.
type Handler interface {
	Cmd(*Command) (interface{}, error)
}

// HandlerFunc implements Handler.
type HandlerFunc func(*Command) (interface{}, error)

// Cmd implements Handler.
func (h HandlerFunc) Cmd(c *Command) (interface{}, error) {
	return h(c)
}

// Command is a privmsg that was addressed to the bot. It keeps the event it
// came from and adds the command name and its arguments.
type Command struct {
	*irc.Event

	// Cmd is the lowercased command name, it is never empty.
	Cmd string
	// Args are the whitespace separated words following the command name.
	Args []string
}

// NewCommand splits text into a command and its arguments. Returns nil if
// text contains nothing but whitespace.
func NewCommand(ev *irc.Event, text string) *Command {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	return &Command{
		Event: ev,
		Cmd:   strings.ToLower(fields[0]),
		Args:  fields[1:],
	}
}

// ReplyTarget is where replies to this command go: the channel it was said
// in, or the sender when it was a query.
func (c *Command) ReplyTarget() string {
	if c.IsQuery && len(c.Actor) > 0 {
		return c.Actor
	}
	return c.Channel
}
