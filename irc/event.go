/*
Package irc defines types to be used by most other packages in
the cmdbot system. It is small and comprised mostly of helper like types
and constants.
*/
package irc

import (
	"bytes"
	"strings"
	"time"
)

// Self exposes the bot's own current nickname. The nick can change during
// the life of a connection so it must be asked for each time, never copied.
type Self interface {
	CurrentNick() string
}

// SelfFunc implements the Self interface.
type SelfFunc func() string

// CurrentNick implements Self.
func (s SelfFunc) CurrentNick() string {
	return s()
}

// Event contains all the information about an irc event. Events are built
// once per received line by the parse package and are not modified after.
type Event struct {
	// Raw is the line as it was received, without the line ending.
	Raw string
	// Prefix is the server or user that sent the event, normally a fullhost.
	// Empty when the line had no prefix.
	Prefix string
	// PrefixKind classifies Prefix.
	PrefixKind PrefixKind
	// Name of the event, a lowercase command name or a numeric.
	Name string
	// Params split by space delimiting, the last one may contain spaces.
	Params []string
	// Message is the second parameter, the text of message bearing events.
	Message string

	// Actor is the nick of the sender for join, part, privmsg, quit and nick.
	Actor string
	// Channel is the lowercased target for join, part and privmsg.
	Channel string
	// IsQuery is set for a privmsg sent directly to the bot.
	IsQuery bool
	// Reason is the lowercased quit message.
	Reason string
	// NewNick is the lowercased nick an actor changed to.
	NewNick string

	// Time is the time this event was received.
	Time time.Time
}

// NewEvent constructs a event object that has a timestamp. No enrichment is
// done, see the parse package for that.
func NewEvent(name, prefix string, params ...string) *Event {
	var setParams []string
	if len(params) > 0 {
		setParams = make([]string, len(params))
		copy(setParams, params)
	}
	ev := &Event{
		Name:       strings.ToLower(name),
		Prefix:     prefix,
		PrefixKind: Kind(prefix),
		Params:     setParams,
		Time:       time.Now().UTC(),
	}
	if len(setParams) > 1 {
		ev.Message = setParams[1]
	}
	return ev
}

// Nick returns the nick of the sender. Will be empty string if it was
// not able to parse the sender.
func (e *Event) Nick() string {
	return Nick(e.Prefix)
}

// Username returns the username of the sender. Will be empty string if it was
// not able to parse the sender.
func (e *Event) Username() string {
	return Username(e.Prefix)
}

// Hostname returns the host of the sender. Will be empty string if it was
// not able to parse the sender.
func (e *Event) Hostname() string {
	return Hostname(e.Prefix)
}

// SplitHost splits the sender into it's fragments: nick, user, and hostname.
// If the format is not acceptable empty string is returned for everything.
func (e *Event) SplitHost() (nick, user, hostname string) {
	return Split(e.Prefix)
}

// Target retrieves the channel or user this event was sent to. Empty if the
// event has no parameters.
func (e *Event) Target() string {
	if len(e.Params) == 0 {
		return ""
	}
	return e.Params[0]
}

// String turns this back into an IRC style message.
func (e *Event) String() string {
	b := &bytes.Buffer{}
	if len(e.Prefix) > 0 {
		b.WriteByte(':')
		b.WriteString(e.Prefix)
		b.WriteByte(' ')
	}
	b.WriteString(strings.ToUpper(e.Name))

	lastArg := len(e.Params) - 1
	for i, arg := range e.Params {
		b.WriteByte(' ')
		if lastArg == i && (len(arg) == 0 || arg[0] == ':' ||
			strings.ContainsRune(arg, ' ')) {
			b.WriteByte(':')
		}
		b.WriteString(arg)
	}

	return b.String()
}
