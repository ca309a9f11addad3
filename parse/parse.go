/*
Package parse deals with parsing the irc protocol. It turns a raw protocol
line into an irc.Event, filling in the extra fields for the events the bot
cares about. Parsing never fails; a malformed line simply produces an event
with empty fields.
*/
package parse

import (
	"strings"
	"time"

	"github.com/aarondl/cmdbot/irc"
)

// enrichers fill in the command specific fields of an event. The table is
// keyed by the lowercase command name.
var enrichers = map[string]func(ev *irc.Event, self irc.Self){
	irc.JOIN: enrichChannel,
	irc.PART: enrichChannel,
	irc.PRIVMSG: func(ev *irc.Event, self irc.Self) {
		enrichChannel(ev, self)
		ev.IsQuery = self != nil && len(ev.Channel) > 0 &&
			strings.EqualFold(ev.Channel, self.CurrentNick())
	},
	irc.QUIT: func(ev *irc.Event, _ irc.Self) {
		ev.Actor = irc.Nick(ev.Prefix)
		ev.Reason = strings.ToLower(firstParam(ev))
	},
	irc.NICK: func(ev *irc.Event, _ irc.Self) {
		ev.Actor = irc.Nick(ev.Prefix)
		ev.NewNick = strings.ToLower(firstParam(ev))
	},
}

// Parse produces an Event from a single line of irc protocol. The line
// should not contain more than one message, a trailing \r\n is removed.
// self is consulted to decide if a privmsg was sent directly to the bot, it
// may be nil.
func Parse(line string, self irc.Self) *irc.Event {
	line = strings.TrimRight(line, "\r\n")
	ev := &irc.Event{
		Raw:  line,
		Time: time.Now().UTC(),
	}

	rest := line
	if strings.HasPrefix(rest, ":") {
		if i := strings.IndexByte(rest, ' '); i >= 0 {
			ev.Prefix, rest = rest[1:i], rest[i+1:]
		} else {
			ev.Prefix, rest = rest[1:], ""
		}
	}
	ev.PrefixKind = irc.Kind(ev.Prefix)

	rest = strings.TrimLeft(rest, " ")
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		ev.Name, rest = rest[:i], rest[i+1:]
	} else {
		ev.Name, rest = rest, ""
	}
	ev.Name = strings.ToLower(ev.Name)

	ev.Params = Params(rest)
	if len(ev.Params) > 1 {
		ev.Message = ev.Params[1]
	}

	if enrich, ok := enrichers[ev.Name]; ok {
		enrich(ev, self)
	}

	return ev
}

// ParseBytes is Parse for lines read straight off a connection.
func ParseBytes(line []byte, self irc.Self) *irc.Event {
	return Parse(string(line), self)
}

// Params splits the parameter portion of a protocol line. Parameters are
// separated by runs of spaces until one begins with a colon, that parameter
// has the colon removed and takes the rest of the line as is, spaces and all.
func Params(str string) []string {
	var params []string
	for len(str) > 0 {
		if str[0] == ' ' {
			str = str[1:]
			continue
		}
		if str[0] == ':' {
			params = append(params, str[1:])
			break
		}

		i := strings.IndexByte(str, ' ')
		if i < 0 {
			params = append(params, str)
			break
		}
		params = append(params, str[:i])
		str = str[i+1:]
	}
	return params
}

// enrichChannel sets the actor and channel of join, part and privmsg.
func enrichChannel(ev *irc.Event, _ irc.Self) {
	ev.Actor = irc.Nick(ev.Prefix)
	ev.Channel = strings.ToLower(firstParam(ev))
}

func firstParam(ev *irc.Event) string {
	if len(ev.Params) == 0 {
		return ""
	}
	return ev.Params[0]
}
