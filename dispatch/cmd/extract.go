package cmd

import (
	"strings"

	"github.com/aarondl/cmdbot/irc"
)

// Extract decides if a privmsg is addressed to the bot and returns the text
// of the command when it is. In order, a message is addressed to the bot when
// it begins with the trigger, when it is a query, or when it begins with the
// bot's current nick.
//
// When addressed by nick everything up to the first space is dropped and the
// trigger is optional: "bot: ping" and "bot: !ping" are the same.
func Extract(ev *irc.Event, trigger string, self irc.Self) (string, bool) {
	msg := ev.Message

	if len(trigger) > 0 && strings.HasPrefix(msg, trigger) {
		return msg[len(trigger):], true
	}

	if ev.IsQuery {
		return msg, true
	}

	if self == nil {
		return "", false
	}
	nick := self.CurrentNick()
	if len(nick) == 0 || len(msg) < len(nick) ||
		!strings.EqualFold(msg[:len(nick)], nick) {

		return "", false
	}

	i := strings.IndexByte(msg, ' ')
	if i < 0 {
		return "", true
	}
	msg = strings.TrimSpace(msg[i+1:])
	if len(trigger) > 0 && strings.HasPrefix(msg, trigger) {
		msg = msg[len(trigger):]
	}

	return msg, true
}
