package bot

import (
	"strings"
	"sync"

	"github.com/aarondl/cmdbot/irc"
)

// coreHandler is the bot's main handling struct. As such it has access directly
// to the bot itself. It's used to deal with mission critical events such as
// pings, connects, nick collisions etc. It is called before any other handler.
type coreHandler struct {
	// The bot this core handler belongs to.
	bot *Bot

	// How many nicks have been sent.
	nickvalue int

	// Protect access to core Handler
	protect sync.Mutex
}

// Handle implements the dispatch.Handler interface so the bot can
// deal with all irc messages coming in.
func (c *coreHandler) Handle(w irc.Writer, ev *irc.Event) {
	conf := c.bot.conf

	switch ev.Name {

	case irc.PING:
		if err := w.Pong(ev.Target()); err != nil {
			c.bot.Error("Failed to pong", "err", err)
		}

	case irc.CONNECT:
		c.protect.Lock()
		c.nickvalue = 0
		c.protect.Unlock()

		username, realname := conf.Ident()
		err := w.Register(conf.Nick, username, realname, conf.Password)
		if err != nil {
			c.bot.Error("Failed to register", "err", err)
		}

	case irc.RPL_WELCOME:
		if nick := ev.Target(); len(nick) > 0 {
			c.bot.setNick(nick)
		}
		c.bot.Info("Registered", "nick", c.bot.CurrentNick())
		if err := w.Join(conf.Channels...); err != nil {
			c.bot.Error("Failed to join", "err", err)
		}

	case irc.ERR_NICKNAMEINUSE:
		c.protect.Lock()
		c.nickvalue++
		nick := conf.Nick + strings.Repeat("_", c.nickvalue)
		c.protect.Unlock()

		c.bot.setNick(nick)
		if err := w.Nick(nick); err != nil {
			c.bot.Error("Failed to change nick", "err", err)
		}

	case irc.ERR_ERRONEUSNICKNAME:
		c.bot.Error("Nick refused by server", "nick", c.bot.CurrentNick(),
			"msg", ev.Message)

	case irc.NICK:
		if strings.EqualFold(ev.Actor, c.bot.CurrentNick()) {
			c.bot.setNick(ev.Target())
		}

	case irc.ERROR:
		c.bot.Warn("Server error", "msg", ev.Target())
	}
}
