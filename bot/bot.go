/*
Package bot implements the top-level package that any non-extension
will use to start a bot instance.
*/
package bot

import (
	"context"
	"crypto/tls"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/inconshreveable/log15.v2"

	"github.com/aarondl/cmdbot/config"
	"github.com/aarondl/cmdbot/dispatch"
	"github.com/aarondl/cmdbot/dispatch/cmd"
	"github.com/aarondl/cmdbot/irc"
)

const (
	// errFmtConnecting is when the bot is unable to reach the server.
	errFmtConnecting = "bot: %v failed to connect"
)

var (
	// errInvalidConfig is when New was given an invalid configuration.
	errInvalidConfig = errors.New("bot: Invalid Configuration")
	// errNotConnected occurs when something is said while there is no
	// connection to say it on.
	errNotConnected = errors.New("bot: Not connected")
)

type (
	// ConnProvider transforms a "server:port" string into a net.Conn
	ConnProvider func(ctx context.Context, address string) (net.Conn, error)

	// Resolver looks up the addresses of a host, net.Resolver is one.
	Resolver interface {
		LookupHost(ctx context.Context, host string) ([]string, error)
	}
)

// Bot is a main type that joins together all the packages into a functioning
// irc bot. It should be able to carry out most major functions that a bot would
// need through it's exported functions.
type Bot struct {
	log15.Logger

	conf *config.Config

	// Dispatching
	core         *dispatch.Core
	dispatcher   *dispatch.Dispatcher
	cmds         *cmd.Cmds
	handler      *coreHandler
	coreCommands *coreCmds

	// IoC and DI components mostly for testing.
	connProvider ConnProvider
	resolver     Resolver

	protect sync.RWMutex
	nick    string
	writer  irc.Writer
}

// CheckConfig checks a bots config for validity.
func CheckConfig(c *config.Config) bool {
	if !c.IsValid() {
		c.DisplayErrors(nil)
		return false
	}
	return true
}

// New checks the configuration and creates a bot logging the way the
// configuration asks, with the core handlers and commands attached.
func New(conf *config.Config) (*Bot, error) {
	if !CheckConfig(conf) {
		return nil, errInvalidConfig
	}

	logger, err := NewLogger(conf)
	if err != nil {
		return nil, err
	}

	return createBot(conf, logger, nil, nil, true, true), nil
}

// createBot creates a bot from the given configuration, using the providers
// given to create connections and look up hosts.
func createBot(conf *config.Config, logger log15.Logger,
	connProv ConnProvider, resolver Resolver,
	attachHandlers, attachCommands bool) *Bot {

	if logger == nil {
		logger = log15.New()
		logger.SetHandler(log15.DiscardHandler())
	}
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	b := &Bot{
		Logger:       logger,
		conf:         conf,
		connProvider: connProv,
		resolver:     resolver,
		nick:         conf.Nick,
	}

	b.core = dispatch.NewCore(logger.New("pkg", "dispatch"))
	b.dispatcher = dispatch.NewDispatcher(b.core)
	b.cmds = cmd.NewCmds(b.core, conf.Trigger, b, b)
	b.cmds.SetTimeout(conf.Timeout())

	if attachHandlers {
		b.handler = &coreHandler{bot: b}
	}
	if attachCommands && !conf.NoCoreCmds {
		b.coreCommands = newCoreCmds(b)
	}

	return b
}

// Start connects to the configured server and serves the connection until
// it ends or ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	addr := b.conf.Address()

	b.Info("Connecting", "addr", addr, "ssl", b.conf.SSL)
	conn, err := b.connect(ctx, addr)
	if err != nil {
		b.Error("Failed to connect", "addr", addr, "err", err)
		return errors.Wrapf(err, errFmtConnecting, addr)
	}

	err = b.Serve(ctx, conn)
	b.Info("Disconnected", "addr", addr)
	return err
}

// connect dials the server using the ConnProvider if there is one.
func (b *Bot) connect(ctx context.Context, addr string) (net.Conn, error) {
	if b.connProvider != nil {
		return b.connProvider(ctx, addr)
	}

	if b.conf.SSL {
		dialer := &tls.Dialer{
			Config: &tls.Config{
				ServerName:         b.conf.Server,
				InsecureSkipVerify: b.conf.NoVerifyCert,
			},
		}
		return dialer.DialContext(ctx, "tcp", addr)
	}

	var dialer net.Dialer
	return dialer.DialContext(ctx, "tcp", addr)
}

// CurrentNick is the nick the bot has right now, it changes when the
// server forces another one on us or we change it.
func (b *Bot) CurrentNick() string {
	b.protect.RLock()
	defer b.protect.RUnlock()

	return b.nick
}

// setNick records a nick change.
func (b *Bot) setNick(nick string) {
	b.protect.Lock()
	old := b.nick
	b.nick = nick
	b.protect.Unlock()

	if old != nick {
		b.Info("Nick changed", "from", old, "to", nick)
	}
}

// Say sends each line as a privmsg to target. Lines containing newlines are
// sent as several privmsgs, empty lines are skipped.
func (b *Bot) Say(target string, lines ...string) error {
	b.protect.RLock()
	w := b.writer
	b.protect.RUnlock()

	if w == nil {
		return errNotConnected
	}

	for _, line := range lines {
		for _, part := range strings.Split(line, "\n") {
			part = strings.TrimRight(part, "\r")
			if len(part) == 0 {
				continue
			}
			if err := w.Privmsg(target, part); err != nil {
				return err
			}
		}
	}

	return nil
}

// Register adds an event handler to the bot's dispatcher. irc.RAW receives
// every event.
func (b *Bot) Register(event string, handler dispatch.Handler) uint64 {
	return b.dispatcher.Register(event, handler)
}

// Unregister removes an event handler from the bot's dispatcher.
func (b *Bot) Unregister(id uint64) bool {
	return b.dispatcher.Unregister(id)
}

// RegisterCmd registers a command handler with the bot.
// See cmd.Cmds.Register for in-depth documentation.
func (b *Bot) RegisterCmd(name string, handler cmd.Handler) uint64 {
	return b.cmds.Register(name, handler)
}

// UnregisterCmd unregister's a command handler from the bot.
func (b *Bot) UnregisterCmd(id uint64) bool {
	return b.cmds.Unregister(id)
}

// WaitForHandlers waits until every running handler and pending reply is
// done.
func (b *Bot) WaitForHandlers() {
	b.core.WaitForHandlers()
}

// waitForHandlers waits for the handlers for at most timeout, it returns
// false when they did not finish in time.
func (b *Bot) waitForHandlers(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		b.core.WaitForHandlers()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
