package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/aarondl/cmdbot/dispatch/cmd"
)

// Version is what the version command answers with.
const Version = "cmdbot 1.0.0"

const (
	// lookupTimeout bounds a host lookup.
	lookupTimeout = 10 * time.Second

	errMsgHostUsage = "bot: host requires a name to look up"
	errFmtNoCommand = "bot: %s is not a core command"
	errFmtLookup    = "bot: Failed to look up %s"
)

// coreCommandNames are registered on the bot unless nocorecmds is set.
var coreCommandNames = []string{"ping", "help", "echo", "host", "version"}

// coreCmds is the bot's command handling struct. Each command is answered by
// the method of the same name.
type coreCmds struct {
	b   *Bot
	ids []uint64
}

// newCoreCmds initializes the core commands and registers them with the
// bot.
func newCoreCmds(b *Bot) *coreCmds {
	c := &coreCmds{b: b}
	for _, name := range coreCommandNames {
		c.ids = append(c.ids, b.RegisterCmd(name, c))
	}
	return c
}

// unregister unregisters all core commands.
func (c *coreCmds) unregister() {
	for _, id := range c.ids {
		c.b.UnregisterCmd(id)
	}
	c.ids = nil
}

// Cmd is only reached for a name without a method.
func (c *coreCmds) Cmd(command *cmd.Command) (interface{}, error) {
	return nil, errors.Errorf(errFmtNoCommand, command.Cmd)
}

// Ping answers pong.
func (c *coreCmds) Ping(_ *cmd.Command) (interface{}, error) {
	return "pong", nil
}

// Help lists every registered command.
func (c *coreCmds) Help(_ *cmd.Command) (interface{}, error) {
	var names []string
	c.b.cmds.EachCmd(func(name string, _ uint64) {
		if len(names) == 0 || names[len(names)-1] != name {
			names = append(names, name)
		}
	})

	return []string{"Commands: " + strings.Join(names, " ")}, nil
}

// Echo says the arguments back.
func (c *coreCmds) Echo(command *cmd.Command) (interface{}, error) {
	if len(command.Args) == 0 {
		return nil, nil
	}
	return strings.Join(command.Args, " "), nil
}

// Host looks up the addresses of a host in the background.
func (c *coreCmds) Host(command *cmd.Command) (interface{}, error) {
	if len(command.Args) == 0 {
		return nil, errors.New(errMsgHostUsage)
	}

	name := command.Args[0]
	resolver := c.b.resolver
	return cmd.Async(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		addrs, err := resolver.LookupHost(ctx, name)
		if err != nil {
			return nil, errors.Wrapf(err, errFmtLookup, name)
		}
		if len(addrs) == 0 {
			return fmt.Sprintf("%s: no addresses", name), nil
		}
		return fmt.Sprintf("%s: %s", name, strings.Join(addrs, " ")), nil
	}), nil
}

// Version answers with the bot's version.
func (c *coreCmds) Version(_ *cmd.Command) (interface{}, error) {
	return Version, nil
}
