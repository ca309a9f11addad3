/*
Package config creates a configuration using toml or yaml, optionally
overridden by the environment.

An example configuration looks like this:
	server = "irc.example.net"
	port = 6697
	ssl = true
	noverifycert = false

	nick = "cmdbot"
	username = "cmdbot"
	realname = "A command bot"
	password = "serverpassword"

	channels = ["#channel1", "#channel2"]

	# The prefix that marks a message as a command, defaults to "!".
	trigger = "!"
	# Disable ping, help, echo, host and version.
	nocorecmds = false
	# Seconds an asynchronous reply may take before it is dropped. 0 waits
	# forever.
	replytimeout = 30

	loglevel = "info"
	logfile = "/path/to/cmdbot.log"

The same keys are used in a yaml file. Every key can also be set with an
environment variable named after it, CMDBOT_NICK for nick and so on, see
FromEnv.
*/
package config

import (
	"net"
	"strconv"
	"sync"
	"time"

	"gopkg.in/inconshreveable/log15.v2"
)

const (
	// defaultIrcPort is IRC Network's default tcp port.
	defaultIrcPort = uint16(6667)
	// defaultTrigger is the command prefix by default.
	defaultTrigger = "!"
	// defaultLogLevel is the level logged when none is configured.
	defaultLogLevel = "info"
	// defaultConfigFileName is the file loaded when no other is given.
	defaultConfigFileName = "config.toml"
)

// The following format strings are for formatting various config errors.
const (
	fmtErrInvalid = "config(%v): Invalid %v, given: %v"
	fmtErrMissing = "config(%v): Requires %v, but nothing was given."
	fmtErrLoad    = "config(%v): Failed to load (%v)"
)

// Config holds all the information related to the bot.
type Config struct {
	Server       string   `toml:"server" yaml:"server"`
	Port         uint16   `toml:"port" yaml:"port"`
	SSL          bool     `toml:"ssl" yaml:"ssl"`
	NoVerifyCert bool     `toml:"noverifycert" yaml:"noverifycert"`
	Nick         string   `toml:"nick" yaml:"nick"`
	Username     string   `toml:"username" yaml:"username"`
	Realname     string   `toml:"realname" yaml:"realname"`
	Password     string   `toml:"password" yaml:"password"`
	Channels     []string `toml:"channels" yaml:"channels"`
	Trigger      string   `toml:"trigger" yaml:"trigger"`
	NoCoreCmds   bool     `toml:"nocorecmds" yaml:"nocorecmds"`
	ReplyTimeout uint     `toml:"replytimeout" yaml:"replytimeout"`
	LogLevel     string   `toml:"loglevel" yaml:"loglevel"`
	LogFile      string   `toml:"logfile" yaml:"logfile"`

	errors   errList
	filename string
	protect  sync.RWMutex
}

// New initializes a Config object with the defaults filled in.
func New() *Config {
	c := &Config{}
	c.clear()

	return c
}

// Clear re-initializes all memory in the configuration.
func (c *Config) Clear() {
	c.protect.Lock()
	defer c.protect.Unlock()

	c.clear()
}

// clear re-initializes all memory in the configuration without locking first.
func (c *Config) clear() {
	c.Server = ""
	c.Port = defaultIrcPort
	c.SSL = false
	c.NoVerifyCert = false
	c.Nick = ""
	c.Username = ""
	c.Realname = ""
	c.Password = ""
	c.Channels = nil
	c.Trigger = defaultTrigger
	c.NoCoreCmds = false
	c.ReplyTimeout = 0
	c.LogLevel = defaultLogLevel
	c.LogFile = ""

	c.errors = nil
	c.filename = ""
}

// Filename returns fileName of the configuration, or the default.
func (c *Config) Filename() string {
	c.protect.RLock()
	defer c.protect.RUnlock()

	filename := defaultConfigFileName
	if len(c.filename) > 0 {
		filename = c.filename
	}
	return filename
}

// Address is the server and port joined for dialing.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server, strconv.Itoa(int(c.Port)))
}

// Ident returns the username and realname, each falls back to the nick when
// it was not configured.
func (c *Config) Ident() (username, realname string) {
	username, realname = c.Username, c.Realname
	if len(username) == 0 {
		username = c.Nick
	}
	if len(realname) == 0 {
		realname = c.Nick
	}
	return username, realname
}

// Timeout is the reply timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.ReplyTimeout) * time.Second
}

// Level is the configured log level, info when it can't be understood.
func (c *Config) Level() log15.Lvl {
	lvl, err := log15.LvlFromString(c.LogLevel)
	if err != nil {
		return log15.LvlInfo
	}
	return lvl
}
