package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix starts the name of every environment variable the
// configuration reads.
const EnvPrefix = "CMDBOT_"

// FromEnv overrides configuration values with environment variables named
// EnvPrefix plus the upper case key, CMDBOT_NICK for example. The given
// dotenv files are read first, variables set in the process win over them.
// channels is a comma separated list.
func (c *Config) FromEnv(dotenvs ...string) *Config {
	vals := make(map[string]string)
	if len(dotenvs) > 0 {
		read, err := godotenv.Read(dotenvs...)
		if err != nil {
			c.protect.Lock()
			c.errors.addError(fmtErrLoad, strings.Join(dotenvs, ","), err)
			c.protect.Unlock()
			return c
		}
		for k, v := range read {
			vals[k] = v
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vals[key]
		return v, ok
	}

	c.protect.Lock()
	c.fromLookup(lookup)
	c.protect.Unlock()
	return c
}

// fromLookup applies every variable lookup can find. Not thread safe.
func (c *Config) fromLookup(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + strings.ToUpper(key)); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		v, ok := lookup(EnvPrefix + strings.ToUpper(key))
		if !ok {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.errors.addError(fmtErrInvalid, "env", key, v)
			return
		}
		*dst = b
	}
	unsigned := func(key string, bits int) (uint64, bool) {
		v, ok := lookup(EnvPrefix + strings.ToUpper(key))
		if !ok {
			return 0, false
		}
		u, err := strconv.ParseUint(v, 10, bits)
		if err != nil {
			c.errors.addError(fmtErrInvalid, "env", key, v)
			return 0, false
		}
		return u, true
	}

	str("server", &c.Server)
	if port, ok := unsigned("port", 16); ok {
		c.Port = uint16(port)
	}
	boolean("ssl", &c.SSL)
	boolean("noverifycert", &c.NoVerifyCert)
	str("nick", &c.Nick)
	str("username", &c.Username)
	str("realname", &c.Realname)
	str("password", &c.Password)

	var channels string
	if _, ok := lookup(EnvPrefix + "CHANNELS"); ok {
		str("channels", &channels)
		c.Channels = nil
		for _, ch := range strings.Split(channels, ",") {
			if ch = strings.TrimSpace(ch); len(ch) > 0 {
				c.Channels = append(c.Channels, ch)
			}
		}
	}

	str("trigger", &c.Trigger)
	boolean("nocorecmds", &c.NoCoreCmds)
	if timeout, ok := unsigned("replytimeout", 32); ok {
		c.ReplyTimeout = uint(timeout)
	}
	str("loglevel", &c.LogLevel)
	str("logfile", &c.LogFile)
}
