package config

import (
	"fmt"
	"strings"

	"gopkg.in/inconshreveable/log15.v2"
)

// errList is an array of errors.
type errList []error

// addError builds an error object and appends it to this instances errors.
func (l *errList) addError(format string, args ...interface{}) {
	*l = append(*l, fmt.Errorf(format, args...))
}

// Errors returns the errors encountered during loading and validation.
func (c *Config) Errors() []error {
	c.protect.RLock()
	defer c.protect.RUnlock()

	ers := make([]error, len(c.errors))
	copy(ers, c.errors)
	return ers
}

// IsValid checks to see if the configuration is valid. Errors from loading
// make a configuration invalid as well. If errors are found Config.Errors()
// will return them, these can be used to display to the user. See
// DisplayErrors for a display helper.
func (c *Config) IsValid() bool {
	c.protect.Lock()
	defer c.protect.Unlock()

	if len(c.errors) > 0 {
		return false
	}

	ers := make(errList, 0)
	c.validateRequired(&ers)
	c.validateValues(&ers)

	if len(ers) > 0 {
		c.errors = ers
		return false
	}

	return true
}

// validateRequired checks that all required fields are present.
func (c *Config) validateRequired(ers *errList) {
	if len(c.Server) == 0 {
		ers.addError(fmtErrMissing, c.filename, "server")
	}
	if len(c.Nick) == 0 {
		ers.addError(fmtErrMissing, c.filename, "nick")
	}
	if len(c.Trigger) == 0 {
		ers.addError(fmtErrMissing, c.filename, "trigger")
	}
}

// validateValues checks the values that have a restricted form.
func (c *Config) validateValues(ers *errList) {
	if c.Port == 0 {
		ers.addError(fmtErrInvalid, c.filename, "port", c.Port)
	}
	if strings.ContainsAny(c.Nick, " ,:!@") {
		ers.addError(fmtErrInvalid, c.filename, "nick", c.Nick)
	}
	if strings.ContainsAny(c.Trigger, " \t") {
		ers.addError(fmtErrInvalid, c.filename, "trigger", c.Trigger)
	}
	for _, ch := range c.Channels {
		if len(ch) == 0 || strings.ContainsAny(ch, " ,") {
			ers.addError(fmtErrInvalid, c.filename, "channel", ch)
		}
	}
	if _, err := log15.LvlFromString(c.LogLevel); err != nil {
		ers.addError(fmtErrInvalid, c.filename, "loglevel", c.LogLevel)
	}
}

// DisplayErrors is a helper function to log the output of all config errors
// to the given logger, or the root logger when it's nil.
func (c *Config) DisplayErrors(logger log15.Logger) {
	if logger == nil {
		logger = log15.Root()
	}

	c.protect.RLock()
	defer c.protect.RUnlock()

	for _, e := range c.errors {
		logger.Error(e.Error())
	}
}
