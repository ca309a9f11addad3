package bot

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/inconshreveable/log15.v2"

	"github.com/aarondl/cmdbot/config"
)

// NewLogger creates the bot's logger. It writes logfmt to the configured log
// file, or to stderr for a person to read when there is none. Anything below
// the configured level is dropped.
func NewLogger(conf *config.Config) (log15.Logger, error) {
	var handler log15.Handler
	if len(conf.LogFile) > 0 {
		var err error
		handler, err = log15.FileHandler(conf.LogFile, log15.LogfmtFormat())
		if err != nil {
			return nil, errors.Wrapf(err, "bot: Failed to open log file %s",
				conf.LogFile)
		}
	} else {
		handler = log15.StreamHandler(os.Stderr, log15.TerminalFormat())
	}

	logger := log15.New()
	logger.SetHandler(log15.LvlFilterHandler(conf.Level(), handler))
	return logger, nil
}
