package bot

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/ergochat/irc-go/ircreader"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/aarondl/cmdbot/irc"
	"github.com/aarondl/cmdbot/parse"
)

const (
	// quitMsg is sent to the server when the bot is stopped.
	quitMsg = "Shutting down"

	// errMsgRead is when reading from the connection fails.
	errMsgRead = "bot: Failed to read from the server"
)

// Serve runs the bot on an established connection. The connection is
// registered, then every line read is parsed and dispatched in the order it
// arrived. Serve returns when the server hangs up or ctx is cancelled, in
// the latter case QUIT is sent first. The connection is always closed.
func (b *Bot) Serve(ctx context.Context, conn io.ReadWriteCloser) error {
	writer := irc.Helper{Writer: &lineWriter{w: conn}}

	b.protect.Lock()
	b.nick = b.conf.Nick
	b.writer = writer
	b.protect.Unlock()

	defer func() {
		b.protect.Lock()
		b.writer = nil
		b.protect.Unlock()
	}()

	b.dispatch(writer, irc.NewEvent(irc.CONNECT, ""))

	sctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan []byte)
	group, gctx := errgroup.WithContext(sctx)

	group.Go(func() error {
		defer cancel()
		defer close(lines)

		reader := ircreader.NewIRCReader(conn)
		for {
			line, err := reader.ReadLine()
			if err != nil {
				if err == io.EOF || gctx.Err() != nil {
					return nil
				}
				b.Error("Read failed", "err", err)
				return errors.Wrap(err, errMsgRead)
			}

			// The reader reuses its buffer.
			cpy := make([]byte, len(line))
			copy(cpy, line)

			select {
			case lines <- cpy:
			case <-gctx.Done():
				return nil
			}
		}
	})

	group.Go(func() error {
		for line := range lines {
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			b.dispatch(writer, parse.ParseBytes(line, b))
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			if err := writer.Quit(quitMsg); err != nil {
				b.Debug("Failed to send quit", "err", err)
			}
		}
		return conn.Close()
	})

	return group.Wait()
}

// dispatch sends an event to the core handler first, so the bot's own state
// is updated before anyone else sees the event, then to the dispatcher and
// finally to the commands.
func (b *Bot) dispatch(w irc.Writer, ev *irc.Event) {
	b.Debug("Event", "name", ev.Name, "raw", ev.Raw)

	if b.handler != nil {
		b.handler.Handle(w, ev)
	}
	b.dispatcher.Dispatch(w, ev)
	if ev.Name == irc.PRIVMSG {
		b.cmds.Parse(ev)
	}
}

// lineWriter terminates everything written to it as a single protocol line.
// Line endings inside a write are replaced so nothing can smuggle a second
// line onto the wire.
type lineWriter struct {
	protect sync.Mutex
	w       io.Writer
}

// Write implements io.Writer.
func (l *lineWriter) Write(buf []byte) (int, error) {
	line := make([]byte, 0, len(buf)+2)
	for _, c := range buf {
		if c == '\r' || c == '\n' {
			c = ' '
		}
		line = append(line, c)
	}
	line = append(line, '\r', '\n')

	l.protect.Lock()
	defer l.protect.Unlock()

	if _, err := l.w.Write(line); err != nil {
		return 0, err
	}
	return len(buf), nil
}
