package irc

import (
	"fmt"
	"io"
	"strings"
)

const (
	// MaxLength is the maximum length for an irc message. Normally it is
	// 510 bytes + crlf but the server has to truncate extra to allow for our
	// fullhost on rebroadcast to clients, so we should send less than
	// this by the maximum allowed fullhost length.
	MaxLength = 510 - 62
	// SplitBackward is the maximum number of characters split will search
	// backwards from MaxLength for a space when spliting message to long
	// to fit on one line
	SplitBackward = 20

	// fmtPrivmsgHeader creates the beginning of a privmsg.
	fmtPrivmsgHeader = "PRIVMSG %s :"
	// fmtNoticeHeader creates the beginning of a notice.
	fmtNoticeHeader = "NOTICE %s :"
	// fmtJoin creates a join message.
	fmtJoin = "JOIN :%s"
	// fmtPart creates a part message.
	fmtPart = "PART :%s"
	// fmtQuit creates a quit message.
	fmtQuit = "QUIT :%s"
	// fmtNick creates a nick message.
	fmtNick = "NICK :%s"
	// fmtPong creates a pong message.
	fmtPong = "PONG :%s"
	// fmtPass creates a pass message.
	fmtPass = "PASS :%s"
	// fmtUser creates a user message.
	fmtUser = "USER %s 0 * :%s"
)

// Writer provides common write operations in IRC protocol fashion to an
// underlying io.Writer. Every call results in one or more whole protocol
// lines passed to Write, without line endings.
type Writer interface {
	io.Writer
	// Send sends a string with spaces between non-strings.
	Send(...interface{}) error
	// Sendf sends a formatted string.
	Sendf(string, ...interface{}) error

	// Privmsg sends a privmsg with spaces between non-strings.
	Privmsg(string, ...interface{}) error
	// Privmsgf sends a formatted privmsg.
	Privmsgf(string, string, ...interface{}) error
	// Notice sends a notice with spaces between non-strings.
	Notice(string, ...interface{}) error
	// Noticef sends a formatted notice.
	Noticef(string, string, ...interface{}) error

	// Join sends a join message to the writer.
	Join(...string) error
	// Part sends a part message to the writer.
	Part(...string) error
	// Quit sends a quit message to the writer.
	Quit(string) error
	// Nick asks the server for a new nickname.
	Nick(string) error
	// Pong answers a ping.
	Pong(string) error
	// Register sends the connection registration: PASS (when a password
	// is given), NICK and USER.
	Register(nick, username, realname, password string) error
}

// Helper fullfills the Writer's many interface requirements.
type Helper struct {
	io.Writer
}

// Send sends a string with spaces between non-strings.
func (h Helper) Send(args ...interface{}) error {
	_, err := fmt.Fprint(h, args...)
	return err
}

// Sendf sends a formatted string.
func (h Helper) Sendf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(h, format, args...)
	return err
}

// Privmsg sends a string with spaces between non-strings.
func (h Helper) Privmsg(target string, args ...interface{}) error {
	header := []byte(fmt.Sprintf(fmtPrivmsgHeader, target))
	msg := []byte(fmt.Sprint(args...))
	return h.splitSend(header, msg)
}

// Privmsgf sends a formatted privmsg.
func (h Helper) Privmsgf(target, format string, args ...interface{}) error {
	header := []byte(fmt.Sprintf(fmtPrivmsgHeader, target))
	msg := []byte(fmt.Sprintf(format, args...))
	return h.splitSend(header, msg)
}

// Notice sends a string with spaces between non-strings.
func (h Helper) Notice(target string, args ...interface{}) error {
	header := []byte(fmt.Sprintf(fmtNoticeHeader, target))
	msg := []byte(fmt.Sprint(args...))
	return h.splitSend(header, msg)
}

// Noticef sends a formatted notice.
func (h Helper) Noticef(target, format string, args ...interface{}) error {
	header := []byte(fmt.Sprintf(fmtNoticeHeader, target))
	msg := []byte(fmt.Sprintf(format, args...))
	return h.splitSend(header, msg)
}

// Join sends a join message to the writer.
func (h Helper) Join(targets ...string) error {
	if len(targets) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(h, fmtJoin, strings.Join(targets, ","))
	return err
}

// Part sends a part message to the writer.
func (h Helper) Part(targets ...string) error {
	if len(targets) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(h, fmtPart, strings.Join(targets, ","))
	return err
}

// Quit sends a quit message to the writer.
func (h Helper) Quit(msg string) error {
	_, err := fmt.Fprintf(h, fmtQuit, msg)
	return err
}

// Nick sends a nick message to the writer.
func (h Helper) Nick(nick string) error {
	_, err := fmt.Fprintf(h, fmtNick, nick)
	return err
}

// Pong sends a pong message to the writer.
func (h Helper) Pong(token string) error {
	_, err := fmt.Fprintf(h, fmtPong, token)
	return err
}

// Register sends the registration burst.
func (h Helper) Register(nick, username, realname, password string) error {
	if len(password) > 0 {
		if _, err := fmt.Fprintf(h, fmtPass, password); err != nil {
			return err
		}
	}
	if err := h.Nick(nick); err != nil {
		return err
	}
	_, err := fmt.Fprintf(h, fmtUser, username, realname)
	return err
}

// splitSend breaks a message down into irc-digestable chunks based on
// MaxLength, and appends the header to each message. Will also use
// SplitBackward character look-back to see if it can split on a space instead
// of in the middle of a word. If it can, it will eliminate the space from
// the following message.
func (h Helper) splitSend(header, msg []byte) error {
	var err error
	ln, lnh := len(msg), len(header)
	msgMax := MaxLength - lnh
	if ln <= msgMax {
		_, err = h.Write(append(header, msg...))
		return err
	}

	var size int
	buf := make([]byte, MaxLength)
	for ln > 0 {
		nextWriteOffset := 0
		size = msgMax
		if ln <= msgMax {
			size = ln
		} else {
			for i := msgMax; i != 0 && i > msgMax-SplitBackward; i-- {
				if msg[i] == ' ' {
					size = i
					nextWriteOffset = 1
					break
				}
			}
		}
		copy(buf, header)
		copy(buf[lnh:], msg[:size])
		_, err = h.Write(buf[:lnh+size])
		if err != nil {
			return err
		}
		msg = msg[size+nextWriteOffset:]
		ln = len(msg)
	}

	return nil
}
