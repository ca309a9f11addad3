package irc

import (
	"regexp"
	"strings"
)

var (
	// rgxHost validates and splits hosts.
	rgxHost = regexp.MustCompile(
		`(?i)^` +
			`([\w\x5B-\x60][\w\d\x5B-\x60]*)` + // nickname
			`!([^\0@\s]+)` + // username
			`@([^\0\s]+)` + // host
			`$`,
	)
)

// PrefixKind classifies the sender prefix of a protocol line.
type PrefixKind int

// Kinds of prefixes.
const (
	// PrefixNone means the line carried no prefix.
	PrefixNone PrefixKind = iota
	// PrefixServer is a server name such as irc.example.net
	PrefixServer
	// PrefixUser is a user, either a bare nick or nick!user@host
	PrefixUser
)

// String returns a name for the kind, useful in log output.
func (p PrefixKind) String() string {
	switch p {
	case PrefixServer:
		return "server"
	case PrefixUser:
		return "user"
	}
	return "none"
}

// Kind classifies a raw prefix. Anything with a ! or @ is a user, otherwise a
// dotted name is a server and a bare word is taken to be a nick.
func Kind(prefix string) PrefixKind {
	switch {
	case len(prefix) == 0:
		return PrefixNone
	case strings.ContainsAny(prefix, "!@"):
		return PrefixUser
	case strings.ContainsRune(prefix, '.'):
		return PrefixServer
	}
	return PrefixUser
}

// Host is a type that represents an irc hostname. nickname!username@hostname
type Host string

// Nick returns the nick of the host.
func (h Host) Nick() string {
	return Nick(string(h))
}

// Username returns the username of the host.
func (h Host) Username() string {
	return Username(string(h))
}

// Hostname returns the host of the host.
func (h Host) Hostname() string {
	return Hostname(string(h))
}

// Split splits a host into it's fragments: nick, user, and hostname. If the
// format is not acceptable empty string is returned for everything.
func (h Host) Split() (nick, user, hostname string) {
	return Split(string(h))
}

// Kind classifies the host, see Kind.
func (h Host) Kind() PrefixKind {
	return Kind(string(h))
}

// String returns the fullhost of this host.
func (h Host) String() string {
	return string(h)
}

// IsValid checks to ensure the host is in valid format.
func (h Host) IsValid() bool {
	return rgxHost.MatchString(string(h))
}

// Nick returns the nick of the host. This is best effort, it returns
// everything before the first ! or @.
func Nick(host string) string {
	index := strings.IndexAny(host, "!@")
	if index >= 0 {
		return host[:index]
	}
	return host
}

// Username returns the username of the host.
func Username(host string) string {
	_, user, _ := Split(host)
	return user
}

// Hostname returns the host of the host.
func Hostname(host string) string {
	_, _, hostname := Split(host)
	return hostname
}

// Split splits a host into it's fragments: nick, user, and hostname. If the
// format is not acceptable empty string is returned for everything.
func Split(host string) (nick, user, hostname string) {
	fragments := rgxHost.FindStringSubmatch(host)
	if len(fragments) == 0 {
		return
	}
	return fragments[1], fragments[2], fragments[3]
}
