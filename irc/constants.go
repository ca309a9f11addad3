package irc

// IRC Messages, these are the lowercase names events carry after parsing.
// They are 1-1 constant to string lookups for ease of use when registering
// handlers etc.
const (
	PRIVMSG = "privmsg"
	NOTICE  = "notice"
	JOIN    = "join"
	PART    = "part"
	QUIT    = "quit"
	NICK    = "nick"
	PING    = "ping"
	PONG    = "pong"
	ERROR   = "error"
)

// IRC Numerics the bot reacts to.
const (
	RPL_WELCOME          = "001"
	ERR_ERRONEUSNICKNAME = "432"
	ERR_NICKNAMEINUSE    = "433"
)

// Pseudo Messages, these messages are not real messages defined by the irc
// protocol but the bot provides them to allow for additional messages to be
// handled such as connects which the irc protocol has no message for.
const (
	RAW     = "raw"
	CONNECT = "connect"
)
