package cmd

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// ReplyKind tells what a handler handed back.
type ReplyKind int

// The kinds of replies a handler can give.
const (
	// NoReply means the handler chose not to respond.
	NoReply ReplyKind = iota
	// TextReply is a single line.
	TextReply
	// SequenceReply is several lines sent together.
	SequenceReply
	// AsyncReply is a Deferred that produces a text or sequence later.
	AsyncReply
	// Malformed is anything else, it is logged and dropped.
	Malformed
)

var replyKindNames = [...]string{
	NoReply:       "none",
	TextReply:     "text",
	SequenceReply: "sequence",
	AsyncReply:    "async",
	Malformed:     "malformed",
}

func (k ReplyKind) String() string {
	if k < 0 || int(k) >= len(replyKindNames) {
		return fmt.Sprintf("ReplyKind(%d)", int(k))
	}
	return replyKindNames[k]
}

// Reply is a handler's return value sorted by kind.
type Reply struct {
	Kind ReplyKind
	// Lines is set for TextReply and SequenceReply.
	Lines []string
	// Deferred is set for AsyncReply.
	Deferred *Deferred
	// Value is the original value, kept for Malformed diagnostics.
	Value interface{}
}

// NewReply sorts a value returned from a handler. nil (including a nil
// *Deferred) is NoReply, a string is TextReply, a []string is SequenceReply,
// a *Deferred is AsyncReply and everything else is Malformed.
func NewReply(value interface{}) Reply {
	switch v := value.(type) {
	case nil:
		return Reply{Kind: NoReply}
	case string:
		return Reply{Kind: TextReply, Lines: []string{v}, Value: value}
	case []string:
		return Reply{Kind: SequenceReply, Lines: v, Value: value}
	case *Deferred:
		if v == nil {
			return Reply{Kind: NoReply}
		}
		return Reply{Kind: AsyncReply, Deferred: v, Value: value}
	default:
		return Reply{Kind: Malformed, Value: value}
	}
}

// Deferred is a value that will be available later. It is settled exactly
// once by Resolve or Reject, later attempts are ignored.
type Deferred struct {
	once sync.Once
	done chan struct{}

	value interface{}
	err   error
}

// NewDeferred creates an unsettled Deferred.
func NewDeferred() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// Resolved creates a Deferred that is already resolved to value.
func Resolved(value interface{}) *Deferred {
	d := NewDeferred()
	d.Resolve(value)
	return d
}

// Async runs fn in its own goroutine and settles the returned Deferred with
// its result. A panic inside fn rejects the Deferred.
func Async(fn func() (interface{}, error)) *Deferred {
	d := NewDeferred()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.Reject(errors.Errorf("cmd: Async function panicked: %v", r))
			}
		}()

		value, err := fn()
		if err != nil {
			d.Reject(err)
			return
		}
		d.Resolve(value)
	}()
	return d
}

// Resolve settles the Deferred with a value. Returns false if it was
// already settled.
func (d *Deferred) Resolve(value interface{}) bool {
	return d.settle(value, nil)
}

// Reject settles the Deferred with an error. Returns false if it was
// already settled.
func (d *Deferred) Reject(err error) bool {
	if err == nil {
		err = errors.New("cmd: Deferred rejected with nil error")
	}
	return d.settle(nil, err)
}

func (d *Deferred) settle(value interface{}, err error) bool {
	settled := false
	d.once.Do(func() {
		d.value, d.err = value, err
		close(d.done)
		settled = true
	})
	return settled
}

// Done is closed once the Deferred is settled.
func (d *Deferred) Done() <-chan struct{} {
	return d.done
}

// Result blocks until the Deferred is settled and returns the outcome.
func (d *Deferred) Result() (interface{}, error) {
	<-d.done
	return d.value, d.err
}
