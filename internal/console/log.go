package console

import (
	"sync"
	"time"

	"github.com/mveld/empadmin/internal/dependencies/clock"
)

const (
	// maxEntries bounds the in-memory history handed to late subscribers
	maxEntries = 500
	// maxResponseLen truncates stored responses; full entity dumps can run
	// to tens of kilobytes
	maxResponseLen = 2000
)

// EntryKind classifies an audit log entry
type EntryKind string

const (
	KindCommand  EntryKind = "command"
	KindResponse EntryKind = "response"
	KindError    EntryKind = "error"
	KindInfo     EntryKind = "info"
)

// Entry is one line of the console audit trail
type Entry struct {
	Time time.Time `json:"time"`
	Kind EntryKind `json:"kind"`
	Text string    `json:"text"`
}

// Log is a bounded audit trail of every console command attempt, mirroring
// the log pane the original tool kept on screen. Subscribers receive entries
// as they are appended; slow subscribers drop entries rather than block the
// transport.
type Log struct {
	clock clock.Clock

	mu      sync.RWMutex
	entries []Entry
	subs    map[chan Entry]struct{}
}

// NewLog creates an empty audit log
func NewLog(clk clock.Clock) *Log {
	return &Log{
		clock: clk,
		subs:  make(map[chan Entry]struct{}),
	}
}

// Command records an outbound command (implements rcon.CommandLog)
func (l *Log) Command(command string) {
	l.Append(KindCommand, command)
}

// Response records the outcome of a command (implements rcon.CommandLog)
func (l *Log) Response(command, response string, err error) {
	if err != nil {
		l.Append(KindError, command+": "+err.Error())
		return
	}
	if len(response) > maxResponseLen {
		response = response[:maxResponseLen] + "…"
	}
	l.Append(KindResponse, response)
}

// Append adds one entry and fans it out to subscribers
func (l *Log) Append(kind EntryKind, text string) {
	entry := Entry{Time: l.clock.Now(), Kind: kind, Text: text}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if len(l.entries) > maxEntries {
		l.entries = l.entries[len(l.entries)-maxEntries:]
	}
	for sub := range l.subs {
		select {
		case sub <- entry:
		default:
		}
	}
	l.mu.Unlock()
}

// Recent returns a copy of the retained history, oldest first
func (l *Log) Recent() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Subscribe registers a channel that receives future entries. The returned
// cancel func must be called when the subscriber is done; the channel is
// closed by cancel.
func (l *Log) Subscribe() (<-chan Entry, func()) {
	ch := make(chan Entry, 64)
	l.mu.Lock()
	l.subs[ch] = struct{}{}
	l.mu.Unlock()

	return ch, func() {
		l.mu.Lock()
		if _, ok := l.subs[ch]; ok {
			delete(l.subs, ch)
			close(ch)
		}
		l.mu.Unlock()
	}
}
