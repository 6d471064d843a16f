// Package history keeps the timestamped log of download outcomes shown to the
// user.
package history

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ccollins476ad/pixora/download"
)

// Placeholder is rendered when the log has no entries.
const Placeholder = "No downloads yet..."

const (
	iconSuccess = "✅"
	iconFailure = "❌"
)

// Entry is one line of the history log.
type Entry struct {
	Time    time.Time
	Message string
}

func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.Time.Format("15:04:05"), e.Message)
}

// Log is a history of download outcomes. It is safe for concurrent use.
type Log struct {
	now func() time.Time

	mtx     sync.Mutex // Protects the "entries" field.
	entries []Entry
}

// New returns an empty log. The zero Log is also ready to use.
func New() *Log {
	return &Log{now: time.Now}
}

// Add appends a message stamped with the current time.
func (l *Log) Add(msg string) Entry {
	now := l.now
	if now == nil {
		now = time.Now
	}
	e := Entry{Time: now(), Message: msg}

	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.entries = append(l.entries, e)
	return e
}

// AddResult appends a line describing the outcome of a download.
func (l *Log) AddResult(r download.Result) Entry {
	if r.OK() {
		return l.Add(iconSuccess + " " + r.Filename)
	}
	return l.Add(iconFailure + " Failed: " + r.Reason())
}

// Entries returns a copy of the log's entries, oldest first.
func (l *Log) Entries() []Entry {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	return append([]Entry(nil), l.entries...)
}

// Clear removes all entries.
func (l *Log) Clear() {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.entries = nil
}

// String renders the log, one entry per line, or Placeholder if it is empty.
func (l *Log) String() string {
	entries := l.Entries()
	if len(entries) == 0 {
		return Placeholder
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}
