package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
)

// LogEntry is one immutable audit record of a single ticket transition.
// Timestamp is assigned by the lifecycle engine at append time; caller-supplied
// values are discarded.
type LogEntry struct {
	Action    enums.TicketAction `json:"action"`
	Message   string             `json:"message,omitempty"`
	By        string             `json:"by,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// LogEntries is the ordered, append-only audit log stored in the ticket row
// as a jsonb array. Insertion order is chronological order.
type LogEntries []LogEntry

func (l *LogEntries) Scan(src any) error {
	if src == nil {
		*l = LogEntries{}
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return l.parse(v)
	case string:
		return l.parse([]byte(v))
	default:
		return fmt.Errorf("LogEntries: unsupported Scan type %T", src)
	}
}

func (l LogEntries) Value() (driver.Value, error) {
	if l == nil {
		l = LogEntries{}
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("LogEntries: marshal: %w", err)
	}
	return string(raw), nil
}

// Append returns a new slice with entry added; the receiver is never mutated
// in place so loaded rows stay comparable to what was read.
func (l LogEntries) Append(entry LogEntry) LogEntries {
	out := make(LogEntries, 0, len(l)+1)
	out = append(out, l...)
	out = append(out, entry)
	return out
}

// Last returns the most recent entry, if any.
func (l LogEntries) Last() (LogEntry, bool) {
	if len(l) == 0 {
		return LogEntry{}, false
	}
	return l[len(l)-1], true
}

func (l *LogEntries) parse(raw []byte) error {
	if len(raw) == 0 {
		*l = LogEntries{}
		return nil
	}
	var entries []LogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("LogEntries: unmarshal: %w", err)
	}
	*l = entries
	return nil
}
