package admin

import (
	"sync"
	"time"
)

// Outcome labels for log entries.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// maxLogEntries bounds the in-memory log; older entries are dropped.
const maxLogEntries = 50

// LogEntry is one recorded data-service call.
type LogEntry struct {
	Timestamp time.Time
	Operation string
	Table     string
	Status    string
	Message   string
}

// APILog is a bounded newest-first log of data-service calls, displayed in
// the diagnostics panel.
type APILog struct {
	mu      sync.Mutex
	entries []LogEntry
}

func NewAPILog() *APILog {
	return &APILog{}
}

// Add prepends an entry, trimming the log to its bound.
func (l *APILog) Add(operation, table, status, message string) {
	entry := LogEntry{
		Timestamp: time.Now(),
		Operation: operation,
		Table:     table,
		Status:    status,
		Message:   message,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]LogEntry{entry}, l.entries...)
	if len(l.entries) > maxLogEntries {
		l.entries = l.entries[:maxLogEntries]
	}
}

// Recent returns up to n entries, newest first.
func (l *APILog) Recent(n int) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]LogEntry, n)
	copy(out, l.entries[:n])
	return out
}

// Empty reports whether nothing has been logged yet.
func (l *APILog) Empty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries) == 0
}
