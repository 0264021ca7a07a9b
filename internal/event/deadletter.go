package event

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/osse101/lotto/internal/logger"
)

// DeadLetterSchemaVersion versions the line format of the dead-letter file
const DeadLetterSchemaVersion = "1.0"

// DeadLetterEntry is one line of the dead-letter file
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	Event         Event     `json:"event"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
}

// DeadLetterWriter appends events that could not be delivered to a JSONL
// file so they can be inspected or replayed by hand
type DeadLetterWriter struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewDeadLetterWriter opens path for appending, creating it if needed
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, deadLetterFileMode)
	if err != nil {
		return nil, err
	}
	return &DeadLetterWriter{file: f, enc: json.NewEncoder(f)}, nil
}

// Write records event after attempts failed deliveries
func (w *DeadLetterWriter) Write(event Event, attempts int, lastError error) error {
	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Timestamp:     time.Now().UTC(),
		Event:         event,
		Attempts:      attempts,
	}
	if lastError != nil {
		entry.LastError = lastError.Error()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return os.ErrClosed
	}
	// Encode writes the entry and its newline in one call
	if err := w.enc.Encode(entry); err != nil {
		return err
	}
	logger.Warn(LogMsgEventDeadLettered, "event_type", event.Type, "attempts", attempts, "error", entry.LastError)
	return nil
}

// Close closes the file. Later writes fail with os.ErrClosed.
func (w *DeadLetterWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file, w.enc = nil, nil
	return err
}

// ReadDeadLetters parses a dead-letter file. A missing file has no entries.
func ReadDeadLetters(path string) ([]DeadLetterEntry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []DeadLetterEntry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for line := 1; sc.Scan(); line++ {
		var e DeadLetterEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return entries, fmt.Errorf("dead-letter line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}
