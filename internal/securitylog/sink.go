package securitylog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Default rotation bounds, matching the retention the dashboard expects.
const (
	DefaultMaxSize  = 5 * 1024 * 1024
	DefaultMaxFiles = 5
)

// Sink is a size- and count-bounded append-only JSONL file. Appends are
// atomic with respect to rotation: the mutex is held across the size check,
// the rename chain, and the write, so no line is ever split or dropped.
type Sink struct {
	mu       sync.Mutex
	path     string
	f        *os.File
	size     int64
	maxSize  int64
	maxFiles int
}

// NewSink creates or opens the log file at path, creating parent directories
// as needed. maxFiles counts the live file plus its rotated predecessors.
func NewSink(path string, maxSize int64, maxFiles int) (*Sink, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	return &Sink{
		path:     path,
		f:        f,
		size:     info.Size(),
		maxSize:  maxSize,
		maxFiles: maxFiles,
	}, nil
}

// Path returns the live log file path, used by the stream tailer.
func (s *Sink) Path() string { return s.path }

// Append marshals v and appends it as one line. The write is bounded: it
// never blocks beyond file I/O plus at most one rotation.
func (s *Sink) Append(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal log line: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.size+int64(len(data)) > s.maxSize {
		if err := s.rotate(); err != nil {
			return err
		}
	}

	n, err := s.f.Write(data)
	s.size += int64(n)
	if err != nil {
		return fmt.Errorf("append log line: %w", err)
	}
	return nil
}

// rotate shifts security.log -> security.log.1 -> ... dropping the oldest.
// Caller holds s.mu.
func (s *Sink) rotate() error {
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("close log for rotation: %w", err)
	}

	oldest := fmt.Sprintf("%s.%d", s.path, s.maxFiles-1)
	_ = os.Remove(oldest)
	for i := s.maxFiles - 2; i >= 1; i-- {
		_ = os.Rename(fmt.Sprintf("%s.%d", s.path, i), fmt.Sprintf("%s.%d", s.path, i+1))
	}
	if err := os.Rename(s.path, s.path+".1"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rotate log: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("reopen log after rotation: %w", err)
	}
	s.f = f
	s.size = 0
	return nil
}

// Close closes the underlying file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// ReadRecent returns up to n events from the tail of the live log file.
// Malformed lines are skipped.
func ReadRecent(path string, n int) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return events, err
	}
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	return events, nil
}
