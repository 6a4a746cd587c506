// Package stream tails the security log and fans new events out to
// WebSocket subscribers and the stats aggregator.
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
)

const defaultPollInterval = 500 * time.Millisecond

// Tailer follows a JSONL security log by byte offset. The offset only moves
// forward past complete lines; when the file shrinks underneath it (rotation
// or truncation) the offset clamps to zero and reading restarts from the new
// head. Each complete line is parsed and handed to the sink function.
type Tailer struct {
	path     string
	interval time.Duration
	logger   *slog.Logger
	sink     func(securitylog.Event)

	offset int64
}

// NewTailer creates a tailer over the log at path. Events are delivered to
// sink in file order from a single goroutine.
func NewTailer(path string, interval time.Duration, logger *slog.Logger, sink func(securitylog.Event)) *Tailer {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Tailer{
		path:     path,
		interval: interval,
		logger:   logger,
		sink:     sink,
	}
}

// Offset returns the current byte offset. It advances only when Poll or Run
// consumes complete lines.
func (t *Tailer) Offset() int64 {
	return t.offset
}

// SeekEnd moves the offset to the current end of file so that Run only
// reports events appended after startup. Missing file leaves the offset at
// zero.
func (t *Tailer) SeekEnd() error {
	info, err := os.Stat(t.path)
	if errors.Is(err, os.ErrNotExist) {
		t.offset = 0
		return nil
	}
	if err != nil {
		return err
	}
	t.offset = info.Size()
	return nil
}

// Run polls the log until ctx is cancelled. Cancellation is observed within
// one poll interval.
func (t *Tailer) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.Poll(ctx); err != nil {
				t.logger.WarnContext(ctx, "security log poll failed", "error", err, "path", t.path)
			}
		}
	}
}

// Poll reads every complete line appended since the last poll and delivers
// the parsed events. Malformed lines are skipped without blocking the stream.
func (t *Tailer) Poll(ctx context.Context) error {
	f, err := os.Open(t.path)
	if errors.Is(err, os.ErrNotExist) {
		t.offset = 0
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() < t.offset {
		// The file shrank: it was rotated or truncated. Restart from the
		// head rather than reading from the middle of a fresh file.
		t.logger.DebugContext(ctx, "security log shrank, resetting offset",
			"path", t.path, "offset", t.offset, "size", info.Size())
		t.offset = 0
	}
	if info.Size() == t.offset {
		return nil
	}

	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return err
	}

	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			// A partial trailing line stays unconsumed; the next poll
			// picks it up once the writer finishes it.
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		t.offset += int64(len(line))

		var ev securitylog.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			t.logger.DebugContext(ctx, "skipping malformed log line", "error", err)
			continue
		}
		t.sink(ev)
	}
}
