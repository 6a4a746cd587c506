package securitylog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkAppendsOneJSONObjectPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "security.log")
	sink, err := NewSink(path, 0, 0)
	require.NoError(t, err)
	defer sink.Close()

	ev := Event{
		Timestamp:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Key:        "UNAUTHORIZED_ACCESS_BLOCKED",
		Severity:   SeverityHigh,
		SubjectID:  1,
		ResourceID: "15",
		Blocked:    true,
	}
	require.NoError(t, sink.Append(ev))
	require.NoError(t, sink.Append(ev))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var parsed Event
		require.NoError(t, json.Unmarshal([]byte(line), &parsed))
		assert.Equal(t, "UNAUTHORIZED_ACCESS_BLOCKED", parsed.Key)
		assert.True(t, parsed.Blocked)
	}
}

func TestSinkRotatesBySizeAndBoundsFileCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "security.log")

	// Tiny limit so every couple of appends forces a rotation.
	sink, err := NewSink(path, 256, 3)
	require.NoError(t, err)
	defer sink.Close()

	for i := range 50 {
		require.NoError(t, sink.Append(Event{
			Key:     fmt.Sprintf("EVENT_%03d", i),
			Message: strings.Repeat("x", 64),
		}))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(entries), 3, "rotation must bound the file count")

	// The live file stays within the size limit.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(256))

	// The newest event is in the live file: rotation lost no in-flight write.
	events, err := ReadRecent(path, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "EVENT_049", events[0].Key)
}

func TestSinkConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "security.log")
	sink, err := NewSink(path, 0, 0)
	require.NoError(t, err)
	defer sink.Close()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 20 {
				_ = sink.Append(Event{Key: fmt.Sprintf("W%d_%d", n, j)})
			}
		}(i)
	}
	wg.Wait()

	events, err := ReadRecent(path, 0)
	require.NoError(t, err)
	assert.Len(t, events, 200, "no interleaved or torn lines")
}

func TestReadRecentSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "security.log")
	content := `{"event":"A","severity":"LOW"}
not json at all
{"event":"B","severity":"HIGH"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	events, err := ReadRecent(path, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "A", events[0].Key)
	assert.Equal(t, "B", events[1].Key)
}

func TestReadRecentMissingFile(t *testing.T) {
	events, err := ReadRecent(filepath.Join(t.TempDir(), "absent.log"), 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventMarshalFlattensExtra(t *testing.T) {
	ev := Event{
		Key:      "RATE_LIMIT_EXCEEDED",
		Severity: SeverityMedium,
		Extra:    map[string]any{"window": "60s", "requests": 101},
	}
	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "60s", raw["window"])
	assert.Equal(t, float64(101), raw["requests"])
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", raw["event"])
	assert.NotContains(t, raw, "Extra")
}
