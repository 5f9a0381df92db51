package console

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mveld/empadmin/internal/dependencies/mocks"
)

func newTestLog() (*Log, *mocks.MockClock) {
	clk := mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewLog(clk), clk
}

func TestLogRecordsCommandAndResponse(t *testing.T) {
	log, _ := newTestLog()

	log.Command("plys")
	log.Response("plys", "Global players list:", nil)
	log.Response("kick 'Nova' 'N/A'", "", errors.New("read timeout"))

	entries := log.Recent()
	require.Len(t, entries, 3)
	assert.Equal(t, KindCommand, entries[0].Kind)
	assert.Equal(t, "plys", entries[0].Text)
	assert.Equal(t, KindResponse, entries[1].Kind)
	assert.Equal(t, KindError, entries[2].Kind)
	assert.Contains(t, entries[2].Text, "read timeout")
}

func TestLogBoundsHistory(t *testing.T) {
	log, _ := newTestLog()

	for i := 0; i < maxEntries+50; i++ {
		log.Append(KindInfo, fmt.Sprintf("entry %d", i))
	}

	entries := log.Recent()
	assert.Len(t, entries, maxEntries)
	assert.Equal(t, "entry 50", entries[0].Text)
}

func TestLogSubscribeReceivesNewEntries(t *testing.T) {
	log, _ := newTestLog()

	ch, cancel := log.Subscribe()
	defer cancel()

	log.Append(KindInfo, "hello")

	select {
	case entry := <-ch:
		assert.Equal(t, "hello", entry.Text)
	case <-time.After(time.Second):
		t.Fatal("no entry received")
	}
}

func TestLogCancelClosesChannel(t *testing.T) {
	log, _ := newTestLog()

	ch, cancel := log.Subscribe()
	cancel()

	log.Append(KindInfo, "after cancel")

	entry, open := <-ch
	assert.False(t, open, "expected channel closed, got entry %q", entry.Text)

	// Cancelling again must not panic on the already-closed channel
	cancel()
}

func TestLogTruncatesLongResponses(t *testing.T) {
	log, _ := newTestLog()

	long := make([]byte, maxResponseLen*2)
	for i := range long {
		long[i] = 'x'
	}
	log.Response("gents", string(long), nil)

	entries := log.Recent()
	require.Len(t, entries, 1)
	assert.Less(t, len(entries[0].Text), maxResponseLen+10)
}
