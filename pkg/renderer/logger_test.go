package renderer

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestWriterLogger_SerializesWorkers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Printf("Worker %d: band %d done\n", id, id)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 16 {
		t.Fatalf("Expected 16 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "Worker ") || !strings.HasSuffix(line, " done") {
			t.Errorf("Garbled log line %q", line)
		}
	}
}

func TestLoggers_ImplementInterface(t *testing.T) {
	// Neither logger may panic on arbitrary arguments
	NewDiscardLogger().Printf("dropped %d %s\n", 1, "message")
	NewDefaultLogger().Printf("")
}
