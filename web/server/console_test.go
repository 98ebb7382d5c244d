package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func receive(t *testing.T, messageChan <-chan ConsoleMessage) ConsoleMessage {
	t.Helper()
	select {
	case msg := <-messageChan:
		return msg
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for console message")
		return ConsoleMessage{}
	}
}

func TestWebLogger_WorkerSummary(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("render-worker", messageChan)

	logger.Printf("Worker %d finished after %d slices\n", 3, 64)

	msg := receive(t, messageChan)
	if msg.Message != "Worker 3 finished after 64 slices\n" {
		t.Errorf("Expected worker summary, got %q", msg.Message)
	}
	if msg.Level != "info" {
		t.Errorf("Expected level 'info', got '%s'", msg.Level)
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Errorf("Timestamp seems too old: %v", msg.Timestamp)
	}
}

func TestWebLogger_SessionLines(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	world := scene.NewDefaultScene().World

	// Lines in the order a finished session writes them
	lines := []struct {
		format string
		args   []interface{}
	}{
		{"Scene %s: %s\n", []interface{}{"default", world.Stats()}},
		{"Number of bounces: %d\n", []interface{}{int64(52311)}},
		{"Time elapsed: %dms\n", []interface{}{int64(184)}},
	}

	logger := NewWebLogger("render-session", messageChan)
	for _, line := range lines {
		logger.Printf(line.format, line.args...)
	}

	for i, line := range lines {
		msg := receive(t, messageChan)
		expected := fmt.Sprintf(line.format, line.args...)
		if msg.Message != expected {
			t.Errorf("Line %d: expected %q, got %q", i, expected, msg.Message)
		}
	}
}

func TestWebLogger_ChannelFullDoesNotBlock(t *testing.T) {
	// One slot for a whole worker pool's worth of lines
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("render-full", messageChan)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 32; i++ {
			logger.Printf("Worker %d finished after %d slices\n", i, 8)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Logger blocked on a full console channel")
	}

	if msg := receive(t, messageChan); msg.Message != "Worker 0 finished after 8 slices\n" {
		t.Errorf("Expected the first worker line to be kept, got %q", msg.Message)
	}
}

func TestWebLogger_NilChannel(t *testing.T) {
	logger := NewWebLogger("render-nil", nil)

	// Printing without a console must not panic
	logger.Printf("Number of bounces: %d\n", 0)
}

func TestWebLogger_Levels(t *testing.T) {
	panicErr := errors.New("worker 1: panic rendering slice [0, 16): boom")

	tests := []struct {
		message string
		level   string
	}{
		{"Worker 2 finished after 64 slices\n", "info"},
		{"Time elapsed: 12ms\n", "info"},
		{"Render stopped: " + panicErr.Error() + "\n", "error"},
		{"Render stopped: context canceled\n", "error"},
		{"Render stopped: " + renderer.ErrInvalidConfig.Error() + "\n", "error"},
		{"Render warning: Large image with high samples may render slowly\n", "warning"},
		{"Loaded bunny.ply: 3 degenerate triangles skipped\n", "warning"},
	}

	for _, tt := range tests {
		messageChan := make(chan ConsoleMessage, 1)
		NewWebLogger("render-levels", messageChan).Printf("%s", tt.message)

		msg := receive(t, messageChan)
		if msg.Level != tt.level {
			t.Errorf("Message %q: expected level %q, got %q", tt.message, tt.level, msg.Level)
		}
	}
}

func TestConsoleMessage_JSONSerialization(t *testing.T) {
	msg := ConsoleMessage{
		Message:   "Number of bounces: 1024\n",
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:     "info",
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	expected := `{"message":"Number of bounces: 1024\n","timestamp":"2024-01-02T03:04:05Z","level":"info"}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}
}
