package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// progressInterval is the minimum time between progress events
const progressInterval = 250 * time.Millisecond

// ProgressUpdate is sent while slices are arriving
type ProgressUpdate struct {
	Progress      float64 `json:"progress"`      // Fraction of pixels written
	PixelsWritten int     `json:"pixelsWritten"` // Pixels written so far
	TotalPixels   int     `json:"totalPixels"`   // Width * height
	ElapsedMs     int64   `json:"elapsedMs"`
	ImageData     string  `json:"imageData"` // Base64 encoded PNG of the partial frame
}

// CompleteUpdate is sent once the render has finished
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded 16-bit PNG
	Stats     Stats  `json:"stats"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// handleRender renders a scene and streams progress via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)

	// Start single SSE writer goroutine; it drains the channel before the handler returns
	writerDone := make(chan struct{})
	go func() {
		s.writeSSEEvents(w, ctx, sseEventChan)
		close(writerDone)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	// Parse and validate request
	req, sceneObj, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Setup console logging and streaming
	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
		close(consoleDone)
	}()
	// Console lines must be queued before the final complete or error event
	consoleOpen := true
	stopConsole := func() {
		if consoleOpen {
			consoleOpen = false
			close(consoleChan)
			<-consoleDone
		}
	}
	defer stopConsole()

	rend, err := s.newRenderer(req, sceneObj, webLogger)
	if err != nil {
		stopConsole()
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	webLogger.Printf("Scene %s: %s\n", sceneObj.Name, sceneObj.World.Stats())

	startTime := time.Now()
	session := rend.Start(ctx)
	var lastUpdate time.Time
	err = session.Wait(ctx, func(int) {
		if session.Done() || time.Since(lastUpdate) < progressInterval {
			return
		}
		lastUpdate = time.Now()
		s.handleProgress(ctx, sseEventChan, session, startTime)
	})
	// Every worker has exited, so nothing logs after this
	stopConsole()
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	s.handleComplete(ctx, sseEventChan, session)
}

// handleImage renders a scene and returns it as a PNG or BMP download
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, sceneObj, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request: " + err.Error()})
		return
	}

	rend, err := s.newRenderer(req, sceneObj, log.Default())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	frame, _, err := rend.Render(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Rendering failed: " + err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := frame.Encode(&buf, req.Format); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "image/"+req.Format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("render_%s.%s", sceneObj.Name, req.Format)))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Error writing image: %v", err)
	}
}

// newRenderer builds the camera and renderer for a validated request
func (s *Server) newRenderer(req *RenderRequest, sceneObj *scene.Scene, logger core.Logger) (*renderer.Renderer, error) {
	camera, err := sceneObj.NewCamera()
	if err != nil {
		return nil, err
	}
	return renderer.NewRenderer(sceneObj.World, camera, req.renderConfig(), logger)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				// Channel closed
				return
			}

			// Write SSE event
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console messages until the console channel is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		// Send to unified SSE channel
		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		}
	}
}

// handleProgress sends the partial frame
func (s *Server) handleProgress(ctx context.Context, sseEventChan chan SSEEvent, session *renderer.Session, startTime time.Time) {
	frame := session.FrameBuffer()
	imageData, err := s.imageToBase64PNG(frame.ToImage())
	if err != nil {
		log.Printf("Error encoding progress image: %v", err)
		return
	}

	update := ProgressUpdate{
		Progress:      session.Progress(),
		PixelsWritten: session.Stats().TotalPixels,
		TotalPixels:   frame.Width * frame.Height,
		ElapsedMs:     time.Since(startTime).Milliseconds(),
		ImageData:     imageData,
	}
	s.sendEvent(ctx, sseEventChan, "progress", update)
}

// handleComplete sends the final frame and statistics
func (s *Server) handleComplete(ctx context.Context, sseEventChan chan SSEEvent, session *renderer.Session) {
	var buf bytes.Buffer
	if err := session.FrameBuffer().Encode(&buf, renderer.FormatPNG); err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	update := CompleteUpdate{
		ImageData: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Stats:     newStats(session.Stats()),
	}
	s.sendEvent(ctx, sseEventChan, "complete", update)
}

// sendEvent marshals v and queues it on the SSE channel
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan SSEEvent, eventType string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: string(data)}:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
