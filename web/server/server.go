package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Parameter limits shared by every endpoint
const (
	minImageSize = 16
	maxImageSize = 2000
	maxSamples   = 1024
	maxBounces   = 64
	maxWorkers   = 256
	maxSlices    = 65536
)

// Server handles web requests for the path tracer
type Server struct {
	port      int
	staticDir string
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port, staticDir: "static/"}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string `json:"scene"`   // Built-in scene ID or "mesh:<name>"
	Width   int    `json:"width"`   // Image width
	Height  int    `json:"height"`  // Image height
	Samples int    `json:"samples"` // Samples per pixel
	Bounces int    `json:"bounces"` // Maximum bounces per path
	Workers int    `json:"workers"` // Worker count (0 = CPU count)
	Slices  int    `json:"slices"`  // Slice count
	Seed    int64  `json:"seed"`    // Base random seed
	Format  string `json:"format"`  // "png" or "bmp"
}

// Stats represents render statistics
type Stats struct {
	TotalPixels     int     `json:"totalPixels"`
	TotalSamples    int64   `json:"totalSamples"`
	TotalBounces    int64   `json:"totalBounces"`
	AverageSamples  float64 `json:"averageSamples"`
	EarlyExitPixels int     `json:"earlyExitPixels"`
	Slices          int     `json:"slices"`
	Workers         int     `json:"workers"`
	ElapsedMs       int64   `json:"elapsedMs"`
	Summary         string  `json:"summary"`
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:     stats.TotalPixels,
		TotalSamples:    stats.TotalSamples,
		TotalBounces:    stats.TotalBounces,
		AverageSamples:  stats.AverageSamples(),
		EarlyExitPixels: stats.EarlyExitPixels,
		Slices:          stats.Slices,
		Workers:         stats.Workers,
		ElapsedMs:       stats.Elapsed.Milliseconds(),
		Summary:         stats.Summary(),
	}
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	// API endpoints
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and mesh scenes grouped by category
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := s.createScene(sceneName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.SamplingConfig
	defaults := renderer.DefaultRenderConfig()
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":   config.Width,
			"height":  config.Height,
			"samples": config.SamplesPerPixel,
			"bounces": config.MaxBounces,
			"workers": defaults.NumWorkers,
			"slices":  defaults.SliceCount,
			"seed":    defaults.Seed,
		},
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": minImageSize, "max": maxImageSize},
			"height":  map[string]int{"min": minImageSize, "max": maxImageSize},
			"samples": map[string]int{"min": 1, "max": maxSamples},
			"bounces": map[string]int{"min": 0, "max": maxBounces},
			"workers": map[string]int{"min": 0, "max": maxWorkers},
			"slices":  map[string]int{"min": 1, "max": maxSlices},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// parseRenderRequest parses and validates the query parameters shared by the render,
// image and inspect endpoints. Unset values fall back to the scene's defaults.
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, *scene.Scene, error) {
	values := r.URL.Query()
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		return nil, nil, err
	}
	sampling := sceneObj.SamplingConfig
	defaults := renderer.DefaultRenderConfig()

	if req.Width, err = parseIntParam(values, "width", sampling.Width, minImageSize, maxImageSize); err != nil {
		return nil, nil, err
	}
	if req.Height, err = parseIntParam(values, "height", sampling.Height, minImageSize, maxImageSize); err != nil {
		return nil, nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", sampling.SamplesPerPixel, 1, maxSamples); err != nil {
		return nil, nil, err
	}
	if req.Bounces, err = parseIntParam(values, "bounces", sampling.MaxBounces, 0, maxBounces); err != nil {
		return nil, nil, err
	}
	if req.Workers, err = parseIntParam(values, "workers", defaults.NumWorkers, 0, maxWorkers); err != nil {
		return nil, nil, err
	}
	if req.Slices, err = parseIntParam(values, "slices", defaults.SliceCount, 1, maxSlices); err != nil {
		return nil, nil, err
	}
	if req.Seed, err = parseInt64Param(values, "seed", defaults.Seed); err != nil {
		return nil, nil, err
	}

	req.Format = strings.ToLower(values.Get("format"))
	if req.Format == "" {
		req.Format = renderer.FormatPNG
	}
	if req.Format != renderer.FormatPNG && req.Format != renderer.FormatBMP {
		return nil, nil, fmt.Errorf("format must be %s or %s, got: %s", renderer.FormatPNG, renderer.FormatBMP, req.Format)
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Samples > 64 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, sceneObj, nil
}

// renderConfig converts a request into scheduler settings
func (req *RenderRequest) renderConfig() renderer.RenderConfig {
	config := renderer.DefaultRenderConfig()
	config.Width = req.Width
	config.Height = req.Height
	config.SamplesPerPixel = req.Samples
	config.MaxBounces = req.Bounces
	config.NumWorkers = req.Workers
	config.SliceCount = req.Slices
	config.Seed = req.Seed
	return config
}

// createScene resolves built-in and mesh scene IDs. File paths are not accepted.
func (s *Server) createScene(id string) (*scene.Scene, error) {
	if strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("unknown scene: %s", id)
	}
	sceneObj, err := scene.Lookup(id)
	if err != nil {
		return nil, fmt.Errorf("unknown scene: %s", id)
	}
	return sceneObj, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseInt64Param parses an unbounded 64-bit integer parameter
func parseInt64Param(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
