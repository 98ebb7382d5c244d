package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/display"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	Scene   string
	Mesh    string
	Width   int
	Height  int
	Samples int
	Bounces int
	Workers int
	Slices  int
	Seed    int64
	Format  string
	Output  string
	Preview bool
	Help    bool
}

func parseOptions(args []string, output io.Writer) (options, *flag.FlagSet, error) {
	var opts options
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.Scene, "scene", "default", "Scene: "+strings.Join(scene.Names(), ", ")+", mesh:<name> or a mesh file")
	fs.StringVar(&opts.Mesh, "mesh", "", "Render a .obj, .ply, .gltf or .glb file instead of a scene")
	fs.IntVar(&opts.Width, "width", 0, "Image width (0 = scene default)")
	fs.IntVar(&opts.Height, "height", 0, "Image height (0 = scene default)")
	fs.IntVar(&opts.Samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.Bounces, "bounces", -1, "Maximum bounces per path (-1 = scene default)")
	fs.IntVar(&opts.Workers, "workers", 4, "Number of workers (0 = CPU count)")
	fs.IntVar(&opts.Slices, "slices", 256, "Number of slices the frame is split into")
	fs.Int64Var(&opts.Seed, "seed", time.Now().UnixNano(), "Random seed")
	fs.StringVar(&opts.Format, "format", renderer.FormatPNG, "Output format: png or bmp")
	fs.StringVar(&opts.Output, "output", "", "Output file (default output/<scene>/render_<timestamp>.<format>)")
	fs.BoolVar(&opts.Preview, "preview", false, "Show progress in the terminal")
	fs.BoolVar(&opts.Help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, fs, err
	}

	opts.Format = strings.ToLower(opts.Format)
	if opts.Format != renderer.FormatPNG && opts.Format != renderer.FormatBMP {
		return opts, fs, fmt.Errorf("unknown format %q (use png or bmp)", opts.Format)
	}
	return opts, fs, nil
}

func printHelp(fs *flag.FlagSet) {
	fmt.Println("Path Tracer")
	fmt.Println("Usage: pathtracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	if scenes, err := scene.ListAllScenes(); err == nil {
		for _, group := range scenes.Groups {
			for _, s := range group.Scenes {
				fmt.Printf("  %-16s - %s\n", s.ID, s.Description)
			}
		}
	}
	fmt.Println()
	fmt.Println("Press Esc or q to stop a previewed render early.")
}

// createScene resolves the scene flag, or loads -mesh when given
func createScene(sceneType, meshPath string) (*scene.Scene, error) {
	if meshPath != "" {
		return scene.NewMeshFileScene(meshPath)
	}
	if sceneType == "" {
		return nil, errors.New("no scene given")
	}
	return scene.Lookup(sceneType)
}

// renderConfig applies the command line overrides to the scene's sampling settings
func renderConfig(s *scene.Scene, opts options) renderer.RenderConfig {
	config := renderer.ConfigFromSampling(s.SamplingConfig)
	config = renderer.MergeRenderConfig(config, renderer.RenderConfig{
		Width:           opts.Width,
		Height:          opts.Height,
		SamplesPerPixel: opts.Samples,
		SliceCount:      opts.Slices,
		Seed:            opts.Seed,
	})
	if opts.Bounces >= 0 {
		config.MaxBounces = opts.Bounces
	}
	config.NumWorkers = opts.Workers
	return config
}

// outputPath returns the explicit output file or output/<scene>/render_<timestamp>.<format>
func outputPath(opts options, sceneName string, now time.Time) string {
	if opts.Output != "" {
		return opts.Output
	}
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' {
			return '_'
		}
		return r
	}, sceneName)
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", name, fmt.Sprintf("render_%s.%s", timestamp, opts.Format))
}

// run renders the selected scene and saves it, returning the written path
func run(ctx context.Context, opts options, logger core.Logger) (string, error) {
	selectedScene, err := createScene(opts.Scene, opts.Mesh)
	if err != nil {
		return "", err
	}
	logger.Printf("Using %s scene: %s\n", selectedScene.Name, selectedScene.World.Stats())

	camera, err := selectedScene.NewCamera()
	if err != nil {
		return "", err
	}

	// The preview owns the terminal while rendering
	renderLogger := logger
	if opts.Preview {
		renderLogger = core.NewNopLogger()
	}

	config := renderConfig(selectedScene, opts)
	rend, err := renderer.NewRenderer(selectedScene.World, camera, config, renderLogger)
	if err != nil {
		return "", err
	}

	var frame *renderer.FrameBuffer
	var stats renderer.RenderStats
	if opts.Preview {
		frame, stats, err = renderWithPreview(ctx, rend, selectedScene.Name)
	} else {
		frame, stats, err = rend.Render(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return "", err
	}
	if err != nil {
		logger.Printf("Render cancelled, saving partial frame\n")
	}

	logger.Printf("%s\n", stats.Summary())
	logger.Printf("Average luminance: %.3f\n", renderer.CalculateAverageLuminance(frame.ToImage()))

	filename := outputPath(opts, selectedScene.Name, time.Now())
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}
	if err := frame.Save(filename); err != nil {
		return "", err
	}
	return filename, nil
}

// renderWithPreview drives the session from the terminal preview loop
func renderWithPreview(ctx context.Context, rend *renderer.Renderer, title string) (*renderer.FrameBuffer, renderer.RenderStats, error) {
	const fps = 30

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	preview, err := display.NewPreview(title, fps)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	defer preview.Close()
	preview.Listen(ctx, cancel)

	session := rend.Start(ctx)
	ticker := time.NewTicker(time.Second / fps)
	defer ticker.Stop()

	var lastErr error
	err = session.Wait(ctx, func(int) {
		select {
		case <-ticker.C:
			status := fmt.Sprintf("%d bounces", session.Stats().TotalBounces)
			if err := preview.Draw(session.FrameBuffer(), session.Progress(), status); err != nil {
				lastErr = err
			}
		default:
		}
	})

	if err == nil {
		if finishErr := preview.Finish(session.FrameBuffer(), "done"); finishErr != nil {
			lastErr = finishErr
		}
		// Leave the final frame up briefly
		time.Sleep(500 * time.Millisecond)
	}
	if err == nil && lastErr != nil {
		err = fmt.Errorf("preview: %w", lastErr)
	}
	return session.FrameBuffer(), session.Stats(), err
}

func main() {
	opts, fs, err := parseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	// Show help if requested
	if opts.Help {
		printHelp(fs)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Starting Path Tracer...")
	filename, err := run(ctx, opts, core.NewDefaultLogger())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render saved as %s\n", filename)
}
