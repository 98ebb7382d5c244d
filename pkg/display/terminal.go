package display

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// Preview shows a render in progress in the terminal's alternate screen
type Preview struct {
	term     *uv.Terminal
	title    string
	progress *ProgressSpring

	mu     sync.Mutex
	width  int
	height int
}

// NewPreview takes over the terminal. Close must be called to restore it.
func NewPreview(title string, fps int) (*Preview, error) {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return nil, fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return nil, fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	return &Preview{
		term:     term,
		title:    title,
		progress: NewProgressSpring(fps),
		width:    width,
		height:   height,
	}, nil
}

// Listen handles terminal events until ctx is done. Esc, q and ctrl+c call cancel.
func (p *Preview) Listen(ctx context.Context, cancel context.CancelFunc) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-p.term.Events():
				if !ok {
					return
				}
				switch ev := ev.(type) {
				case uv.WindowSizeEvent:
					p.mu.Lock()
					p.width, p.height = ev.Width, ev.Height
					p.term.Erase()
					p.term.Resize(ev.Width, ev.Height)
					p.mu.Unlock()
				case uv.KeyPressEvent:
					if ev.MatchString("escape", "q", "ctrl+c") {
						cancel()
						return
					}
				}
			}
		}
	}()
}

// Draw paints the frame and a progress bar and flushes them to the terminal
func (p *Preview) Draw(fb *renderer.FrameBuffer, progress float64, status string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.width <= 0 || p.height < 2 {
		return nil
	}

	rows := p.height - 1
	width, height := FitSize(fb.Width, fb.Height, p.width, rows)
	if width > 0 && height > 0 {
		origin := image.Pt((p.width-width)/2, (rows-(height+1)/2)/2)
		DrawImage(p.term, Downsample(fb, width, height), origin)
	}

	fraction := p.progress.Update(progress)
	label := fmt.Sprintf(" %s %3.0f%% %s", p.title, progress*100, status)
	DrawProgressBar(p.term, p.height-1, p.width, fraction, label)

	return p.term.Display()
}

// Finish snaps the bar to 100% and draws the final frame
func (p *Preview) Finish(fb *renderer.FrameBuffer, status string) error {
	p.progress.Snap(1)
	return p.Draw(fb, 1, status)
}

// Close restores the terminal
func (p *Preview) Close() error {
	p.term.ExitAltScreen()
	p.term.ShowCursor()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return p.term.Shutdown(ctx)
}
