package display

import "github.com/charmbracelet/harmonica"

// ProgressSpring eases a progress fraction toward its target so the bar glides instead of
// jumping when a batch of slices lands at once
type ProgressSpring struct {
	spring   harmonica.Spring
	position float64
	velocity float64
}

// NewProgressSpring creates a critically damped spring stepped fps times per second
func NewProgressSpring(fps int) *ProgressSpring {
	return &ProgressSpring{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Update advances the spring one frame toward target and returns the new position,
// clamped to [0, 1]
func (p *ProgressSpring) Update(target float64) float64 {
	p.position, p.velocity = p.spring.Update(p.position, p.velocity, target)
	p.position = min(max(p.position, 0), 1)
	return p.position
}

// Snap jumps straight to target
func (p *ProgressSpring) Snap(target float64) {
	p.position = min(max(target, 0), 1)
	p.velocity = 0
}

// Position returns the current smoothed value
func (p *ProgressSpring) Position() float64 {
	return p.position
}
