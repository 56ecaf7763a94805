package chart

import (
	"errors"
	"fmt"
	"sync"
)

var ErrNoCanvas = errors.New("chart canvas not mounted")

// Instance is a drawn chart. Destroy releases it; a destroyed instance renders
// nothing.
type Instance interface {
	View() string
	Destroy()
}

type Renderer interface {
	Render(c Chart) (Instance, error)
}

// Registry tracks the chart mounted on each canvas. Only canvases passed to
// NewRegistry can be drawn on.
type Registry struct {
	mu       sync.Mutex
	renderer Renderer
	canvases map[string]Instance
}

func NewRegistry(renderer Renderer, canvases ...string) *Registry {
	r := &Registry{
		renderer: renderer,
		canvases: make(map[string]Instance, len(canvases)),
	}

	for _, canvas := range canvases {
		r.canvases[canvas] = nil
	}

	return r
}

func (r *Registry) Has(canvas string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.canvases[canvas]
	return ok
}

// Draw destroys whatever is mounted on canvas and renders c in its place. On a
// render failure the canvas is left empty.
func (r *Registry) Draw(canvas string, c Chart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, ok := r.canvases[canvas]
	if !ok {
		return fmt.Errorf("%s: %w", canvas, ErrNoCanvas)
	}

	if previous != nil {
		previous.Destroy()
		r.canvases[canvas] = nil
	}

	if err := c.validate(); err != nil {
		return err
	}

	instance, err := r.renderer.Render(c)
	if err != nil {
		return fmt.Errorf("render %s: %w", canvas, err)
	}

	r.canvases[canvas] = instance
	return nil
}

// View returns the current rendering of canvas, or "" when nothing is mounted.
func (r *Registry) View(canvas string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	instance := r.canvases[canvas]
	if instance == nil {
		return ""
	}
	return instance.View()
}

func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for canvas, instance := range r.canvases {
		if instance != nil {
			instance.Destroy()
			r.canvases[canvas] = nil
		}
	}
}
