package render

import "github.com/abhisek/pathways/internal/explorer"

// Renderer keeps a scene in sync with an explorer.State. It rebuilds the
// whole scene on selection, direction and data changes and refits after every
// rebuild or resize.
type Renderer struct {
	state       *explorer.State
	scene       Scene
	viewport    Viewport
	width       int
	rebuilds    int
	unsubscribe func()
}

// NewRenderer subscribes to state and builds the initial scene.
func NewRenderer(state *explorer.State, width int) *Renderer {
	r := &Renderer{state: state, width: width}
	r.unsubscribe = state.Subscribe(r.handle)
	r.rebuild()
	return r
}

func (r *Renderer) handle(e explorer.Event) {
	switch e.Kind {
	case explorer.SelectionChanged, explorer.DirectionChanged, explorer.DataLoaded:
		r.rebuild()
	}
}

func (r *Renderer) rebuild() {
	r.rebuilds++
	id, ok := r.state.SelectedID()
	if !ok {
		r.scene = Scene{Direction: r.state.Direction()}
	} else {
		r.scene = Build(r.state.Graph(), id, r.state.Direction())
	}
	r.viewport = Fit(r.scene, r.width)
}

// SetWidth refits the current scene to a new width.
func (r *Renderer) SetWidth(width int) {
	if width == r.width {
		return
	}
	r.width = width
	r.viewport = Fit(r.scene, width)
}

// Scene returns the current scene.
func (r *Renderer) Scene() Scene { return r.scene }

// Viewport returns the current fit.
func (r *Renderer) Viewport() Viewport { return r.viewport }

// Rebuilds counts full scene rebuilds, including the initial one.
func (r *Renderer) Rebuilds() int { return r.rebuilds }

// View draws the current scene.
func (r *Renderer) View() string {
	return Draw(r.scene, r.viewport)
}

// Close stops listening to the state.
func (r *Renderer) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}
