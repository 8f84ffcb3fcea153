// Package render draws stage snapshots onto a terminal with tcell.
package render

import (
	"context"
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/comalice/tickfsm/examples/stage"
)

// Canvas is the part of tcell.Screen the renderer draws on.
type Canvas interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	Size() (width, height int)
}

const statusLines = 3

var (
	styleLandmark = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleEnemy    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHoney    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Renderer maps the stage's ground plane (X across, Z up the screen) onto a
// canvas, leaving the bottom rows for status text.
type Renderer struct {
	canvas Canvas

	minX, maxX float64
	minZ, maxZ float64
}

// New fits the view to landmarks with one unit of margin.
func New(c Canvas, landmarks []stage.Landmark) *Renderer {
	r := &Renderer{canvas: c}
	r.minX, r.maxX = math.Inf(1), math.Inf(-1)
	r.minZ, r.maxZ = math.Inf(1), math.Inf(-1)
	for _, l := range landmarks {
		r.minX = math.Min(r.minX, l.Pos.X)
		r.maxX = math.Max(r.maxX, l.Pos.X)
		r.minZ = math.Min(r.minZ, l.Pos.Z)
		r.maxZ = math.Max(r.maxZ, l.Pos.Z)
	}
	if len(landmarks) == 0 {
		r.minX, r.maxX, r.minZ, r.maxZ = 0, 0, 0, 0
	}
	r.minX--
	r.maxX++
	r.minZ--
	r.maxZ++
	return r
}

// Project returns the cell for p, clamped to the drawing area.
func (r *Renderer) Project(p stage.Vec) (col, row int) {
	w, h := r.area()
	col = int(math.Round((p.X - r.minX) / (r.maxX - r.minX) * float64(w-1)))
	row = int(math.Round((r.maxZ - p.Z) / (r.maxZ - r.minZ) * float64(h-1)))
	return clamp(col, 0, w-1), clamp(row, 0, h-1)
}

func (r *Renderer) area() (w, h int) {
	w, h = r.canvas.Size()
	h -= statusLines
	return max(w, 1), max(h, 1)
}

// Draw clears the canvas and paints s.
func (r *Renderer) Draw(s stage.Snapshot) {
	w, h := r.canvas.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r.canvas.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}

	for _, l := range s.Landmarks {
		col, row := r.Project(l.Pos)
		r.canvas.SetContent(col, row, '+', nil, styleLandmark)
		r.text(col+1, row, l.Name, styleLandmark)
	}
	r.actor(s.Honey, 'H', styleHoney)
	r.actor(s.Enemy, 'E', styleEnemy)

	_, areaH := r.area()
	r.text(0, areaH, fmt.Sprintf("tick %d  t=%.1fs", s.Frame.Number, s.Frame.Elapsed.Seconds()), styleStatus)
	r.text(0, areaH+1, status(s.Enemy), styleEnemy)
	r.text(0, areaH+2, status(s.Honey), styleHoney)
}

func (r *Renderer) actor(a stage.ActorView, glyph rune, style tcell.Style) {
	col, row := r.Project(a.Pos)
	r.canvas.SetContent(col, row, glyph, nil, style)
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	w, h := r.canvas.Size()
	if y < 0 || y >= h {
		return
	}
	for _, c := range s {
		if x >= w {
			return
		}
		r.canvas.SetContent(x, y, c, nil, style)
		x++
	}
}

func status(a stage.ActorView) string {
	return fmt.Sprintf("%-6s %-9s fish=%d heading=%3.0f", a.Name, a.State, a.Fish, a.Heading)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Terminal owns a real screen and turns quit keys into a cancel.
type Terminal struct {
	screen   tcell.Screen
	renderer *Renderer
}

// OpenTerminal initializes screen. The caller must call Close.
func OpenTerminal(screen tcell.Screen, landmarks []stage.Landmark) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.HideCursor()
	return &Terminal{screen: screen, renderer: New(screen, landmarks)}, nil
}

// Hook draws each frame. It matches stage.FrameHook.
func (t *Terminal) Hook(_ context.Context, s stage.Snapshot) {
	t.renderer.Draw(s)
	t.screen.Show()
}

// WatchQuit calls cancel on q, Esc or Ctrl-C, or when ctx ends.
func (t *Terminal) WatchQuit(ctx context.Context, cancel context.CancelFunc) {
	events := make(chan tcell.Event)
	quit := make(chan struct{})
	go t.screen.ChannelEvents(events, quit)
	defer close(quit)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				cancel()
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					cancel()
					return
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}
		}
	}
}

func (t *Terminal) Close() {
	t.screen.Fini()
}
