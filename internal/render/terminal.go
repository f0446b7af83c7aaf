package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// cube corners in model space; every visual is drawn as its projected box
var unitCube = [8]mgl64.Vec4{
	{-0.5, -0.5, -0.5, 1}, {0.5, -0.5, -0.5, 1}, {-0.5, 0.5, -0.5, 1}, {0.5, 0.5, -0.5, 1},
	{-0.5, -0.5, 0.5, 1}, {0.5, -0.5, 0.5, 1}, {-0.5, 0.5, 0.5, 1}, {0.5, 0.5, 0.5, 1},
}

// TerminalRenderer rasterises draw calls onto a tcell screen: each actor
// becomes the screen rectangle covering its projected bounding box, shaded
// by alpha and tinted by colour, with a per-cell depth test.
type TerminalRenderer struct {
	screen   tcell.Screen
	vp       Viewport
	depth    []float64
	overlays []Overlay
	debug    bool

	draws  int
	culled int
	frames int
}

func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	return &TerminalRenderer{screen: screen}
}

// AddOverlay registers text drawn over the world every frame.
func (r *TerminalRenderer) AddOverlay(o Overlay) {
	r.overlays = append(r.overlays, o)
}

func (r *TerminalRenderer) SetDebug(on bool) { r.debug = on }
func (r *TerminalRenderer) ToggleDebug()     { r.debug = !r.debug }
func (r *TerminalRenderer) Debug() bool      { return r.debug }

// ScreenViewport is the whole terminal.
func (r *TerminalRenderer) ScreenViewport() Viewport {
	w, h := r.screen.Size()
	return Viewport{Width: w, Height: h}
}

func (r *TerminalRenderer) BeginFrame(vp Viewport) {
	r.vp = vp
	r.draws, r.culled = 0, 0
	n := vp.Width * vp.Height
	if n < 0 {
		n = 0
	}
	if cap(r.depth) < n {
		r.depth = make([]float64, n)
	}
	r.depth = r.depth[:n]
	for i := range r.depth {
		r.depth[i] = math.Inf(1)
	}
	r.screen.Clear()
}

func (r *TerminalRenderer) Draw(call DrawCall) {
	if len(r.depth) == 0 {
		return
	}
	mvp := call.Projection.Mul4(call.View).Mul4(call.World)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	visible := 0
	for _, c := range unitCube {
		clip := mvp.Mul4x1(c)
		if clip[3] <= 0 {
			continue
		}
		x, y := clip[0]/clip[3], clip[1]/clip[3]
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		visible++
	}
	center := mvp.Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	if visible == 0 || center[3] <= 0 || maxX < -1 || minX > 1 || maxY < -1 || minY > 1 {
		r.culled++
		return
	}
	z := center[2] / center[3]

	x0, x1 := r.toCol(minX), r.toCol(maxX)
	y0, y1 := r.toRow(maxY), r.toRow(minY)
	style := tcell.StyleDefault.Foreground(rgb(call.Color))
	glyph := shade(call.Alpha)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			i := (y-r.vp.Y)*r.vp.Width + (x - r.vp.X)
			if z >= r.depth[i] {
				continue
			}
			r.depth[i] = z
			r.screen.SetContent(x, y, glyph, nil, style)
		}
	}
	r.draws++
}

func (r *TerminalRenderer) EndFrame() {
	row := r.vp.Y
	for _, o := range r.overlays {
		for _, line := range o.Lines() {
			r.text(r.vp.X, row, line, tcell.StyleDefault.Foreground(tcell.ColorWhite))
			row++
		}
	}
	r.frames++
	if r.debug {
		hud := fmt.Sprintf("frame %d  draws %d  culled %d", r.frames, r.draws, r.culled)
		r.text(r.vp.X, r.vp.Y+r.vp.Height-1, hud, tcell.StyleDefault.Foreground(tcell.ColorYellow).Reverse(true))
	}
	r.screen.Show()
}

// Stats returns the draw and cull counts of the current frame.
func (r *TerminalRenderer) Stats() (draws, culled int) { return r.draws, r.culled }

func (r *TerminalRenderer) text(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		if x >= r.vp.X+r.vp.Width {
			return
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

func (r *TerminalRenderer) toCol(ndc float64) int {
	c := r.vp.X + int(math.Floor((ndc+1)/2*float64(r.vp.Width)))
	return clampInt(c, r.vp.X, r.vp.X+r.vp.Width-1)
}

func (r *TerminalRenderer) toRow(ndc float64) int {
	c := r.vp.Y + int(math.Floor((1-ndc)/2*float64(r.vp.Height)))
	return clampInt(c, r.vp.Y, r.vp.Y+r.vp.Height-1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func shade(alpha float64) rune {
	switch {
	case alpha >= 0.75:
		return '█'
	case alpha >= 0.5:
		return '▓'
	case alpha >= 0.25:
		return '▒'
	}
	return '░'
}

func rgb(c mgl64.Vec3) tcell.Color {
	ch := func(v float64) int32 { return int32(mgl64.Clamp(v, 0, 1) * 255) }
	return tcell.NewRGBColor(ch(c[0]), ch(c[1]), ch(c[2]))
}
