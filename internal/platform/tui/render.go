package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/wavesim/internal/core"
	"github.com/vovakirdan/wavesim/internal/physics"
	"github.com/vovakirdan/wavesim/internal/surface"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorRed:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:        lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorCyan:        lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:       lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightBlue:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightCyan:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite: lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:      lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// heightGlyphs shades the surface from trough to crest.
var heightGlyphs = []rune(" .:-=+*#%@")

// Ball glyphs by height above the surface.
const (
	glyphAirborne = 'o'
	glyphContact  = 'O'
	glyphBuried   = 'x'
)

// Viewport is the part of the XZ plane drawn on screen. Z grows upward on
// screen so the map reads like a chart.
type Viewport struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// DefaultViewport frames the ripple centred at (5, 5).
func DefaultViewport() Viewport {
	return Viewport{MinX: 0, MaxX: 10, MinZ: 0, MaxZ: 10}
}

// CellToWorld returns the world point at the centre of cell (col, row) of a
// w by h area.
func (v Viewport) CellToWorld(col, row, w, h int) (x, z float64) {
	x = core.Lerp(v.MinX, v.MaxX, (float64(col)+0.5)/float64(w))
	z = core.Lerp(v.MaxZ, v.MinZ, (float64(row)+0.5)/float64(h))
	return x, z
}

// WorldToCell returns the cell holding world point (x, z), and false when
// the point is outside the viewport.
func (v Viewport) WorldToCell(x, z float64, w, h int) (col, row int, ok bool) {
	fx := core.InverseLerp(v.MinX, v.MaxX, x)
	fz := core.InverseLerp(v.MaxZ, v.MinZ, z)
	if fx < 0 || fx >= 1 || fz < 0 || fz >= 1 || math.IsNaN(fx) || math.IsNaN(fz) {
		return 0, 0, false
	}
	return int(fx * float64(w)), int(fz * float64(h)), true
}

// DrawSurface shades area with a top-down height map of hf. Heights are
// normalized against [lo, hi].
func DrawSurface(s *core.Screen, area core.Rect, view Viewport, hf surface.HeightField, lo, hi float64) {
	for row := range area.H {
		for col := range area.W {
			x, z := view.CellToWorld(col, row, area.W, area.H)
			level := core.ClampF(core.InverseLerp(lo, hi, hf.HeightAt(x, z)), 0, 1)
			glyph := heightGlyphs[int(level*float64(len(heightGlyphs)-1))]
			s.SetColor(area.X+col, area.Y+row, glyph, core.HeightColor(level))
		}
	}
}

// DrawBalls overlays the balls inside the viewport on area. Later balls
// are drawn on top.
func DrawBalls(s *core.Screen, area core.Rect, view Viewport, hf surface.HeightField, balls []physics.Snapshot) {
	for _, b := range balls {
		col, row, ok := view.WorldToCell(b.Position.X, b.Position.Z, area.W, area.H)
		if !ok {
			continue
		}
		glyph, color := ballGlyph(b, hf)
		s.SetColor(area.X+col, area.Y+row, glyph, color)
	}
}

func ballGlyph(b physics.Snapshot, hf surface.HeightField) (rune, core.Color) {
	clearance := b.Position.Y - hf.HeightAt(b.Position.X, b.Position.Z)
	switch {
	case clearance < 0:
		return glyphBuried, core.ColorRed
	case clearance <= b.Radius*1.05:
		return glyphContact, core.ColorYellow
	default:
		return glyphAirborne, core.ColorOrange
	}
}
