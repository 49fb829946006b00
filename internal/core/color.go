package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for the viewer.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorCyan
	ColorWhite
	ColorBrightBlue
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// heightRamp orders the surface colors from trough to crest.
var heightRamp = []Color{
	ColorBlue,
	ColorBrightBlue,
	ColorCyan,
	ColorBrightCyan,
	ColorWhite,
	ColorBrightWhite,
}

// HeightColor maps a normalized height in [0, 1] to a surface color.
func HeightColor(level float64) Color {
	i := int(ClampF(level, 0, 1) * float64(len(heightRamp)-1))
	return heightRamp[i]
}
