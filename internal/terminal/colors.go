package terminal

import "github.com/hinshun/vt10x"

// RGB is a 3-channel colour. It marshals as a 3-element JSON array.
type RGB [3]uint8

var (
	// DefaultFG is the foreground used for the default named colour slot.
	DefaultFG = RGB{229, 229, 229}
	// DefaultBG is the background used for the default named colour slot.
	DefaultBG = RGB{30, 30, 30}
)

// ansi16 holds the canonical 16-colour palette used as defaults for
// indices 0-15 and as the fallback for the named ANSI colour slots.
var ansi16 = [16]RGB{
	{0, 0, 0},       // black
	{205, 49, 49},   // red
	{13, 188, 121},  // green
	{229, 229, 16},  // yellow
	{36, 114, 200},  // blue
	{188, 63, 188},  // magenta
	{17, 168, 205},  // cyan
	{229, 229, 229}, // white
	{102, 102, 102}, // bright black
	{241, 76, 76},   // bright red
	{35, 209, 139},  // bright green
	{245, 245, 67},  // bright yellow
	{59, 142, 234},  // bright blue
	{214, 112, 214}, // bright magenta
	{41, 184, 219},  // bright cyan
	{255, 255, 255}, // bright white
}

// paletteOverride consults an emulator-supplied override for a named colour
// slot before falling back to the ansi16 defaults. vt10x does not expose an
// OSC-4 palette redefinition API on its Terminal interface, so this is
// presently a no-op pass-through kept for forward compatibility with an
// emulator that does support custom palettes.
func paletteOverride(idx int) (RGB, bool) {
	return RGB{}, false
}

// paletteColor resolves an 8-bit palette index per the fixed ANSI/256-colour
// rules: 0-15 the ANSI 16 (overridable), 16-231 the 6x6x6 cube, 232-255 a
// greyscale ramp.
func paletteColor(idx int) RGB {
	if idx < 16 {
		if c, ok := paletteOverride(idx); ok {
			return c
		}
		return ansi16[idx]
	}
	if idx < 232 {
		i := idx - 16
		r := i / 36
		g := (i / 6) % 6
		b := i % 6
		return RGB{uint8(r * 51), uint8(g * 51), uint8(b * 51)}
	}
	v := uint8((idx-232)*10 + 8)
	return RGB{v, v, v}
}

// dim applies the dim-variant transform: channel*2/3, integer arithmetic.
func dim(c RGB) RGB {
	return RGB{
		uint8(int(c[0]) * 2 / 3),
		uint8(int(c[1]) * 2 / 3),
		uint8(int(c[2]) * 2 / 3),
	}
}

// resolveColor converts a vt10x.Color into the wire RGB representation. The
// default parameter supplies the named-slot default (DefaultFG or
// DefaultBG) for the cell side being resolved.
func resolveColor(c vt10x.Color, defaultColor RGB, faint bool) RGB {
	var out RGB
	switch {
	case c == vt10x.DefaultFG || c == vt10x.DefaultBG:
		out = defaultColor
	case c < 256:
		out = paletteColor(int(c))
	default:
		out = RGB{
			uint8((c >> 16) & 0xFF),
			uint8((c >> 8) & 0xFF),
			uint8(c & 0xFF),
		}
	}
	if faint {
		out = dim(out)
	}
	return out
}
