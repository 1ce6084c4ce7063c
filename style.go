package svgeom

// Dpi is the resolution of the output device in dots per inch, per axis.
type Dpi struct {
	X, Y float64
}

// DefaultDpi is the CSS reference resolution.
var DefaultDpi = Dpi{96.0, 96.0}

// Values carries the computed style values that length normalization depends
// on. It is the interface point to the CSS cascade: the cascade engine fills
// one in per element, the geometry pipeline only reads it.
type Values struct {
	// FontSize is the current font size in user-space pixels, used by the
	// em and ex units.
	FontSize float64
	// Dpi converts physical units to user-space pixels.
	Dpi Dpi
}

// DefaultValues returns the initial computed values: 16px font size at the
// CSS reference resolution.
func DefaultValues() Values {
	return Values{FontSize: 16.0, Dpi: DefaultDpi}
}
