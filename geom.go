package svgeom

import (
	"fmt"
	"math"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/parse/v2/strconv"
)

// Epsilon is the tolerance below which two floating point values are considered equal.
var Epsilon = 1e-10

// Precision is the number of significant digits used when serializing numbers to SVG attribute values.
var Precision = 8

// equal returns true if a and b are equal with tolerance Epsilon.
func equal(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// num formats f compactly for SVG attribute output.
func num(f float64) string {
	s := fmt.Sprintf("%.*g", Precision, f)
	return string(minify.Number([]byte(s), Precision))
}

// Point is a coordinate in 2D space.
type Point struct {
	X, Y float64
}

// Equals returns true if P and Q are equal with tolerance Epsilon.
func (p Point) Equals(q Point) bool {
	return equal(p.X, q.X) && equal(p.Y, q.Y)
}

// Add adds Q to P.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub subtracts Q from P.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Mul multiplies x and y by f.
func (p Point) Mul(f float64) Point {
	return Point{f * p.X, f * p.Y}
}

// Dot returns the dot product between OP and OQ.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Length returns the length of OP.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

////////////////////////////////////////////////////////////////

// Rect is an axis-aligned rectangle with origin (X,Y) and size (W,H).
type Rect struct {
	X, Y, W, H float64
}

// IsEmpty returns true if the rectangle has zero width or height. An empty
// rectangle is a valid value: as a viewport or viewBox it means "render nothing".
func (r Rect) IsEmpty() bool {
	return r.W == 0.0 || r.H == 0.0
}

// Equals returns true if R and Q are equal with tolerance Epsilon.
func (r Rect) Equals(q Rect) bool {
	return equal(r.X, q.X) && equal(r.Y, q.Y) && equal(r.W, q.W) && equal(r.H, q.H)
}

// Move translates the rectangle by p.
func (r Rect) Move(p Point) Rect {
	r.X += p.X
	r.Y += p.Y
	return r
}

// Add returns the bounding rectangle of both rectangles.
func (r Rect) Add(q Rect) Rect {
	if q.IsEmpty() {
		return r
	} else if r.IsEmpty() {
		return q
	}
	x0 := math.Min(r.X, q.X)
	y0 := math.Min(r.Y, q.Y)
	x1 := math.Max(r.X+r.W, q.X+q.W)
	y1 := math.Max(r.Y+r.H, q.Y+q.H)
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", r.X, r.Y, r.X+r.W, r.Y+r.H)
}

////////////////////////////////////////////////////////////////

func skipCommaWhitespace(b []byte) int {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == ',' || b[i] == '\n' || b[i] == '\r' || b[i] == '\t') {
		i++
	}
	return i
}

// parseNumbers parses a whitespace/comma-separated list of numbers, rejecting
// non-finite values and trailing garbage.
func parseNumbers(v string) ([]float64, error) {
	b := []byte(v)
	var vals []float64
	i := skipCommaWhitespace(b)
	for i < len(b) {
		f, n := strconv.ParseFloat(b[i:])
		if n == 0 {
			return nil, fmt.Errorf("bad number: %s", v[i:])
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("number is not finite: %s", v[i:i+n])
		}
		vals = append(vals, f)
		i += n
		i += skipCommaWhitespace(b[i:])
	}
	return vals, nil
}
