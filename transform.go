package svgeom

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/image/math/f64"
)

// ErrNonInvertibleTransform is returned when a transform attribute is
// syntactically valid but its matrix cannot be inverted. Per SVG semantics an
// element carrying such a transform is not rendered; at parse time the whole
// attribute is a value error.
var ErrNonInvertibleTransform = errors.New("transform is not invertible")

// Transform is an affine transformation matrix in row-major order, mapping
// [x'; y'] = M·[x; y] + [x0; y0]. Concatenated transformation functions are
// evaluated right-to-left: Identity.Rotate(30).Translate(20,0) first
// translates and then rotates. The zero value is not a valid transform; use
// Identity.
type Transform [2][3]float64

// Identity is the identity transform.
var Identity = Transform{
	{1.0, 0.0, 0.0},
	{0.0, 1.0, 0.0},
}

// NewTransform returns the transform given by the SVG matrix coefficients
// (xx, yx, xy, yy, x0, y0), so that x' = xx·x + xy·y + x0 and
// y' = yx·x + yy·y + y0. This is the wire order of the SVG matrix() function
// and of most 2D backends.
func NewTransform(xx, yx, xy, yy, x0, y0 float64) Transform {
	return Transform{
		{xx, xy, x0},
		{yx, yy, y0},
	}
}

// Coeffs returns the six coefficients in SVG matrix() wire order.
func (m Transform) Coeffs() (xx, yx, xy, yy, x0, y0 float64) {
	return m[0][0], m[1][0], m[0][1], m[1][1], m[0][2], m[1][2]
}

// Mul returns M·Q, the transform that applies Q first and then M.
func (m Transform) Mul(q Transform) Transform {
	return Transform{{
		m[0][0]*q[0][0] + m[0][1]*q[1][0],
		m[0][0]*q[0][1] + m[0][1]*q[1][1],
		m[0][0]*q[0][2] + m[0][1]*q[1][2] + m[0][2],
	}, {
		m[1][0]*q[0][0] + m[1][1]*q[1][0],
		m[1][0]*q[0][1] + m[1][1]*q[1][1],
		m[1][0]*q[0][2] + m[1][1]*q[1][2] + m[1][2],
	}}
}

// PreMul returns Q·M, the transform that applies M first and then Q.
func (m Transform) PreMul(q Transform) Transform {
	return q.Mul(m)
}

// Translate adds a translation by (x,y).
func (m Transform) Translate(x, y float64) Transform {
	return m.Mul(Transform{
		{1.0, 0.0, x},
		{0.0, 1.0, y},
	})
}

// Scale adds a scaling by (sx,sy). A zero scale is representable; it makes
// the transform non-invertible, which IsInvertible reports.
func (m Transform) Scale(sx, sy float64) Transform {
	return m.Mul(Transform{
		{sx, 0.0, 0.0},
		{0.0, sy, 0.0},
	})
}

// Rotate adds a counter-clockwise rotation by deg degrees about the origin.
func (m Transform) Rotate(deg float64) Transform {
	sintheta, costheta := math.Sincos(deg * math.Pi / 180.0)
	return m.Mul(Transform{
		{costheta, -sintheta, 0.0},
		{sintheta, costheta, 0.0},
	})
}

// RotateAt adds a rotation by deg degrees about (x,y).
func (m Transform) RotateAt(deg, x, y float64) Transform {
	return m.Translate(x, y).Rotate(deg).Translate(-x, -y)
}

// SkewX adds a skew along the x-axis by deg degrees.
func (m Transform) SkewX(deg float64) Transform {
	return m.Mul(Transform{
		{1.0, math.Tan(deg * math.Pi / 180.0), 0.0},
		{0.0, 1.0, 0.0},
	})
}

// SkewY adds a skew along the y-axis by deg degrees.
func (m Transform) SkewY(deg float64) Transform {
	return m.Mul(Transform{
		{1.0, 0.0, 0.0},
		{math.Tan(deg * math.Pi / 180.0), 1.0, 0.0},
	})
}

// Det returns the determinant of the transform.
func (m Transform) Det() float64 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// IsInvertible returns true if the determinant is finite and non-zero.
// Elements with a non-invertible transform are not rendered.
func (m Transform) IsInvertible() bool {
	det := m.Det()
	return !math.IsNaN(det) && !math.IsInf(det, 0) && !equal(det, 0.0)
}

// Invert returns the inverse transform, or false if the transform is not
// invertible.
func (m Transform) Invert() (Transform, bool) {
	if !m.IsInvertible() {
		return Identity, false
	}
	det := m.Det()
	return Transform{{
		m[1][1] / det,
		-m[0][1] / det,
		-(m[1][1]*m[0][2] - m[0][1]*m[1][2]) / det,
	}, {
		-m[1][0] / det,
		m[0][0] / det,
		-(-m[1][0]*m[0][2] + m[0][0]*m[1][2]) / det,
	}}, true
}

// TransformPoint applies the transform to p.
func (m Transform) TransformPoint(p Point) Point {
	return Point{
		m[0][0]*p.X + m[0][1]*p.Y + m[0][2],
		m[1][0]*p.X + m[1][1]*p.Y + m[1][2],
	}
}

// TransformDistance applies the transform to the vector p, ignoring translation.
func (m Transform) TransformDistance(p Point) Point {
	return Point{
		m[0][0]*p.X + m[0][1]*p.Y,
		m[1][0]*p.X + m[1][1]*p.Y,
	}
}

// TransformRect transforms all four corners of r and returns the axis-aligned
// bounding rectangle of the result.
func (m Transform) TransformRect(r Rect) Rect {
	p0 := m.TransformPoint(Point{r.X, r.Y})
	p1 := m.TransformPoint(Point{r.X + r.W, r.Y})
	p2 := m.TransformPoint(Point{r.X + r.W, r.Y + r.H})
	p3 := m.TransformPoint(Point{r.X, r.Y + r.H})
	x0 := math.Min(math.Min(p0.X, p1.X), math.Min(p2.X, p3.X))
	y0 := math.Min(math.Min(p0.Y, p1.Y), math.Min(p2.Y, p3.Y))
	x1 := math.Max(math.Max(p0.X, p1.X), math.Max(p2.X, p3.X))
	y1 := math.Max(math.Max(p0.Y, p1.Y), math.Max(p2.Y, p3.Y))
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Equals returns true if M and Q are equal with tolerance Epsilon per coefficient.
func (m Transform) Equals(q Transform) bool {
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if !equal(m[i][j], q[i][j]) {
				return false
			}
		}
	}
	return true
}

// Aff3 returns the transform as a golang.org/x/image 3x3 affine matrix in
// row-major order, the native matrix representation of rasterizing backends.
func (m Transform) Aff3() f64.Aff3 {
	return f64.Aff3{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
	}
}

// TransformFromAff3 returns the transform corresponding to a 3x3 affine matrix.
func TransformFromAff3(a f64.Aff3) Transform {
	return Transform{
		{a[0], a[1], a[2]},
		{a[3], a[4], a[5]},
	}
}

// ToSVG returns the transform as an SVG transform attribute value.
func (m Transform) ToSVG() string {
	xx, yx, xy, yy, x0, y0 := m.Coeffs()
	return fmt.Sprintf("matrix(%s,%s,%s,%s,%s,%s)", num(xx), num(yx), num(xy), num(yy), num(x0), num(y0))
}

func (m Transform) String() string {
	return fmt.Sprintf("(%g %g; %g %g) + (%g,%g)", m[0][0], m[0][1], m[1][0], m[1][1], m[0][2], m[1][2])
}

////////////////////////////////////////////////////////////////

// ParseTransform parses an SVG transform attribute: a list of
// matrix/translate/scale/rotate/skewX/skewY functions separated by whitespace
// or commas, composed left-to-right so that the first written function is the
// outermost. The complete transform must be invertible; a non-invertible
// result returns an error wrapping ErrNonInvertibleTransform.
func ParseTransform(v string) (Transform, error) {
	m := Identity
	var fun string
	open := false
	i, j := 0, 0
	for i < len(v) {
		if v[i] == '(' {
			if open {
				return Identity, fmt.Errorf("bad transform: unexpected '(' in %s", v)
			}
			fun = strings.ToLower(strings.Trim(v[j:i], " ,\t\n\r"))
			open = true
			j = i + 1
		} else if v[i] == ')' {
			if !open {
				return Identity, fmt.Errorf("bad transform: unexpected ')' in %s", v)
			}
			d, err := parseNumbers(v[j:i])
			if err != nil {
				return Identity, fmt.Errorf("bad transform %s: %w", fun, err)
			}
			switch fun {
			case "matrix":
				if len(d) != 6 {
					return Identity, fmt.Errorf("bad transform matrix: expected 6 arguments, got %d", len(d))
				}
				m = m.Mul(NewTransform(d[0], d[1], d[2], d[3], d[4], d[5]))
			case "translate":
				if len(d) == 1 {
					m = m.Translate(d[0], 0.0)
				} else if len(d) == 2 {
					m = m.Translate(d[0], d[1])
				} else {
					return Identity, fmt.Errorf("bad transform translate: expected 1 or 2 arguments, got %d", len(d))
				}
			case "scale":
				if len(d) == 1 {
					m = m.Scale(d[0], d[0])
				} else if len(d) == 2 {
					m = m.Scale(d[0], d[1])
				} else {
					return Identity, fmt.Errorf("bad transform scale: expected 1 or 2 arguments, got %d", len(d))
				}
			case "rotate":
				if len(d) == 1 {
					m = m.Rotate(d[0])
				} else if len(d) == 3 {
					m = m.RotateAt(d[0], d[1], d[2])
				} else {
					return Identity, fmt.Errorf("bad transform rotate: expected 1 or 3 arguments, got %d", len(d))
				}
			case "skewx":
				if len(d) != 1 {
					return Identity, fmt.Errorf("bad transform skewX: expected 1 argument, got %d", len(d))
				}
				m = m.SkewX(d[0])
			case "skewy":
				if len(d) != 1 {
					return Identity, fmt.Errorf("bad transform skewY: expected 1 argument, got %d", len(d))
				}
				m = m.SkewY(d[0])
			default:
				return Identity, fmt.Errorf("unknown transform function: %s", fun)
			}
			open = false
			j = i + 1
		}
		i++
	}
	if open {
		return Identity, fmt.Errorf("bad transform: unclosed '(' in %s", v)
	}
	if rest := strings.Trim(v[j:], " ,\t\n\r"); rest != "" {
		return Identity, fmt.Errorf("bad transform: unexpected %s", rest)
	}
	if !m.IsInvertible() {
		return Identity, fmt.Errorf("bad transform %s: %w", v, ErrNonInvertibleTransform)
	}
	return m, nil
}
