package layout

// Point is a position in row-local pixel coordinates.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in row-local pixel coordinates.
type Rect struct {
	X, Y, W, H float64
}

// MaxX returns the right edge of the rectangle.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge of the rectangle.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Contains reports whether p lies inside r. The left and top edges are
// inclusive, the right and bottom edges exclusive, so adjacent rectangles
// never both claim a point on their shared edge.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}
