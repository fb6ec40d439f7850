// Package strip models image strips and derives the directed seam-cost
// matrix that drives the ordering optimization.
//
// A strip is a fixed-size rectangular grid of RGB pixels. Placing strip j
// directly to the right of strip i incurs a seam cost: the sum of absolute
// per-channel differences between i's right edge and j's left edge, taken
// row by row. The cost is directional, so cost(i,j) and cost(j,i) generally
// differ.
//
// The package also implements the plain-text instance format consumed by
// the CLI and the single-line result format it emits. See [ParseInstance]
// and [WriteOrder].
package strip

import (
	"github.com/matzehuels/seamline/pkg/errors"
)

// Pixel is one RGB sample with channels in [0,255]. Immutable value.
type Pixel struct {
	R, G, B uint8
}

// Strip is a rectangular grid of pixels, laid out row-major.
// Rows and columns are fixed after construction.
type Strip struct {
	width  int
	height int
	pixels []Pixel
}

// NewStrip builds a strip from row-major pixels. The pixel slice is copied,
// so the caller may reuse its buffer.
func NewStrip(width, height int, pixels []Pixel) (Strip, error) {
	if width < 1 || height < 1 {
		return Strip{}, errors.New(errors.ErrCodeInvalidInput,
			"strip dimensions must be positive, got %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return Strip{}, errors.New(errors.ErrCodeInvalidInput,
			"strip needs %d pixels for %dx%d, got %d", width*height, width, height, len(pixels))
	}
	p := make([]Pixel, len(pixels))
	copy(p, pixels)
	return Strip{width: width, height: height, pixels: p}, nil
}

// Width returns the number of columns.
func (s Strip) Width() int { return s.width }

// Height returns the number of rows.
func (s Strip) Height() int { return s.height }

// At returns the pixel at row r, column c.
func (s Strip) At(r, c int) Pixel {
	return s.pixels[r*s.width+c]
}

// LeftEdge returns the first pixel of row r.
func (s Strip) LeftEdge(r int) Pixel {
	return s.pixels[r*s.width]
}

// RightEdge returns the last pixel of row r.
func (s Strip) RightEdge(r int) Pixel {
	return s.pixels[r*s.width+s.width-1]
}

// seam returns the directed seam cost of placing b immediately to the
// right of a: per row, the absolute channel differences between a's right
// edge and b's left edge.
func seam(a, b Strip) int {
	total := 0
	for r := 0; r < a.height; r++ {
		ra := a.RightEdge(r)
		lb := b.LeftEdge(r)
		total += absDiff(ra.R, lb.R) + absDiff(ra.G, lb.G) + absDiff(ra.B, lb.B)
	}
	return total
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
