package strip

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/seamline/pkg/errors"
)

// Instance is a parsed ordering problem: n congruent strips.
type Instance struct {
	Strips []Strip
	Width  int
	Height int
}

// ParseInstance reads the plain-text instance format:
//
//	line 1:        "<n> <width> <height>"
//	lines 2..n+1:  width*height*3 integers in [0,255], row-major,
//	               three consecutive values per pixel (R G B)
//
// Malformed headers, short or overlong pixel lines and out-of-range
// channel values yield a PARSE_ERROR; a non-positive n, width or height
// yields INVALID_INPUT.
func ParseInstance(r io.Reader) (*Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read instance header")
		}
		return nil, errors.New(errors.ErrCodeParse, "empty instance")
	}

	header := strings.Fields(sc.Text())
	if len(header) != 3 {
		return nil, errors.New(errors.ErrCodeParse,
			"header must be \"<n> <width> <height>\", got %q", sc.Text())
	}
	n, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "strip count %q", header[0])
	}
	w, err := strconv.Atoi(header[1])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "width %q", header[1])
	}
	h, err := strconv.Atoi(header[2])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "height %q", header[2])
	}
	if n < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "need at least 1 strip, got %d", n)
	}
	if w < 1 || h < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "strip dimensions must be positive, got %dx%d", w, h)
	}

	inst := &Instance{Strips: make([]Strip, 0, n), Width: w, Height: h}
	for k := 0; k < n; k++ {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeIO, err, "read strip %d", k+1)
			}
			return nil, errors.New(errors.ErrCodeParse,
				"instance truncated: %d strips declared, line for strip %d missing", n, k+1)
		}
		s, err := parseStripLine(sc.Text(), w, h, k+1)
		if err != nil {
			return nil, err
		}
		inst.Strips = append(inst.Strips, s)
	}

	return inst, nil
}

// parseStripLine decodes one strip: w*h pixels, three channel values each.
func parseStripLine(line string, w, h, which int) (Strip, error) {
	fields := strings.Fields(line)
	want := w * h * 3
	if len(fields) != want {
		return Strip{}, errors.New(errors.ErrCodeParse,
			"strip %d has %d values, want %d (%dx%d pixels, 3 channels)", which, len(fields), want, w, h)
	}

	pixels := make([]Pixel, 0, w*h)
	for i := 0; i < want; i += 3 {
		r, err := parseChannel(fields[i], which)
		if err != nil {
			return Strip{}, err
		}
		g, err := parseChannel(fields[i+1], which)
		if err != nil {
			return Strip{}, err
		}
		b, err := parseChannel(fields[i+2], which)
		if err != nil {
			return Strip{}, err
		}
		pixels = append(pixels, Pixel{R: r, G: g, B: b})
	}

	return NewStrip(w, h, pixels)
}

func parseChannel(s string, which int) (uint8, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeParse, err, "strip %d: channel value %q", which, s)
	}
	if v < 0 || v > 255 {
		return 0, errors.New(errors.ErrCodeParse, "strip %d: channel value %d out of range [0,255]", which, v)
	}
	return uint8(v), nil
}

// ReadInstanceFile parses the instance at path.
func ReadInstanceFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return ParseInstance(f)
}

// WriteOrder writes the 1-based strip order as a single space-separated
// line, the result format of the CLI.
func WriteOrder(w io.Writer, order []int) error {
	parts := make([]string, len(order))
	for i, v := range order {
		parts[i] = strconv.Itoa(v)
	}
	if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write order")
	}
	return nil
}

// WriteOrderFile writes the order to the file at path, creating or
// truncating it.
func WriteOrderFile(path string, order []int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	defer f.Close()
	if err := WriteOrder(f, order); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	return nil
}
