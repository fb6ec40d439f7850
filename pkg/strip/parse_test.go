package strip

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/seamline/pkg/errors"
)

func TestParseInstance(t *testing.T) {
	input := "2 2 1\n0 0 0 10 10 10\n50 50 50 5 5 5\n"

	inst, err := ParseInstance(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseInstance() error = %v", err)
	}

	if len(inst.Strips) != 2 {
		t.Fatalf("len(Strips) = %d, want 2", len(inst.Strips))
	}
	if inst.Width != 2 || inst.Height != 1 {
		t.Errorf("dimensions = %dx%d, want 2x1", inst.Width, inst.Height)
	}

	if got := inst.Strips[0].At(0, 1); got != (Pixel{R: 10, G: 10, B: 10}) {
		t.Errorf("strip 1 pixel (0,1) = %v, want {10 10 10}", got)
	}
	if got := inst.Strips[1].At(0, 0); got != (Pixel{R: 50, G: 50, B: 50}) {
		t.Errorf("strip 2 pixel (0,0) = %v, want {50 50 50}", got)
	}
}

func TestParseInstanceMultiRow(t *testing.T) {
	// 1 strip, 2x2: four pixels, row-major.
	input := "1 2 2\n1 2 3 4 5 6 7 8 9 10 11 12\n"

	inst, err := ParseInstance(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseInstance() error = %v", err)
	}

	s := inst.Strips[0]
	if got := s.At(1, 0); got != (Pixel{R: 7, G: 8, B: 9}) {
		t.Errorf("pixel (1,0) = %v, want {7 8 9}", got)
	}
	if got := s.At(1, 1); got != (Pixel{R: 10, G: 11, B: 12}) {
		t.Errorf("pixel (1,1) = %v, want {10 11 12}", got)
	}
}

func TestParseInstanceErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{
			name:  "empty input",
			input: "",
			code:  errors.ErrCodeParse,
		},
		{
			name:  "header too short",
			input: "2 2\n",
			code:  errors.ErrCodeParse,
		},
		{
			name:  "header not numeric",
			input: "two 2 1\n",
			code:  errors.ErrCodeParse,
		},
		{
			name:  "zero strips",
			input: "0 2 1\n",
			code:  errors.ErrCodeInvalidInput,
		},
		{
			name:  "zero width",
			input: "1 0 1\n",
			code:  errors.ErrCodeInvalidInput,
		},
		{
			name:  "missing strip line",
			input: "2 2 1\n0 0 0 10 10 10\n",
			code:  errors.ErrCodeParse,
		},
		{
			name:  "short pixel line",
			input: "1 2 1\n0 0 0\n",
			code:  errors.ErrCodeParse,
		},
		{
			name:  "overlong pixel line",
			input: "1 1 1\n0 0 0 0\n",
			code:  errors.ErrCodeParse,
		},
		{
			name:  "channel above range",
			input: "1 1 1\n0 0 256\n",
			code:  errors.ErrCodeParse,
		},
		{
			name:  "negative channel",
			input: "1 1 1\n0 -1 0\n",
			code:  errors.ErrCodeParse,
		},
		{
			name:  "non-numeric channel",
			input: "1 1 1\n0 x 0\n",
			code:  errors.ErrCodeParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInstance(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ParseInstance() error = nil, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v (err: %v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestWriteOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOrder(&buf, []int{2, 1, 3}); err != nil {
		t.Fatalf("WriteOrder() error = %v", err)
	}

	if got := buf.String(); got != "2 1 3\n" {
		t.Errorf("WriteOrder() wrote %q, want %q", got, "2 1 3\n")
	}
}

func TestParseWriteRoundTrip(t *testing.T) {
	input := "3 1 1\n10 20 30\n40 50 60\n70 80 90\n"

	inst, err := ParseInstance(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseInstance() error = %v", err)
	}

	m, err := BuildCostMatrix(inst.Strips)
	if err != nil {
		t.Fatalf("BuildCostMatrix() error = %v", err)
	}
	if m.N() != 3 {
		t.Errorf("N() = %d, want 3", m.N())
	}
}
