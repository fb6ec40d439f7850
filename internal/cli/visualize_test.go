package cli

import "testing"

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"svg", "svg", false},
		{"png", "png", false},
		{"dot", "dot", false},
		{"empty", "", true},
		{"unknown", "pdf", true},
		{"uppercase rejected", "SVG", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultVizPath(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format string
		want   string
	}{
		{"txt extension replaced", "instance.txt", "svg", "instance.svg"},
		{"nested path", "data/run1.txt", "png", "data/run1.png"},
		{"no txt extension", "instance.dat", "dot", "instance.dat.dot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := defaultVizPath(tt.input, tt.format); got != tt.want {
				t.Errorf("defaultVizPath(%q, %q) = %q, want %q", tt.input, tt.format, got, tt.want)
			}
		})
	}
}
