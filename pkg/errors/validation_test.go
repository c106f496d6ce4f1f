package errors

import (
	"testing"
)

func TestValidateMarker(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"default", ":::", false},
		{"custom", "@@", false},

		{"empty", "", true},
		{"space", ": :", true},
		{"newline", ":::\n", true},
		{"null byte", "\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMarker(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMarker(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "graph.dot", false},
		{"nested", "out/graph.svg", false},
		{"absolute", "/tmp/graph.dot", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 5000)), true},
		{"null byte", "graph\x00.dot", true},
		{"newline", "graph\n.dot", true},
		{"directory", "out/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateOutputPath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}
