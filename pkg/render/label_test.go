package render

import (
	"testing"

	"github.com/matzehuels/treedot/pkg/errors"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Move Left Arm", "MLA"},
		{"", ""},
		{"   ", ""},
		{"  split   x  ", "sx"},
		{"one", "o"},
		{"tab\tseparated\nwords", "tsw"},
		{"Über Ärger", "ÜÄ"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Initials(tt.in); got != tt.want {
				t.Errorf("Initials(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{`a"b`, `a\"b`},
		{`a\b`, `a\\b`},
		{"MLA\n4", `MLA\n4`},
		{"crlf\r\n", `crlf\n`},
	}

	for _, tt := range tests {
		if got := escapeLabel(tt.in); got != tt.want {
			t.Errorf("escapeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{"", Plain, false},
		{"plain", Plain, false},
		{"PLAIN", Plain, false},
		{"abbreviated", Abbreviated, false},
		{"abbrev", Abbreviated, false},
		{"fancy", "", true},
	}

	for _, tt := range tests {
		got, err := ParseVariant(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseVariant(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidVariant) {
			t.Errorf("ParseVariant(%q) code = %v", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseVariant(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		variant Variant
		want    string
	}{
		{"plain int", "[0, 12, None, []]", Plain, `label="12"`},
		{"plain negative", "[0, -3, None, []]", Plain, `label="-3"`},
		{"plain float", "[0, 2.75, None, []]", Plain, `label="2"`},
		{"plain string", "[0, 'x < 3', None, []]", Plain, `label="x < 3"`},
		{"plain ignores text", "[0, 1, None, 'Move Left Arm', []]", Plain, `label="1"`},
		{"abbrev with text", "[0, 1, None, 'Move Left Arm', []]", Abbreviated, `label="MLA\n1"`},
		{"abbrev empty text", "[0, 1, None, '', []]", Abbreviated, `label="1"`},
		{"abbrev whitespace text", "[0, 1, None, ' \t ', []]", Abbreviated, `label="1"`},
		{"abbrev absent text", "[0, 1, None, []]", Abbreviated, `label="1"`},
		{"abbrev null text", "[0, 1, None, None, []]", Abbreviated, `label="1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToDOT(mustParse(t, tt.input), tt.variant)
			if err != nil {
				t.Fatalf("ToDOT() error: %v", err)
			}
			want := "    n0 [" + tt.want + "];\n"
			if got != "digraph G {\n"+want+"}\n" {
				t.Errorf("ToDOT() = %q, want node line %q", got, want)
			}
		})
	}
}
