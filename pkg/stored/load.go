package stored

import (
	"io"
	"os"
	"strings"

	"github.com/matzehuels/treedot/pkg/errors"
)

// DefaultMarker is the escaping token the tree dumper wraps around
// substrings that must survive the textual round trip.
const DefaultMarker = ":::"

// Strip removes every occurrence of marker from text.
func Strip(text, marker string) string {
	if marker == "" {
		return text
	}
	return strings.ReplaceAll(text, marker, "")
}

// Read reads a stored dump from r, strips marker and parses the result.
func Read(r io.Reader, marker string) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read stored tree")
	}
	return Parse(Strip(string(data), marker))
}

// Load reads and parses the stored dump at path.
func Load(path, marker string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	v, err := Read(f, marker)
	if err != nil && errors.Is(err, errors.ErrCodeDeserialization) {
		return nil, errors.Wrap(errors.ErrCodeDeserialization, err, "parse %s", path)
	}
	return v, err
}
