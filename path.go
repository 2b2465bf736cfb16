package nest

import (
	"slices"
	"strconv"
	"strings"
)

// Separator splits a path string into segments.
const Separator = "."

// MaxIndex is the largest slice index Set will grow a slice to reach.
// Slices are dense, so writing at index n allocates n+1 elements.
const MaxIndex = 1<<24 - 1

// Path is a parsed dotted path. Each element is a key or a slice index,
// starting with the outermost.
type Path []string

// ParsePath splits s on Separator. Every segment must be non-empty, so the
// empty string and paths with leading, trailing or doubled separators are
// rejected with ErrInvalidPath.
func ParsePath(s string) (Path, error) {
	segments := strings.Split(s, Separator)
	for i, seg := range segments {
		if seg == "" {
			return nil, newPathError(ErrInvalidPath, s, i, seg)
		}
	}
	return Path(segments), nil
}

// MustParsePath is like ParsePath but panics on an invalid path.
// Intended for package-level path variables.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String joins the segments with Separator.
func (p Path) String() string {
	return strings.Join(p, Separator)
}

// Clone creates a copy of the path.
func (p Path) Clone() Path {
	return slices.Clone(p)
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Last returns the final segment, or "" for an empty path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// parseIndex converts a segment into a slice index. Only canonical
// non-negative decimal forms are accepted: "0", "12", not "012" or "+1".
func parseIndex(seg string) (int, bool) {
	n, err := strconv.Atoi(seg)
	if err != nil || n < 0 {
		return 0, false
	}
	if strconv.Itoa(n) != seg {
		return 0, false
	}
	return n, true
}
