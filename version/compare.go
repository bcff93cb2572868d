package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"
	log "github.com/sirupsen/logrus"
)

const minSegments = 3

// ErrParse is returned for version strings that are not dotted non-negative integers.
var ErrParse = errors.New("malformed version")

// byte-order-mark leftovers seen in version.txt and manifests written by Windows tools
var bomArtifacts = []string{"\ufeff", "\u00ef\u00bb\u00bf"}

// Version is a dotted tuple of non-negative integers. Versions are padded
// with zeros to three components and then compared element-wise, so with an
// equal prefix the longer tuple is the greater one.
type Version struct {
	raw string
	v   *goversion.Version
}

// Parse normalizes s and validates every dot-separated segment as a base-10
// non-negative integer. Prefixes such as "v", signs and pre-release suffixes are
// rejected.
func Parse(s string) (Version, error) {
	normalized := normalize(s)
	if normalized == "" {
		return Version{}, fmt.Errorf("%w: empty version", ErrParse)
	}

	parts := strings.Split(normalized, ".")
	canonical := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		n, err := strconv.ParseUint(part, 10, 63)
		if err != nil {
			return Version{}, fmt.Errorf("%w: segment %q of %q", ErrParse, part, normalized)
		}
		canonical = append(canonical, strconv.FormatUint(n, 10))
	}

	v, err := goversion.NewVersion(strings.Join(canonical, "."))
	if err != nil {
		return Version{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return Version{raw: normalized, v: v}, nil
}

// MustParse is like Parse but panics on malformed input. Intended for constants and tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsNewer reports whether available is strictly greater than current. Any
// parse failure yields false so a malformed version never triggers an update.
func IsNewer(available, current string) bool {
	a, err := Parse(available)
	if err != nil {
		log.Errorf("error comparing versions %q vs %q: %v", available, current, err)
		return false
	}
	c, err := Parse(current)
	if err != nil {
		log.Errorf("error comparing versions %q vs %q: %v", available, current, err)
		return false
	}
	return a.GreaterThan(c)
}

// Compare returns -1, 0 or 1. The zero Version sorts before every parsed one.
func (v Version) Compare(o Version) int {
	switch {
	case v.v == nil && o.v == nil:
		return 0
	case v.v == nil:
		return -1
	case o.v == nil:
		return 1
	}
	if c := v.v.Compare(o.v); c != 0 {
		return c
	}
	// go-version pads both sides to the longer one, (1,2,3,0) vs (1,2,3) ties there
	vl, ol := len(v.Segments()), len(o.Segments())
	switch {
	case vl > ol:
		return 1
	case vl < ol:
		return -1
	}
	return 0
}

func (v Version) GreaterThan(o Version) bool {
	return v.Compare(o) > 0
}

func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

func (v Version) IsZero() bool {
	return v.v == nil
}

// Segments returns the numeric components, right-padded with zeros to three.
func (v Version) Segments() []int {
	if v.v == nil {
		return make([]int, minSegments)
	}
	segments := v.v.Segments()
	for len(segments) < minSegments {
		segments = append(segments, 0)
	}
	return segments
}

// String returns the version as it was written, minus surrounding whitespace and BOM.
func (v Version) String() string {
	return v.raw
}

func normalize(s string) string {
	s = strings.TrimSpace(s)
	for _, bom := range bomArtifacts {
		s = strings.TrimPrefix(s, bom)
	}
	return strings.TrimSpace(s)
}
