package sizespec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	axisFreeMarker = "xxx"
	squareMarker   = "max"
	separator      = "x"

	DefaultMaxWidth  = 2000
	DefaultMaxHeight = 2000
)

var ErrMalformedToken = errors.New("sizespec: malformed size token")

// ParseError reports a size token that matched a grammar but carried an invalid number.
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sizespec: invalid size %q: %s", e.Token, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrMalformedToken }

// Scale is a resolved target size. A zero dimension is derived from the
// other axis and the source aspect ratio.
type Scale struct {
	Width  int
	Height int
}

// Geometry renders the scale as an ImageMagick geometry, e.g. "200x340", "200x" or "x1080".
func (s Scale) Geometry() string {
	var b strings.Builder
	if s.Width > 0 {
		b.WriteString(strconv.Itoa(s.Width))
	}
	b.WriteString("x")
	if s.Height > 0 {
		b.WriteString(strconv.Itoa(s.Height))
	}
	return b.String()
}

// Limits holds the per-axis maximums applied while parsing.
type Limits struct {
	MaxWidth  int
	MaxHeight int
}

func DefaultLimits() Limits {
	return Limits{MaxWidth: DefaultMaxWidth, MaxHeight: DefaultMaxHeight}
}

// Parse resolves token with the default limits.
func Parse(token string) (*Scale, error) {
	return DefaultLimits().Parse(token)
}

// Parse resolves token into a Scale. It returns a nil Scale and no error when
// the token matches no grammar, meaning the image keeps its size.
func (l Limits) Parse(token string) (*Scale, error) {
	switch {
	case strings.Contains(token, axisFreeMarker) && strings.HasPrefix(token, axisFreeMarker):
		h, err := parseDimension(token, strings.TrimPrefix(token, axisFreeMarker))
		if err != nil {
			return nil, err
		}
		return &Scale{Height: clamp(h, l.MaxHeight)}, nil

	case strings.Contains(token, axisFreeMarker) && strings.HasSuffix(token, axisFreeMarker):
		w, err := parseDimension(token, strings.TrimSuffix(token, axisFreeMarker))
		if err != nil {
			return nil, err
		}
		return &Scale{Width: clamp(w, l.MaxWidth)}, nil

	case strings.HasPrefix(token, squareMarker):
		// the square cap is deliberately left unclamped
		n, err := parseDimension(token, strings.TrimPrefix(token, squareMarker))
		if err != nil {
			return nil, err
		}
		return &Scale{Width: n, Height: n}, nil

	case strings.Contains(token, separator):
		parts := strings.Split(token, separator)
		if len(parts) != 2 {
			return nil, &ParseError{Token: token, Reason: "expected <width>x<height>"}
		}
		w, err := parseDimension(token, parts[0])
		if err != nil {
			return nil, err
		}
		h, err := parseDimension(token, parts[1])
		if err != nil {
			return nil, err
		}
		return &Scale{Width: clamp(w, l.MaxWidth), Height: clamp(h, l.MaxHeight)}, nil
	}

	return nil, nil
}

func parseDimension(token, s string) (int, error) {
	if s == "" {
		return 0, &ParseError{Token: token, Reason: "missing dimension"}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParseError{Token: token, Reason: fmt.Sprintf("%q is not a number", s)}
	}
	if n <= 0 {
		return 0, &ParseError{Token: token, Reason: "dimension must be positive"}
	}
	return n, nil
}

func clamp(n, max int) int {
	if max > 0 && n > max {
		return max
	}
	return n
}
