package sizespec

import (
	"errors"
	"fmt"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		token string
		want  *Scale
	}{
		{"200xxx", &Scale{Width: 200}},
		{"xxx1080", &Scale{Height: 1080}},
		{"xxx3000", &Scale{Height: 2000}},
		{"5000xxx", &Scale{Width: 2000}},
		{"200x340", &Scale{Width: 200, Height: 340}},
		{"2500x100", &Scale{Width: 2000, Height: 100}},
		{"100x9999", &Scale{Width: 100, Height: 2000}},
		{"max900", &Scale{Width: 900, Height: 900}},
		{"max3000", &Scale{Width: 3000, Height: 3000}},
		{"original", nil},
		{"", nil},
	}

	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			got, err := Parse(tc.token)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.want == nil {
				if got != nil {
					t.Fatalf("Parse(%q) = %+v; want pass-through", tc.token, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Parse(%q) = nil; want %+v", tc.token, *tc.want)
			}
			if *got != *tc.want {
				t.Errorf("Parse(%q) = %+v; want %+v", tc.token, *got, *tc.want)
			}
		})
	}
}

func TestParse_ClampsExplicitPairs(t *testing.T) {
	for _, w := range []int{1, 50, 1999, 2000, 2001, 10000} {
		for _, h := range []int{1, 68, 2000, 4096} {
			token := fmt.Sprintf("%dx%d", w, h)
			got, err := Parse(token)
			if err != nil {
				t.Fatalf("Parse(%q): %v", token, err)
			}
			if got.Width != min(w, DefaultMaxWidth) || got.Height != min(h, DefaultMaxHeight) {
				t.Errorf("Parse(%q) = %+v", token, *got)
			}
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, token := range []string{"abcxxx", "xxxabc", "xxx", "axb", "100x", "x100", "1xxx2", "maxabc", "max", "-5x10", "0x10", "10x10x10"} {
		t.Run(token, func(t *testing.T) {
			got, err := Parse(token)
			if err == nil {
				t.Fatalf("Parse(%q) = %+v; want error", token, got)
			}
			if !errors.Is(err, ErrMalformedToken) {
				t.Errorf("error %v does not wrap ErrMalformedToken", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) || pe.Token != token {
				t.Errorf("error = %#v; want *ParseError for %q", err, token)
			}
		})
	}
}

func TestLimits_Parse(t *testing.T) {
	l := Limits{MaxWidth: 800, MaxHeight: 600}
	got, err := l.Parse("1000x1000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Width != 800 || got.Height != 600 {
		t.Errorf("got %+v; want 800x600", *got)
	}
}

func TestScale_Geometry(t *testing.T) {
	tests := map[string]Scale{
		"200x340": {Width: 200, Height: 340},
		"200x":    {Width: 200},
		"x1080":   {Height: 1080},
	}
	for want, s := range tests {
		if got := s.Geometry(); got != want {
			t.Errorf("Geometry(%+v) = %q; want %q", s, got, want)
		}
	}
}
