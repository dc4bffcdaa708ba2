package trim

import (
	"errors"
	"testing"
	"time"

	"tikcut/internal/types"
)

func sec(s float64) time.Duration { return types.SecondsToDuration(s) }

func TestSelect_PrefixRunSearch(t *testing.T) {
	segs := []types.Segment{
		{Start: 0, End: 5, Text: "Hello there."},
		{Start: 5, End: 9, Text: "This is a test."},
		{Start: 9, End: 14, Text: "Goodbye now."},
	}

	w, err := Select(segs, 8*time.Second, 10*time.Second)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if w.Start != 0 || w.End != sec(9) {
		t.Fatalf("expected window [0s, 9s], got [%s, %s]", w.Start, w.End)
	}
}

func TestSelect_WholeSpanFits(t *testing.T) {
	segs := []types.Segment{
		{Start: 0, End: 10, Text: "First part here."},
		{Start: 10, End: 20, Text: "Second part here."},
	}
	w, err := Select(segs, 15*time.Second, 30*time.Second)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if w.Start != 0 || w.End != sec(20) {
		t.Fatalf("expected whole span [0s, 20s], got [%s, %s]", w.Start, w.End)
	}
}

func TestSelect_PrefersLongestInRange(t *testing.T) {
	segs := []types.Segment{
		{Start: 0, End: 16, Text: "Intro."},
		{Start: 16, End: 30, Text: "More."},
		{Start: 30, End: 55, Text: "Even more."},
		{Start: 55, End: 90, Text: "Tail."},
	}
	// Boundaries at 16s, 30s and 55s all land inside [15s, 60s]; the
	// latest wins.
	w, err := Select(segs, 15*time.Second, 60*time.Second)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if w.End != sec(55) {
		t.Fatalf("expected end at 55s, got %s", w.End)
	}
}

func TestSelect_NoWindow(t *testing.T) {
	cases := []struct {
		name string
		segs []types.Segment
		min  time.Duration
		max  time.Duration
	}{
		{
			name: "empty transcript",
			segs: nil,
			min:  15 * time.Second,
			max:  60 * time.Second,
		},
		{
			name: "first segment alone exceeds max",
			segs: []types.Segment{{Start: 0, End: 90, Text: "One very long sentence."}},
			min:  15 * time.Second,
			max:  60 * time.Second,
		},
		{
			name: "every boundary under min",
			segs: []types.Segment{
				{Start: 0, End: 3, Text: "Short."},
				{Start: 3, End: 6, Text: "Also short."},
			},
			min: 15 * time.Second,
			max: 60 * time.Second,
		},
		{
			name: "boundaries straddle the range",
			segs: []types.Segment{
				{Start: 0, End: 10, Text: "Under min."},
				{Start: 10, End: 70, Text: "Jumps past max."},
			},
			min: 15 * time.Second,
			max: 60 * time.Second,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Select(tc.segs, tc.min, tc.max)
			if !errors.Is(err, ErrNoWindow) {
				t.Fatalf("expected ErrNoWindow, got %v", err)
			}
		})
	}
}

func TestSelect_BoundariesAlignToSegments(t *testing.T) {
	segs := []types.Segment{
		{Start: 0, End: 7.5, Text: "A."},
		{Start: 7.5, End: 19.25, Text: "B."},
		{Start: 19.25, End: 44, Text: "C."},
	}
	w, err := Select(segs, 10*time.Second, 30*time.Second)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if w.Start != sec(0) || w.End != sec(19.25) {
		t.Fatalf("window [%s, %s] does not align to segment edges", w.Start, w.End)
	}
}

func TestValidate_MalformedInput(t *testing.T) {
	cases := []struct {
		name string
		segs []types.Segment
	}{
		{"zero duration", []types.Segment{{Start: 1, End: 1, Text: "x"}}},
		{"negative duration", []types.Segment{{Start: 2, End: 1, Text: "x"}}},
		{"negative start", []types.Segment{{Start: -1, End: 1, Text: "x"}}},
		{"out of order", []types.Segment{
			{Start: 0, End: 5, Text: "a"},
			{Start: 4, End: 8, Text: "b"},
		}},
		{"empty text", []types.Segment{{Start: 0, End: 5, Text: "  "}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Validate(tc.segs); !errors.Is(err, ErrInvalidSegment) {
				t.Fatalf("expected ErrInvalidSegment, got %v", err)
			}
			if _, err := Select(tc.segs, time.Second, time.Minute); !errors.Is(err, ErrInvalidSegment) {
				t.Fatalf("expected Select to reject input, got %v", err)
			}
		})
	}
}

func TestValidate_AllowsGaps(t *testing.T) {
	segs := []types.Segment{
		{Start: 0, End: 5, Text: "a"},
		{Start: 7, End: 12, Text: "b"},
	}
	if err := Validate(segs); err != nil {
		t.Fatalf("gapped transcript should be valid: %v", err)
	}
}

func TestSlice_ReturnsWindowSegments(t *testing.T) {
	segs := []types.Segment{
		{Start: 0, End: 5, Text: "a"},
		{Start: 5, End: 9, Text: "b"},
		{Start: 9, End: 14, Text: "c"},
	}
	got := Slice(segs, types.Window{Start: 0, End: sec(9)})
	if len(got) != 2 || got[0].Text != "a" || got[1].Text != "b" {
		t.Fatalf("unexpected slice: %+v", got)
	}
}
