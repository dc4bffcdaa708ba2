package whispercpp

import (
	"testing"

	"tikcut/internal/types"
)

func TestNormalize(t *testing.T) {
	in := []types.Segment{
		{Start: 0, End: 2, Text: "  Hello there.  "},
		{Start: 2, End: 2.05, Text: "uh"},
		{Start: 2.05, End: 4, Text: "   "},
		{Start: 4, End: 7, Text: "This is a test."},
	}
	got := normalize(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(got), got)
	}
	if got[0].Text != "Hello there." || got[1].Text != "This is a test." {
		t.Fatalf("unexpected texts: %+v", got)
	}
}
