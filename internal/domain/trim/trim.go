package trim

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tikcut/internal/types"
)

var (
	// ErrNoWindow means no contiguous run of segments lands inside the
	// requested duration range. Callers report the video as too short or
	// too long to trim; the clip is never approximated mid-sentence.
	ErrNoWindow = errors.New("no segment window fits the duration range")

	// ErrInvalidSegment flags malformed transcript input: zero or negative
	// duration, out-of-order timestamps, or empty text.
	ErrInvalidSegment = errors.New("invalid transcript segment")
)

// Select picks the sub-range of the transcript to keep. The run is anchored
// at the first segment and extended one segment at a time; among end
// boundaries whose span lands inside [min, max] the latest one wins, since
// longer clips retain more narrative context. Both edges of the returned
// window coincide with segment boundaries.
func Select(segs []types.Segment, min, max time.Duration) (types.Window, error) {
	if err := Validate(segs); err != nil {
		return types.Window{}, err
	}
	if len(segs) == 0 {
		return types.Window{}, ErrNoWindow
	}
	if min <= 0 || max <= 0 || min > max {
		return types.Window{}, fmt.Errorf("duration range [%s, %s] is invalid", min, max)
	}

	start := types.SecondsToDuration(segs[0].Start)
	total := types.SecondsToDuration(segs[len(segs)-1].End) - start
	if total >= min && total <= max {
		return types.Window{Start: start, End: start + total}, nil
	}

	best := types.Window{}
	found := false
	for _, seg := range segs {
		span := types.SecondsToDuration(seg.End) - start
		if span > max {
			break
		}
		if span < min {
			continue
		}
		// Spans grow monotonically, so the last in-range boundary is the
		// closest to max without exceeding it.
		best = types.Window{Start: start, End: start + span}
		found = true
	}
	if !found {
		return types.Window{}, ErrNoWindow
	}
	return best, nil
}

// Validate rejects transcripts a window cannot be safely cut from.
func Validate(segs []types.Segment) error {
	prevEnd := 0.0
	for i, s := range segs {
		if s.Start < 0 || s.End <= s.Start {
			return fmt.Errorf("%w: segment %d has non-positive duration [%.3f, %.3f]", ErrInvalidSegment, i, s.Start, s.End)
		}
		if s.Start < prevEnd {
			return fmt.Errorf("%w: segment %d starts at %.3f before previous end %.3f", ErrInvalidSegment, i, s.Start, prevEnd)
		}
		if strings.TrimSpace(s.Text) == "" {
			return fmt.Errorf("%w: segment %d has empty text", ErrInvalidSegment, i)
		}
		prevEnd = s.End
	}
	return nil
}

// Slice returns the segments that fall inside the window. Select only
// produces windows aligned to segment edges, so containment is exact.
func Slice(segs []types.Segment, w types.Window) []types.Segment {
	var out []types.Segment
	for _, s := range segs {
		if types.SecondsToDuration(s.Start) >= w.Start && types.SecondsToDuration(s.End) <= w.End {
			out = append(out, s)
		}
	}
	return out
}
